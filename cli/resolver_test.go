package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func loadResolver(t *testing.T, document string) kong.Resolver {
	t.Helper()

	resolver, err := resolve(strings.NewReader(document))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	return resolver
}

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	flag := &kong.Flag{Value: &kong.Value{Name: name}}

	val, err := r.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve(%s) failed: %v", name, err)
	}

	return val
}

func TestResolve_ReturnsConfigValues(t *testing.T) {
	resolver := loadResolver(t, "log_level: debug\nlog_format: text\n")

	if val := resolveFlag(t, resolver, "log_level"); val != "debug" {
		t.Errorf("expected log_level=debug, got %v", val)
	}

	if val := resolveFlag(t, resolver, "log_format"); val != "text" {
		t.Errorf("expected log_format=text, got %v", val)
	}

	if val := resolveFlag(t, resolver, "unrelated"); val != nil {
		t.Errorf("expected nil for unset flag, got %v", val)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	resolver := loadResolver(t, "log_level: debug\n")

	// The underscore spelling as stored in the config.
	if val := resolveFlag(t, resolver, "log_level"); val != "debug" {
		t.Errorf("expected log_level=debug, got %v", val)
	}

	// The hyphenated flag name resolves through the underscore variant.
	if val := resolveFlag(t, resolver, "log-level"); val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}
}

func TestResolve_NumbersAsStrings(t *testing.T) {
	resolver := loadResolver(t, "retries: 3\nratio: 0.5\n")

	if val := resolveFlag(t, resolver, "retries"); val != "3" {
		t.Errorf("expected retries=%q, got %v (%T)", "3", val, val)
	}

	if val := resolveFlag(t, resolver, "ratio"); val != "0.5" {
		t.Errorf("expected ratio=%q, got %v (%T)", "0.5", val, val)
	}
}

func TestResolve_MalformedConfigIgnored(t *testing.T) {
	resolver := loadResolver(t, "not yaml: [unclosed\n  - broken")

	if val := resolveFlag(t, resolver, "log-level"); val != nil {
		t.Errorf("expected nil from malformed config, got %v", val)
	}

	if err := resolver.Validate(nil); err != nil {
		t.Errorf("Validate should accept empty config, got %v", err)
	}
}
