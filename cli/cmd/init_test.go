package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// testGrammar is a small flag surface for exercising config generation.
type testGrammar struct {
	LogLevel string   `default:"info" name:"log-level"`
	Color    bool     `default:"true"`
	Include  []string `name:"include"`
	Note     string   ``
	Secret   string   `hidden:""`
}

func newTestContext(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	grammar := &testGrammar{}

	parser, err := kong.New(grammar,
		kong.Name("avon-test"),
		kong.Exit(func(int) {}),
		kong.Vars{ConfigIdentifier: confPath},
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestBuildConfig(t *testing.T) {
	ktx := newTestContext(t, filepath.Join(t.TempDir(), "config.yml"),
		"--log-level=debug", "--include=a", "--include=b",
	)

	doc := buildConfig(ktx)

	got := map[string]any{}

	var order []string

	for _, item := range doc {
		key := item.Key.(string)

		got[key] = item.Value

		order = append(order, key)
	}

	if got["log_level"] != "debug" {
		t.Errorf("log_level = %v, want debug", got["log_level"])
	}

	if got["color"] != true {
		t.Errorf("color = %v, want true", got["color"])
	}

	if _, ok := got["note"]; ok {
		t.Error("empty string flag must be omitted")
	}

	if _, ok := got["secret"]; ok {
		t.Error("hidden flag must be omitted")
	}

	if _, ok := got["help"]; ok {
		t.Error("help flag must be omitted")
	}

	// Declaration order is preserved so generated files read like the
	// flag listing.
	wantOrder := []string{"log_level", "color", "include"}
	for i, key := range wantOrder {
		if i >= len(order) || order[i] != key {
			t.Fatalf("key order = %v, want prefix %v", order, wantOrder)
		}
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 42, 42},
		{"string", "x", "x"},
		{"empty_string", "", nil},
		{"empty_slice", []string{}, nil},
		{"stringer_fallback", os.FileMode(0o644), "-rw-r--r--"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := configValue(tt.in)

			if got != tt.want {
				t.Errorf("configValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInit_Run_WritesConfig(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yml")

	ktx := newTestContext(t, confPath, "--log-level=warn")
	ctx := WithContext(context.Background(), ktx)

	cmd := &Init{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatalf("expected config written: %v", err)
	}

	if !strings.Contains(string(data), "log_level: warn") {
		t.Errorf("unexpected config contents:\n%s", data)
	}

	info, err := os.Stat(confPath)
	if err != nil {
		t.Fatal(err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config mode = %v, want 0600", perm)
	}
}

func TestInit_Run_ExistingWithoutForce(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(confPath, []byte("log_level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ktx := newTestContext(t, confPath)
	ctx := WithContext(context.Background(), ktx)

	cmd := &Init{}

	err := cmd.Run(ctx)
	if err == nil {
		t.Fatal("expected error for existing config")
	}

	if !errors.Is(err, ErrFileExists) {
		t.Errorf("expected ErrFileExists, got %v", err)
	}

	data, _ := os.ReadFile(confPath)
	if string(data) != "log_level: error\n" {
		t.Error("existing config must be untouched")
	}
}

func TestInit_Run_ForceOverwrites(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(confPath, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	ktx := newTestContext(t, confPath, "--log-level=debug")
	ctx := WithContext(context.Background(), ktx)

	cmd := &Init{Force: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "log_level: debug") {
		t.Errorf("expected regenerated config, got:\n%s", data)
	}
}
