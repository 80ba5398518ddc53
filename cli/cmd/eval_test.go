package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avon-lang/avon/lang"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	orig := os.Stdout
	os.Stdout = w

	runErr := fn()

	os.Stdout = orig

	w.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	return string(data), runErr
}

func writeProgram(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prog.avon")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestEvalProgram_Simple(t *testing.T) {
	result, err := evalProgram("1 + 2 * 3", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Display(); got != "7" {
		t.Errorf("expected 7, got %s", got)
	}
}

func TestEvalProgram_ArgsBindAsStrings(t *testing.T) {
	result, err := evalProgram(`\name {"Hello, {name}!"}`, []string{"world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Display(); got != "Hello, world!" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestEvalProgram_TrailingDefaults(t *testing.T) {
	src := `\greeting \name ? "world" {"{greeting}, {name}!"}`

	result, err := evalProgram(src, []string{"Hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Display(); got != "Hi, world!" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestEvalProgram_MissingArgReturnsClosure(t *testing.T) {
	result, err := evalProgram(`\x x + 1`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := result.(*lang.Closure); !ok {
		t.Errorf("expected closure for unapplied parameter, got %s", result.Type())
	}
}

func TestEvalProgram_SurplusArg(t *testing.T) {
	_, err := evalProgram("42", []string{"extra"})
	if err == nil {
		t.Fatal("expected error applying argument to a number")
	}
}

func TestEval_Run_Text(t *testing.T) {
	e := &Eval{
		Source: writeProgram(t, `[1, 2, 3] -> map (\x x * x) -> sum`),
		Output: "text",
	}

	out, err := captureStdout(t, func() error {
		return e.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.TrimSpace(out) != "14" {
		t.Errorf("expected 14, got %q", out)
	}
}

func TestEval_Run_JSON(t *testing.T) {
	e := &Eval{
		Source: writeProgram(t, `{name: "avon", tags: ["a", "b"]}`),
		Output: "json",
	}

	out, err := captureStdout(t, func() error {
		return e.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out = strings.TrimSpace(out)

	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"avon"`) {
		t.Errorf("unexpected JSON output %q", out)
	}
}

func TestEval_Run_YAML(t *testing.T) {
	e := &Eval{
		Source: writeProgram(t, `{port: 8080, host: "localhost"}`),
		Output: "yaml",
	}

	out, err := captureStdout(t, func() error {
		return e.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Dict keys keep their insertion order.
	portIdx := strings.Index(out, "port: 8080")
	hostIdx := strings.Index(out, "host: localhost")

	if portIdx < 0 || hostIdx < 0 || portIdx > hostIdx {
		t.Errorf("unexpected YAML output %q", out)
	}
}

func TestEval_Run_ParseError(t *testing.T) {
	e := &Eval{
		Source: writeProgram(t, "1 +"),
		Output: "text",
	}

	_, err := captureStdout(t, func() error {
		return e.Run(context.Background())
	})
	if err == nil {
		t.Fatal("expected parse error")
	}

	var lerr *lang.Error
	if !asLangError(err, &lerr) {
		t.Errorf("expected a language error, got %T", err)
	}
}

func asLangError(err error, target **lang.Error) bool {
	e, ok := err.(*lang.Error)
	if ok {
		*target = e
	}

	return ok
}
