package cmd

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/avon-lang/avon/lang"
)

func TestFmt_Run_PrintsCanonicalForm(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"spacing", "1+2 *  3", "1 + 2 * 3\n"},
		{"redundant_parens", "((x))", "x\n"},
		{"let", "let  n=5 in n*n", "let n = 5 in n * n\n"},
		{"lambda", `\x   \y x+y`, "\\x \\y x + y\n"},
		{"pipe", "[1,2,3]->map(\\x x*x)->sum", "[1, 2, 3] -> map (\\x x * x) -> sum\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &Fmt{Source: writeProgram(t, tt.src)}

			out, err := captureStdout(t, func() error {
				return cmd.Run(context.Background())
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out != tt.want {
				t.Errorf("formatted %q, want %q", out, tt.want)
			}
		})
	}
}

func TestFmt_Run_WriteRewritesFile(t *testing.T) {
	path := writeProgram(t, "let x=1 in x+  2")

	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}

	cmd := &Fmt{Source: path, Write: true}

	out, err := captureStdout(t, func() error {
		return cmd.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "" {
		t.Errorf("write mode must not print, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "let x = 1 in x + 2\n" {
		t.Errorf("unexpected file contents %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	// The rewrite keeps the file's permissions.
	if perm := info.Mode().Perm(); perm != 0o640 {
		t.Errorf("file mode = %v, want 0640", perm)
	}
}

func TestFmt_Run_WriteRejectsStdin(t *testing.T) {
	old := os.Stdin

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	os.Stdin = r

	t.Cleanup(func() { os.Stdin = old })

	if _, err := w.WriteString("1 + 2"); err != nil {
		t.Fatal(err)
	}

	w.Close()

	cmd := &Fmt{Source: "-", Write: true}
	if err := cmd.Run(context.Background()); err == nil {
		t.Error("expected error rewriting stdin")
	}
}

func TestFmt_Run_ParseError(t *testing.T) {
	cmd := &Fmt{Source: writeProgram(t, "let = in")}

	err := cmd.Run(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}

	var lerr *lang.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *lang.Error, got %T", err)
	}
}

func TestFmt_Run_Idempotent(t *testing.T) {
	srcs := []string{
		`let cfg = {host: "db", port: 5432} in @out/{cfg.host}.conf {"port = {cfg.port}"}`,
		`\f \xs if is_empty xs then 0 else f (head xs) + sum (map f (tail xs))`,
		`1 - -2 + !true`,
	}

	for _, src := range srcs {
		path := writeProgram(t, src)

		cmd := &Fmt{Source: path, Write: true}
		if err := cmd.Run(context.Background()); err != nil {
			t.Fatalf("first pass: %v", err)
		}

		first, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if err := cmd.Run(context.Background()); err != nil {
			t.Fatalf("second pass: %v", err)
		}

		second, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if string(first) != string(second) {
			t.Errorf("formatting %q is not stable:\n%s\nvs\n%s", src, first, second)
		}
	}
}
