package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avon-lang/avon/lang"
)

func TestResolveTarget_WithRoot(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "etc/app.conf", filepath.Join(root, "etc/app.conf"), false},
		{"absolute_rebased", "/etc/app.conf", filepath.Join(root, "etc/app.conf"), false},
		{"traversal", "../escape.txt", "", true},
		{"embedded_traversal", "etc/../../escape.txt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTarget(root, tt.path)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.path)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("resolveTarget(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveTarget_WithoutRoot(t *testing.T) {
	if _, err := resolveTarget("", "/etc/passwd"); err == nil {
		t.Error("expected absolute path to be rejected without a root")
	}

	if _, err := resolveTarget("", "../up.txt"); err == nil {
		t.Error("expected traversal to be rejected")
	}

	got, err := resolveTarget("", "out/app.conf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != filepath.Clean("out/app.conf") {
		t.Errorf("unexpected target %q", got)
	}
}

func TestCollectFileTemplates(t *testing.T) {
	t.Run("single_template", func(t *testing.T) {
		v, err := lang.Run(`@app.conf {"key = value"}`)
		if err != nil {
			t.Fatal(err)
		}

		files, err := collectFileTemplates(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(files) != 1 || files[0].Path != "app.conf" {
			t.Errorf("unexpected files %v", files)
		}
	})

	t.Run("nested_lists_with_plain_data_skipped", func(t *testing.T) {
		v, err := lang.Run(`[@a.txt {"A"}, [1, @b.txt {"B"}], "note"]`)
		if err != nil {
			t.Fatal(err)
		}

		files, err := collectFileTemplates(v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(files) != 2 || files[0].Path != "a.txt" || files[1].Path != "b.txt" {
			t.Errorf("unexpected files %v", files)
		}
	})

	t.Run("bare_path_is_an_error", func(t *testing.T) {
		v, err := lang.Run(`[@orphan.txt]`)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := collectFileTemplates(v); err == nil {
			t.Error("expected error for bare path in list")
		}
	})

	t.Run("scalar_is_an_error", func(t *testing.T) {
		v, err := lang.Run("42")
		if err != nil {
			t.Fatal(err)
		}

		if _, err := collectFileTemplates(v); err == nil {
			t.Error("expected error for non-deployable value")
		}
	})
}

func TestDeploy_Run_WritesFiles(t *testing.T) {
	root := t.TempDir()

	d := &Deploy{
		Source: writeProgram(t, `[@etc/app.conf {"port = 8080"}, @README {"avon"}]`),
		Root:   root,
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "etc/app.conf"))
	if err != nil {
		t.Fatalf("expected file written: %v", err)
	}

	if string(data) != "port = 8080" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := os.Stat(filepath.Join(root, "README")); err != nil {
		t.Errorf("expected README written: %v", err)
	}
}

func TestDeploy_Run_ExistingFileWithoutForce(t *testing.T) {
	root := t.TempDir()

	target := filepath.Join(root, "a.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Deploy{
		Source: writeProgram(t, `[@b.txt {"new b"}, @a.txt {"new a"}]`),
		Root:   root,
	}

	err := d.Run(context.Background())
	if err == nil {
		t.Fatal("expected conflict error")
	}

	if !errors.Is(err, ErrFileExists) {
		t.Errorf("expected ErrFileExists, got %v", err)
	}

	// All-or-nothing: the non-conflicting file must not be written either.
	if _, err := os.Stat(filepath.Join(root, "b.txt")); !os.IsNotExist(err) {
		t.Error("expected no files written after a planning conflict")
	}

	if data, _ := os.ReadFile(target); string(data) != "old" {
		t.Error("existing file must be untouched")
	}
}

func TestDeploy_Run_ForceOverwrites(t *testing.T) {
	root := t.TempDir()

	target := filepath.Join(root, "a.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Deploy{
		Source: writeProgram(t, `@a.txt {"new"}`),
		Root:   root,
		Force:  true,
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data, _ := os.ReadFile(target); string(data) != "new" {
		t.Errorf("expected overwrite, got %q", data)
	}
}

func TestDeploy_Run_BackupKeepsOriginal(t *testing.T) {
	root := t.TempDir()

	target := filepath.Join(root, "a.txt")
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Deploy{
		Source: writeProgram(t, `@a.txt {"new"}`),
		Root:   root,
		Backup: true,
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data, _ := os.ReadFile(target); string(data) != "new" {
		t.Errorf("expected new content, got %q", data)
	}

	backup, err := os.ReadFile(target + ".bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}

	if string(backup) != "old" {
		t.Errorf("expected backup to hold old content, got %q", backup)
	}
}

func TestDeploy_Run_DryRun(t *testing.T) {
	root := t.TempDir()

	d := &Deploy{
		Source: writeProgram(t, `@a.txt {"content"}`),
		Root:   root,
		DryRun: true,
	}

	out, err := captureStdout(t, func() error {
		return d.Run(context.Background())
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "would write") {
		t.Errorf("expected dry-run plan, got %q", out)
	}

	if _, err := os.Stat(filepath.Join(root, "a.txt")); !os.IsNotExist(err) {
		t.Error("dry run must not write files")
	}
}

func TestDeploy_Run_TemplateContentInterpolates(t *testing.T) {
	root := t.TempDir()

	src := `let app = {name: "avon", port: 8080} in
@conf/{app.name}.conf {"
    name = {app.name}
    port = {app.port}
"}`

	d := &Deploy{
		Source: writeProgram(t, src),
		Root:   root,
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "conf/avon.conf"))
	if err != nil {
		t.Fatalf("expected file written: %v", err)
	}

	want := "name = avon\nport = 8080"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, data)
	}
}
