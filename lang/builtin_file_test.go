package lang

import (
	"os"
	"path/filepath"
	"testing"
)

// applyBuiltin resolves and applies a builtin directly, bypassing the
// lexer's relative-path restriction so tests can use temp directories.
func applyBuiltin(t *testing.T, name string, args ...Value) Value {
	t.Helper()

	fn, ok := Builtins()[name]
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}

	v, err := Apply(fn, args...)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}

	return v
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func TestBuiltin_Readfile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "note.txt", "hello\n")

	v := applyBuiltin(t, "readfile", String{Value: path})
	if v.Display() != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", v.Display())
	}
}

func TestBuiltin_ReadfileMissing(t *testing.T) {
	fn := Builtins()["readfile"]

	_, err := Apply(fn, String{Value: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	e, ok := err.(*Error)
	if !ok || e.Kind != ErrIO {
		t.Errorf("expected IOError, got %v", err)
	}
}

func TestBuiltin_Readlines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lines.txt", "a\nb\nc\n")

	v := applyBuiltin(t, "readlines", String{Value: path})
	if v.Display() != "[a, b, c]" {
		t.Errorf("expected [a, b, c], got %s", v.Display())
	}
}

func TestBuiltin_Walkdir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "")

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, sub, "b.txt", "")

	v := applyBuiltin(t, "walkdir", String{Value: dir})

	list, ok := v.(List)
	if !ok {
		t.Fatalf("expected List, got %s", v.Type())
	}

	// a.txt, sub, and sub/b.txt.
	if len(list.Items) != 3 {
		t.Errorf("expected 3 entries, got %d: %s", len(list.Items), v.Display())
	}
}

func TestBuiltin_Exists(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x", "")

	if v := applyBuiltin(t, "exists", String{Value: path}); v.Display() != "true" {
		t.Errorf("expected true for existing file")
	}

	if v := applyBuiltin(t, "exists", String{Value: filepath.Join(dir, "y")}); v.Display() != "false" {
		t.Errorf("expected false for missing file")
	}
}

func TestBuiltin_BasenameDirname(t *testing.T) {
	if got := runDisplay(t, `basename "a/b/c.txt"`); got != "c.txt" {
		t.Errorf("basename: expected c.txt, got %s", got)
	}

	if got := runDisplay(t, `dirname "a/b/c.txt"`); got != "a/b" {
		t.Errorf("dirname: expected a/b, got %s", got)
	}

	if got := runDisplay(t, `dirname "c.txt"`); got != "" {
		t.Errorf("dirname of bare name: expected empty, got %q", got)
	}

	if got := runDisplay(t, "basename @a/b.txt"); got != "b.txt" {
		t.Errorf("basename of path value: expected b.txt, got %s", got)
	}
}

func TestBuiltin_PathArgRejectsTraversal(t *testing.T) {
	fn := Builtins()["readfile"]

	_, err := Apply(fn, String{Value: "../secret"})
	if err == nil {
		t.Fatal("expected error for traversal path")
	}

	e, ok := err.(*Error)
	if !ok || e.Kind != ErrValue {
		t.Errorf("expected ValueError, got %v", err)
	}
}

func TestBuiltin_Import(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.av", "let double = \\x x * 2 in double 21")

	v := applyBuiltin(t, "import", String{Value: path})
	if v.Display() != "42" {
		t.Errorf("expected 42, got %s", v.Display())
	}
}

func TestBuiltin_ImportIsolated(t *testing.T) {
	// Imported files evaluate in a fresh environment; they do not see
	// the importer's bindings.
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.av", "outer")

	fn := Builtins()["import"]

	_, err := Apply(fn, String{Value: path})
	if err == nil {
		t.Fatal("expected NameError from isolated import")
	}

	e, ok := err.(*Error)
	if !ok || e.Kind != ErrName {
		t.Errorf("expected NameError, got %v", err)
	}
}

func TestBuiltin_FillTemplate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "greet.tmpl", "Hello {name}, you are {age}!")

	subs := NewDict().Set("name", String{Value: "World"}).Set("age", IntOf(9))

	v := applyBuiltin(t, "fill_template", String{Value: path}, subs)
	if v.Display() != "Hello World, you are 9!" {
		t.Errorf("unexpected result: %q", v.Display())
	}
}

func TestBuiltin_FillTemplatePairs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "greet.tmpl", "Hi {name}")

	pairs := List{Items: []Value{
		List{Items: []Value{String{Value: "name"}, String{Value: "Ada"}}},
	}}

	v := applyBuiltin(t, "fill_template", String{Value: path}, pairs)
	if v.Display() != "Hi Ada" {
		t.Errorf("unexpected result: %q", v.Display())
	}
}

func TestBuiltin_JSONParse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.json", `{"name": "app", "port": 8080, "tags": ["a", "b"], "debug": true, "extra": null}`)

	v := applyBuiltin(t, "json_parse", String{Value: path})

	d, ok := v.(Dict)
	if !ok {
		t.Fatalf("expected Dict, got %s", v.Type())
	}

	want := `{name: "app", port: 8080, tags: [a, b], debug: true, extra: None}`
	if d.Display() != want {
		t.Errorf("expected %s, got %s", want, d.Display())
	}
}

func TestBuiltin_YAMLParse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "conf.yml", "name: app\nport: 8080\nnested:\n  debug: true\n")

	v := applyBuiltin(t, "yaml_parse", String{Value: path})

	d, ok := v.(Dict)
	if !ok {
		t.Fatalf("expected Dict, got %s", v.Type())
	}

	name, _ := d.Get("name")
	if name.Display() != "app" {
		t.Errorf("expected name=app, got %v", name)
	}

	keys := d.Keys()
	if len(keys) != 3 || keys[0] != "name" || keys[1] != "port" {
		t.Errorf("expected document order preserved, got %v", keys)
	}
}

func TestBuiltin_ParseMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", "{not json")

	fn := Builtins()["json_parse"]

	_, err := Apply(fn, String{Value: path})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBuiltin_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "")
	writeFile(t, dir, "b.txt", "")
	writeFile(t, dir, "c.md", "")

	v := applyBuiltin(t, "glob", String{Value: filepath.Join(dir, "*.txt")})

	l, ok := v.(List)
	if !ok {
		t.Fatalf("expected List, got %s", v.Type())
	}

	if len(l.Items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(l.Items))
	}

	if base := filepath.Base(l.Items[0].Display()); base != "a.txt" {
		t.Errorf("expected a.txt first, got %s", base)
	}
}

func TestBuiltin_GlobBadPattern(t *testing.T) {
	fn := Builtins()["glob"]

	_, err := Apply(fn, String{Value: "["})
	if err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}

func TestBuiltin_Abspath(t *testing.T) {
	v := applyBuiltin(t, "abspath", String{Value: "sub/file.txt"})

	got := v.Display()
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %s", got)
	}

	if filepath.Base(got) != "file.txt" {
		t.Errorf("expected file.txt leaf, got %s", got)
	}
}

func TestBuiltin_Relpath(t *testing.T) {
	v := applyBuiltin(t, "relpath", String{Value: "a/b"}, String{Value: "a/b/c/d.txt"})

	if got := v.Display(); got != filepath.Join("c", "d.txt") {
		t.Errorf("expected c/d.txt, got %s", got)
	}
}

func TestBuiltin_CSVParse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rows.csv", "name,port\napp,8080\ndb,5432\n")

	v := applyBuiltin(t, "csv_parse", String{Value: path})

	l, ok := v.(List)
	if !ok {
		t.Fatalf("expected List, got %s", v.Type())
	}

	if len(l.Items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(l.Items))
	}

	want := `{name: "app", port: "8080"}`
	if got := l.Items[0].Display(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuiltin_CSVParseString(t *testing.T) {
	if got := runDisplay(t, `csv_parse_string "k,v\na,1"`); got != `[{k: "a", v: "1"}]` {
		t.Errorf("unexpected result %s", got)
	}

	if got := runDisplay(t, `csv_parse_string ""`); got != "[]" {
		t.Errorf("expected empty list, got %s", got)
	}
}

func TestBuiltin_JSONParseString(t *testing.T) {
	got := runDisplay(t, `json_parse_string "{\"a\": [1, 2]}"`)
	if got != "{a: [1, 2]}" {
		t.Errorf("unexpected result %s", got)
	}
}

func TestBuiltin_YAMLParseString(t *testing.T) {
	got := runDisplay(t, `yaml_parse_string "a: 1\nb: x"`)
	if got != `{a: 1, b: "x"}` {
		t.Errorf("unexpected result %s", got)
	}
}

func TestBuiltin_EnvVar(t *testing.T) {
	t.Setenv("AVON_TEST_VAR", "hello")

	if got := runDisplay(t, `env_var "AVON_TEST_VAR"`); got != "hello" {
		t.Errorf("expected hello, got %s", got)
	}

	e := runErr(t, `env_var "AVON_TEST_UNSET_VAR"`)
	if e.Kind != ErrKey {
		t.Errorf("expected KeyError, got %s", e.Kind)
	}

	if got := runDisplay(t, `env_var_or "AVON_TEST_UNSET_VAR" "fallback"`); got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}
}

func TestBuiltin_OS(t *testing.T) {
	v := mustRun(t, "os")
	if v.Type() != TypeString || v.Display() == "" {
		t.Errorf("expected a non-empty platform string, got %v", v)
	}
}

func TestFromGo_RoundsTrip(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "None"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint64", uint64(9), "9"},
		{"float", 2.5, "2.5"},
		{"string", "hi", "hi"},
		{"slice", []any{int64(1), "a"}, "[1, a]"},
		{"map", map[string]any{"k": int64(1)}, "{k: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromGo(tt.in)
			if err != nil {
				t.Fatalf("convert error: %v", err)
			}

			if v.Display() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, v.Display())
			}
		})
	}
}
