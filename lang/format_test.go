package lang

import "testing"

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1+2*3", "1 + 2 * 3"},
		{"(1+2)*3", "(1 + 2) * 3"},
		{"((x))", "x"},
		{"f x y", "f x y"},
		{"f (g x)", "f (g x)"},
		{"f (x + 1)", "f (x + 1)"},
		{"f x.y", "f x.y"},
		{"(f x).y", "(f x).y"},
		{"x.y.z", "x.y.z"},
		{"\\x x+1", "\\x x + 1"},
		{"\\x ? 10 x * 2", "\\x ? 10 x * 2"},
		{"\\x ? (1 + 2) x", "\\x ? (1 + 2) x"},
		{"map (\\x x) xs", "map (\\x x) xs"},
		{"let x = 1 in x + 1", "let x = 1 in x + 1"},
		{"if a then b else c", "if a then b else c"},
		{"not a && b", "not a && b"},
		{"not (a && b)", "not (a && b)"},
		{"-x * y", "-x * y"},
		{"a < b == c", "a < b == c"},
		{"a || b && c", "a || b && c"},
		{"(a || b) && c", "(a || b) && c"},
		{"x -> f -> g", "x -> f -> g"},
		{"x -> \\y y + 1", "x -> \\y y + 1"},
		{"x -> (\\y y + 1) -> g", "x -> (\\y y + 1) -> g"},
		{"[]", "[]"},
		{"[1,2,3]", "[1, 2, 3]"},
		{"[1..5]", "[1..5]"},
		{"[0, 2..10]", "[0, 2..10]"},
		{"[a+1, f b]", "[a + 1, f b]"},
		{"{a:1, b:\"two\"}", `{a: 1, b: "two"}`},
		{"d.key + 1", "d.key + 1"},
		{`"a\nb\t\"c\""`, `"a\nb\t\"c\""`},
		{"true && false || none == none", "true && false || none == none"},
		{"1.5 + 2.0", "1.5 + 2"},
		{`{"Hello {name}!"}`, `{"Hello {name}!"}`},
		{`{"Sum: {1 + 2}"}`, `{"Sum: {1 + 2}"}`},
		{`{{"keep {lit} expand {{x}}"}}`, `{{"keep {lit} expand {{x}}"}}`},
		{"@etc/{name}.conf", "@etc/{name}.conf"},
		{`@out.txt {"body"}`, `@out.txt {"body"}`},
		{"let f = \\x ? 10 x * 2 in f none", "let f = \\x ? 10 x * 2 in f none"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := Format(mustParse(t, tt.src))
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

// Formatting is a fixed point: rendering, reparsing, and rendering
// again reproduces the first rendering exactly.
func TestFormat_Stable(t *testing.T) {
	sources := []string{
		"let greet = \\name {\"Hello, {name}!\"} in greet \"world\"",
		"[1..10] -> map (\\x x * x) -> fold (\\a \\b a + b) 0",
		"if n % 2 == 0 then \"even\" else \"odd\"",
		`@conf/{env}.yaml {"level: {level}"}`,
		"{user: {name: \"ada\", id: 1}, tags: [\"a\", \"b\"]}",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first := Format(mustParse(t, src))
			second := Format(mustParse(t, first))

			if first != second {
				t.Errorf("unstable formatting:\n first: %q\nsecond: %q", first, second)
			}
		})
	}
}
