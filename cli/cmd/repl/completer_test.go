package repl

import (
	"slices"
	"testing"

	"github.com/avon-lang/avon/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double (fo", 10, "fo", 8, 10},
		{"after_comma", "[a, fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"after_pipe_arrow", "xs -> ma", 8, "ma", 6, 8},
		{"after_lambda", "\\x up", 5, "up", 3, 5},
		// Underscores are part of identifiers, not word boundaries.
		{"underscored", "par_map", 7, "par_map", 0, 7},
		{"underscored_partial", "d.has_k", 7, "has_k", 2, 7},
		// After dot is an empty word (for triggering child completions).
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"in_let", "let x = a.b.", 12, "a.b"},
		{"underscored_chain", "conf.http_server.", 17, "conf.http_server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	http := lang.NewDict().
		Set("host", lang.String{Value: "localhost"}).
		Set("port", lang.IntOf(8080))

	server := lang.NewDict().Set("http", http)

	env := lang.NewRootEnv().Extend("server", server)

	t.Run("top_level_includes_bindings_and_builtins", func(t *testing.T) {
		names := childCandidates(env, "")

		if !slices.Contains(names, "server") {
			t.Error("expected session binding 'server' in candidates")
		}

		if !slices.Contains(names, "map") {
			t.Error("expected builtin 'map' in candidates")
		}
	})

	t.Run("dict_keys", func(t *testing.T) {
		names := childCandidates(env, "server")

		if len(names) != 1 || names[0] != "http" {
			t.Errorf("expected [http], got %v", names)
		}
	})

	t.Run("nested_dict_keys", func(t *testing.T) {
		names := childCandidates(env, "server.http")

		want := []string{"host", "port"}
		if !slices.Equal(names, want) {
			t.Errorf("expected %v, got %v", want, names)
		}
	})

	t.Run("non_dict_parent", func(t *testing.T) {
		if names := childCandidates(env, "server.http.host"); names != nil {
			t.Errorf("expected nil for scalar parent, got %v", names)
		}
	})

	t.Run("unknown_parent", func(t *testing.T) {
		if names := childCandidates(env, "nonesuch"); names != nil {
			t.Errorf("expected nil for unknown parent, got %v", names)
		}
	})
}
