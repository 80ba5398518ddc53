package repl

import (
	"strings"
	"testing"

	"github.com/avon-lang/avon/lang"
)

func TestDetectApplication(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{
			name:   "bare identifier",
			input:  "greeting",
			cursor: 8,
		},
		{
			name:       "after function name",
			input:      "map ",
			cursor:     4,
			wantName:   "map",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "typing first argument",
			input:      "map dou",
			cursor:     7,
			wantName:   "map",
			wantIndex:  0,
			wantInCall: true,
		},
		{
			name:       "second argument",
			input:      "map double ",
			cursor:     11,
			wantName:   "map",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "parenthesized argument counts once",
			input:      "fold (\\a \\b a + b) 0 ",
			cursor:     21,
			wantName:   "fold",
			wantIndex:  2,
			wantInCall: true,
		},
		{
			name:       "operator starts a new chain",
			input:      "1 + take 2 ",
			cursor:     11,
			wantName:   "take",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "inside parens uses inner chain",
			input:      "join \", \" (map upper ",
			cursor:     21,
			wantName:   "map",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:       "string argument is one word",
			input:      "split \"a b c\" ",
			cursor:     14,
			wantName:   "split",
			wantIndex:  1,
			wantInCall: true,
		},
		{
			name:   "pipe stage resets chain",
			input:  "xs -> ",
			cursor: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectApplication(tt.input, tt.cursor)

			if got.inCall != tt.wantInCall {
				t.Fatalf("detectApplication(%q, %d).inCall = %v, want %v",
					tt.input, tt.cursor, got.inCall, tt.wantInCall)
			}

			if !tt.wantInCall {
				return
			}

			if got.name != tt.wantName || got.argIndex != tt.wantIndex {
				t.Errorf("detectApplication(%q, %d) = (%q, %d), want (%q, %d)",
					tt.input, tt.cursor, got.name, got.argIndex,
					tt.wantName, tt.wantIndex)
			}
		})
	}
}

func TestGetSignature_Builtin(t *testing.T) {
	env := lang.NewRootEnv()

	sig, params := getSignature(env, "fold")
	if sig != "fold f init list" {
		t.Errorf("expected 'fold f init list', got %q", sig)
	}

	if len(params) != 3 {
		t.Errorf("expected 3 params, got %v", params)
	}
}

func TestGetSignature_Closure(t *testing.T) {
	v, err := lang.Run("\\greeting \\name ? \"world\" greeting + \" \" + name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closure, ok := v.(*lang.Closure)
	if !ok {
		t.Fatalf("expected closure, got %T", v)
	}

	env := lang.NewRootEnv().Extend("greet", closure)

	sig, params := getSignature(env, "greet")
	if sig != "greet greeting name?" {
		t.Errorf("expected 'greet greeting name?', got %q", sig)
	}

	if len(params) != 2 || params[1] != "name?" {
		t.Errorf("unexpected params: %v", params)
	}
}

func TestGetSignature_Unknown(t *testing.T) {
	env := lang.NewRootEnv()

	if sig, _ := getSignature(env, "nonesuch"); sig != "" {
		t.Errorf("expected empty signature, got %q", sig)
	}

	// Non-function bindings have no signature.
	env = env.Extend("answer", lang.IntOf(42))

	if sig, _ := getSignature(env, "answer"); sig != "" {
		t.Errorf("expected empty signature for non-function, got %q", sig)
	}
}

func TestBuiltinParams_NamesAreRegistered(t *testing.T) {
	for name := range builtinParams {
		if !lang.IsBuiltinName(name) {
			t.Errorf("signature table names unknown builtin %q", name)
		}
	}
}

func TestRenderSignatureHint_HighlightsCurrentParam(t *testing.T) {
	sig, params := getSignature(lang.NewRootEnv(), "map")

	out := renderSignatureHint(sig, params, 1)
	if out == "" {
		t.Fatal("expected rendered hint")
	}

	// Styled output still contains the raw parameter text.
	for _, p := range params {
		if !strings.Contains(out, p) {
			t.Errorf("rendered hint missing parameter %q", p)
		}
	}
}
