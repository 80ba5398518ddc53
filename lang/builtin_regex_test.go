package lang

import "testing"

func TestBuiltins_Regex(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`regex_match "^ab+c$" "abbbc"`, "true"},
		{`regex_match "^ab+c$" "ac"`, "false"},
		{`regex_match "\\d+" "port 8080"`, "true"},
		{`regex_replace "\\d+" "N" "a1 b22 c333"`, "aN bN cN"},
		{`regex_replace "(\\w+)@(\\w+)" "$2.$1" "user@host"`, "host.user"},
		{`regex_replace "x" "y" "abc"`, "abc"},
		{`regex_split "\\s*,\\s*" "a, b ,c"`, "[a, b, c]"},
		{`regex_split "x" "abc"`, "[abc]"},
		{`scan "\\d+" "a1 b22 c333"`, "[1, 22, 333]"},
		{`scan "(\\w+)=(\\w+)" "a=1 b=2"`, "[[a, 1], [b, 2]]"},
		{`scan "z" "abc"`, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := runDisplay(t, tt.src); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuiltins_Regex_InvalidPattern(t *testing.T) {
	e := runErr(t, `regex_match "(" "x"`)
	if e.Kind != ErrValue {
		t.Errorf("expected ErrValue, got %v", e.Kind)
	}
}

func TestBuiltins_Regex_TypeErrors(t *testing.T) {
	for _, src := range []string{
		`regex_match 1 "x"`,
		`regex_split "a" 2`,
		`regex_replace "a" 1 "x"`,
	} {
		t.Run(src, func(t *testing.T) {
			if e := runErr(t, src); e.Kind != ErrType {
				t.Errorf("expected ErrType, got %v", e.Kind)
			}
		})
	}
}
