package lang

import "fmt"

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	// KindEOF marks the end of the token stream.
	KindEOF Kind = iota

	// KindInt is an integer literal.
	KindInt

	// KindFloat is a floating-point literal.
	KindFloat

	// KindString is a quoted string literal (quotes removed, escapes
	// resolved).
	KindString

	// KindIdent is an identifier or keyword.
	KindIdent

	// KindTemplate is a template literal. Level records the length of the
	// delimiting brace run and Chunks holds the body split into literal
	// text and interpolated-expression pieces.
	KindTemplate

	// KindPath is a path literal introduced by '@'. Chunks holds its
	// literal and interpolated pieces.
	KindPath

	KindPlus      // +
	KindMinus     // -
	KindStar      // *
	KindSlash     // /
	KindPercent   // %
	KindEq        // =
	KindEqEq      // ==
	KindBangEq    // !=
	KindLess      // <
	KindLessEq    // <=
	KindGreater   // >
	KindGreaterEq // >=
	KindAndAnd    // &&
	KindOrOr      // ||
	KindNot       // not
	KindArrow     // ->
	KindDot       // .
	KindDotDot    // ..
	KindComma     // ,
	KindColon     // :
	KindQuestion  // ?
	KindLParen    // (
	KindRParen    // )
	KindLBracket  // [
	KindRBracket  // ]
	KindLBrace    // {
	KindRBrace    // }
	KindLambda    // \
)

// String returns the token kind spelled the way it appears in source,
// or a descriptive name for literal classes.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "end of input"
	case KindInt:
		return "integer literal"
	case KindFloat:
		return "float literal"
	case KindString:
		return "string literal"
	case KindIdent:
		return "identifier"
	case KindTemplate:
		return "template literal"
	case KindPath:
		return "path literal"
	case KindPlus:
		return "+"
	case KindMinus:
		return "-"
	case KindStar:
		return "*"
	case KindSlash:
		return "/"
	case KindPercent:
		return "%"
	case KindEq:
		return "="
	case KindEqEq:
		return "=="
	case KindBangEq:
		return "!="
	case KindLess:
		return "<"
	case KindLessEq:
		return "<="
	case KindGreater:
		return ">"
	case KindGreaterEq:
		return ">="
	case KindAndAnd:
		return "&&"
	case KindOrOr:
		return "||"
	case KindNot:
		return "not"
	case KindArrow:
		return "->"
	case KindDot:
		return "."
	case KindDotDot:
		return ".."
	case KindComma:
		return ","
	case KindColon:
		return ":"
	case KindQuestion:
		return "?"
	case KindLParen:
		return "("
	case KindRParen:
		return ")"
	case KindLBracket:
		return "["
	case KindRBracket:
		return "]"
	case KindLBrace:
		return "{"
	case KindRBrace:
		return "}"
	case KindLambda:
		return "\\"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Chunk is one raw piece of a path literal: either literal text or the
// unparsed source of an interpolated expression.
type Chunk struct {
	Source string
	Line   int
	Expr   bool
}

// Token is a single lexeme with its source position.
type Token struct {
	Kind   Kind
	Text   string  // identifier name or string contents
	Int    int64   // KindInt
	Float  float64 // KindFloat
	Level  int     // KindTemplate: delimiting brace-run length
	Chunks []Chunk // KindTemplate and KindPath
	Line   int
}

// String renders the token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case KindIdent:
		return fmt.Sprintf("%q", t.Text)
	case KindInt:
		return fmt.Sprintf("%d", t.Int)
	case KindFloat:
		return fmt.Sprintf("%v", t.Float)
	case KindString:
		return fmt.Sprintf("%q", t.Text)
	default:
		return t.Kind.String()
	}
}
