package lang

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrKind classifies an evaluation failure. The kind name leads the
// rendered message, e.g. "TypeError: + expected Number, found String".
type ErrKind int

const (
	ErrLex ErrKind = iota
	ErrParse
	ErrName
	ErrType
	ErrKey
	ErrIndex
	ErrValue
	ErrDepth
	ErrAssert
	ErrIO
)

// String returns the kind's display name.
func (k ErrKind) String() string {
	switch k {
	case ErrLex:
		return "LexError"
	case ErrParse:
		return "ParseError"
	case ErrName:
		return "NameError"
	case ErrType:
		return "TypeError"
	case ErrKey:
		return "KeyError"
	case ErrIndex:
		return "IndexError"
	case ErrValue:
		return "ValueError"
	case ErrDepth:
		return "DepthError"
	case ErrAssert:
		return "AssertError"
	case ErrIO:
		return "IOError"
	default:
		return "Error"
	}
}

// Error is an evaluation failure carrying the call chain it unwound
// through and optional structured logging attributes. It implements
// both error and slog.LogValuer.
type Error struct {
	Kind  ErrKind
	Line  int
	msg   string
	chain []string // named call sites, outermost first
	attrs []slog.Attr
}

// NewError creates an Error of the given kind.
func NewError(kind ErrKind, line int, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Line: line,
		msg:  fmt.Sprintf(format, args...),
	}
}

func lexErrorf(line int, format string, args ...any) *Error {
	return NewError(ErrLex, line, format, args...)
}

func parseErrorf(line int, format string, args ...any) *Error {
	return NewError(ErrParse, line, format, args...)
}

func nameErrorf(line int, format string, args ...any) *Error {
	return NewError(ErrName, line, format, args...)
}

func typeErrorf(line int, format string, args ...any) *Error {
	return NewError(ErrType, line, format, args...)
}

func keyErrorf(line int, format string, args ...any) *Error {
	return NewError(ErrKey, line, format, args...)
}

func valueErrorf(line int, format string, args ...any) *Error {
	return NewError(ErrValue, line, format, args...)
}

// Error renders the message with its call chain, outermost call first:
//
//	map: add_one: +: expected Number, found String
func (e *Error) Error() string {
	if len(e.chain) == 0 {
		return e.msg
	}

	return strings.Join(e.chain, ": ") + ": " + e.msg
}

// Message returns the base message without the call chain.
func (e *Error) Message() string { return e.msg }

// Chain returns the named call sites the error unwound through,
// outermost first.
func (e *Error) Chain() []string { return e.chain }

// PushCall records that the error unwound through a named call site.
// Consecutive duplicate names collapse to one so that curried builtins
// report their name once.
func (e *Error) PushCall(name string) *Error {
	if name == "" {
		return e
	}

	if len(e.chain) > 0 && e.chain[0] == name {
		return e
	}

	e.chain = append([]string{name}, e.chain...)

	return e
}

// With adds attributes for structured logging. It returns a new Error
// to keep the receiver immutable.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		Kind:  e.Kind,
		Line:  e.Line,
		msg:   e.msg,
		chain: e.chain,
		attrs: newAttrs,
	}
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	attrs = append(attrs, slog.String("kind", e.Kind.String()))

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line))
	}

	attrs = append(attrs, slog.String("error", e.Error()))

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Pretty renders the error with its kind, location, and a snippet of
// the offending source line:
//
//	LexError: unterminated string
//	  --> config.av:3
//	   3 | let name = "oops
func (e *Error) Pretty(source, filename string) string {
	var buf strings.Builder

	buf.WriteString(e.Kind.String())
	buf.WriteString(": ")
	buf.WriteString(e.Error())

	if e.Line <= 0 {
		return buf.String()
	}

	buf.WriteString("\n  --> ")

	if filename != "" {
		buf.WriteString(filename)
	} else {
		buf.WriteString("<input>")
	}

	buf.WriteString(":")
	buf.WriteString(strconv.Itoa(e.Line))

	lines := strings.Split(source, "\n")
	if e.Line <= len(lines) {
		num := strconv.Itoa(e.Line)

		buf.WriteString("\n   ")
		buf.WriteString(num)
		buf.WriteString(" | ")
		buf.WriteString(lines[e.Line-1])
	}

	return buf.String()
}
