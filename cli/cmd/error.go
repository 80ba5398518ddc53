package cmd

import (
	"log/slog"
	"slices"
)

// Error is a command failure that carries structured logging attributes
// alongside its message and cause. Sentinels below are the bases: a call
// site derives a concrete error with Wrap and With, and errors.Is still
// matches the sentinel through Unwrap.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	}

	return ""
}

func (e *Error) Unwrap() error { return e.err }

// Is matches any Error derived from the same base, so errors.Is works
// against the sentinels regardless of Wrap and With.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap derives a new Error with err as its cause. The receiver is left
// untouched so sentinels stay clean.
func (e *Error) Wrap(err error) *Error {
	derived := *e
	derived.err = err

	return &derived
}

// With derives a new Error carrying additional logging attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	derived := *e
	derived.attrs = slices.Concat(e.attrs, attrs)

	return &derived
}

var (
	ErrJSONMarshal = NewError("marshal JSON")
	ErrYAMLMarshal = NewError("marshal YAML")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrReadSource  = NewError("read source")
	ErrDeploy      = NewError("deploy aborted, no files were written")
	ErrEscapesRoot = NewError("path would escape the --root directory")
)
