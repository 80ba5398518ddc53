package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avon-lang/avon/lang"
)

// Fmt parses a program and prints its canonical form: one space around
// operators, minimal parentheses, templates at their original brace
// level.
type Fmt struct {
	Source string `arg:"" default:"-" help:"Source file or '-' for stdin" name:"source"`

	Write bool `help:"Rewrite the source file in place" short:"w"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, src, err := readSource(f.Source)
	if err != nil {
		return err
	}

	expr, err := lang.ParseSource(src)
	if err != nil {
		return fmtError(err, name)
	}

	formatted := lang.Format(expr) + "\n"

	if f.Write {
		if f.Source == stdinSource {
			return NewError("cannot rewrite stdin, pass a file with --write")
		}

		info, err := os.Stat(f.Source)
		if err != nil {
			return err
		}

		return os.WriteFile(f.Source, []byte(formatted), info.Mode().Perm())
	}

	fmt.Print(formatted)

	return nil
}

func fmtError(err error, source string) error {
	if lerr, ok := err.(*lang.Error); ok {
		return lerr.With(
			slog.String("command", "fmt"),
			slog.String("source", source),
		)
	}

	return err
}
