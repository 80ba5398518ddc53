package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
)

// contextKey keys the [kong.Context] stored in a [context.Context].
type contextKey struct{}

// WithContext attaches ktx so commands can inspect parsed flags.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// stdinSource is the path argument that selects stdin.
const stdinSource = "-"

// readSource reads a program from the file at path, or from stdin when path
// is "-". It returns the display name used in diagnostics along with the
// source text.
func readSource(path string) (name, src string, err error) {
	if path == stdinSource {
		data, err := readAhead(os.Stdin)
		if err != nil {
			return "", "", ErrReadSource.Wrap(err)
		}

		return "<stdin>", string(data), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", "", ErrReadSource.Wrap(err)
	}
	defer f.Close()

	data, err := readAhead(f)
	if err != nil {
		return "", "", ErrReadSource.Wrap(err)
	}

	return path, string(data), nil
}

// readAhead drains r through an asynchronous read-ahead buffer so disk
// or pipe latency overlaps with consumption.
func readAhead(r io.Reader) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	return io.ReadAll(ra)
}
