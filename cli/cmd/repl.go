package cmd

import (
	"context"

	"github.com/avon-lang/avon/cli/cmd/repl"
)

// Repl starts an interactive session with a persistent environment.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache path undefined")
	}

	return repl.Run(ctx, cacheDir)
}
