package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/avon-lang/avon/cli/cmd"
	"github.com/avon-lang/avon/pkg"
)

// CLI is the top-level command-line interface for avon.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
	Fmt    cmd.Fmt    `cmd:"" help:"Format a program in canonical form"`
	Deploy cmd.Deploy `cmd:"" help:"Evaluate a program and write its file templates to disk"`
	Repl   cmd.Repl   `cmd:"" help:"Start an interactive session"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a program and print the result"`
}

// Run parses args, dispatches the selected command, and returns its
// error. The exit function receives the exit code whenever kong decides
// to terminate early (help, usage errors).
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	// Logger flags must take effect before parsing begins so that any
	// message emitted during parsing already honors them.
	cli.Log.scan(args)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Commands retrieve the kong context to inspect parsed flags.
	ctx = cmd.WithContext(ctx, ktx)

	// Apply the flags TextUnmarshaler never sees (TimeLayout, Caller)
	// now that parsing is complete.
	cli.Log.start(ctx)

	// A no-op unless built with tag pprof and --pprof-mode is set.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
