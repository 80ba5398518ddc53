// Package log is the structured logging layer for avon, built on
// [log/slog].
//
// A package-level logger writes to stderr and is shared by every
// command; [Config] reconfigures it in place, which the CLI does while
// flags are still being parsed so that even early diagnostics honor
// --log-level and --log-format. Independent loggers come from [Make].
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's Debug and is
// used for token streams, environment frames, and other output too
// noisy for ordinary debugging.
//
//	log.TraceContext(ctx, "token", slog.String("kind", tok.Kind.String()))
//
// # Configuration
//
// Loggers are configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("ms"),
//	)
//
// A [Logger] is immutable; [Logger.Wrap] and [Logger.With] return new
// values, so loggers may be shared across goroutines freely.
//
// # Output
//
// Output is text or JSON, plain or pretty. Pretty output colors keys
// and values with ANSI escapes and is meant for terminals; plain output
// delegates to the standard slog handlers and is meant for pipelines.
package log
