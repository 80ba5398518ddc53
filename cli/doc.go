// Package cli contains the command line interface for avon.
//
// # Commands
//
//   - eval (default): evaluate a program and print the result
//   - deploy: evaluate a program and write its file templates to disk
//   - fmt: re-render a program in canonical form
//   - repl: start an interactive session
//   - init: write a default configuration file
//
// # Configuration Loader
//
// Flags may be preconfigured in a YAML file resolved by [resolve]; see the
// init subcommand. Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// ("go build -tags pprof ."):
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/avon/pprof)
//
// # Examples
//
//	# Evaluate a program with debug logging
//	avon --log-level=debug eval site.av
//
//	# Deploy generated files under a sandbox directory
//	avon deploy site.av --root ./out
//
//	# Evaluate with CPU profiling (pprof build)
//	avon --pprof-mode=cpu eval site.av
package cli
