// Package profile provides optional runtime profiling for the avon
// binary, backed by [github.com/pkg/profile].
//
// Profiling support is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag every operation is a no-op with zero runtime cost, so
// call sites never need their own build constraints.
//
// # Modes
//
// With the tag, the following profiler modes are available:
//
//   - allocs:    memory allocations (all)
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time
//   - cpu:       CPU time
//   - goroutine: goroutine snapshots
//   - heap:      live heap allocations
//   - mem:       general memory profile
//   - mutex:     mutex contention
//   - thread:    OS thread creation
//   - trace:     execution trace
//
// [Modes] returns the list supported by the current build.
//
// # Usage
//
// A run is described by a [Profile] value and bracketed with Start/Stop:
//
//	defer profile.Profile{Mode: "cpu", Dir: "./profiles"}.Start().Stop()
//
// Profile files are named after the mode (cpu.pprof, heap.pprof, ...).
// The avon CLI wires this to the --pprof-mode and --pprof-dir flags; the
// default output directory is the pprof subdirectory of avon's cache
// directory (for example $XDG_CACHE_HOME/avon/pprof on Linux).
//
// # Analysis
//
// Inspect a profile with the standard tooling:
//
//	go tool pprof ./avon ./profiles/cpu.pprof
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Building with the tag also imports [net/http/pprof], registering the
// /debug/pprof/ handlers for any HTTP server the process might start.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
