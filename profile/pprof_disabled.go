//go:build !pprof

package profile

import "sync"

// Modes returns no profiler names without the pprof build tag.
var Modes = sync.OnceValue(func() []string { return nil })

func start(Profile) interface{ Stop() } {
	return ignore{}
}
