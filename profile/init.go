package profile

// A Profile describes one profiling run: which profiler to attach, where
// to write its output, and whether the underlying library may log.
type Profile struct {
	// Mode selects the profiler; see Modes for the supported names.
	Mode string
	// Dir is the output directory. Empty means the library default.
	Dir string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start attaches the profiler and returns a handle that stops it. An
// empty or unknown Mode, or a build without the pprof tag, yields a
// handle whose Stop is a no-op, so callers can always
//
//	defer p.Start().Stop()
//
// without checking how the binary was built.
func (p Profile) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
