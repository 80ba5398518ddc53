package log

// Option transforms a logger configuration. Options receive and return a
// value copy, so they compose freely and never observe shared state.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}
