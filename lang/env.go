package lang

// Env is an immutable chain of binding frames. The root frame holds the
// builtin table; every let and every function application pushes exactly
// one new frame. Extending an environment never mutates it, so closures
// can share frames freely.
type Env struct {
	name   string
	value  Value
	table  map[string]Value
	parent *Env
}

// NewEnv returns a root environment over the given table. The table is
// not copied; callers must not mutate it afterward.
func NewEnv(table map[string]Value) *Env {
	return &Env{table: table}
}

// Extend returns a child environment with one additional binding.
func (e *Env) Extend(name string, value Value) *Env {
	return &Env{name: name, value: value, parent: e}
}

// Lookup resolves a name, innermost frame first.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if env.table != nil {
			if v, ok := env.table[name]; ok {
				return v, true
			}

			continue
		}

		if env.name == name {
			return env.value, true
		}
	}

	return nil, false
}

// Bound reports whether name is already bound anywhere in the chain.
// Binding forms use it to reject shadowing.
func (e *Env) Bound(name string) bool {
	_, ok := e.Lookup(name)

	return ok
}

// Names returns every bound name in the chain, innermost first. The
// REPL uses it for completion.
func (e *Env) Names() []string {
	var (
		out  []string
		seen = map[string]bool{}
	)

	for env := e; env != nil; env = env.parent {
		if env.table != nil {
			for k := range env.table {
				if !seen[k] {
					seen[k] = true

					out = append(out, k)
				}
			}

			continue
		}

		if !seen[env.name] {
			seen[env.name] = true

			out = append(out, env.name)
		}
	}

	return out
}
