package lang

import (
	"fmt"
	"os"
	"sync"
)

var (
	builtinOnce  sync.Once
	builtinTable map[string]Value
)

// Builtins returns the shared root binding table. The table is built
// once and must be treated as read-only.
func Builtins() map[string]Value {
	builtinOnce.Do(func() {
		builtinTable = make(map[string]Value, 160)

		registerListBuiltins(builtinTable)
		registerSeqBuiltins(builtinTable)
		registerStringBuiltins(builtinTable)
		registerMathBuiltins(builtinTable)
		registerEncodeBuiltins(builtinTable)
		registerDictBuiltins(builtinTable)
		registerConvertBuiltins(builtinTable)
		registerFormatBuiltins(builtinTable)
		registerTimeBuiltins(builtinTable)
		registerRegexBuiltins(builtinTable)
		registerFileBuiltins(builtinTable)
		registerParallelBuiltins(builtinTable)
		registerDebugBuiltins(builtinTable)
	})

	return builtinTable
}

// NewRootEnv returns a fresh environment whose outermost frame is the
// builtin table.
func NewRootEnv() *Env { return NewEnv(Builtins()) }

// IsBuiltinName reports whether name is a registered builtin.
func IsBuiltinName(name string) bool {
	_, ok := Builtins()[name]

	return ok
}

// register installs a builtin of the given logical arity, pre-curried
// into a chain of single-argument native closures.
func register(table map[string]Value, name string, arity int, impl func(args []Value) (Value, error)) {
	table[name] = curry(name, arity, nil, impl)
}

// registerNullary installs a builtin that takes no arguments and runs
// when its name is evaluated.
func registerNullary(table map[string]Value, name string, impl func() (Value, error)) {
	table[name] = &Builtin{Name: name, Nullary: impl}
}

func curry(name string, arity int, collected []Value, impl func([]Value) (Value, error)) *Builtin {
	return &Builtin{
		Name: name,
		Fn: func(arg Value) (Value, error) {
			args := make([]Value, len(collected), arity)
			copy(args, collected)
			args = append(args, arg)

			if len(args) < arity {
				return curry(name, arity, args, impl), nil
			}

			return impl(args)
		},
	}
}

// Apply applies a function value to arguments one at a time, the same
// way source-level juxtaposition does.
func Apply(fn Value, args ...Value) (Value, error) {
	ev := &evaluator{maxDepth: DefaultMaxDepth}

	var err error

	for _, arg := range args {
		fn, err = ev.apply(fn, arg, 0)
		if err != nil {
			return nil, err
		}
	}

	return fn, nil
}

// Argument accessors shared by the builtin implementations.

func argString(v Value) (string, error) {
	s, ok := v.(String)
	if !ok {
		return "", typeErrorf(0, "expected String, found %s", v.Type())
	}

	return s.Value, nil
}

// argPath accepts a String or Path argument as a filesystem path and
// rejects traversal components.
func argPath(v Value) (string, error) {
	var p string

	switch val := v.(type) {
	case String:
		p = val.Value
	case Path:
		p = val.Value
	default:
		return "", typeErrorf(0, "expected Path or String, found %s", v.Type())
	}

	if err := validatePath(p, 0); err != nil {
		return "", err
	}

	return p, nil
}

func argNumber(v Value) (Number, error) {
	n, ok := v.(Number)
	if !ok {
		return Number{}, typeErrorf(0, "expected Number, found %s", v.Type())
	}

	return n, nil
}

func argInt(v Value) (int64, error) {
	n, err := argNumber(v)
	if err != nil {
		return 0, err
	}

	if n.IsFloat {
		return int64(n.Float), nil
	}

	return n.Int, nil
}

func argBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, typeErrorf(0, "expected Bool, found %s", v.Type())
	}

	return b.Value, nil
}

func argList(v Value) ([]Value, error) {
	l, ok := v.(List)
	if !ok {
		return nil, typeErrorf(0, "expected List, found %s", v.Type())
	}

	return l.Items, nil
}

func argDict(v Value) (Dict, error) {
	d, ok := v.(Dict)
	if !ok {
		return Dict{}, typeErrorf(0, "expected Dict, found %s", v.Type())
	}

	return d, nil
}

func argFunction(v Value) (Value, error) {
	if v.Type() != TypeFunction {
		return nil, typeErrorf(0, "expected Function, found %s", v.Type())
	}

	return v, nil
}

func registerDebugBuiltins(table map[string]Value) {
	register(table, "assert", 2, func(args []Value) (Value, error) {
		ok, err := argBool(args[0])
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, NewError(ErrAssert, 0, "assertion failed: %s", args[1].Display())
		}

		return args[1], nil
	})

	register(table, "error", 1, func(args []Value) (Value, error) {
		msg, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		return nil, valueErrorf(0, "%s", msg)
	})

	register(table, "trace", 2, func(args []Value) (Value, error) {
		label, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(os.Stderr, "[TRACE] %s: %s\n", label, args[1].Display())

		return args[1], nil
	})

	register(table, "debug", 1, func(args []Value) (Value, error) {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s: %s\n", args[0].Type(), args[0].Display())

		return args[0], nil
	})
}
