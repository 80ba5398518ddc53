package lang

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

func registerParallelBuiltins(table map[string]Value) {
	register(table, "par_map", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		results := make([]Value, len(items))

		perr := parallelEach(items, func(i int, item Value) error {
			v, aerr := Apply(args[0], item)
			if aerr != nil {
				return aerr
			}

			results[i] = v

			return nil
		})
		if perr != nil {
			return nil, perr
		}

		return List{Items: results}, nil
	})

	register(table, "par_filter", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		keep := make([]bool, len(items))

		perr := parallelEach(items, func(i int, item Value) error {
			v, aerr := Apply(args[0], item)
			if aerr != nil {
				return aerr
			}

			b, ok := truth(v)
			if !ok {
				return typeErrorf(0, "predicate must return Bool, found %s", v.Type())
			}

			keep[i] = b

			return nil
		})
		if perr != nil {
			return nil, perr
		}

		out := make([]Value, 0, len(items))

		for i, item := range items {
			if keep[i] {
				out = append(out, item)
			}
		}

		return List{Items: out}, nil
	})

	// par_fold combines sequentially so the result matches fold for any
	// combining function, associative or not.
	register(table, "par_fold", 3, func(args []Value) (Value, error) {
		items, err := argList(args[2])
		if err != nil {
			return nil, err
		}

		acc := args[1]

		for _, item := range items {
			acc, err = Apply(args[0], acc, item)
			if err != nil {
				return nil, err
			}
		}

		return acc, nil
	})
}

// parallelEach runs fn on every element with a bounded worker pool.
// When several elements fail, the error from the lowest index wins so
// the result does not depend on scheduling.
func parallelEach(items []Value, fn func(int, Value) error) error {
	errs := make([]error, len(items))

	var group errgroup.Group

	group.SetLimit(runtime.NumCPU())

	for i, item := range items {
		group.Go(func() error {
			errs[i] = fn(i, item)

			return nil
		})
	}

	_ = group.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
