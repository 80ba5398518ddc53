package lang

import "sort"

func registerListBuiltins(table map[string]Value) {
	register(table, "concat", 2, func(args []Value) (Value, error) {
		return addValues(args[0], args[1], 0)
	})

	register(table, "map", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		out := make([]Value, len(items))

		for i, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return List{Items: out}, nil
	})

	register(table, "filter", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		var out []Value

		for _, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			keep, ok := truth(v)
			if !ok {
				return nil, typeErrorf(0, "predicate must return Bool, found %s", v.Type())
			}

			if keep {
				out = append(out, item)
			}
		}

		return List{Items: out}, nil
	})

	register(table, "fold", 3, func(args []Value) (Value, error) {
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

	register(table, "flatmap", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		var out []Value

		for _, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			if sub, ok := v.(List); ok {
				out = append(out, sub.Items...)
			} else {
				out = append(out, v)
			}
		}

		return List{Items: out}, nil
	})

	register(table, "flatten", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		var out []Value

		for _, item := range items {
			if sub, ok := item.(List); ok {
				out = append(out, sub.Items...)
			} else {
				out = append(out, item)
			}
		}

		return List{Items: out}, nil
	})

	// head returns None on an empty list; pair it with is_none.
	register(table, "head", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return None{}, nil
		}

		return items[0], nil
	})

	register(table, "tail", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return List{}, nil
		}

		out := make([]Value, len(items)-1)
		copy(out, items[1:])

		return List{Items: out}, nil
	})

	register(table, "take", 2, func(args []Value) (Value, error) {
		n, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		n = min(max(n, 0), int64(len(items)))

		return List{Items: items[:n]}, nil
	})

	register(table, "drop", 2, func(args []Value) (Value, error) {
		n, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		n = min(max(n, 0), int64(len(items)))

		return List{Items: items[n:]}, nil
	})

	register(table, "slice", 3, func(args []Value) (Value, error) {
		from, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		to, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		items, err := argList(args[2])
		if err != nil {
			return nil, err
		}

		from = min(max(from, 0), int64(len(items)))
		to = min(max(to, from), int64(len(items)))

		return List{Items: items[from:to]}, nil
	})

	register(table, "zip", 2, func(args []Value) (Value, error) {
		lhs, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		rhs, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		n := min(len(lhs), len(rhs))
		out := make([]Value, n)

		for i := range n {
			out[i] = List{Items: []Value{lhs[i], rhs[i]}}
		}

		return List{Items: out}, nil
	})

	register(table, "unzip", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		firsts := make([]Value, 0, len(items))
		seconds := make([]Value, 0, len(items))

		for _, item := range items {
			pair, ok := item.(List)
			if !ok || len(pair.Items) != 2 {
				return nil, typeErrorf(0, "expected list of pairs")
			}

			firsts = append(firsts, pair.Items[0])
			seconds = append(seconds, pair.Items[1])
		}

		return List{Items: []Value{List{Items: firsts}, List{Items: seconds}}}, nil
	})

	register(table, "split_at", 2, func(args []Value) (Value, error) {
		n, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		n = min(max(n, 0), int64(len(items)))

		return List{Items: []Value{
			List{Items: items[:n]},
			List{Items: items[n:]},
		}}, nil
	})

	register(table, "partition", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		var yes, no []Value

		for _, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			keep, ok := truth(v)
			if !ok {
				return nil, typeErrorf(0, "predicate must return Bool, found %s", v.Type())
			}

			if keep {
				yes = append(yes, item)
			} else {
				no = append(no, item)
			}
		}

		return List{Items: []Value{List{Items: yes}, List{Items: no}}}, nil
	})

	register(table, "reverse", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		out := make([]Value, len(items))
		for i, item := range items {
			out[len(items)-1-i] = item
		}

		return List{Items: out}, nil
	})

	register(table, "sort", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		out := make([]Value, len(items))
		copy(out, items)

		sort.SliceStable(out, func(i, j int) bool {
			return lessValues(out[i], out[j])
		})

		return List{Items: out}, nil
	})

	register(table, "sort_by", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		keys := make([]Value, len(items))

		for i, item := range items {
			k, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			keys[i] = k
		}

		idx := make([]int, len(items))
		for i := range idx {
			idx[i] = i
		}

		sort.SliceStable(idx, func(i, j int) bool {
			return lessValues(keys[idx[i]], keys[idx[j]])
		})

		out := make([]Value, len(items))
		for i, j := range idx {
			out[i] = items[j]
		}

		return List{Items: out}, nil
	})

	register(table, "unique", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		seen := make(map[string]bool, len(items))

		var out []Value

		for _, item := range items {
			key := item.Display()
			if !seen[key] {
				seen[key] = true

				out = append(out, item)
			}
		}

		return List{Items: out}, nil
	})

	register(table, "range", 2, func(args []Value) (Value, error) {
		from, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		to, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		var items []Value

		for i := from; i <= to; i++ {
			items = append(items, IntOf(i))
		}

		return List{Items: items}, nil
	})

	register(table, "enumerate", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		out := make([]Value, len(items))
		for i, item := range items {
			out[i] = List{Items: []Value{IntOf(int64(i)), item}}
		}

		return List{Items: out}, nil
	})

	register(table, "sum", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		acc := Value(IntOf(0))

		for _, item := range items {
			acc, err = addValues(acc, item, 0)
			if err != nil {
				return nil, err
			}
		}

		return acc, nil
	})

	register(table, "min", 1, minMaxBuiltin(true))
	register(table, "max", 1, minMaxBuiltin(false))

	register(table, "all", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			ok, isBool := truth(v)
			if !isBool {
				return nil, typeErrorf(0, "predicate must return Bool, found %s", v.Type())
			}

			if !ok {
				return Bool{}, nil
			}
		}

		return Bool{Value: true}, nil
	})

	register(table, "any", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			ok, isBool := truth(v)
			if !isBool {
				return nil, typeErrorf(0, "predicate must return Bool, found %s", v.Type())
			}

			if ok {
				return Bool{Value: true}, nil
			}
		}

		return Bool{}, nil
	})

	register(table, "count", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		n := int64(0)

		for _, item := range items {
			if valuesEqual(args[0], item) {
				n++
			}
		}

		return IntOf(n), nil
	})
}

func minMaxBuiltin(wantMin bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return None{}, nil
		}

		best := items[0]

		for _, item := range items[1:] {
			if lessValues(item, best) == wantMin {
				best = item
			}
		}

		return best, nil
	}
}

// lessValues orders a pair of values for sort and min/max: numbers by
// magnitude, everything else by display form.
func lessValues(a, b Value) bool {
	an, aok := a.(Number)
	bn, bok := b.(Number)

	if aok && bok {
		return an.AsFloat() < bn.AsFloat()
	}

	return a.Display() < b.Display()
}
