package lang

import (
	"math/rand/v2"
	"slices"
)

func registerSeqBuiltins(table map[string]Value) {
	register(table, "find", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			hit, ok := truth(v)
			if !ok {
				return nil, typeErrorf(0, "predicate must return Bool, found %s", v.Type())
			}

			if hit {
				return item, nil
			}
		}

		return None{}, nil
	})

	register(table, "find_index", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		for i, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			hit, ok := truth(v)
			if !ok {
				return nil, typeErrorf(0, "predicate must return Bool, found %s", v.Type())
			}

			if hit {
				return IntOf(int64(i)), nil
			}
		}

		return None{}, nil
	})

	register(table, "last", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return None{}, nil
		}

		return items[len(items)-1], nil
	})

	register(table, "nth", 2, func(args []Value) (Value, error) {
		n, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		if n < 0 || n >= int64(len(items)) {
			return None{}, nil
		}

		return items[n], nil
	})

	register(table, "chunks", 2, func(args []Value) (Value, error) {
		size, items, err := sizedList(args, "chunk size")
		if err != nil {
			return nil, err
		}

		out := make([]Value, 0, (len(items)+size-1)/size)

		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			out = append(out, List{Items: items[start:end]})
		}

		return List{Items: out}, nil
	})

	register(table, "windows", 2, func(args []Value) (Value, error) {
		size, items, err := sizedList(args, "windows size")
		if err != nil {
			return nil, err
		}

		var out []Value

		for start := 0; start+size <= len(items); start++ {
			out = append(out, List{Items: items[start : start+size]})
		}

		return List{Items: out}, nil
	})

	register(table, "intersperse", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return List{}, nil
		}

		out := make([]Value, 0, 2*len(items)-1)

		for i, item := range items {
			if i > 0 {
				out = append(out, args[0])
			}

			out = append(out, item)
		}

		return List{Items: out}, nil
	})

	register(table, "transpose", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return List{}, nil
		}

		rows := make([][]Value, len(items))

		for i, item := range items {
			row, err := argList(item)
			if err != nil {
				return nil, err
			}

			if i > 0 && len(row) != len(rows[0]) {
				return nil, valueErrorf(0, "transpose requires rectangular matrix")
			}

			rows[i] = row
		}

		out := make([]Value, len(rows[0]))

		for col := range rows[0] {
			next := make([]Value, len(rows))

			for i, row := range rows {
				next[i] = row[col]
			}

			out[col] = List{Items: next}
		}

		return List{Items: out}, nil
	})

	register(table, "zip_with", 3, func(args []Value) (Value, error) {
		left, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		right, err := argList(args[2])
		if err != nil {
			return nil, err
		}

		out := make([]Value, min(len(left), len(right)))

		for i := range out {
			v, err := Apply(args[0], left[i], right[i])
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return List{Items: out}, nil
	})

	// Keys are the displayed form of the key function's result, in
	// first-seen order.
	register(table, "group_by", 2, func(args []Value) (Value, error) {
		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		groups := NewDict()

		for _, item := range items {
			v, err := Apply(args[0], item)
			if err != nil {
				return nil, err
			}

			key := v.Display()

			group, _ := groups.Get(key)

			members, _ := group.(List)

			groups = groups.Set(key, List{Items: append(members.Items, item)})
		}

		return groups, nil
	})

	register(table, "permutations", 2, func(args []Value) (Value, error) {
		k, items, err := pickList(args, "permutations")
		if err != nil {
			return nil, err
		}

		var out []Value

		picked := make([]Value, 0, k)
		used := make([]bool, len(items))

		var walk func()
		walk = func() {
			if len(picked) == k {
				out = append(out, List{Items: slices.Clone(picked)})

				return
			}

			for i, item := range items {
				if used[i] {
					continue
				}

				used[i] = true
				picked = append(picked, item)
				walk()
				picked = picked[:len(picked)-1]
				used[i] = false
			}
		}
		walk()

		return List{Items: out}, nil
	})

	register(table, "combinations", 2, func(args []Value) (Value, error) {
		k, items, err := pickList(args, "combinations")
		if err != nil {
			return nil, err
		}

		var out []Value

		picked := make([]Value, 0, k)

		var walk func(from int)
		walk = func(from int) {
			if len(picked) == k {
				out = append(out, List{Items: slices.Clone(picked)})

				return
			}

			for i := from; i < len(items); i++ {
				picked = append(picked, items[i])
				walk(i + 1)
				picked = picked[:len(picked)-1]
			}
		}
		walk(0)

		return List{Items: out}, nil
	})

	register(table, "choice", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		if len(items) == 0 {
			return nil, valueErrorf(0, "choice: cannot choose from empty list")
		}

		return items[rand.IntN(len(items))], nil
	})

	register(table, "sample", 2, func(args []Value) (Value, error) {
		n, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		if n < 0 {
			return nil, valueErrorf(0, "sample: count must be non-negative, got %d", n)
		}

		items, err := argList(args[1])
		if err != nil {
			return nil, err
		}

		if n > int64(len(items)) {
			return nil, valueErrorf(0, "sample: cannot sample %d items from list of length %d", n, len(items))
		}

		pool := slices.Clone(items)
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		return List{Items: pool[:n]}, nil
	})

	register(table, "shuffle", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		out := slices.Clone(items)
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

		return List{Items: out}, nil
	})
}

// sizedList unpacks a positive size and a list argument.
func sizedList(args []Value, what string) (int, []Value, error) {
	size, err := argInt(args[0])
	if err != nil {
		return 0, nil, err
	}

	if size <= 0 {
		return 0, nil, valueErrorf(0, "%s must be positive, got %d", what, size)
	}

	items, err := argList(args[1])
	if err != nil {
		return 0, nil, err
	}

	return int(size), items, nil
}

// pickList unpacks a non-negative selection count and a list argument.
func pickList(args []Value, what string) (int, []Value, error) {
	k, err := argInt(args[0])
	if err != nil {
		return 0, nil, err
	}

	if k < 0 {
		return 0, nil, valueErrorf(0, "%s k must be non-negative, got %d", what, k)
	}

	items, err := argList(args[1])
	if err != nil {
		return 0, nil, err
	}

	return int(k), items, nil
}
