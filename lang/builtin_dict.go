package lang

func registerDictBuiltins(table map[string]Value) {
	// get is lenient: a missing key yields None. Dot access is the
	// strict counterpart.
	register(table, "get", 2, func(args []Value) (Value, error) {
		key, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		switch v := args[0].(type) {
		case Dict:
			val, ok := v.Get(key)
			if !ok {
				return None{}, nil
			}

			return val, nil

		case List:
			// A list of [key, value] pairs behaves like a dict.
			for _, item := range v.Items {
				pair, ok := item.(List)
				if !ok || len(pair.Items) < 2 {
					continue
				}

				if k, ok := pair.Items[0].(String); ok && k.Value == key {
					return pair.Items[1], nil
				}
			}

			return None{}, nil

		default:
			return nil, typeErrorf(0, "expected Dict or List of pairs, found %s", args[0].Type())
		}
	})

	register(table, "set", 3, func(args []Value) (Value, error) {
		key, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		switch v := args[0].(type) {
		case Dict:
			return v.Set(key, args[2]), nil

		case List:
			out := make([]Value, 0, len(v.Items)+1)
			found := false

			for _, item := range v.Items {
				pair, ok := item.(List)
				if ok && len(pair.Items) >= 2 {
					if k, ok := pair.Items[0].(String); ok && k.Value == key {
						out = append(out, List{Items: []Value{pair.Items[0], args[2]}})
						found = true

						continue
					}
				}

				out = append(out, item)
			}

			if !found {
				out = append(out, List{Items: []Value{String{Value: key}, args[2]}})
			}

			return List{Items: out}, nil

		default:
			return nil, typeErrorf(0, "expected Dict or List of pairs, found %s", args[0].Type())
		}
	})

	register(table, "keys", 1, func(args []Value) (Value, error) {
		d, err := argDict(args[0])
		if err != nil {
			return nil, err
		}

		items := make([]Value, 0, d.Len())
		for _, k := range d.Keys() {
			items = append(items, String{Value: k})
		}

		return List{Items: items}, nil
	})

	register(table, "values", 1, func(args []Value) (Value, error) {
		d, err := argDict(args[0])
		if err != nil {
			return nil, err
		}

		items := make([]Value, 0, d.Len())

		for _, k := range d.Keys() {
			v, _ := d.Get(k)
			items = append(items, v)
		}

		return List{Items: items}, nil
	})

	register(table, "has_key", 2, func(args []Value) (Value, error) {
		d, err := argDict(args[0])
		if err != nil {
			return nil, err
		}

		key, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		_, ok := d.Get(key)

		return Bool{Value: ok}, nil
	})

	// dict_merge prefers entries from the second dict on key collision.
	register(table, "dict_merge", 2, func(args []Value) (Value, error) {
		a, err := argDict(args[0])
		if err != nil {
			return nil, err
		}

		b, err := argDict(args[1])
		if err != nil {
			return nil, err
		}

		out := a

		for _, k := range b.Keys() {
			v, _ := b.Get(k)
			out = out.Set(k, v)
		}

		return out, nil
	})

	register(table, "delete", 2, func(args []Value) (Value, error) {
		d, err := argDict(args[0])
		if err != nil {
			return nil, err
		}

		key, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		return d.Delete(key), nil
	})
}
