package lang

func registerMathBuiltins(table map[string]Value) {
	register(table, "abs", 1, func(args []Value) (Value, error) {
		n, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}

		if n.IsFloat {
			if n.Float < 0 {
				return FloatOf(-n.Float), nil
			}

			return FloatOf(n.Float), nil
		}

		if n.Int < 0 {
			return IntOf(-n.Int), nil
		}

		return IntOf(n.Int), nil
	})

	register(table, "gcd", 2, func(args []Value) (Value, error) {
		a, b, err := intPair(args)
		if err != nil {
			return nil, err
		}

		return IntOf(gcd(a, b)), nil
	})

	register(table, "lcm", 2, func(args []Value) (Value, error) {
		a, b, err := intPair(args)
		if err != nil {
			return nil, err
		}

		if a == 0 || b == 0 {
			return IntOf(0), nil
		}

		p := a * b
		if p < 0 {
			p = -p
		}

		return IntOf(p / gcd(a, b)), nil
	})
}

func intPair(args []Value) (int64, int64, error) {
	a, err := argInt(args[0])
	if err != nil {
		return 0, 0, err
	}

	b, err := argInt(args[1])
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}

	if a < 0 {
		return -a
	}

	return a
}
