package lang

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

func registerConvertBuiltins(table map[string]Value) {
	register(table, "to_string", 1, func(args []Value) (Value, error) {
		return String{Value: args[0].Display()}, nil
	})

	register(table, "to_int", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case Number:
			if v.IsFloat {
				return IntOf(int64(v.Float)), nil
			}

			return v, nil

		case String:
			i, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
			if err != nil {
				return nil, valueErrorf(0, "cannot convert %q to Number", v.Value)
			}

			return IntOf(i), nil

		case Bool:
			if v.Value {
				return IntOf(1), nil
			}

			return IntOf(0), nil

		default:
			return nil, typeErrorf(0, "cannot convert %s to Number", args[0].Type())
		}
	})

	register(table, "to_float", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case Number:
			return FloatOf(v.AsFloat()), nil

		case String:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
			if err != nil {
				return nil, valueErrorf(0, "cannot convert %q to Number", v.Value)
			}

			return FloatOf(f), nil

		default:
			return nil, typeErrorf(0, "cannot convert %s to Number", args[0].Type())
		}
	})

	register(table, "to_bool", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case Bool:
			return v, nil

		case Number:
			return Bool{Value: v.AsFloat() != 0}, nil

		case String:
			switch strings.ToLower(v.Value) {
			case "true", "yes", "1", "on":
				return Bool{Value: true}, nil
			case "false", "no", "0", "off", "":
				return Bool{}, nil
			default:
				return nil, valueErrorf(0, "cannot convert %q to Bool", v.Value)
			}

		case List:
			return Bool{Value: len(v.Items) > 0}, nil

		case None:
			return Bool{}, nil

		default:
			return Bool{Value: true}, nil
		}
	})

	// to_char converts a Unicode codepoint to a one-character string.
	register(table, "to_char", 1, func(args []Value) (Value, error) {
		code, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		if code < 0 || code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
			return nil, valueErrorf(0, "%d is not a valid Unicode codepoint", code)
		}

		return String{Value: string(rune(code))}, nil
	})

	register(table, "to_list", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case String:
			runes := []rune(v.Value)
			items := make([]Value, len(runes))

			for i, r := range runes {
				items[i] = String{Value: string(r)}
			}

			return List{Items: items}, nil

		case List:
			return v, nil

		default:
			return nil, typeErrorf(0, "expected String or List, found %s", args[0].Type())
		}
	})

	register(table, "neg", 1, func(args []Value) (Value, error) {
		n, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}

		if n.IsFloat {
			return FloatOf(-n.Float), nil
		}

		return IntOf(-n.Int), nil
	})

	register(table, "typeof", 1, func(args []Value) (Value, error) {
		return String{Value: args[0].Type().String()}, nil
	})

	register(table, "is_string", 1, typePredicate(TypeString))
	register(table, "is_number", 1, typePredicate(TypeNumber))
	register(table, "is_list", 1, typePredicate(TypeList))
	register(table, "is_bool", 1, typePredicate(TypeBool))
	register(table, "is_dict", 1, typePredicate(TypeDict))
	register(table, "is_function", 1, typePredicate(TypeFunction))
	register(table, "is_none", 1, typePredicate(TypeNone))

	register(table, "is_int", 1, func(args []Value) (Value, error) {
		n, ok := args[0].(Number)

		return Bool{Value: ok && !n.IsFloat}, nil
	})

	register(table, "is_float", 1, func(args []Value) (Value, error) {
		n, ok := args[0].(Number)

		return Bool{Value: ok && n.IsFloat}, nil
	})
}

func typePredicate(t Type) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		return Bool{Value: args[0].Type() == t}, nil
	}
}
