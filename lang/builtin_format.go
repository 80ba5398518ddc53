package lang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

func registerFormatBuiltins(table map[string]Value) {
	register(table, "format_int", 2, func(args []Value) (Value, error) {
		n, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		width, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		if width > 0 {
			return String{Value: fmt.Sprintf("%0*d", int(width), n)}, nil
		}

		return String{Value: strconv.FormatInt(n, 10)}, nil
	})

	register(table, "format_float", 2, func(args []Value) (Value, error) {
		n, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}

		prec, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		if prec >= 0 {
			return String{Value: strconv.FormatFloat(n.AsFloat(), 'f', int(prec), 64)}, nil
		}

		return String{Value: formatFloat(n.AsFloat())}, nil
	})

	register(table, "format_hex", 1, baseFormat(16))
	register(table, "format_octal", 1, baseFormat(8))
	register(table, "format_binary", 1, baseFormat(2))

	register(table, "format_scientific", 2, func(args []Value) (Value, error) {
		n, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}

		prec, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		if prec < 0 {
			prec = -1
		}

		return String{Value: strconv.FormatFloat(n.AsFloat(), 'e', int(prec), 64)}, nil
	})

	register(table, "format_bytes", 1, func(args []Value) (Value, error) {
		n, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}

		return String{Value: formatBytes(n.AsFloat())}, nil
	})

	register(table, "format_list", 2, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		sep, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.Display()
		}

		return String{Value: strings.Join(parts, sep)}, nil
	})

	// format_table renders a list of rows, or a dict as a key row over a
	// value row, with a column separator.
	register(table, "format_table", 2, func(args []Value) (Value, error) {
		sep, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		var rows [][]string

		switch v := args[0].(type) {
		case Dict:
			keys := make([]string, 0, v.Len())
			vals := make([]string, 0, v.Len())

			for _, k := range v.Keys() {
				val, _ := v.Get(k)

				keys = append(keys, k)
				vals = append(vals, val.Display())
			}

			rows = [][]string{keys, vals}

		case List:
			for _, row := range v.Items {
				if cols, ok := row.(List); ok {
					cells := make([]string, len(cols.Items))
					for i, c := range cols.Items {
						cells[i] = c.Display()
					}

					rows = append(rows, cells)
				} else {
					rows = append(rows, []string{row.Display()})
				}
			}

		default:
			return nil, typeErrorf(0, "expected List of rows or Dict, found %s", args[0].Type())
		}

		lines := make([]string, len(rows))
		for i, row := range rows {
			lines[i] = strings.Join(row, sep)
		}

		return String{Value: strings.Join(lines, "\n")}, nil
	})

	register(table, "format_json", 1, func(args []Value) (Value, error) {
		return String{Value: valueToJSON(args[0])}, nil
	})

	register(table, "format_yaml", 1, func(args []Value) (Value, error) {
		data, err := yaml.Marshal(ToGo(args[0]))
		if err != nil {
			return nil, valueErrorf(0, "cannot encode value as YAML: %v", err)
		}

		return String{Value: strings.TrimRight(string(data), "\n")}, nil
	})

	register(table, "format_currency", 2, func(args []Value) (Value, error) {
		n, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}

		symbol, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		return String{Value: symbol + strconv.FormatFloat(n.AsFloat(), 'f', 2, 64)}, nil
	})

	register(table, "format_percent", 2, func(args []Value) (Value, error) {
		n, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}

		prec, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		if prec < 0 {
			prec = -1
		}

		return String{Value: strconv.FormatFloat(n.AsFloat()*100, 'f', int(prec), 64) + "%"}, nil
	})

	register(table, "format_bool", 2, func(args []Value) (Value, error) {
		b, err := argBool(args[0])
		if err != nil {
			return nil, err
		}

		style, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		pick := func(t, f string) (Value, error) {
			if b {
				return String{Value: t}, nil
			}

			return String{Value: f}, nil
		}

		switch strings.ToLower(style) {
		case "yesno", "yes/no":
			return pick("Yes", "No")
		case "onoff", "on/off":
			return pick("On", "Off")
		case "10", "1/0":
			return pick("1", "0")
		case "enabled":
			return pick("Enabled", "Disabled")
		case "active":
			return pick("Active", "Inactive")
		case "success":
			return pick("Success", "Failure")
		default:
			return pick("true", "false")
		}
	})
}

func baseFormat(base int) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		n, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		return String{Value: strconv.FormatInt(n, base)}, nil
	}
}

func formatBytes(n float64) string {
	const unit = 1024.0

	if n < unit {
		return fmt.Sprintf("%d B", int64(n))
	}

	for _, suffix := range []string{"KB", "MB", "GB", "TB"} {
		n /= unit
		if n < unit || suffix == "TB" {
			return fmt.Sprintf("%.2f %s", n, suffix)
		}
	}

	return ""
}

// valueToJSON encodes a value as JSON. Functions and other non-data
// values encode as their display string.
func valueToJSON(v Value) string {
	switch val := v.(type) {
	case None:
		return "null"

	case Bool:
		return val.Display()

	case Number:
		return val.Display()

	case String:
		return strconv.Quote(val.Value)

	case List:
		parts := make([]string, len(val.Items))
		for i, item := range val.Items {
			parts[i] = valueToJSON(item)
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case Dict:
		parts := make([]string, 0, val.Len())

		for _, k := range val.Keys() {
			entry, _ := val.Get(k)
			parts = append(parts, strconv.Quote(k)+": "+valueToJSON(entry))
		}

		return "{" + strings.Join(parts, ", ") + "}"

	default:
		return strconv.Quote(v.Display())
	}
}

// ToGo converts a value into plain Go data for encoders.
func ToGo(v Value) any {
	switch val := v.(type) {
	case None:
		return nil
	case Bool:
		return val.Value
	case Number:
		if val.IsFloat {
			return val.Float
		}

		return val.Int
	case String:
		return val.Value
	case Path:
		return val.Value
	case FileTemplate:
		return map[string]any{"path": val.Path, "content": val.Content}
	case List:
		out := make([]any, len(val.Items))
		for i, item := range val.Items {
			out[i] = ToGo(item)
		}

		return out
	case Dict:
		out := yaml.MapSlice{}

		for _, k := range val.Keys() {
			entry, _ := val.Get(k)
			out = append(out, yaml.MapItem{Key: k, Value: ToGo(entry)})
		}

		return out
	default:
		return v.Display()
	}
}
