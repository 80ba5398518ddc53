package lang

import (
	"encoding/csv"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
)

func registerFileBuiltins(table map[string]Value) {
	register(table, "readfile", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		data, rerr := os.ReadFile(p)
		if rerr != nil {
			return nil, NewError(ErrIO, 0, "failed to read %s: %v", p, rerr)
		}

		return String{Value: string(data)}, nil
	})

	register(table, "readlines", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		data, rerr := os.ReadFile(p)
		if rerr != nil {
			return nil, NewError(ErrIO, 0, "failed to read %s: %v", p, rerr)
		}

		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		items := make([]Value, len(lines))

		for i, line := range lines {
			items[i] = String{Value: line}
		}

		return List{Items: items}, nil
	})

	register(table, "walkdir", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		var items []Value

		_ = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil || path == p {
				return nil
			}

			items = append(items, String{Value: path})

			return nil
		})

		return List{Items: items}, nil
	})

	register(table, "exists", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		_, serr := os.Stat(p)

		return Bool{Value: serr == nil}, nil
	})

	register(table, "glob", 1, func(args []Value) (Value, error) {
		pattern, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		paths, gerr := filepath.Glob(pattern)
		if gerr != nil {
			return nil, valueErrorf(0, "glob error: %v", gerr)
		}

		items := make([]Value, len(paths))

		for i, path := range paths {
			items[i] = String{Value: path}
		}

		return List{Items: items}, nil
	})

	register(table, "abspath", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		abs, aerr := filepath.Abs(p)
		if aerr != nil {
			return nil, NewError(ErrIO, 0, "failed to resolve path %s: %v", p, aerr)
		}

		return String{Value: abs}, nil
	})

	register(table, "relpath", 2, func(args []Value) (Value, error) {
		base, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		target, err := argPath(args[1])
		if err != nil {
			return nil, err
		}

		rel, rerr := filepath.Rel(base, target)
		if rerr != nil {
			return nil, valueErrorf(0, "could not calculate relative path from %s to %s", base, target)
		}

		return String{Value: rel}, nil
	})

	register(table, "basename", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		return String{Value: filepath.Base(p)}, nil
	})

	register(table, "dirname", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		dir := filepath.Dir(p)
		if dir == "." {
			dir = ""
		}

		return String{Value: dir}, nil
	})

	// import evaluates another source file in a fresh environment and
	// returns its value.
	register(table, "import", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		data, rerr := os.ReadFile(p)
		if rerr != nil {
			return nil, NewError(ErrIO, 0, "failed to import %s: %v", p, rerr)
		}

		return Run(string(data))
	})

	// fill_template reads a file and substitutes {key} placeholders from
	// a dict or a list of [key, value] pairs.
	register(table, "fill_template", 2, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		data, rerr := os.ReadFile(p)
		if rerr != nil {
			return nil, NewError(ErrIO, 0, "failed to read %s: %v", p, rerr)
		}

		content := string(data)

		switch subs := args[1].(type) {
		case Dict:
			for _, k := range subs.Keys() {
				v, _ := subs.Get(k)
				content = strings.ReplaceAll(content, "{"+k+"}", v.Display())
			}

		case List:
			for _, item := range subs.Items {
				pair, ok := item.(List)
				if !ok || len(pair.Items) != 2 {
					return nil, typeErrorf(0, "expected [key, value] pair")
				}

				key, kerr := argString(pair.Items[0])
				if kerr != nil {
					return nil, kerr
				}

				content = strings.ReplaceAll(content, "{"+key+"}", pair.Items[1].Display())
			}

		default:
			return nil, typeErrorf(0, "expected Dict or List of pairs, found %s", args[1].Type())
		}

		return String{Value: content}, nil
	})

	register(table, "json_parse", 1, parseStructured)
	register(table, "yaml_parse", 1, parseStructured)
	register(table, "json_parse_string", 1, parseStructuredString)
	register(table, "yaml_parse_string", 1, parseStructuredString)

	register(table, "csv_parse", 1, func(args []Value) (Value, error) {
		p, err := argPath(args[0])
		if err != nil {
			return nil, err
		}

		data, rerr := os.ReadFile(p)
		if rerr != nil {
			return nil, NewError(ErrIO, 0, "csv_parse: failed to read %s: %v", p, rerr)
		}

		return parseCSV(string(data))
	})

	register(table, "csv_parse_string", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		return parseCSV(s)
	})

	register(table, "env_var", 1, func(args []Value) (Value, error) {
		key, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		v, ok := os.LookupEnv(key)
		if !ok {
			return nil, NewError(ErrKey, 0,
				"environment variable '%s' is not set (use env_var_or for a default)", key)
		}

		return String{Value: v}, nil
	})

	register(table, "env_var_or", 2, func(args []Value) (Value, error) {
		key, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		def, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		if v, ok := os.LookupEnv(key); ok {
			return String{Value: v}, nil
		}

		return String{Value: def}, nil
	})

	registerNullary(table, "os", func() (Value, error) {
		return String{Value: runtime.GOOS}, nil
	})
}

// parseStructured reads a JSON or YAML file into a value. JSON is a
// subset of YAML, so one decoder serves both.
func parseStructured(args []Value) (Value, error) {
	p, err := argPath(args[0])
	if err != nil {
		return nil, err
	}

	data, rerr := os.ReadFile(p)
	if rerr != nil {
		return nil, NewError(ErrIO, 0, "failed to read %s: %v", p, rerr)
	}

	var doc any
	if uerr := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); uerr != nil {
		return nil, valueErrorf(0, "cannot parse %s: %v", p, uerr)
	}

	return FromGo(doc)
}

// parseStructuredString decodes a JSON or YAML document held in a string.
func parseStructuredString(args []Value) (Value, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}

	var doc any
	if uerr := yaml.UnmarshalWithOptions([]byte(s), &doc, yaml.UseOrderedMap()); uerr != nil {
		return nil, valueErrorf(0, "cannot parse document: %v", uerr)
	}

	return FromGo(doc)
}

// parseCSV decodes CSV text. The first record names the columns; each
// remaining record becomes a dict keyed by those names.
func parseCSV(data string) (Value, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, valueErrorf(0, "csv record error: %v", err)
	}

	if len(records) == 0 {
		return List{}, nil
	}

	headers := records[0]
	rows := make([]Value, 0, len(records)-1)

	for _, record := range records[1:] {
		row := NewDict()

		for i, field := range record {
			if i >= len(headers) {
				break
			}

			row = row.Set(headers[i], String{Value: field})
		}

		rows = append(rows, row)
	}

	return List{Items: rows}, nil
}

// FromGo converts decoded Go data into a value.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return None{}, nil
	case bool:
		return Bool{Value: val}, nil
	case int:
		return IntOf(int64(val)), nil
	case int64:
		return IntOf(val), nil
	case uint64:
		return IntOf(int64(val)), nil
	case float64:
		return FloatOf(val), nil
	case string:
		return String{Value: val}, nil
	case []any:
		items := make([]Value, len(val))

		for i, item := range val {
			cv, err := FromGo(item)
			if err != nil {
				return nil, err
			}

			items[i] = cv
		}

		return List{Items: items}, nil
	case yaml.MapSlice:
		dict := NewDict()

		for _, item := range val {
			key, ok := item.Key.(string)
			if !ok {
				return nil, typeErrorf(0, "dict keys must be strings")
			}

			cv, err := FromGo(item.Value)
			if err != nil {
				return nil, err
			}

			dict = dict.Set(key, cv)
		}

		return dict, nil
	case map[string]any:
		dict := NewDict()

		for key, item := range val {
			cv, err := FromGo(item)
			if err != nil {
				return nil, err
			}

			dict = dict.Set(key, cv)
		}

		return dict, nil
	default:
		return nil, typeErrorf(0, "cannot convert %T to a value", v)
	}
}
