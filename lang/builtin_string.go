package lang

import (
	"strings"
	"unicode"
)

func registerStringBuiltins(table map[string]Value) {
	register(table, "upper", 1, stringMap(strings.ToUpper))
	register(table, "lower", 1, stringMap(strings.ToLower))
	register(table, "trim", 1, stringMap(strings.TrimSpace))

	register(table, "length", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case String:
			return IntOf(int64(len([]rune(v.Value)))), nil
		case List:
			return IntOf(int64(len(v.Items))), nil
		case Dict:
			return IntOf(int64(v.Len())), nil
		default:
			return nil, typeErrorf(0, "expected String, List, or Dict, found %s", args[0].Type())
		}
	})

	register(table, "is_empty", 1, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case String:
			return Bool{Value: v.Value == ""}, nil
		case List:
			return Bool{Value: len(v.Items) == 0}, nil
		case Dict:
			return Bool{Value: v.Len() == 0}, nil
		default:
			return nil, typeErrorf(0, "expected String, List, or Dict, found %s", args[0].Type())
		}
	})

	// contains works over strings, lists, and dict keys.
	register(table, "contains", 2, func(args []Value) (Value, error) {
		switch v := args[0].(type) {
		case String:
			sub, err := argString(args[1])
			if err != nil {
				return nil, err
			}

			return Bool{Value: strings.Contains(v.Value, sub)}, nil
		case List:
			for _, item := range v.Items {
				if valuesEqual(item, args[1]) {
					return Bool{Value: true}, nil
				}
			}

			return Bool{}, nil
		case Dict:
			key, err := argString(args[1])
			if err != nil {
				return nil, err
			}

			_, ok := v.Get(key)

			return Bool{Value: ok}, nil
		default:
			return nil, typeErrorf(0, "expected String, List, or Dict, found %s", args[0].Type())
		}
	})

	register(table, "starts_with", 2, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		prefix, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		return Bool{Value: strings.HasPrefix(s, prefix)}, nil
	})

	register(table, "ends_with", 2, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		suffix, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		return Bool{Value: strings.HasSuffix(s, suffix)}, nil
	})

	register(table, "split", 2, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		sep, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		parts := strings.Split(s, sep)
		items := make([]Value, len(parts))

		for i, part := range parts {
			items[i] = String{Value: part}
		}

		return List{Items: items}, nil
	})

	// lines handles both \n and \r\n endings and drops a final newline.
	register(table, "lines", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		if s == "" {
			return List{}, nil
		}

		parts := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
		items := make([]Value, len(parts))

		for i, line := range parts {
			items[i] = String{Value: strings.TrimSuffix(line, "\r")}
		}

		return List{Items: items}, nil
	})

	register(table, "unlines", 1, func(args []Value) (Value, error) {
		return joinDisplayed(args[0], "\n")
	})

	register(table, "words", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		fields := strings.Fields(s)
		items := make([]Value, len(fields))

		for i, w := range fields {
			items[i] = String{Value: w}
		}

		return List{Items: items}, nil
	})

	register(table, "unwords", 1, func(args []Value) (Value, error) {
		return joinDisplayed(args[0], " ")
	})

	register(table, "join", 2, func(args []Value) (Value, error) {
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

	register(table, "replace", 3, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		old, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		repl, err := argString(args[2])
		if err != nil {
			return nil, err
		}

		return String{Value: strings.ReplaceAll(s, old, repl)}, nil
	})

	register(table, "repeat", 2, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		n, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		if n < 0 {
			n = 0
		}

		return String{Value: strings.Repeat(s, int(n))}, nil
	})

	register(table, "pad_left", 3, padBuiltin(true))
	register(table, "pad_right", 3, padBuiltin(false))

	register(table, "indent", 2, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		n, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		if n < 0 {
			n = 0
		}

		prefix := strings.Repeat(" ", int(n))
		lines := strings.Split(s, "\n")

		for i, line := range lines {
			lines[i] = prefix + line
		}

		return String{Value: strings.Join(lines, "\n")}, nil
	})

	register(table, "truncate", 2, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		n, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		if n < 0 {
			n = 0
		}

		runes := []rune(s)
		if int64(len(runes)) <= n {
			return String{Value: s}, nil
		}

		if n <= 3 {
			return String{Value: string(runes[:n])}, nil
		}

		return String{Value: string(runes[:n-3]) + "..."}, nil
	})

	register(table, "center", 2, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		width, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		n := int64(len([]rune(s)))
		if n >= width {
			return String{Value: s}, nil
		}

		pad := width - n
		left := pad / 2

		return String{Value: strings.Repeat(" ", int(left)) + s + strings.Repeat(" ", int(pad-left))}, nil
	})

	register(table, "chars", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		runes := []rune(s)
		items := make([]Value, len(runes))

		for i, r := range runes {
			items[i] = String{Value: string(r)}
		}

		return List{Items: items}, nil
	})

	register(table, "char_at", 2, func(args []Value) (Value, error) {
		i, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		s, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		runes := []rune(s)
		if i < 0 || i >= int64(len(runes)) {
			return None{}, nil
		}

		return String{Value: string(runes[i])}, nil
	})

	register(table, "is_digit", 1, classBuiltin(unicode.IsDigit))
	register(table, "is_alpha", 1, classBuiltin(unicode.IsLetter))
	register(table, "is_alphanumeric", 1, classBuiltin(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}))
	register(table, "is_whitespace", 1, classBuiltin(unicode.IsSpace))

	register(table, "is_uppercase", 1, caseBuiltin(unicode.IsUpper))
	register(table, "is_lowercase", 1, caseBuiltin(unicode.IsLower))

	register(table, "html_escape", 1, stringMap(htmlEscape))

	register(table, "html_tag", 2, func(args []Value) (Value, error) {
		tag, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		content, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		return String{Value: "<" + tag + ">" + content + "</" + tag + ">"}, nil
	})

	register(table, "html_attr", 2, func(args []Value) (Value, error) {
		name, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		value, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		escaped := strings.NewReplacer(
			"&", "&amp;",
			`"`, "&quot;",
			"'", "&#x27;",
		).Replace(value)

		return String{Value: name + `="` + escaped + `"`}, nil
	})

	register(table, "md_heading", 2, func(args []Value) (Value, error) {
		level, err := argInt(args[0])
		if err != nil {
			return nil, err
		}

		text, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		level = min(max(level, 1), 6)

		return String{Value: strings.Repeat("#", int(level)) + " " + text}, nil
	})

	register(table, "md_link", 2, func(args []Value) (Value, error) {
		text, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		url, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		return String{Value: "[" + text + "](" + url + ")"}, nil
	})

	register(table, "md_code", 1, stringMap(func(s string) string {
		return "`" + s + "`"
	}))

	register(table, "md_list", 1, func(args []Value) (Value, error) {
		items, err := argList(args[0])
		if err != nil {
			return nil, err
		}

		lines := make([]string, len(items))
		for i, item := range items {
			lines[i] = "- " + item.Display()
		}

		return String{Value: strings.Join(lines, "\n")}, nil
	})

	register(table, "markdown_to_html", 1, stringMap(markdownToHTML))
}

func stringMap(fn func(string) string) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		return String{Value: fn(s)}, nil
	}
}

// classBuiltin tests every rune of a non-empty string.
func classBuiltin(class func(rune) bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		if s == "" {
			return Bool{}, nil
		}

		for _, r := range s {
			if !class(r) {
				return Bool{}, nil
			}
		}

		return Bool{Value: true}, nil
	}
}

// caseBuiltin tests only the letters of a string, ignoring everything
// else; a string with no letters fails.
func caseBuiltin(class func(rune) bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		sawLetter := false

		for _, r := range s {
			if !unicode.IsLetter(r) {
				continue
			}

			sawLetter = true

			if !class(r) {
				return Bool{}, nil
			}
		}

		return Bool{Value: sawLetter}, nil
	}
}

func padBuiltin(left bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		width, err := argInt(args[1])
		if err != nil {
			return nil, err
		}

		padStr, err := argString(args[2])
		if err != nil {
			return nil, err
		}

		padRune := ' '
		for _, r := range padStr {
			padRune = r

			break
		}

		n := int64(len([]rune(s)))
		if n >= width {
			return String{Value: s}, nil
		}

		pad := strings.Repeat(string(padRune), int(width-n))

		if left {
			return String{Value: pad + s}, nil
		}

		return String{Value: s + pad}, nil
	}
}

func htmlEscape(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
	).Replace(s)
}

// markdownToHTML converts a small markdown subset: headings, list items,
// and paragraphs. It is intentionally line-oriented.
func markdownToHTML(md string) string {
	var out []string

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			out = append(out, "<br>")
		case strings.HasPrefix(trimmed, "### "):
			out = append(out, "<h3>"+strings.TrimSpace(trimmed[4:])+"</h3>")
		case strings.HasPrefix(trimmed, "## "):
			out = append(out, "<h2>"+strings.TrimSpace(trimmed[3:])+"</h2>")
		case strings.HasPrefix(trimmed, "# "):
			out = append(out, "<h1>"+strings.TrimSpace(trimmed[2:])+"</h1>")
		case strings.HasPrefix(trimmed, "- "):
			out = append(out, "<li>"+strings.TrimSpace(trimmed[2:])+"</li>")
		default:
			out = append(out, "<p>"+trimmed+"</p>")
		}
	}

	return strings.Join(out, "\n")
}

// joinDisplayed joins a list's displayed items with sep.
func joinDisplayed(v Value, sep string) (Value, error) {
	items, err := argList(v)
	if err != nil {
		return nil, err
	}

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Display()
	}

	return String{Value: strings.Join(parts, sep)}, nil
}
