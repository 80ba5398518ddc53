package lang

import "regexp"

func registerRegexBuiltins(table map[string]Value) {
	register(table, "regex_match", 2, func(args []Value) (Value, error) {
		re, text, err := regexArgs(args)
		if err != nil {
			return nil, err
		}

		return Bool{Value: re.MatchString(text)}, nil
	})

	// Replacement strings expand group references ($1, ${name}).
	register(table, "regex_replace", 3, func(args []Value) (Value, error) {
		pattern, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		replacement, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		text, err := argString(args[2])
		if err != nil {
			return nil, err
		}

		re, err := compileRegex(pattern)
		if err != nil {
			return nil, err
		}

		return String{Value: re.ReplaceAllString(text, replacement)}, nil
	})

	register(table, "regex_split", 2, func(args []Value) (Value, error) {
		re, text, err := regexArgs(args)
		if err != nil {
			return nil, err
		}

		parts := re.Split(text, -1)
		items := make([]Value, len(parts))

		for i, part := range parts {
			items[i] = String{Value: part}
		}

		return List{Items: items}, nil
	})

	// scan returns every match in order. With capture groups each match
	// is the list of its groups (non-participating groups are ""); with
	// none it is the matched text itself.
	register(table, "scan", 2, func(args []Value) (Value, error) {
		re, text, err := regexArgs(args)
		if err != nil {
			return nil, err
		}

		var items []Value

		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 {
				groups := make([]Value, len(m)-1)
				for i, g := range m[1:] {
					groups[i] = String{Value: g}
				}

				items = append(items, List{Items: groups})

				continue
			}

			items = append(items, String{Value: m[0]})
		}

		return List{Items: items}, nil
	})
}

// regexArgs unpacks the common (pattern, text) argument pair.
func regexArgs(args []Value) (*regexp.Regexp, string, error) {
	pattern, err := argString(args[0])
	if err != nil {
		return nil, "", err
	}

	text, err := argString(args[1])
	if err != nil {
		return nil, "", err
	}

	re, err := compileRegex(pattern)
	if err != nil {
		return nil, "", err
	}

	return re, text, nil
}

func compileRegex(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, valueErrorf(0, "invalid regex: %s", err)
	}

	return re, nil
}
