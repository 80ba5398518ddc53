package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/avon-lang/avon/lang"
)

// builtinParams names the parameters of the most commonly applied
// builtins, in application order. Functions apply by juxtaposition, so a
// signature reads "map f list".
var builtinParams = map[string][]string{
	"map":           {"f", "list"},
	"filter":        {"pred", "list"},
	"fold":          {"f", "init", "list"},
	"flatmap":       {"f", "list"},
	"all":           {"pred", "list"},
	"any":           {"pred", "list"},
	"count":         {"pred", "list"},
	"par_map":       {"f", "list"},
	"par_filter":    {"pred", "list"},
	"par_fold":      {"f", "init", "list"},
	"take":          {"n", "list"},
	"drop":          {"n", "list"},
	"slice":         {"start", "end", "list"},
	"zip":           {"a", "b"},
	"split_at":      {"n", "list"},
	"partition":     {"pred", "list"},
	"sort_by":       {"key", "list"},
	"range":         {"start", "end"},
	"concat":        {"a", "b"},
	"get":           {"key", "dict"},
	"set":           {"key", "value", "dict"},
	"has_key":       {"key", "dict"},
	"delete":        {"key", "dict"},
	"dict_merge":    {"a", "b"},
	"contains":      {"s", "sub"},
	"starts_with":   {"s", "prefix"},
	"ends_with":     {"s", "suffix"},
	"split":         {"s", "sep"},
	"join":          {"sep", "list"},
	"replace":       {"s", "old", "new"},
	"repeat":        {"s", "n"},
	"pad_left":      {"s", "width", "pad"},
	"pad_right":     {"s", "width", "pad"},
	"indent":        {"s", "prefix"},
	"truncate":      {"s", "width"},
	"center":        {"s", "width"},
	"char_at":       {"s", "i"},
	"assert":        {"cond", "msg"},
	"trace":         {"label", "value"},
	"env_var_or":    {"name", "fallback"},
	"fill_template": {"dict", "template"},
	"format_int":    {"width", "n"},
	"format_float":  {"prec", "n"},
	"format_list":   {"sep", "list"},
	"format_table":  {"headers", "rows"},
	"date_format":   {"layout", "date"},
	"date_parse":    {"layout", "s"},
	"date_add":      {"duration", "date"},
	"date_diff":     {"a", "b"},
	"html_tag":      {"tag", "body"},
	"html_attr":     {"name", "value"},
	"md_heading":    {"level", "text"},
	"md_link":       {"text", "url"},
}

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// application describes a detected function application around the
// cursor.
type application struct {
	name     string // function name heading the application chain
	argIndex int    // current argument index (0-based)
	inCall   bool   // true when at least one argument position is active
}

// detectApplication reports whether the cursor sits in the argument
// positions of an application chain, which function heads the chain, and
// which argument the cursor is on. Juxtaposition binds tighter than any
// operator, so an operator at the top level starts a new chain.
func detectApplication(input string, cursor int) application {
	if cursor > len(input) {
		cursor = len(input)
	}

	group := enclosingGroup(input[:cursor])
	words, typing := splitChain(group)

	if len(words) == 0 || !isIdentWord(words[0]) {
		return application{}
	}

	argsAfter := len(words) - 1

	if typing {
		// The word in progress is the current argument.
		argsAfter--
	}

	if argsAfter < 0 {
		return application{}
	}

	return application{
		name:     words[0],
		argIndex: argsAfter,
		inCall:   len(words) > 1 || !typing,
	}
}

// enclosingGroup returns the text after the innermost unmatched opening
// parenthesis, or the whole region when none is open. String and template
// bodies are skipped so their parentheses do not count.
func enclosingGroup(region string) string {
	start := 0
	inString := false

	for i, r := range region {
		if inString {
			if r == '"' && (i == 0 || region[i-1] != '\\') {
				inString = false
			}

			continue
		}

		switch r {
		case '"':
			inString = true
		case '(':
			start = i + utf8.RuneLen(r)
		case ')':
			// Keep the outer group as a best effort; an unmatched
			// closer means the region is not well formed anyway.
		}
	}

	return region[start:]
}

// splitChain splits a group into the top-level words of its trailing
// application chain. Bracketed and quoted spans count as single words.
// Operators reset the chain since juxtaposition binds tighter. typing
// reports whether the region ends mid-word.
func splitChain(group string) (words []string, typing bool) {
	var (
		depth    int
		inString bool
		start    = -1
	)

	flush := func(end int) {
		if start >= 0 {
			words = append(words, group[start:end])
			start = -1
		}
	}

	for i, r := range group {
		if inString {
			if r == '"' && group[i-1] != '\\' {
				inString = false
			}

			continue
		}

		if depth > 0 {
			switch r {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			case '"':
				inString = true
			}

			continue
		}

		switch {
		case r == ' ' || r == '\t':
			flush(i)

		case r == '(' || r == '[' || r == '{':
			if start < 0 {
				start = i
			}

			depth++

		case r == '"':
			if start < 0 {
				start = i
			}

			inString = true

		case isChainBreak(r):
			flush(i)

			words = nil

		default:
			if start < 0 {
				start = i
			}
		}
	}

	typing = start >= 0

	flush(len(group))

	return words, typing
}

// isChainBreak reports whether the rune is a top-level operator or
// separator that terminates an application chain.
func isChainBreak(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', ';', '?', ':', '\\':
		return true
	}

	return false
}

// isIdentWord reports whether the word is a plain identifier.
func isIdentWord(w string) bool {
	for i, r := range w {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return w != ""
}

// getSignature builds the signature hint for the named function. Builtins
// use the curated parameter table; closures derive parameters from their
// lambda chain. Returns an empty signature when the name is not a known
// function.
func getSignature(env *lang.Env, name string) (signature string, params []string) {
	if !isIdentWord(name) {
		return "", nil
	}

	if p, ok := builtinParams[name]; ok {
		return name + " " + strings.Join(p, " "), p
	}

	v, ok := env.Lookup(name)
	if !ok {
		return "", nil
	}

	closure, isClosure := v.(*lang.Closure)
	if !isClosure {
		return "", nil
	}

	params = closureParams(closure)
	if len(params) == 0 {
		return "", nil
	}

	return name + " " + strings.Join(params, " "), params
}

// closureParams walks a closure's curried lambda chain collecting
// parameter names. Parameters with a default are marked with '?'.
func closureParams(c *lang.Closure) []string {
	name := c.Param
	if c.Default != nil {
		name += "?"
	}

	params := []string{name}

	body := c.Body
	for {
		lam, ok := body.(*lang.LambdaExpr)
		if !ok {
			break
		}

		name := lam.Param
		if lam.Default != nil {
			name += "?"
		}

		params = append(params, name)
		body = lam.Body
	}

	return params
}

// renderSignatureHint renders the signature with the current parameter
// highlighted.
func renderSignatureHint(signature string, params []string, currentArgIdx int) string {
	if signature == "" {
		return ""
	}

	name, _, found := strings.Cut(signature, " ")
	if !found || len(params) == 0 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureSeparatorStyle.Render(" "))

		// The final parameter stays highlighted for any surplus
		// arguments, mirroring how over-application reports at the
		// last formal parameter.
		last := i == len(params)-1

		if currentArgIdx == i || (last && currentArgIdx >= i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	return b.String()
}
