package lang

import (
	"strconv"
	"strings"
)

// maxDisplayDepth bounds recursion while rendering nested containers.
const maxDisplayDepth = 200

// Display renders the value in canonical form.
func (n Number) Display() string {
	if n.IsFloat {
		return formatFloat(n.Float)
	}

	return strconv.FormatInt(n.Int, 10)
}

// formatFloat prints the shortest decimal form, dropping a trailing
// ".0" on integral floats.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s String) Display() string { return s.Value }

func (b Bool) Display() string {
	if b.Value {
		return "true"
	}

	return "false"
}

func (None) Display() string { return "None" }

func (l List) Display() string { return displayDepth(l, 0) }

func (d Dict) Display() string { return displayDepth(d, 0) }

func (c *Closure) Display() string {
	if c.Name != "" {
		return "<function:" + c.Name + ">"
	}

	return "<function>"
}

func (b *Builtin) Display() string { return "<builtin:" + b.Name + ">" }

func (f FileTemplate) Display() string { return f.Content }

func (p Path) Display() string { return p.Value }

// displayDepth renders nested containers with a recursion bound so a
// pathologically deep value cannot blow the stack.
func displayDepth(v Value, depth int) string {
	if depth > maxDisplayDepth {
		return "<recursion limit exceeded>"
	}

	switch val := v.(type) {
	case List:
		parts := make([]string, len(val.Items))
		for i, item := range val.Items {
			parts[i] = displayDepth(item, depth+1)
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case Dict:
		parts := make([]string, 0, val.Len())

		for _, k := range val.keys {
			entry := val.entries[k]

			var rendered string
			if s, ok := entry.(String); ok {
				rendered = strconv.Quote(s.Value)
			} else {
				rendered = displayDepth(entry, depth+1)
			}

			parts = append(parts, k+": "+rendered)
		}

		return "{" + strings.Join(parts, ", ") + "}"

	default:
		return v.Display()
	}
}

// Interpolate renders the value for template substitution. Strings pass
// through; lists render one element per line with no brackets, each
// continuation line prefixed with the indentation active at the
// interpolation point; everything else uses canonical display.
func Interpolate(v Value, indent string) string {
	list, ok := v.(List)
	if !ok {
		return v.Display()
	}

	var lines []string

	for _, item := range list.Items {
		lines = append(lines, strings.Split(Interpolate(item, ""), "\n")...)
	}

	return strings.Join(lines, "\n"+indent)
}

// Dedent strips common leading indentation from a rendered template.
// Leading and trailing blank lines are removed; the indentation of the
// first non-blank line becomes the baseline stripped from every line.
// Lines shallower than the baseline are kept as-is.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 {
		return ""
	}

	baseline := 0

	for _, line := range lines {
		lead := leadingWhitespace(line)
		if lead < len([]rune(line)) {
			baseline = lead

			break
		}
	}

	out := make([]string, len(lines))

	for i, line := range lines {
		runes := []rune(line)

		switch {
		case strings.TrimSpace(line) == "":
			out[i] = ""
		case leadingWhitespace(line) >= baseline:
			out[i] = string(runes[baseline:])
		default:
			out[i] = line
		}
	}

	return strings.Join(out, "\n")
}

func leadingWhitespace(line string) int {
	count := 0

	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}

		count++
	}

	return count
}
