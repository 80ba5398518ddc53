package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/avon-lang/avon/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// isWordBoundary reports whether the rune delimits a word for completion
// purposes: whitespace, the member-access dot, and operator or bracket
// characters. Underscores are part of identifiers and excluded.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\\', '@':
		return true
	}

	return false
}

// wordBounds locates the identifier under the cursor. The word is empty
// when the cursor sits on a boundary: after a space, right after a dot,
// or at the start of the line.
func wordBounds(input string, cursor int) (word string, start, end int) {
	at := min(cursor, len(input))

	start = strings.LastIndexFunc(input[:at], isWordBoundary)
	if start < 0 {
		start = 0
	} else {
		// Index of the boundary rune itself, the word begins after it.
		_, size := utf8.DecodeRuneInString(input[start:])
		start += size
	}

	end = strings.IndexFunc(input[at:], isWordBoundary)
	if end < 0 {
		end = len(input)
	} else {
		end += at
	}

	return input[start:end], start, end
}

// parentPath extracts the member-access chain ending just before the
// current word. In "x + server.http.ho" with the word "ho" it yields
// "server.http"; a top-level word yields "".
func parentPath(input string, wordStart int) string {
	prefix := strings.TrimRight(input[:wordStart], ".")

	// Everything past the last non-chain rune is the chain. Dots stay,
	// other boundary runes end it.
	cut := strings.LastIndexFunc(prefix, func(r rune) bool {
		return r != '.' && isWordBoundary(r)
	})

	return strings.TrimSpace(prefix[cut+1:])
}

// childCandidates returns the names that complete the given parent path.
// An empty parent yields every bound name, builtins included. A non-empty
// parent resolves dict fields segment by segment and returns the keys of
// the final dict.
func childCandidates(env *lang.Env, parent string) []string {
	if parent == "" {
		return env.Names()
	}

	segments := strings.Split(parent, ".")

	val, ok := env.Lookup(segments[0])
	if !ok {
		return nil
	}

	for _, seg := range segments[1:] {
		dict, isDict := val.(lang.Dict)
		if !isDict {
			return nil
		}

		val, ok = dict.Get(seg)
		if !ok {
			return nil
		}
	}

	dict, isDict := val.(lang.Dict)
	if !isDict {
		return nil
	}

	return dict.Keys()
}

// computeMatches ranks completion candidates for the word at the cursor.
// An empty top-level word yields no matches so the idle hint stays
// visible; an empty word after a dot lists every member of the parent so
// dicts can be browsed.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	switch m.mode {
	case modeCtrl:
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands

	default:
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.env, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar lays the ranked candidates out on one line, cutting
// over to an ellipsis when the next candidate would not fit the terminal.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	budget := m.width - lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range m.matches {
		entry := m.renderCandidate(match, m.tabActive && i == m.suggIdx)
		if i > 0 {
			entry = sep + entry
		}

		width := lipgloss.Width(entry)

		last := i == len(m.matches)-1
		if used+width > budget && !last && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		b.WriteString(entry)

		used += width
	}

	return b.String()
}

// renderCandidate highlights the fuzzy-matched runes of one candidate.
// Names bound to callable values carry a dot marker; the marker is
// display-only and never inserted by completion.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, hot := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base = selectedStyle
		hot = selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		style := base
		if slices.Contains(match.MatchedIndexes, i) {
			style = hot
		}

		b.WriteString(style.Render(string(r)))
	}

	if m.isFunction(match.Str) {
		b.WriteString(base.Render(" ·"))
	}

	return b.String()
}

// isFunction reports whether name is bound to a callable value.
func (m model) isFunction(name string) bool {
	v, ok := m.env.Lookup(name)
	if !ok {
		return false
	}

	switch v.(type) {
	case *lang.Closure, *lang.Builtin:
		return true
	}

	return false
}
