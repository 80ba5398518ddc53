package lang

import "strconv"

// lexer scans Avon source text one rune at a time.
type lexer struct {
	src  []rune
	pos  int
	line int
}

// Tokenize converts source text into a token stream.
// It fails with a LexError on malformed tokens, unterminated strings or
// templates, invalid escapes, and brace runs that open neither a dict nor
// a template.
func Tokenize(input string) ([]Token, error) {
	lx := &lexer{src: []rune(input), line: 1}

	var out []Token

	for {
		tok, err := lx.scan()
		if err != nil {
			return nil, err
		}

		out = append(out, tok)

		if tok.Kind == KindEOF {
			return out, nil
		}
	}
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}

	return lx.src[lx.pos]
}

func (lx *lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}

	return lx.src[lx.pos+offset]
}

func (lx *lexer) next() rune {
	r := lx.src[lx.pos]
	lx.pos++

	if r == '\n' {
		lx.line++
	}

	return r
}

// accept consumes the next rune if it equals r.
func (lx *lexer) accept(r rune) bool {
	if !lx.eof() && lx.peek() == r {
		lx.next()

		return true
	}

	return false
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// scan returns the next token in the stream.
func (lx *lexer) scan() (Token, error) {
	for !lx.eof() {
		r := lx.peek()

		switch {
		case isSpace(r):
			lx.next()

			continue

		case r == '#':
			// Line comment.
			for !lx.eof() && lx.next() != '\n' {
			}

			continue
		}

		break
	}

	if lx.eof() {
		return Token{Kind: KindEOF, Line: lx.line}, nil
	}

	line := lx.line
	r := lx.peek()

	switch {
	case isIdentStart(r):
		return lx.scanIdent(line), nil

	case isDigit(r):
		return lx.scanNumber(line)

	case r == '"':
		lx.next()

		return lx.scanString(line)

	case r == '{':
		return lx.scanBrace(line)

	case r == '@':
		lx.next()

		return lx.scanPath(line)
	}

	lx.next()

	mk := func(k Kind) (Token, error) {
		return Token{Kind: k, Line: line}, nil
	}

	switch r {
	case '+':
		return mk(KindPlus)
	case '-':
		if lx.accept('>') {
			return mk(KindArrow)
		}

		return mk(KindMinus)
	case '*':
		return mk(KindStar)
	case '/':
		return mk(KindSlash)
	case '%':
		return mk(KindPercent)
	case '=':
		if lx.accept('=') {
			return mk(KindEqEq)
		}

		return mk(KindEq)
	case '!':
		if lx.accept('=') {
			return mk(KindBangEq)
		}

		return Token{}, lexErrorf(line, "unexpected character '!' (did you mean '!=' or 'not'?)")
	case '<':
		if lx.accept('=') {
			return mk(KindLessEq)
		}

		return mk(KindLess)
	case '>':
		if lx.accept('=') {
			return mk(KindGreaterEq)
		}

		return mk(KindGreater)
	case '&':
		if lx.accept('&') {
			return mk(KindAndAnd)
		}

		return Token{}, lexErrorf(line, "unexpected character '&' (did you mean '&&'?)")
	case '|':
		if lx.accept('|') {
			return mk(KindOrOr)
		}

		return Token{}, lexErrorf(line, "unexpected character '|' (did you mean '||'?)")
	case '.':
		if lx.accept('.') {
			return mk(KindDotDot)
		}

		return mk(KindDot)
	case ',':
		return mk(KindComma)
	case ':':
		return mk(KindColon)
	case '?':
		return mk(KindQuestion)
	case '(':
		return mk(KindLParen)
	case ')':
		return mk(KindRParen)
	case '[':
		return mk(KindLBracket)
	case ']':
		return mk(KindRBracket)
	case '}':
		return mk(KindRBrace)
	case '\\':
		return mk(KindLambda)
	}

	return Token{}, lexErrorf(line, "unexpected character %q", string(r))
}

func (lx *lexer) scanIdent(line int) Token {
	start := lx.pos
	for !lx.eof() && isIdentRune(lx.peek()) {
		lx.next()
	}

	name := string(lx.src[start:lx.pos])
	if name == "not" {
		return Token{Kind: KindNot, Line: line}
	}

	return Token{Kind: KindIdent, Text: name, Line: line}
}

func (lx *lexer) scanNumber(line int) (Token, error) {
	start := lx.pos
	for !lx.eof() && isDigit(lx.peek()) {
		lx.next()
	}

	// A '.' continues the number only when followed by a digit; otherwise
	// it is dot access or the range operator '..'.
	isFloat := false
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		isFloat = true

		lx.next()

		for !lx.eof() && isDigit(lx.peek()) {
			lx.next()
		}
	}

	// Optional exponent.
	if lx.peek() == 'e' || lx.peek() == 'E' {
		mark := lx.pos
		lx.next()

		lx.accept('+')
		lx.accept('-')

		if isDigit(lx.peek()) {
			isFloat = true
			for !lx.eof() && isDigit(lx.peek()) {
				lx.next()
			}
		} else {
			lx.pos = mark
		}
	}

	text := string(lx.src[start:lx.pos])

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, lexErrorf(line, "malformed number %q", text)
		}

		return Token{Kind: KindFloat, Float: f, Line: line}, nil
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, lexErrorf(line, "malformed number %q", text)
	}

	return Token{Kind: KindInt, Int: i, Line: line}, nil
}

// scanString scans a string literal body; the opening quote is consumed.
func (lx *lexer) scanString(line int) (Token, error) {
	var out []rune

	for {
		if lx.eof() {
			return Token{}, lexErrorf(line, "unterminated string")
		}

		r := lx.next()

		switch r {
		case '"':
			return Token{Kind: KindString, Text: string(out), Line: line}, nil

		case '\\':
			if lx.eof() {
				return Token{}, lexErrorf(line, "unterminated string (backslash at end)")
			}

			esc := lx.next()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				return Token{}, lexErrorf(line, "invalid escape sequence '\\%s' in string", string(esc))
			}

		default:
			out = append(out, r)
		}
	}
}

// scanBrace disambiguates dict literals from template literals.
// A run of k braces followed (after optional whitespace) by '"' opens a
// level-k template; a single brace otherwise is a dict opener; a longer
// run that opens no template is an unbalanced brace run.
func (lx *lexer) scanBrace(line int) (Token, error) {
	run := 0
	for lx.peek() == '{' {
		lx.next()
		run++
	}

	// Lookahead without consuming: skip whitespace and check for '"'.
	off := 0
	for isSpace(lx.peekAt(off)) {
		off++
	}

	if lx.peekAt(off) == '"' {
		// Consume the whitespace and quote, then chunk the body.
		for isSpace(lx.peek()) {
			lx.next()
		}

		lx.next() // '"'

		return lx.chunkTemplate(run, line)
	}

	if run > 1 {
		return Token{}, lexErrorf(line, "unbalanced brace run: %d opening braces not followed by '\"'", run)
	}

	return Token{Kind: KindLBrace, Line: line}, nil
}

// chunkTemplate splits the body of a level-k template into literal text
// and interpolated-expression chunks. The body ends at a '"' immediately
// followed by k closing braces; a quote followed by fewer braces is
// literal text. An opening run of m >= k braces starts an interpolation
// at its innermost k braces, emitting m-k literal braces first; runs
// shorter than k pass through unchanged.
func (lx *lexer) chunkTemplate(level, line int) (Token, error) {
	var (
		chunks []Chunk
		cur    []rune
	)

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, Chunk{Source: string(cur), Line: line})
			cur = nil
		}
	}

	for {
		if lx.eof() {
			return Token{}, lexErrorf(line, "unterminated template (missing '\"' followed by %d closing braces)", level)
		}

		r := lx.next()

		switch r {
		case '"':
			matched := 0
			for matched < level && lx.peek() == '}' {
				lx.next()
				matched++
			}

			if matched == level {
				flush()

				return Token{
					Kind:   KindTemplate,
					Chunks: chunks,
					Level:  level,
					Line:   line,
				}, nil
			}

			// Not a terminator: the quote and any braces consumed are
			// body text.
			cur = append(cur, '"')
			for range matched {
				cur = append(cur, '}')
			}

		case '{':
			run := 1
			for lx.peek() == '{' {
				lx.next()
				run++
			}

			if run < level {
				for range run {
					cur = append(cur, '{')
				}

				continue
			}

			// Escalation: the innermost k braces interpolate, the rest
			// are literal.
			for range run - level {
				cur = append(cur, '{')
			}

			flush()

			chunk, err := lx.chunkExpr(level, line)
			if err != nil {
				return Token{}, err
			}

			chunks = append(chunks, chunk)

		case '}':
			// Closing braces outside an interpolation are literal.
			cur = append(cur, '}')

		default:
			cur = append(cur, r)
		}
	}
}

// chunkExpr captures the raw source of one interpolated expression inside
// a level-k template. It ends at a run of k closing braces outside any
// nested template or string literal. Nested template literals within the
// expression are tracked so their delimiters do not terminate it.
func (lx *lexer) chunkExpr(level, line int) (Chunk, error) {
	exprLine := lx.line

	var (
		expr     []rune
		nested   []int // levels of nested templates still open
		inString bool
	)

	for {
		if lx.eof() {
			return Chunk{}, lexErrorf(line, "unexpected end of input inside template interpolation")
		}

		r := lx.next()

		if inString {
			expr = append(expr, r)

			switch r {
			case '\\':
				if !lx.eof() {
					expr = append(expr, lx.next())
				}
			case '"':
				inString = false
			}

			continue
		}

		switch r {
		case '"':
			if len(nested) == 0 {
				inString = true

				expr = append(expr, r)

				continue
			}

			// Possibly the closing quote of the innermost nested
			// template.
			want := nested[len(nested)-1]

			matched := 0
			for matched < want && lx.peek() == '}' {
				lx.next()
				matched++
			}

			expr = append(expr, '"')
			for range matched {
				expr = append(expr, '}')
			}

			if matched == want {
				nested = nested[:len(nested)-1]
			}

		case '{':
			run := 1
			for lx.peek() == '{' {
				lx.next()
				run++
			}

			for range run {
				expr = append(expr, '{')
			}

			// A brace run followed by '"' opens a nested template.
			off := 0
			for isSpace(lx.peekAt(off)) {
				off++
			}

			if lx.peekAt(off) == '"' {
				nested = append(nested, run)
			}

		case '}':
			run := 1
			for run < level && lx.peek() == '}' {
				lx.next()
				run++
			}

			if run == level && len(nested) == 0 {
				return Chunk{Source: string(expr), Line: exprLine, Expr: true}, nil
			}

			for range run {
				expr = append(expr, '}')
			}

		default:
			expr = append(expr, r)
		}
	}
}

// scanPath scans a path literal; the '@' sigil is consumed. The path ends
// at whitespace or a closing delimiter. Single-brace groups interpolate.
func (lx *lexer) scanPath(line int) (Token, error) {
	var (
		chunks []Chunk
		cur    []rune
	)

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, Chunk{Source: string(cur), Line: line})
			cur = nil
		}
	}

	first := true

	for {
		if lx.eof() {
			break
		}

		r := lx.peek()

		if isSpace(r) || r == ',' || r == ']' || r == ')' || r == '}' {
			break
		}

		if r == '{' {
			lx.next()
			flush()

			exprLine := lx.line

			var expr []rune

			for {
				if lx.eof() {
					return Token{}, lexErrorf(line, "unterminated interpolation in path literal")
				}

				c := lx.next()
				if c == '}' {
					break
				}

				expr = append(expr, c)
			}

			chunks = append(chunks, Chunk{Source: string(expr), Line: exprLine, Expr: true})
			first = false

			continue
		}

		lx.next()

		if first && r == '/' {
			return Token{}, lexErrorf(line,
				"absolute paths are not allowed: use a relative path and deploy with --root")
		}

		first = false

		cur = append(cur, r)
	}

	flush()

	return Token{Kind: KindPath, Chunks: chunks, Line: line}, nil
}
