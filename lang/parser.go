package lang

// parser is a recursive-descent parser over a token stream.
//
// Precedence, lowest to highest: let/if/lambda prefix forms, pipe '->',
// '||', '&&', comparison, additive, multiplicative, unary 'not' and '-',
// application by juxtaposition, dot access, atoms.
type parser struct {
	toks        []Token
	pos         int
	interactive bool
}

// Parse builds a syntax tree from a token stream. A 'let' without a
// matching 'in' is a ParseError.
func Parse(toks []Token) (Expr, error) {
	return parse(toks, false)
}

// ParseInteractive is Parse for REPL input: a top-level 'let name = E'
// with no 'in' clause parses to a LetExpr with a nil Body, which the
// session interprets as a persistent binding.
func ParseInteractive(toks []Token) (Expr, error) {
	return parse(toks, true)
}

func parse(toks []Token, interactive bool) (Expr, error) {
	p := &parser{toks: toks, interactive: interactive}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Kind != KindEOF {
		return nil, parseErrorf(tok.Line, "unexpected %s after expression", tok)
	}

	return expr, nil
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != KindEOF {
		p.pos++
	}

	return tok
}

// keyword reports whether the next token is the given keyword.
func (p *parser) keyword(name string) bool {
	tok := p.peek()

	return tok.Kind == KindIdent && tok.Text == name
}

// expectKeyword consumes the given keyword or fails.
func (p *parser) expectKeyword(name string) error {
	if !p.keyword(name) {
		return parseErrorf(p.peek().Line, "expected '%s', found %s", name, p.peek())
	}

	p.next()

	return nil
}

func (p *parser) expect(kind Kind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, parseErrorf(tok.Line, "expected '%s', found %s", kind, tok)
	}

	return p.next(), nil
}

// reserved names that can never be identifiers in expression position.
func isReserved(name string) bool {
	switch name {
	case "let", "in", "if", "then", "else":
		return true
	default:
		return false
	}
}

// parseExpr parses a full expression, handling the prefix forms that
// extend to the end of the expression.
func (p *parser) parseExpr() (Expr, error) {
	switch {
	case p.keyword("let"):
		return p.parseLet()
	case p.keyword("if"):
		return p.parseIf()
	case p.peek().Kind == KindLambda:
		return p.parseLambda()
	}

	return p.parsePipe()
}

func (p *parser) parseLet() (Expr, error) {
	line := p.next().Line // 'let'

	nameTok := p.peek()
	if nameTok.Kind != KindIdent || isReserved(nameTok.Text) {
		return nil, parseErrorf(nameTok.Line, "expected identifier after 'let', found %s", nameTok)
	}

	p.next()

	if _, err := p.expect(KindEq); err != nil {
		return nil, err
	}

	bound, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.interactive && p.peek().Kind == KindEOF {
		// Bare session binding.
		return &LetExpr{node: at(line), Name: nameTok.Text, Bound: bound}, nil
	}

	if err := p.expectKeyword("in"); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &LetExpr{node: at(line), Name: nameTok.Text, Bound: bound, Body: body}, nil
}

func (p *parser) parseIf() (Expr, error) {
	line := p.next().Line // 'if'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}

	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword("else"); err != nil {
		return nil, err
	}

	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &IfExpr{node: at(line), Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) parseLambda() (Expr, error) {
	line := p.next().Line // '\'

	nameTok := p.peek()
	if nameTok.Kind != KindIdent || isReserved(nameTok.Text) {
		return nil, parseErrorf(nameTok.Line, "expected parameter name after '\\', found %s", nameTok)
	}

	p.next()

	var def Expr

	if p.peek().Kind == KindQuestion {
		p.next()

		var err error

		def, err = p.parseDefault()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &LambdaExpr{node: at(line), Param: nameTok.Text, Default: def, Body: body}, nil
}

// parseDefault parses a lambda default value. It is limited to a single
// operand so the body can follow without a delimiter; compound defaults
// take parentheses.
func (p *parser) parseDefault() (Expr, error) {
	switch p.peek().Kind {
	case KindNot, KindMinus:
		op := p.next()

		operand, err := p.parseDefault()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{node: at(op.Line), Op: op.Kind, Operand: operand}, nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePipe() (Expr, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	return p.parsePipeSuffix(lhs)
}

// parsePipeSuffix parses any '->' stages following an already-parsed
// first stage.
func (p *parser) parsePipeSuffix(lhs Expr) (Expr, error) {
	if p.peek().Kind != KindArrow {
		return lhs, nil
	}

	stages := []Expr{lhs}

	for p.peek().Kind == KindArrow {
		p.next()

		var (
			stage Expr
			err   error
		)

		// A lambda or conditional on the right of '->' extends to the
		// end of the expression.
		if p.peek().Kind == KindLambda || p.keyword("let") || p.keyword("if") {
			stage, err = p.parseExpr()
		} else {
			stage, err = p.parseOr()
		}

		if err != nil {
			return nil, err
		}

		stages = append(stages, stage)
	}

	return &PipeExpr{node: at(lhs.Line()), Stages: stages}, nil
}

func (p *parser) parseOr() (Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == KindOrOr {
		line := p.next().Line

		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{node: at(line), Op: KindOrOr, LHS: lhs, RHS: rhs}
	}

	return lhs, nil
}

func (p *parser) parseAnd() (Expr, error) {
	lhs, err := p.parseCompare()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == KindAndAnd {
		line := p.next().Line

		rhs, err := p.parseCompare()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{node: at(line), Op: KindAndAnd, LHS: lhs, RHS: rhs}
	}

	return lhs, nil
}

func isCompareOp(k Kind) bool {
	switch k {
	case KindEqEq, KindBangEq, KindLess, KindLessEq, KindGreater, KindGreaterEq:
		return true
	default:
		return false
	}
}

func (p *parser) parseCompare() (Expr, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for isCompareOp(p.peek().Kind) {
		op := p.next()

		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{node: at(op.Line), Op: op.Kind, LHS: lhs, RHS: rhs}
	}

	return lhs, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == KindPlus || p.peek().Kind == KindMinus {
		op := p.next()

		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{node: at(op.Line), Op: op.Kind, LHS: lhs, RHS: rhs}
	}

	return lhs, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == KindStar || p.peek().Kind == KindSlash || p.peek().Kind == KindPercent {
		op := p.next()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{node: at(op.Line), Op: op.Kind, LHS: lhs, RHS: rhs}
	}

	return lhs, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().Kind {
	case KindNot:
		line := p.next().Line

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{node: at(line), Op: KindNot, Operand: operand}, nil

	case KindMinus:
		line := p.next().Line

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{node: at(line), Op: KindMinus, Operand: operand}, nil
	}

	return p.parseApply()
}

// startsArgument reports whether the next token can begin an application
// argument.
func (p *parser) startsArgument() bool {
	tok := p.peek()

	switch tok.Kind {
	case KindInt, KindFloat, KindString, KindTemplate, KindPath,
		KindLParen, KindLBracket, KindLBrace:
		return true
	case KindIdent:
		return !isReserved(tok.Text)
	default:
		return false
	}
}

func (p *parser) parseApply() (Expr, error) {
	lhs, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	for p.startsArgument() {
		arg, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}

		lhs = &ApplyExpr{node: at(lhs.Line()), Fn: lhs, Arg: arg}
	}

	return lhs, nil
}

func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == KindDot {
		line := p.next().Line

		if p.peek().Kind != KindIdent {
			return nil, parseErrorf(line, "expected field name after '.', found %s", p.peek())
		}

		field := p.next()

		expr = &DotExpr{node: at(line), Target: expr, Key: field.Text}
	}

	return expr, nil
}

func (p *parser) parseAtom() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case KindInt:
		p.next()

		return &NumberLit{node: at(tok.Line), Int: tok.Int}, nil

	case KindFloat:
		p.next()

		return &NumberLit{node: at(tok.Line), IsFloat: true, Float: tok.Float}, nil

	case KindString:
		p.next()

		return &StringLit{node: at(tok.Line), Value: tok.Text}, nil

	case KindIdent:
		switch tok.Text {
		case "true":
			p.next()

			return &BoolLit{node: at(tok.Line), Value: true}, nil
		case "false":
			p.next()

			return &BoolLit{node: at(tok.Line), Value: false}, nil
		case "none":
			p.next()

			return &NoneLit{node: at(tok.Line)}, nil
		}

		if isReserved(tok.Text) {
			return nil, parseErrorf(tok.Line, "unexpected keyword '%s'", tok.Text)
		}

		p.next()

		return &IdentExpr{node: at(tok.Line), Name: tok.Text}, nil

	case KindTemplate:
		p.next()

		segs, err := parseChunks(tok.Chunks)
		if err != nil {
			return nil, err
		}

		return &TemplateExpr{node: at(tok.Line), Level: tok.Level, Segments: segs}, nil

	case KindPath:
		p.next()

		segs, err := parseChunks(tok.Chunks)
		if err != nil {
			return nil, err
		}

		path := &PathExpr{node: at(tok.Line), Segments: segs}

		// A path immediately followed by a template is a file template.
		if p.peek().Kind == KindTemplate {
			tmplTok := p.next()

			tmplSegs, err := parseChunks(tmplTok.Chunks)
			if err != nil {
				return nil, err
			}

			tmpl := &TemplateExpr{node: at(tmplTok.Line), Level: tmplTok.Level, Segments: tmplSegs}

			return &FileTemplateExpr{node: at(tok.Line), Path: path, Content: tmpl}, nil
		}

		return path, nil

	case KindLParen:
		p.next()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindRParen); err != nil {
			return nil, err
		}

		return expr, nil

	case KindLBracket:
		return p.parseListOrRange()

	case KindLBrace:
		return p.parseDict()
	}

	return nil, parseErrorf(tok.Line, "unexpected %s", tok)
}

// parseListOrRange parses '[a, b, c]', '[a..b]', and '[a, b..c]'.
func (p *parser) parseListOrRange() (Expr, error) {
	open := p.next() // '['

	if p.peek().Kind == KindRBracket {
		p.next()

		return &ListExpr{node: at(open.Line)}, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	switch p.peek().Kind {
	case KindDotDot:
		p.next()

		end, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindRBracket); err != nil {
			return nil, err
		}

		return &RangeExpr{node: at(open.Line), Start: first, End: end}, nil

	case KindRBracket:
		p.next()

		return &ListExpr{node: at(open.Line), Items: []Expr{first}}, nil

	case KindComma:
		p.next()

		// Trailing comma on a single-element list.
		if p.peek().Kind == KindRBracket {
			p.next()

			return &ListExpr{node: at(open.Line), Items: []Expr{first}}, nil
		}

		second, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if p.peek().Kind == KindDotDot {
			p.next()

			end, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(KindRBracket); err != nil {
				return nil, err
			}

			return &RangeExpr{node: at(open.Line), Start: first, Second: second, End: end}, nil
		}

		items := []Expr{first, second}

		for p.peek().Kind == KindComma {
			p.next()

			if p.peek().Kind == KindRBracket {
				break
			}

			item, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			items = append(items, item)
		}

		if _, err := p.expect(KindRBracket); err != nil {
			return nil, err
		}

		return &ListExpr{node: at(open.Line), Items: items}, nil

	default:
		return nil, parseErrorf(p.peek().Line,
			"expected ',', '..', or ']' after list element, found %s", p.peek())
	}
}

// parseDict parses '{key: value, ...}' with identifier keys.
func (p *parser) parseDict() (Expr, error) {
	open := p.next() // '{'

	dict := &DictExpr{node: at(open.Line)}

	for {
		if p.peek().Kind == KindRBrace {
			p.next()

			return dict, nil
		}

		key, err := p.expect(KindIdent)
		if err != nil {
			return nil, parseErrorf(p.peek().Line, "expected identifier as dict key, found %s", p.peek())
		}

		if _, err := p.expect(KindColon); err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		dict.Keys = append(dict.Keys, key.Text)
		dict.Values = append(dict.Values, value)

		switch p.peek().Kind {
		case KindComma:
			p.next()
		case KindRBrace:
		default:
			return nil, parseErrorf(p.peek().Line,
				"expected ',' or '}' in dict literal, found %s", p.peek())
		}
	}
}

// parseChunks converts the raw chunks of a template or path literal into
// segments, parsing each interpolated expression with the full parser.
// Error lines inside a chunk are shifted to the chunk's position in the
// enclosing source.
func parseChunks(chunks []Chunk) ([]Segment, error) {
	segs := make([]Segment, 0, len(chunks))

	for _, c := range chunks {
		if !c.Expr {
			segs = append(segs, Segment{Text: c.Source, Line: c.Line})

			continue
		}

		expr, err := parseEmbedded(c.Source, c.Line)
		if err != nil {
			return nil, err
		}

		segs = append(segs, Segment{Expr: expr, Line: c.Line})
	}

	return segs, nil
}

// parseEmbedded lexes and parses one embedded expression.
func parseEmbedded(source string, line int) (Expr, error) {
	toks, err := Tokenize(source)
	if err != nil {
		return nil, shiftLine(err, line)
	}

	expr, perr := Parse(toks)
	if perr != nil {
		return nil, shiftLine(perr, line)
	}

	return expr, nil
}

// shiftLine rebases an error's line from chunk-relative to absolute.
func shiftLine(err error, base int) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}

	if e.Line <= 1 {
		e.Line = base
	} else {
		e.Line = base + e.Line - 1
	}

	return e
}
