package lang

import (
	"strconv"
	"strings"
)

// Operator tiers, loosest binding first. An operand whose own tier is
// below the position's minimum gets parenthesized.
const (
	precLowest  = iota // let, if, lambda
	precPipe           // ->
	precOr             // ||
	precAnd            // &&
	precCompare        // == != < <= > >=
	precAdd            // + -
	precMul            // * / %
	precUnary          // not, unary -
	precApply          // juxtaposition
	precPostfix        // dot access
	precAtom
)

// Format renders an expression in canonical form: one space around
// binary operators, minimal parentheses, and literal bodies of
// templates and paths emitted verbatim. Formatting then reparsing
// yields an equivalent tree.
func Format(expr Expr) string {
	var b strings.Builder

	formatExpr(&b, expr, precLowest)

	return b.String()
}

func exprPrec(expr Expr) int {
	switch x := expr.(type) {
	case *LetExpr, *IfExpr, *LambdaExpr:
		return precLowest
	case *PipeExpr:
		return precPipe
	case *BinaryExpr:
		return binaryPrec(x.Op)
	case *UnaryExpr:
		return precUnary
	case *ApplyExpr:
		return precApply
	case *DotExpr:
		return precPostfix
	default:
		return precAtom
	}
}

func binaryPrec(op Kind) int {
	switch op {
	case KindOrOr:
		return precOr
	case KindAndAnd:
		return precAnd
	case KindEqEq, KindBangEq, KindLess, KindLessEq, KindGreater, KindGreaterEq:
		return precCompare
	case KindPlus, KindMinus:
		return precAdd
	default:
		return precMul
	}
}

func formatExpr(b *strings.Builder, expr Expr, min int) {
	if exprPrec(expr) < min {
		b.WriteByte('(')
		formatExpr(b, expr, precLowest)
		b.WriteByte(')')

		return
	}

	switch x := expr.(type) {
	case *NumberLit:
		if x.IsFloat {
			b.WriteString(formatFloat(x.Float))
		} else {
			b.WriteString(strconv.FormatInt(x.Int, 10))
		}

	case *StringLit:
		writeQuoted(b, x.Value)

	case *BoolLit:
		if x.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}

	case *NoneLit:
		b.WriteString("none")

	case *IdentExpr:
		b.WriteString(x.Name)

	case *LambdaExpr:
		b.WriteByte('\\')
		b.WriteString(x.Param)

		if x.Default != nil {
			b.WriteString(" ? ")
			formatExpr(b, x.Default, precPostfix)
		}

		b.WriteByte(' ')
		formatExpr(b, x.Body, precLowest)

	case *ApplyExpr:
		formatExpr(b, x.Fn, precApply)
		b.WriteByte(' ')
		formatExpr(b, x.Arg, precPostfix)

	case *LetExpr:
		b.WriteString("let ")
		b.WriteString(x.Name)
		b.WriteString(" = ")
		formatExpr(b, x.Bound, precLowest)

		if x.Body != nil {
			b.WriteString(" in ")
			formatExpr(b, x.Body, precLowest)
		}

	case *IfExpr:
		b.WriteString("if ")
		formatExpr(b, x.Cond, precLowest)
		b.WriteString(" then ")
		formatExpr(b, x.Then, precLowest)
		b.WriteString(" else ")
		formatExpr(b, x.Else, precLowest)

	case *ListExpr:
		b.WriteByte('[')

		for i, item := range x.Items {
			if i > 0 {
				b.WriteString(", ")
			}

			formatExpr(b, item, precLowest)
		}

		b.WriteByte(']')

	case *RangeExpr:
		b.WriteByte('[')
		formatExpr(b, x.Start, precLowest)

		if x.Second != nil {
			b.WriteString(", ")
			formatExpr(b, x.Second, precLowest)
		}

		b.WriteString("..")
		formatExpr(b, x.End, precLowest)
		b.WriteByte(']')

	case *DictExpr:
		b.WriteByte('{')

		for i, key := range x.Keys {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(key)
			b.WriteString(": ")
			formatExpr(b, x.Values[i], precLowest)
		}

		b.WriteByte('}')

	case *DotExpr:
		formatExpr(b, x.Target, precPostfix)
		b.WriteByte('.')
		b.WriteString(x.Key)

	case *BinaryExpr:
		prec := binaryPrec(x.Op)

		formatExpr(b, x.LHS, prec)
		b.WriteByte(' ')
		b.WriteString(x.Op.String())
		b.WriteByte(' ')
		formatExpr(b, x.RHS, prec+1)

	case *UnaryExpr:
		if x.Op == KindNot {
			b.WriteString("not ")
		} else {
			b.WriteByte('-')
		}

		formatExpr(b, x.Operand, precUnary)

	case *PipeExpr:
		for i, stage := range x.Stages {
			if i > 0 {
				b.WriteString(" -> ")
			}

			// Only the final stage may be an undelimited lambda,
			// conditional, or let; earlier ones would swallow the
			// rest of the pipeline.
			if i == len(x.Stages)-1 {
				formatExpr(b, stage, precLowest)
			} else {
				formatExpr(b, stage, precOr)
			}
		}

	case *TemplateExpr:
		formatTemplate(b, x)

	case *PathExpr:
		formatPath(b, x)

	case *FileTemplateExpr:
		formatPath(b, x.Path)
		b.WriteByte(' ')
		formatTemplate(b, x.Content)
	}
}

// formatTemplate re-emits a template at its original brace level.
// Literal text round-trips verbatim: the lexer guarantees any brace
// run at or above the level sits immediately before an interpolation,
// where the level-length delimiters re-create the original run.
func formatTemplate(b *strings.Builder, t *TemplateExpr) {
	open := strings.Repeat("{", t.Level)
	shut := strings.Repeat("}", t.Level)

	b.WriteString(open)
	b.WriteByte('"')

	for _, seg := range t.Segments {
		if seg.Expr == nil {
			b.WriteString(seg.Text)

			continue
		}

		b.WriteString(open)
		formatExpr(b, seg.Expr, precLowest)
		b.WriteString(shut)
	}

	b.WriteByte('"')
	b.WriteString(shut)
}

func formatPath(b *strings.Builder, p *PathExpr) {
	b.WriteByte('@')

	for _, seg := range p.Segments {
		if seg.Expr == nil {
			b.WriteString(seg.Text)

			continue
		}

		b.WriteByte('{')
		formatExpr(b, seg.Expr, precLowest)
		b.WriteByte('}')
	}
}

// writeQuoted emits a string literal using the escape sequences the
// lexer accepts.
func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')
}
