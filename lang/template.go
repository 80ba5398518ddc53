package lang

import "strings"

// renderTemplate renders a template's segments against the ambient
// environment and strips common indentation from the result.
func (ev *evaluator) renderTemplate(t *TemplateExpr, env *Env) (string, error) {
	raw, err := ev.renderSegments(t.Segments, env)
	if err != nil {
		return "", err
	}

	return Dedent(raw), nil
}

// renderSegments evaluates each embedded expression and splices its
// interpolated form between the literal pieces. The indentation of the
// line an interpolation starts on carries over to every line the
// substituted value adds, so multi-line values stay aligned.
func (ev *evaluator) renderSegments(segs []Segment, env *Env) (string, error) {
	var out strings.Builder

	for _, seg := range segs {
		if seg.Expr == nil {
			out.WriteString(seg.Text)

			continue
		}

		v, err := ev.eval(seg.Expr, env)
		if err != nil {
			return "", shiftSegmentLine(err, seg.Line)
		}

		out.WriteString(Interpolate(v, currentIndent(out.String())))
	}

	return out.String(), nil
}

// currentIndent returns the leading whitespace of the last line written
// so far.
func currentIndent(written string) string {
	line := written
	if i := strings.LastIndexByte(written, '\n'); i >= 0 {
		line = written[i+1:]
	}

	end := 0

	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}

		end++
	}

	return line[:end]
}

// shiftSegmentLine rebases an embedded expression's error line onto the
// segment's position in the enclosing source.
func shiftSegmentLine(err error, base int) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}

	if e.Line <= 1 {
		e.Line = base
	}

	return e
}
