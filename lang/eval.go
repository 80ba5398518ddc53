package lang

import (
	"math"
	"strings"
)

// DefaultMaxDepth bounds evaluation recursion so a deeply nested source
// expression cannot overflow the host stack.
const DefaultMaxDepth = 200

// Eval evaluates an expression in the given environment.
func Eval(expr Expr, env *Env) (Value, error) {
	ev := &evaluator{maxDepth: DefaultMaxDepth}

	return ev.eval(expr, env)
}

// Run parses source (reusing the parse cache) and evaluates it in a
// fresh environment.
func Run(src string) (Value, error) {
	expr, err := ParseSource(src)
	if err != nil {
		return nil, err
	}

	return Eval(expr, NewRootEnv())
}

type evaluator struct {
	depth    int
	maxDepth int
}

func (ev *evaluator) eval(expr Expr, env *Env) (Value, error) {
	ev.depth++
	defer func() { ev.depth-- }()

	if ev.depth > ev.maxDepth {
		return nil, NewError(ErrDepth, expr.Line(),
			"evaluation depth limit exceeded (max %d)", ev.maxDepth)
	}

	switch e := expr.(type) {
	case *NumberLit:
		if e.IsFloat {
			return FloatOf(e.Float), nil
		}

		return IntOf(e.Int), nil

	case *StringLit:
		return String{Value: e.Value}, nil

	case *BoolLit:
		return Bool{Value: e.Value}, nil

	case *NoneLit:
		return None{}, nil

	case *IdentExpr:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return nil, nameErrorf(e.Line(), "unknown symbol '%s'", e.Name)
		}

		// Zero-argument builtins run at lookup.
		if b, isBuiltin := v.(*Builtin); isBuiltin && b.Nullary != nil {
			r, err := b.Nullary()
			if err != nil {
				return nil, pushCall(err, b.Name)
			}

			return r, nil
		}

		return v, nil

	case *LambdaExpr:
		return ev.evalLambda(e, env)

	case *ApplyExpr:
		return ev.evalApply(e, env)

	case *LetExpr:
		return ev.evalLet(e, env)

	case *IfExpr:
		return ev.evalIf(e, env)

	case *ListExpr:
		items := make([]Value, len(e.Items))

		for i, item := range e.Items {
			v, err := ev.eval(item, env)
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		return List{Items: items}, nil

	case *RangeExpr:
		return ev.evalRange(e, env)

	case *DictExpr:
		dict := NewDict()

		for i, key := range e.Keys {
			v, err := ev.eval(e.Values[i], env)
			if err != nil {
				return nil, err
			}

			dict = dict.Set(key, v)
		}

		return dict, nil

	case *DotExpr:
		target, err := ev.eval(e.Target, env)
		if err != nil {
			return nil, err
		}

		dict, ok := target.(Dict)
		if !ok {
			return nil, typeErrorf(e.Line(), "expected Dict, found %s", target.Type())
		}

		v, ok := dict.Get(e.Key)
		if !ok {
			return nil, keyErrorf(e.Line(), "key '%s' not found", e.Key)
		}

		return v, nil

	case *BinaryExpr:
		return ev.evalBinary(e, env)

	case *UnaryExpr:
		return ev.evalUnary(e, env)

	case *PipeExpr:
		return ev.evalPipe(e, env)

	case *TemplateExpr:
		s, err := ev.renderTemplate(e, env)
		if err != nil {
			return nil, err
		}

		return String{Value: s}, nil

	case *PathExpr:
		s, err := ev.renderSegments(e.Segments, env)
		if err != nil {
			return nil, err
		}

		if err := validatePath(s, e.Line()); err != nil {
			return nil, err
		}

		return Path{Value: s}, nil

	case *FileTemplateExpr:
		return ev.evalFileTemplate(e, env)

	default:
		return nil, NewError(ErrType, expr.Line(), "cannot evaluate expression")
	}
}

func (ev *evaluator) evalLambda(e *LambdaExpr, env *Env) (Value, error) {
	cl := &Closure{Param: e.Param, Body: e.Body, Env: env}

	// The default value is fixed at closure creation, in the defining
	// environment.
	if e.Default != nil {
		def, err := ev.eval(e.Default, env)
		if err != nil {
			return nil, err
		}

		cl.Default = def
	}

	return cl, nil
}

func (ev *evaluator) evalApply(e *ApplyExpr, env *Env) (Value, error) {
	fn, err := ev.eval(e.Fn, env)
	if err != nil {
		return nil, err
	}

	arg, err := ev.eval(e.Arg, env)
	if err != nil {
		return nil, err
	}

	return ev.apply(fn, arg, e.Line())
}

// apply invokes a function value with one argument. Errors raised inside
// a named function are prefixed with its name as they unwind.
func (ev *evaluator) apply(fn, arg Value, line int) (Value, error) {
	switch f := fn.(type) {
	case *Closure:
		if f.Default != nil {
			if _, isNone := arg.(None); isNone {
				arg = f.Default
			}
		}

		v, err := ev.eval(f.Body, f.Env.Extend(f.Param, arg))
		if err != nil {
			return nil, pushCall(err, f.Name)
		}

		return v, nil

	case *Builtin:
		v, err := f.Fn(arg)
		if err != nil {
			return nil, pushCall(err, f.Name)
		}

		return v, nil

	default:
		return nil, typeErrorf(line, "cannot call %s, expected Function", fn.Type())
	}
}

// pushCall prefixes a named call site onto an unwinding error's chain.
func pushCall(err error, name string) error {
	if name == "" {
		return err
	}

	e, ok := err.(*Error)
	if !ok {
		return err
	}

	return e.PushCall(name)
}

func (ev *evaluator) evalLet(e *LetExpr, env *Env) (Value, error) {
	// '_' may be rebound freely; every other name binds at most once
	// anywhere in the chain.
	if e.Name != "_" && env.Bound(e.Name) {
		return nil, nameErrorf(e.Line(),
			"'%s' is already bound and cannot be shadowed", e.Name)
	}

	// The bound expression is evaluated without the new name in scope,
	// so a definition can never reference itself.
	bound, err := ev.eval(e.Bound, env)
	if err != nil {
		return nil, err
	}

	// Closures carry the name they were bound under for error chains.
	if cl, ok := bound.(*Closure); ok && cl.Name == "" {
		named := *cl
		named.Name = e.Name
		bound = &named
	}

	if e.Body == nil {
		// Bare session binding: the value is the result.
		return bound, nil
	}

	return ev.eval(e.Body, env.Extend(e.Name, bound))
}

func (ev *evaluator) evalIf(e *IfExpr, env *Env) (Value, error) {
	cond, err := ev.eval(e.Cond, env)
	if err != nil {
		return nil, err
	}

	b, ok := truth(cond)
	if !ok {
		return nil, typeErrorf(e.Line(), "if condition must be Bool, found %s", cond.Type())
	}

	if b {
		return ev.eval(e.Then, env)
	}

	return ev.eval(e.Else, env)
}

func (ev *evaluator) evalPipe(e *PipeExpr, env *Env) (Value, error) {
	acc, err := ev.eval(e.Stages[0], env)
	if err != nil {
		return nil, err
	}

	for _, stage := range e.Stages[1:] {
		fn, err := ev.eval(stage, env)
		if err != nil {
			return nil, err
		}

		acc, err = ev.apply(fn, acc, stage.Line())
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

// evalRange expands [start..end] and [start, second..end] into a list.
// The stride is second-start when a second element is given, otherwise 1
// toward end. Ranges are inclusive of end when the stride lands on it.
func (ev *evaluator) evalRange(e *RangeExpr, env *Env) (Value, error) {
	start, err := ev.rangeBound(e.Start, env)
	if err != nil {
		return nil, err
	}

	end, err := ev.rangeBound(e.End, env)
	if err != nil {
		return nil, err
	}

	step := int64(1)
	if end < start {
		step = -1
	}

	if e.Second != nil {
		second, err := ev.rangeBound(e.Second, env)
		if err != nil {
			return nil, err
		}

		step = second - start
		if step == 0 {
			return nil, valueErrorf(e.Line(), "range stride must not be zero")
		}
	}

	var items []Value

	if step > 0 {
		for i := start; i <= end; i += step {
			items = append(items, IntOf(i))
		}
	} else {
		for i := start; i >= end; i += step {
			items = append(items, IntOf(i))
		}
	}

	return List{Items: items}, nil
}

func (ev *evaluator) rangeBound(expr Expr, env *Env) (int64, error) {
	v, err := ev.eval(expr, env)
	if err != nil {
		return 0, err
	}

	n, ok := v.(Number)
	if !ok || n.IsFloat {
		return 0, typeErrorf(expr.Line(), "range bounds must be integers, found %s", v.Type())
	}

	return n.Int, nil
}

func (ev *evaluator) evalUnary(e *UnaryExpr, env *Env) (Value, error) {
	v, err := ev.eval(e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case KindNot:
		b, ok := truth(v)
		if !ok {
			err := typeErrorf(e.Line(), "expected Bool, found %s", v.Type())

			return nil, err.PushCall("not")
		}

		return Bool{Value: !b}, nil

	case KindMinus:
		n, ok := v.(Number)
		if !ok {
			err := typeErrorf(e.Line(), "expected Number, found %s", v.Type())

			return nil, err.PushCall("-")
		}

		if n.IsFloat {
			return FloatOf(-n.Float), nil
		}

		return IntOf(-n.Int), nil
	}

	return nil, typeErrorf(e.Line(), "unknown unary operator %s", e.Op)
}

func (ev *evaluator) evalBinary(e *BinaryExpr, env *Env) (Value, error) {
	lhs, err := ev.eval(e.LHS, env)
	if err != nil {
		return nil, err
	}

	// '&&' and '||' short-circuit.
	if e.Op == KindAndAnd || e.Op == KindOrOr {
		return ev.evalLogical(e, lhs, env)
	}

	rhs, err := ev.eval(e.RHS, env)
	if err != nil {
		return nil, err
	}

	v, err := binaryOp(e.Op, lhs, rhs, e.Line())
	if err != nil {
		return nil, pushCall(err, e.Op.String())
	}

	return v, nil
}

func (ev *evaluator) evalLogical(e *BinaryExpr, lhs Value, env *Env) (Value, error) {
	lb, ok := truth(lhs)
	if !ok {
		err := typeErrorf(e.Line(), "expected Bool, found %s", lhs.Type())

		return nil, err.PushCall(e.Op.String())
	}

	if e.Op == KindAndAnd && !lb {
		return Bool{Value: false}, nil
	}

	if e.Op == KindOrOr && lb {
		return Bool{Value: true}, nil
	}

	rhs, err := ev.eval(e.RHS, env)
	if err != nil {
		return nil, err
	}

	rb, ok := truth(rhs)
	if !ok {
		err := typeErrorf(e.Line(), "expected Bool, found %s", rhs.Type())

		return nil, err.PushCall(e.Op.String())
	}

	return Bool{Value: rb}, nil
}

// binaryOp dispatches an infix operator over a pair of values. There is
// no implicit coercion: every unsupported pairing is a TypeError.
func binaryOp(op Kind, lhs, rhs Value, line int) (Value, error) {
	switch op {
	case KindEqEq:
		return Bool{Value: valuesEqual(lhs, rhs)}, nil

	case KindBangEq:
		return Bool{Value: !valuesEqual(lhs, rhs)}, nil

	case KindPlus:
		return addValues(lhs, rhs, line)

	case KindMinus, KindStar, KindSlash, KindPercent:
		return arithmetic(op, lhs, rhs, line)

	case KindLess, KindLessEq, KindGreater, KindGreaterEq:
		return compareValues(op, lhs, rhs, line)
	}

	return nil, typeErrorf(line, "unknown operator %s", op)
}

// addValues implements '+': numeric addition, string concatenation, list
// concatenation, and path joining.
func addValues(lhs, rhs Value, line int) (Value, error) {
	switch l := lhs.(type) {
	case Number:
		r, ok := rhs.(Number)
		if !ok {
			return nil, typeErrorf(line, "expected Number, found %s", rhs.Type())
		}

		if l.IsFloat || r.IsFloat {
			return FloatOf(l.AsFloat() + r.AsFloat()), nil
		}

		return IntOf(l.Int + r.Int), nil

	case String:
		r, ok := rhs.(String)
		if !ok {
			return nil, typeErrorf(line, "expected String, found %s", rhs.Type())
		}

		return String{Value: l.Value + r.Value}, nil

	case List:
		r, ok := rhs.(List)
		if !ok {
			return nil, typeErrorf(line, "expected List, found %s", rhs.Type())
		}

		items := make([]Value, 0, len(l.Items)+len(r.Items))
		items = append(items, l.Items...)
		items = append(items, r.Items...)

		return List{Items: items}, nil

	case Path:
		r, ok := rhs.(Path)
		if !ok {
			s, sok := rhs.(String)
			if !sok {
				return nil, typeErrorf(line, "expected Path or String, found %s", rhs.Type())
			}

			r = Path{Value: s.Value}
		}

		return Path{Value: joinPath(l.Value, r.Value)}, nil

	default:
		return nil, typeErrorf(line, "cannot add %s and %s", lhs.Type(), rhs.Type())
	}
}

func joinPath(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case strings.HasSuffix(a, "/"):
		return a + strings.TrimPrefix(b, "/")
	default:
		return a + "/" + strings.TrimPrefix(b, "/")
	}
}

// arithmetic implements '-', '*', '/', and '%' over numbers. Two integer
// operands stay integral except for inexact division, which promotes to
// float.
func arithmetic(op Kind, lhs, rhs Value, line int) (Value, error) {
	l, ok := lhs.(Number)
	if !ok {
		return nil, typeErrorf(line, "expected Number, found %s", lhs.Type())
	}

	r, ok := rhs.(Number)
	if !ok {
		return nil, typeErrorf(line, "expected Number, found %s", rhs.Type())
	}

	if l.IsFloat || r.IsFloat {
		lf, rf := l.AsFloat(), r.AsFloat()

		switch op {
		case KindMinus:
			return FloatOf(lf - rf), nil
		case KindStar:
			return FloatOf(lf * rf), nil
		case KindSlash:
			if rf == 0 {
				return nil, valueErrorf(line, "division by zero")
			}

			return FloatOf(lf / rf), nil
		case KindPercent:
			if rf == 0 {
				return nil, valueErrorf(line, "modulo by zero")
			}

			return FloatOf(math.Mod(lf, rf)), nil
		}
	}

	switch op {
	case KindMinus:
		return IntOf(l.Int - r.Int), nil
	case KindStar:
		return IntOf(l.Int * r.Int), nil
	case KindSlash:
		if r.Int == 0 {
			return nil, valueErrorf(line, "division by zero")
		}

		if l.Int%r.Int == 0 {
			return IntOf(l.Int / r.Int), nil
		}

		return FloatOf(float64(l.Int) / float64(r.Int)), nil
	case KindPercent:
		if r.Int == 0 {
			return nil, valueErrorf(line, "modulo by zero")
		}

		return IntOf(l.Int % r.Int), nil
	}

	return nil, typeErrorf(line, "unknown operator %s", op)
}

// compareValues implements ordering, defined only for Number/Number and
// String/String.
func compareValues(op Kind, lhs, rhs Value, line int) (Value, error) {
	var cmp int

	switch l := lhs.(type) {
	case Number:
		r, ok := rhs.(Number)
		if !ok {
			return nil, typeErrorf(line, "expected Number, found %s", rhs.Type())
		}

		lf, rf := l.AsFloat(), r.AsFloat()

		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}

	case String:
		r, ok := rhs.(String)
		if !ok {
			return nil, typeErrorf(line, "expected String, found %s", rhs.Type())
		}

		cmp = strings.Compare(l.Value, r.Value)

	default:
		return nil, typeErrorf(line, "cannot order %s and %s", lhs.Type(), rhs.Type())
	}

	switch op {
	case KindLess:
		return Bool{Value: cmp < 0}, nil
	case KindLessEq:
		return Bool{Value: cmp <= 0}, nil
	case KindGreater:
		return Bool{Value: cmp > 0}, nil
	default:
		return Bool{Value: cmp >= 0}, nil
	}
}

// validatePath rejects traversal components so rendered paths stay inside
// the deployment root.
func validatePath(path string, line int) error {
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return valueErrorf(line, "path traversal not allowed: %s", path)
		}
	}

	return nil
}

func (ev *evaluator) evalFileTemplate(e *FileTemplateExpr, env *Env) (Value, error) {
	path, err := ev.renderSegments(e.Path.Segments, env)
	if err != nil {
		return nil, err
	}

	if err := validatePath(path, e.Line()); err != nil {
		return nil, err
	}

	content, err := ev.renderTemplate(e.Content, env)
	if err != nil {
		return nil, err
	}

	return FileTemplate{Path: path, Content: content}, nil
}
