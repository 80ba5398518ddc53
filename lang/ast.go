package lang

// Expr is a node of the syntax tree. Every node records the source line
// it began on for error reporting.
type Expr interface {
	Line() int
	exprNode()
}

type node struct{ line int }

func (n node) Line() int { return n.line }
func (node) exprNode()   {}

// NumberLit is an integer or float literal.
type NumberLit struct {
	node
	IsFloat bool
	Int     int64
	Float   float64
}

// StringLit is a quoted string literal.
type StringLit struct {
	node
	Value string
}

// BoolLit is 'true' or 'false'.
type BoolLit struct {
	node
	Value bool
}

// NoneLit is the 'none' literal.
type NoneLit struct {
	node
}

// IdentExpr is a variable reference.
type IdentExpr struct {
	node
	Name string
}

// LambdaExpr is a single-parameter function literal. Multi-parameter
// lambdas in source parse to nested LambdaExprs. Default, when non-nil,
// supplies the argument when the function is applied to none.
type LambdaExpr struct {
	node
	Param   string
	Default Expr
	Body    Expr
}

// ApplyExpr applies a function to one argument. Multi-argument calls
// parse to left-nested ApplyExprs.
type ApplyExpr struct {
	node
	Fn  Expr
	Arg Expr
}

// LetExpr binds a name in the scope of Body. Body is nil for a bare
// top-level let, which binds into the session environment.
type LetExpr struct {
	node
	Name  string
	Bound Expr
	Body  Expr
}

// IfExpr is 'if cond then a else b'. Both branches are mandatory.
type IfExpr struct {
	node
	Cond Expr
	Then Expr
	Else Expr
}

// ListExpr is a list literal.
type ListExpr struct {
	node
	Items []Expr
}

// RangeExpr is a list range literal [Start .. End] or
// [Start, Second .. End]. Second, when non-nil, fixes the stride as the
// difference between it and Start.
type RangeExpr struct {
	node
	Start  Expr
	Second Expr
	End    Expr
}

// DictExpr is a dict literal. Keys and Values run parallel, in source
// order.
type DictExpr struct {
	node
	Keys   []string
	Values []Expr
}

// DotExpr accesses a dict field by name.
type DotExpr struct {
	node
	Target Expr
	Key    string
}

// BinaryExpr is an infix operator application. Op is the operator's
// token kind.
type BinaryExpr struct {
	node
	Op  Kind
	LHS Expr
	RHS Expr
}

// UnaryExpr is a prefix operator application ('not' or unary '-').
type UnaryExpr struct {
	node
	Op      Kind
	Operand Expr
}

// PipeExpr threads a value through successive functions left to right.
type PipeExpr struct {
	node
	Stages []Expr
}

// Segment is one piece of a resolved template body or path literal:
// either literal text or an embedded expression.
type Segment struct {
	Text string
	Expr Expr
	Line int
}

// TemplateExpr is a template literal after brace-run resolution.
type TemplateExpr struct {
	node
	Level    int
	Segments []Segment
}

// PathExpr is a path literal.
type PathExpr struct {
	node
	Segments []Segment
}

// FileTemplateExpr pairs a path literal with the template that renders
// the file's contents.
type FileTemplateExpr struct {
	node
	Path    *PathExpr
	Content *TemplateExpr
}

func at(line int) node { return node{line: line} }
