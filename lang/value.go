package lang

// Type identifies the runtime class of a [Value].
type Type int

const (
	TypeNone Type = iota
	TypeNumber
	TypeString
	TypeBool
	TypeList
	TypeDict
	TypeFunction
	TypeFileTemplate
	TypePath
)

// String returns the type name used in error messages.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeNumber:
		return "Number"
	case TypeString:
		return "String"
	case TypeBool:
		return "Bool"
	case TypeList:
		return "List"
	case TypeDict:
		return "Dict"
	case TypeFunction:
		return "Function"
	case TypeFileTemplate:
		return "FileTemplate"
	case TypePath:
		return "Path"
	default:
		return "Unknown"
	}
}

// Value is a runtime value. Values are immutable: operations that
// "modify" a composite value return a new one.
type Value interface {
	Type() Type

	// Display renders the value in canonical form, the way the
	// evaluator prints a top-level result.
	Display() string
}

// Number is an integer or float. Arithmetic on two integers stays
// integral except for inexact division, which promotes to float.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func (Number) Type() Type { return TypeNumber }

// AsFloat returns the numeric value widened to float64.
func (n Number) AsFloat() float64 {
	if n.IsFloat {
		return n.Float
	}

	return float64(n.Int)
}

// IntOf returns an integer Number.
func IntOf(i int64) Number { return Number{Int: i} }

// FloatOf returns a float Number.
func FloatOf(f float64) Number { return Number{IsFloat: true, Float: f} }

// String is a text value.
type String struct {
	Value string
}

func (String) Type() Type { return TypeString }

// Bool is 'true' or 'false'.
type Bool struct {
	Value bool
}

func (Bool) Type() Type { return TypeBool }

// None is the unit value.
type None struct{}

func (None) Type() Type { return TypeNone }

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

func (List) Type() Type { return TypeList }

// Dict is a string-keyed map that preserves insertion order.
type Dict struct {
	keys    []string
	entries map[string]Value
}

func (Dict) Type() Type { return TypeDict }

// NewDict returns an empty dict.
func NewDict() Dict {
	return Dict{entries: map[string]Value{}}
}

// Get looks up a key.
func (d Dict) Get(key string) (Value, bool) {
	v, ok := d.entries[key]

	return v, ok
}

// Keys returns the dict's keys in insertion order.
func (d Dict) Keys() []string { return d.keys }

// Len returns the number of entries.
func (d Dict) Len() int { return len(d.keys) }

// Set returns a copy of the dict with key bound to value. Updating an
// existing key keeps its original position.
func (d Dict) Set(key string, value Value) Dict {
	out := Dict{
		keys:    make([]string, len(d.keys), len(d.keys)+1),
		entries: make(map[string]Value, len(d.entries)+1),
	}

	copy(out.keys, d.keys)

	for k, v := range d.entries {
		out.entries[k] = v
	}

	if _, exists := out.entries[key]; !exists {
		out.keys = append(out.keys, key)
	}

	out.entries[key] = value

	return out
}

// Delete returns a copy of the dict without key. Deleting an absent key
// returns the dict unchanged.
func (d Dict) Delete(key string) Dict {
	if _, ok := d.entries[key]; !ok {
		return d
	}

	out := Dict{
		keys:    make([]string, 0, len(d.keys)-1),
		entries: make(map[string]Value, len(d.entries)-1),
	}

	for _, k := range d.keys {
		if k == key {
			continue
		}

		out.keys = append(out.keys, k)
		out.entries[k] = d.entries[k]
	}

	return out
}

// Closure is a user-defined function: one parameter, a body, and the
// environment it closed over. Name is set when the closure was bound by
// a let, and prefixes errors raised during its application.
type Closure struct {
	Name    string
	Param   string
	Default Value // nil when the parameter has no default
	Body    Expr
	Env     *Env
}

func (*Closure) Type() Type { return TypeFunction }

// Builtin is a native function of one argument. Multi-argument builtins
// are curried: each call returns the next Builtin in the chain until all
// arguments are collected. A builtin with Nullary set takes no arguments
// and is invoked when its name is looked up.
type Builtin struct {
	Name    string
	Fn      func(Value) (Value, error)
	Nullary func() (Value, error)
}

func (*Builtin) Type() Type { return TypeFunction }

// FileTemplate pairs a relative file path with rendered contents, ready
// for deployment.
type FileTemplate struct {
	Path    string
	Content string
}

func (FileTemplate) Type() Type { return TypeFileTemplate }

// Path is a filesystem path value.
type Path struct {
	Value string
}

func (Path) Type() Type { return TypePath }

// Truthy reports whether v is the boolean true. Only Bool values have
// truth; callers must type-check first.
func truth(v Value) (bool, bool) {
	b, ok := v.(Bool)
	if !ok {
		return false, false
	}

	return b.Value, true
}

// valuesEqual implements '==' over every value type. Functions compare
// by identity and are never equal to a distinct function.
func valuesEqual(a, b Value) bool {
	if a.Type() != b.Type() {
		// Mixed int/float numbers still compare by magnitude.
		an, aok := a.(Number)
		bn, bok := b.(Number)

		if aok && bok {
			return an.AsFloat() == bn.AsFloat()
		}

		return false
	}

	switch av := a.(type) {
	case Number:
		bv := b.(Number)
		if !av.IsFloat && !bv.IsFloat {
			return av.Int == bv.Int
		}

		return av.AsFloat() == bv.AsFloat()

	case String:
		return av.Value == b.(String).Value

	case Bool:
		return av.Value == b.(Bool).Value

	case None:
		return true

	case List:
		bv := b.(List)
		if len(av.Items) != len(bv.Items) {
			return false
		}

		for i := range av.Items {
			if !valuesEqual(av.Items[i], bv.Items[i]) {
				return false
			}
		}

		return true

	case Dict:
		bv := b.(Dict)
		if len(av.keys) != len(bv.keys) {
			return false
		}

		for _, k := range av.keys {
			bval, ok := bv.entries[k]
			if !ok || !valuesEqual(av.entries[k], bval) {
				return false
			}
		}

		return true

	case Path:
		return av.Value == b.(Path).Value

	case FileTemplate:
		bv := b.(FileTemplate)

		return av.Path == bv.Path && av.Content == bv.Content

	default:
		// Functions: identity only.
		return a == b
	}
}
