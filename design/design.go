// Package design models an already-elaborated syntax tree: a type-checked
// design hierarchy with its modules, ports, variables, and statement
// bodies resolved. The real parser/type-checker is an external
// collaborator; this package is the minimal stand-in format, loaded from
// YAML exactly as core/program.go loads PE programs in the reference
// design-tool stack, since no upstream parser is part of this
// repository's scope.
package design

// EdgeKind names the edge a timing control or FF process is sensitive to.
type EdgeKind string

const (
	NoEdge EdgeKind = ""
	PosEdge EdgeKind = "posedge"
	NegEdge EdgeKind = "negedge"
	BothEdges EdgeKind = "both"
	ImplicitEv EdgeKind = "implicit" // level-sensitive, used by always_comb-like legacy always
)

// PortDirection is a port's connection direction.
type PortDirection string

const (
	DirIn PortDirection = "in"
	DirOut PortDirection = "out"
	DirInout PortDirection = "inout" // unsupported; elaboration rejects it
)

// Variable is a module-scope declared value.
type Variable struct {
	Name string `yaml:"name"`
	Left int `yaml:"left"`
	Right int `yaml:"right"`
	Signed bool `yaml:"signed"`
}

// Port connects a module's boundary variable to an instance-connection
// expression from the parent scope.
type Port struct {
	Name string `yaml:"name"`
	Direction PortDirection `yaml:"direction"`
	// Connection is the expression on the instantiation side: the rhs for
	// an input port, the lhs for an output port.
	Connection Expr `yaml:"connection"`
}

// Expr is a named-value-carrying expression. Only the shape needed by
// dependency analysis and direct interpretation is modeled: operand
// extraction (NamedValues) and evaluation live on this type rather than
// in a separate codegen stage, since textual code emission is out of
// scope for this repository.
type Expr struct {
	Kind ExprKind `yaml:"kind"`

	// Ref
	Ref string `yaml:"ref,omitempty"`

	// Literal
	Lit uint64 `yaml:"lit,omitempty"`
	LitWidth int `yaml:"lit_width,omitempty"`
	LitSigned bool `yaml:"lit_signed,omitempty"`

	// Unary / Binary
	Op string `yaml:"op,omitempty"`
	Left *Expr `yaml:"left,omitempty"`
	Right *Expr `yaml:"right,omitempty"`

	// Concat: high-order first, matching {a, b} ordering.
	Parts []Expr `yaml:"parts,omitempty"`

	// Slice
	Hi int `yaml:"hi,omitempty"`
	Lo int `yaml:"lo,omitempty"`
}

// ExprKind tags the Expr variant.
type ExprKind string

const (
	ExprRef ExprKind = "ref"
	ExprLit ExprKind = "lit"
	ExprUnary ExprKind = "unary"
	ExprBinary ExprKind = "binary"
	ExprConcat ExprKind = "concat"
	ExprSlice ExprKind = "slice"
)

// NamedValues returns every variable name referenced by the expression,
// in the order encountered, used by the dependency analyzer to build
// edges_from.
func (e Expr) NamedValues() []string {
	var out []string
	e.walk(func(name string) { out = append(out, name) })
	return out
}

func (e Expr) walk(visit func(string)) {
	switch e.Kind {
	case ExprRef:
		visit(e.Ref)
	case ExprUnary:
		if e.Left != nil {
			e.Left.walk(visit)
		}
	case ExprBinary:
		if e.Left != nil {
			e.Left.walk(visit)
		}
		if e.Right != nil {
			e.Right.walk(visit)
		}
	case ExprConcat:
		for _, p := range e.Parts {
			p.walk(visit)
		}
	case ExprSlice:
		if e.Left != nil {
			e.Left.walk(visit)
		}
	}
}

// Ref builds a named-value reference expression.
func Ref(name string) Expr { return Expr{Kind: ExprRef, Ref: name} }

// Lit builds a 2-state literal expression.
func Lit(width int, signed bool, n uint64) Expr {
	return Expr{Kind: ExprLit, Lit: n, LitWidth: width, LitSigned: signed}
}

// Binary builds a binary-operator expression; op is one of
// "+","-","*","&","|","^","==".
func Binary(op string, l, r Expr) Expr {
	return Expr{Kind: ExprBinary, Op: op, Left: &l, Right: &r}
}

// Concat builds a concatenation expression, high-order part first.
func Concat(parts ...Expr) Expr {
	return Expr{Kind: ExprConcat, Parts: parts}
}

// Slice builds a bit-select/part-select expression over base.
func Slice(base Expr, hi, lo int) Expr {
	return Expr{Kind: ExprSlice, Left: &base, Hi: hi, Lo: lo}
}
