// Package syntax defines the source tree model consumed by the metric
// visitors and the declaration walker. Trees are produced by a parser
// adapter (internal/treesitter) or assembled directly in tests; the model
// keeps only the structure the metrics distinguish and folds every other
// construct into Generic nodes.
package syntax

// Span locates a node in its source file. Lines and columns are 1-based
// and inclusive.
type Span struct {
	StartLine int `json:"startLine"`
	StartCol  int `json:"startCol"`
	EndLine   int `json:"endLine"`
	EndCol    int `json:"endCol"`
}

// Lines returns the number of source lines the span covers.
func (s Span) Lines() int {
	n := s.EndLine - s.StartLine + 1
	if n < 0 {
		return 0
	}
	return n
}

// Node is implemented by every syntax tree node.
type Node interface {
	Span() Span
}

// ContainerKind discriminates container declarations.
type ContainerKind string

const (
	KindClass  ContainerKind = "class"
	KindObject ContainerKind = "object"
	KindTrait  ContainerKind = "trait"
	KindEnum   ContainerKind = "enum"
)

// BindKind discriminates value and variable bindings.
type BindKind string

const (
	KindVal BindKind = "val"
	KindVar BindKind = "var"
)

// EnumClauseKind discriminates the clauses of a comprehension.
type EnumClauseKind string

const (
	// ClauseGenerator is a binding clause drawing elements from a source.
	ClauseGenerator EnumClauseKind = "generator"
	// ClauseGuard is a filter condition between generators.
	ClauseGuard EnumClauseKind = "guard"
	// ClauseBind is an intermediate definition inside the clause list.
	ClauseBind EnumClauseKind = "bind"
)

// File is the root of one parsed source file.
type File struct {
	Pos Span
	// Package is the dotted package path, empty for the default package.
	Package string
	Decls   []Node
}

func (f *File) Span() Span { return f.Pos }

// Container is a class, object, trait or enum declaration. Body holds the
// template statements; loose statements among them are constructor code.
type Container struct {
	Pos     Span
	Kind    ContainerKind
	Name    string
	Parents []Node
	Body    []Node
}

func (c *Container) Span() Span { return c.Pos }

// Func is a function declaration. A nil Body marks an abstract signature.
type Func struct {
	Pos    Span
	Mods   []string
	Name   string
	Params []*ParamClause
	Body   Node
}

func (f *Func) Span() Span { return f.Pos }

// Binding is a val or var declaration. A nil Body marks an abstract member.
type Binding struct {
	Pos  Span
	Kind BindKind
	Name string
	Body Node
}

func (b *Binding) Span() Span { return b.Pos }

// Given is an instance-providing declaration. Name may be empty for
// anonymous instances; a nil Body marks an abstract given.
type Given struct {
	Pos  Span
	Name string
	Body Node
}

func (g *Given) Span() Span { return g.Pos }

// ParamClause is one parenthesized group of parameters.
type ParamClause struct {
	Pos      Span
	Params   []*Param
	Implicit bool
	Using    bool
}

func (p *ParamClause) Span() Span { return p.Pos }

// Param is a single parameter, possibly carrying a default value.
type Param struct {
	Pos     Span
	Name    string
	Default Node
}

func (p *Param) Span() Span { return p.Pos }

// If is a conditional. Else is nil when absent; an else-if chain appears
// as an If node in the Else position.
type If struct {
	Pos  Span
	Cond Node
	Then Node
	Else Node
}

func (i *If) Span() Span { return i.Pos }

// Match is a pattern match over a scrutinee expression.
type Match struct {
	Pos       Span
	Scrutinee Node
	Cases     []*CaseClause
}

func (m *Match) Span() Span { return m.Pos }

// CaseClause is one arm of a match or catch. Guard is nil when the arm is
// unguarded; Wildcard is set when the pattern is the catch-all pattern.
type CaseClause struct {
	Pos      Span
	Pattern  Node
	Guard    Node
	Body     Node
	Wildcard bool
}

func (c *CaseClause) Span() Span { return c.Pos }

// For is a comprehension, with or without a yield.
type For struct {
	Pos     Span
	Clauses []*EnumClause
	Body    Node
	Yield   bool
}

func (f *For) Span() Span { return f.Pos }

// EnumClause is one clause of a comprehension's enumerator list.
type EnumClause struct {
	Pos     Span
	Kind    EnumClauseKind
	Pattern Node
	// Expr is the source for generators, the condition for guards, and the
	// bound value for binds.
	Expr Node
}

func (e *EnumClause) Span() Span { return e.Pos }

// While is a while loop.
type While struct {
	Pos  Span
	Cond Node
	Body Node
}

func (w *While) Span() Span { return w.Pos }

// DoWhile is a do-while loop.
type DoWhile struct {
	Pos  Span
	Body Node
	Cond Node
}

func (d *DoWhile) Span() Span { return d.Pos }

// Try is a try expression with optional catch arms and finally clause.
type Try struct {
	Pos     Span
	Body    Node
	Catches []*CaseClause
	Finally Node
}

func (t *Try) Span() Span { return t.Pos }

// Infix is a binary operator application.
type Infix struct {
	Pos   Span
	Op    string
	Left  Node
	Right Node
}

func (i *Infix) Span() Span { return i.Pos }

// ShortCircuit reports whether the operator is one of the two
// short-circuiting boolean operators.
func (i *Infix) ShortCircuit() bool {
	return i.Op == "&&" || i.Op == "||"
}

// Block is a braced or indented statement sequence.
type Block struct {
	Pos   Span
	Stmts []Node
}

func (b *Block) Span() Span { return b.Pos }

// Lambda is a function literal.
type Lambda struct {
	Pos    Span
	Params []*Param
	Body   Node
}

func (l *Lambda) Span() Span { return l.Pos }

// Template is an anonymous template body, as produced by instantiating a
// type with a refinement body.
type Template struct {
	Pos     Span
	Parents []Node
	Body    []Node
}

func (t *Template) Span() Span { return t.Pos }

// Generic covers every node kind the metrics do not distinguish. It is
// traversed transparently by all visitors.
type Generic struct {
	Pos   Span
	Kind  string
	Nodes []Node
}

func (g *Generic) Span() Span { return g.Pos }
