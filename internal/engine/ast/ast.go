// Package ast is the syntax tree the rewriting pass operates on.
//
// Trees are persistent: passes never mutate a node they did not create. A node
// read from source carries a Span; nodes built by a pass have a nil Span and are
// synthesized by the printer, while untouched nodes print their original bytes.
package ast

// Span locates a node in the original file text. Line and Column are zero-based.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

// Node is implemented by every tree node.
type Node interface {
	Origin() *Span
	node()
}

// Base carries the original location of a node read from source.
type Base struct {
	Span *Span
}

func (b Base) Origin() *Span { return b.Span }
func (Base) node()           {}

// SourceFile is the root of one file's tree. Pragmas is the file-level metadata
// store the host compiler reads outside the statement list.
type SourceFile struct {
	FileName string
	Language string
	Text     string
	Root     *Generic
	Pragmas  map[string]string
}

// WithRoot returns a copy of f with a new root and a copied pragma map.
func (f *SourceFile) WithRoot(root *Generic) *SourceFile {
	next := &SourceFile{
		FileName: f.FileName,
		Language: f.Language,
		Text:     f.Text,
		Root:     root,
	}
	if len(f.Pragmas) > 0 {
		next.Pragmas = make(map[string]string, len(f.Pragmas))
		for k, v := range f.Pragmas {
			next.Pragmas[k] = v
		}
	}
	return next
}

// SetPragma records a pragma on f, allocating the map on first use.
func (f *SourceFile) SetPragma(name, value string) {
	if f.Pragmas == nil {
		f.Pragmas = make(map[string]string)
	}
	f.Pragmas[name] = value
}

// Part is one element of a Generic node: either verbatim text or a child node.
// Field is the grammar field name of the child, when it has one.
type Part struct {
	Text  string
	Child Node
	Field string
}

// Generic is any syntax the pass has no dedicated shape for. Its text between
// children is kept verbatim.
type Generic struct {
	Base
	Kind  string
	Parts []Part
}

// Field returns the first child stored under the named field.
func (g *Generic) Field(name string) Node {
	for _, p := range g.Parts {
		if p.Child != nil && p.Field == name {
			return p.Child
		}
	}
	return nil
}

// Children returns the child nodes in source order.
func (g *Generic) Children() []Node {
	out := make([]Node, 0, len(g.Parts))
	for _, p := range g.Parts {
		if p.Child != nil {
			out = append(out, p.Child)
		}
	}
	return out
}

type Identifier struct {
	Base
	Name string
}

type StringLiteral struct {
	Base
	Value string
}

// PropertyAccess is `Object.Name` with a plain dot.
type PropertyAccess struct {
	Base
	Object Node
	Name   string
}

// Call is `Callee<TypeArgs>(Args...)`. LeadingComments are block comment bodies
// emitted before the call, e.g. "#__PURE__". Layout is the source text around
// the arguments of a call read from source; it is nil for built calls.
type Call struct {
	Base
	Callee          Node
	TypeArgs        Node
	Args            []Node
	LeadingComments []string
	Layout          *ArgLayout
}

// ArgLayout keeps the text of an argument list between its arguments. Lead
// follows the opening paren, Seps[i] sits between argument i and i+1, Trail
// precedes the closing paren. Arguments past len(Seps)+1 are joined with ", ".
type ArgLayout struct {
	Lead  string
	Seps  []string
	Trail string
}

// ObjectLiteral is an object built by a pass. Objects read from source stay
// Generic nodes of kind "object" so their layout survives a merge.
type ObjectLiteral struct {
	Base
	Properties []Node
}

type PropertyAssignment struct {
	Base
	Key   string
	Value Node
}

// ImportSpecifier is one entry of a named import clause. PropertyName is the
// exported name when the import is renamed (`{ PropertyName as Name }`).
type ImportSpecifier struct {
	Name         string
	PropertyName string
}

type ImportClause struct {
	Default   string
	Namespace string
	Named     []ImportSpecifier
	HasNamed  bool
}

// ImportDeclaration is a top-level import statement. Clause is nil for
// side-effect imports such as `import './reset.css'`.
type ImportDeclaration struct {
	Base
	Clause *ImportClause
	Module string
}

// NewString builds a synthesized string literal.
func NewString(value string) *StringLiteral {
	return &StringLiteral{Value: value}
}
