package parser

import (
	"strings"
	"unicode/utf16"

	"stylepass/internal/engine/ast"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// converter maps tree-sitter nodes onto ast shapes. Syntax without a dedicated
// shape becomes an ast.Generic that keeps its text between children verbatim.
type converter struct {
	text string
}

func (c *converter) program(root *sitter.Node) *ast.Generic {
	// The program node may not cover leading or trailing trivia, so the root
	// always spans the whole file.
	return &ast.Generic{
		Base:  ast.Base{Span: &ast.Span{Start: 0, End: len(c.text)}},
		Kind:  root.Kind(),
		Parts: c.parts(root, 0, len(c.text)),
	}
}

func (c *converter) convert(n *sitter.Node) ast.Node {
	switch n.Kind() {
	case "identifier":
		return &ast.Identifier{Base: c.base(n), Name: c.nodeText(n)}
	case "string":
		return &ast.StringLiteral{Base: c.base(n), Value: unquote(c.nodeText(n))}
	case "member_expression":
		if m := c.member(n); m != nil {
			return m
		}
	case "call_expression":
		if call := c.call(n); call != nil {
			return call
		}
	case "import_statement":
		return c.importDecl(n)
	}
	return c.generic(n)
}

func (c *converter) generic(n *sitter.Node) *ast.Generic {
	start, end := int(n.StartByte()), int(n.EndByte())
	return &ast.Generic{
		Base:  c.base(n),
		Kind:  n.Kind(),
		Parts: c.parts(n, start, end),
	}
}

func (c *converter) parts(n *sitter.Node, start, end int) []ast.Part {
	parts := make([]ast.Part, 0, 2*n.NamedChildCount()+1)
	cursor := start
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		childStart := int(child.StartByte())
		if childStart > cursor {
			parts = append(parts, ast.Part{Text: c.text[cursor:childStart]})
		}
		parts = append(parts, ast.Part{
			Child: c.convert(child),
			Field: n.FieldNameForChild(uint32(i)),
		})
		cursor = int(child.EndByte())
	}
	if end > cursor {
		parts = append(parts, ast.Part{Text: c.text[cursor:end]})
	}
	return parts
}

func (c *converter) member(n *sitter.Node) *ast.PropertyAccess {
	object := n.ChildByFieldName("object")
	property := n.ChildByFieldName("property")
	if object == nil || property == nil || property.Kind() != "property_identifier" || hasChildKind(n, "optional_chain") {
		return nil
	}
	return &ast.PropertyAccess{
		Base:   c.base(n),
		Object: c.convert(object),
		Name:   c.nodeText(property),
	}
}

func (c *converter) call(n *sitter.Node) *ast.Call {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	// Tagged templates and optional calls keep their generic form.
	if fn == nil || args == nil || args.Kind() != "arguments" || hasChildKind(n, "optional_chain") {
		return nil
	}
	call := &ast.Call{
		Base:   c.base(n),
		Callee: c.convert(fn),
		Args:   c.namedChildren(args),
		Layout: c.argLayout(args),
	}
	if typeArgs := n.ChildByFieldName("type_arguments"); typeArgs != nil {
		call.TypeArgs = c.convert(typeArgs)
	}
	return call
}

// argLayout records the text between the parens of an arguments node that is
// not covered by its arguments, comments included.
func (c *converter) argLayout(args *sitter.Node) *ast.ArgLayout {
	lo, hi := int(args.StartByte())+1, int(args.EndByte())-1
	if hi < lo || c.text[lo-1] != '(' || c.text[hi] != ')' {
		return nil
	}
	layout := &ast.ArgLayout{}
	cursor := lo
	first := true
	for i := uint(0); i < args.NamedChildCount(); i++ {
		child := args.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		gap := c.text[cursor:child.StartByte()]
		if first {
			layout.Lead = gap
			first = false
		} else {
			layout.Seps = append(layout.Seps, gap)
		}
		cursor = int(child.EndByte())
	}
	if first {
		layout.Lead = c.text[lo:hi]
		return layout
	}
	layout.Trail = c.text[cursor:hi]
	return layout
}

func (c *converter) importDecl(n *sitter.Node) *ast.ImportDeclaration {
	decl := &ast.ImportDeclaration{Base: c.base(n)}
	if source := n.ChildByFieldName("source"); source != nil {
		decl.Module = unquote(c.nodeText(source))
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Kind() == "import_clause" {
			decl.Clause = c.importClause(child)
		}
	}
	return decl
}

func (c *converter) importClause(n *sitter.Node) *ast.ImportClause {
	clause := &ast.ImportClause{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			clause.Default = c.nodeText(child)
		case "namespace_import":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if id := child.NamedChild(j); id != nil && id.Kind() == "identifier" {
					clause.Namespace = c.nodeText(id)
				}
			}
		case "named_imports":
			clause.HasNamed = true
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				if s, ok := c.importSpecifier(spec); ok {
					clause.Named = append(clause.Named, s)
				}
			}
		}
	}
	return clause
}

func (c *converter) importSpecifier(n *sitter.Node) (ast.ImportSpecifier, bool) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return ast.ImportSpecifier{}, false
	}
	imported := c.nodeText(name)
	if name.Kind() == "string" {
		imported = unquote(imported)
	}
	if alias := n.ChildByFieldName("alias"); alias != nil {
		return ast.ImportSpecifier{Name: c.nodeText(alias), PropertyName: imported}, true
	}
	return ast.ImportSpecifier{Name: imported}, true
}

// namedChildren converts the named children of n, skipping comments.
func (c *converter) namedChildren(n *sitter.Node) []ast.Node {
	out := make([]ast.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, c.convert(child))
	}
	return out
}

func (c *converter) base(n *sitter.Node) ast.Base {
	pos := n.StartPosition()
	start := int(n.StartByte())
	return ast.Base{Span: &ast.Span{
		Start:  start,
		End:    int(n.EndByte()),
		Line:   int(pos.Row),
		Column: charColumn(c.text[start-int(pos.Column) : start]),
	}}
}

// charColumn converts the bytes of a line before a node into a column counted
// in UTF-16 code units, the unit JavaScript tooling reports columns in.
func charColumn(prefix string) int {
	column := 0
	for _, r := range prefix {
		if n := utf16.RuneLen(r); n > 0 {
			column += n
		} else {
			column++
		}
	}
	return column
}

func (c *converter) nodeText(n *sitter.Node) string {
	return c.text[n.StartByte():n.EndByte()]
}

func hasChildKind(n *sitter.Node, kind string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && child.Kind() == kind {
			return true
		}
	}
	return false
}

// unquote strips the quotes of a JavaScript string literal and resolves the
// common escapes.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 == len(body) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\n':
			// Line continuation.
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
