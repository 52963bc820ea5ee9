package ast

import (
	"sort"
	"strings"
)

// Print renders f back to source text.
func Print(f *SourceFile) string {
	var b strings.Builder
	p := printer{src: f.Text, out: &b}
	p.pragmas(f.Pragmas)
	if f.Root != nil {
		p.node(f.Root)
	}
	return b.String()
}

// PrintNode renders a single node whose original spans refer to src.
func PrintNode(src string, n Node) string {
	var b strings.Builder
	p := printer{src: src, out: &b}
	p.node(n)
	return b.String()
}

type printer struct {
	src string
	out *strings.Builder
}

func (p *printer) pragmas(pragmas map[string]string) {
	if len(pragmas) == 0 {
		return
	}
	names := make([]string, 0, len(pragmas))
	for name := range pragmas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.out.WriteString("/** @")
		p.out.WriteString(name)
		p.out.WriteString(" ")
		p.out.WriteString(pragmas[name])
		p.out.WriteString(" */\n")
	}
}

func (p *printer) node(n Node) {
	if n == nil {
		return
	}
	if span := n.Origin(); span != nil && span.End <= len(p.src) {
		p.out.WriteString(p.src[span.Start:span.End])
		return
	}

	switch v := n.(type) {
	case *Generic:
		for _, part := range v.Parts {
			if part.Child != nil {
				p.node(part.Child)
				continue
			}
			p.out.WriteString(part.Text)
		}
	case *Identifier:
		p.out.WriteString(v.Name)
	case *StringLiteral:
		p.out.WriteString(Quote(v.Value))
	case *PropertyAccess:
		p.node(v.Object)
		p.out.WriteString(".")
		p.out.WriteString(v.Name)
	case *Call:
		for _, c := range v.LeadingComments {
			p.out.WriteString("/*")
			p.out.WriteString(c)
			p.out.WriteString("*/ ")
		}
		p.node(v.Callee)
		p.node(v.TypeArgs)
		p.out.WriteString("(")
		p.args(v.Args, v.Layout)
		p.out.WriteString(")")
	case *ObjectLiteral:
		p.out.WriteString("{")
		p.list(v.Properties)
		p.out.WriteString("}")
	case *PropertyAssignment:
		p.out.WriteString(v.Key)
		p.out.WriteString(": ")
		p.node(v.Value)
	case *ImportDeclaration:
		p.importDecl(v)
	}
}

func (p *printer) list(nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			p.out.WriteString(", ")
		}
		p.node(n)
	}
}

func (p *printer) args(nodes []Node, layout *ArgLayout) {
	if layout == nil {
		p.list(nodes)
		return
	}
	p.out.WriteString(layout.Lead)
	for i, n := range nodes {
		if i > 0 {
			if i-1 < len(layout.Seps) {
				p.out.WriteString(layout.Seps[i-1])
			} else {
				p.out.WriteString(", ")
			}
		}
		p.node(n)
	}
	p.out.WriteString(layout.Trail)
}

func (p *printer) importDecl(d *ImportDeclaration) {
	p.out.WriteString("import ")
	if c := d.Clause; c != nil {
		wrote := false
		if c.Default != "" {
			p.out.WriteString(c.Default)
			wrote = true
		}
		if c.Namespace != "" {
			if wrote {
				p.out.WriteString(", ")
			}
			p.out.WriteString("* as ")
			p.out.WriteString(c.Namespace)
			wrote = true
		}
		if c.HasNamed {
			if wrote {
				p.out.WriteString(", ")
			}
			p.out.WriteString("{ ")
			for i, spec := range c.Named {
				if i > 0 {
					p.out.WriteString(", ")
				}
				if spec.PropertyName != "" {
					p.out.WriteString(spec.PropertyName)
					p.out.WriteString(" as ")
				}
				p.out.WriteString(spec.Name)
			}
			p.out.WriteString(" }")
		}
		p.out.WriteString(" from ")
	}
	p.out.WriteString(Quote(d.Module))
	p.out.WriteString(";")
}

// Quote renders s as a double-quoted JavaScript string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				b.WriteString(`\x`)
				b.WriteByte("0123456789abcdef"[r>>4])
				b.WriteByte("0123456789abcdef"[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
