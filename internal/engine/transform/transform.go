// Package transform rewrites calls into tracked styling modules.
//
// A Transformer walks one file's tree in source order. Import statements feed
// the binding table and may trigger a synthetic jsx import; tracked calls get
// a purity annotation plus, depending on options, a normalized factory callee,
// a target id, a label and an inline location comment. Input trees are never
// modified: changed subtrees are rebuilt and everything else is shared.
package transform

import (
	"regexp"

	"stylepass/internal/core/errors"
	"stylepass/internal/engine/ast"
)

const jsxImportSourcePragma = "jsxImportSource"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Stats counts what a single file pass did.
type Stats struct {
	TrackedCalls       int
	StyledFactoryCalls int
	Targets            int
	Labels             int
	Locations          int
	ImportInserted     bool
}

// Changed reports whether the pass rewrote anything.
func (s Stats) Changed() bool {
	return s.TrackedCalls > 0 || s.ImportInserted
}

// State is the per-file traversal state. It is created for each pass and
// never shared between files.
type State struct {
	Bindings []ImportBinding
	Ordinal  int
	Inserted bool
	Stats    Stats

	file      *ast.SourceFile
	ids       *IDGenerator
	locations *LocationMapper
}

// Transformer holds the immutable configuration of the pass. It is safe for
// concurrent use as long as the configured resolvers are.
type Transformer struct {
	opts     Options
	modules  []ModuleConfig
	rewriter *Rewriter
}

func New(opts Options) *Transformer {
	modules := make([]ModuleConfig, 0, len(opts.CustomModules)+3)
	modules = append(modules, opts.CustomModules...)
	modules = append(modules, DefaultModules()...)
	return &Transformer{
		opts:     opts,
		modules:  modules,
		rewriter: NewRewriter(opts),
	}
}

// Modules returns the tracked modules in matching order.
func (t *Transformer) Modules() []ModuleConfig {
	return t.modules
}

// TransformFile runs the pass over file and returns the rewritten file.
// The input file is left untouched.
func (t *Transformer) TransformFile(file *ast.SourceFile) (*ast.SourceFile, Stats, error) {
	if file == nil || file.Root == nil {
		return nil, Stats{}, errors.New(errors.CodeValidationError, "source file has no syntax tree")
	}

	st := &State{
		file:      file,
		ids:       NewIDGenerator(file.FileName, file.Text, t.opts.Roots, t.opts.Manifests),
		locations: NewLocationMapper(file.FileName, t.opts.Cwd, file.Text),
	}
	root := t.visitGeneric(file.Root, st)

	out := file.WithRoot(root)
	if st.Inserted && t.opts.JSXImportSourceName != "" {
		out.SetPragma(jsxImportSourcePragma, t.opts.JSXImportSourceName)
	}
	return out, st.Stats, nil
}

func (t *Transformer) visit(n ast.Node, st *State, local string) ast.Node {
	switch v := n.(type) {
	case *ast.Generic:
		return t.visitGeneric(v, st)
	case *ast.Call:
		return t.visitCall(v, st, local)
	case *ast.PropertyAccess:
		obj := t.visit(v.Object, st, "")
		if obj == v.Object {
			return v
		}
		return &ast.PropertyAccess{Object: obj, Name: v.Name}
	case *ast.ObjectLiteral:
		props, changed := t.visitList(v.Properties, st)
		if !changed {
			return v
		}
		return &ast.ObjectLiteral{Properties: props}
	case *ast.PropertyAssignment:
		val := t.visit(v.Value, st, "")
		if val == v.Value {
			return v
		}
		return &ast.PropertyAssignment{Key: v.Key, Value: val}
	default:
		return n
	}
}

func (t *Transformer) visitGeneric(g *ast.Generic, st *State) *ast.Generic {
	declared := declaredName(g)

	var parts []ast.Part
	for i, part := range g.Parts {
		if part.Child == nil {
			if parts != nil {
				parts = append(parts, part)
			}
			continue
		}

		if decl, ok := part.Child.(*ast.ImportDeclaration); ok {
			st.Bindings = append(st.Bindings, ResolveBindings(decl, t.modules, t.opts.Compiler)...)
			if inject := t.jsxImport(decl, st); inject != nil {
				if parts == nil {
					parts = append(make([]ast.Part, 0, len(g.Parts)+2), g.Parts[:i]...)
				}
				parts = append(parts, ast.Part{Child: inject}, ast.Part{Text: "\n"}, part)
				continue
			}
		}

		local := ""
		if part.Field == "value" {
			local = declared
		}
		child := t.visit(part.Child, st, local)
		if child != part.Child && parts == nil {
			parts = append(make([]ast.Part, 0, len(g.Parts)), g.Parts[:i]...)
		}
		if parts != nil {
			parts = append(parts, ast.Part{Text: part.Text, Child: child, Field: part.Field})
		}
	}
	if parts == nil {
		return g
	}
	return &ast.Generic{Kind: g.Kind, Parts: parts}
}

func (t *Transformer) visitCall(call *ast.Call, st *State, local string) ast.Node {
	class := Classify(call, st.Bindings)
	if class.Kind == NotTracked {
		callee := t.visit(call.Callee, st, "")
		args, changed := t.visitList(call.Args, st)
		if callee == call.Callee && !changed {
			return call
		}
		return &ast.Call{
			Callee:          callee,
			TypeArgs:        call.TypeArgs,
			Args:            args,
			LeadingComments: call.LeadingComments,
			Layout:          call.Layout,
		}
	}

	out := t.rewriter.Rewrite(call, class, st, local)
	// Nested tracked calls come after this one in source order, so they are
	// visited after the rewrite: callee arguments first, then our own.
	out.Callee = t.visitCalleeArgs(out.Callee, st)
	if args, changed := t.visitList(out.Args, st); changed {
		out.Args = args
	}
	return out
}

// visitCalleeArgs visits the arguments of every call along a tracked call's
// callee chain. The chain calls themselves belong to the tracked call and are
// not classified again.
func (t *Transformer) visitCalleeArgs(callee ast.Node, st *State) ast.Node {
	switch v := callee.(type) {
	case *ast.Call:
		inner := t.visitCalleeArgs(v.Callee, st)
		args, changed := t.visitList(v.Args, st)
		if inner == v.Callee && !changed {
			return v
		}
		return &ast.Call{
			Callee:          inner,
			TypeArgs:        v.TypeArgs,
			Args:            args,
			LeadingComments: v.LeadingComments,
			Layout:          v.Layout,
		}
	case *ast.PropertyAccess:
		obj := t.visitCalleeArgs(v.Object, st)
		if obj == v.Object {
			return v
		}
		return &ast.PropertyAccess{Object: obj, Name: v.Name}
	default:
		return callee
	}
}

func (t *Transformer) visitList(nodes []ast.Node, st *State) ([]ast.Node, bool) {
	var out []ast.Node
	for i, n := range nodes {
		next := t.visit(n, st, "")
		if next != n && out == nil {
			out = make([]ast.Node, len(nodes))
			copy(out, nodes[:i])
		}
		if out != nil {
			out[i] = next
		}
	}
	if out == nil {
		return nodes, false
	}
	return out, true
}

// jsxImport returns the synthetic import to place before decl, or nil.
func (t *Transformer) jsxImport(decl *ast.ImportDeclaration, st *State) *ast.ImportDeclaration {
	if st.Inserted || !t.opts.AutoInject || decl.Module != t.opts.HostLibrary {
		return nil
	}
	st.Inserted = true
	st.Stats.ImportInserted = true

	spec := ast.ImportSpecifier{Name: "jsx"}
	if f := t.opts.jsxFactory(); f != "" && f != "jsx" && identifierPattern.MatchString(f) {
		spec = ast.ImportSpecifier{Name: f, PropertyName: "jsx"}
	}
	return &ast.ImportDeclaration{
		Clause: &ast.ImportClause{HasNamed: true, Named: []ast.ImportSpecifier{spec}},
		Module: t.opts.InjectModule,
	}
}

// declaredName returns the variable name of a simple declarator.
func declaredName(g *ast.Generic) string {
	if g.Kind != "variable_declarator" {
		return ""
	}
	if id, ok := g.Field("name").(*ast.Identifier); ok {
		return id.Name
	}
	return ""
}
