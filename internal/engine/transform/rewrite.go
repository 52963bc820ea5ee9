package transform

import (
	"path/filepath"
	"slices"
	"strings"

	"stylepass/internal/engine/ast"
)

const pureAnnotation = "#__PURE__"

// Rewriter applies the rewrite steps to tracked calls.
type Rewriter struct {
	opts Options
}

func NewRewriter(opts Options) *Rewriter {
	return &Rewriter{opts: opts}
}

// Rewrite returns the rewritten form of call. NotTracked calls come back
// unchanged and leave st untouched. local is the name of the variable the call
// initializes, or "" when there is none.
func (r *Rewriter) Rewrite(call *ast.Call, class Classification, st *State, local string) *ast.Call {
	if class.Kind == NotTracked {
		return call
	}
	ordinal := st.Ordinal
	st.Ordinal++
	st.Stats.TrackedCalls++

	out := &ast.Call{
		Callee:          call.Callee,
		TypeArgs:        call.TypeArgs,
		Args:            slices.Clone(call.Args),
		LeadingComments: slices.Clone(call.LeadingComments),
		Layout:          call.Layout,
	}

	if class.Kind == StyledFactoryCall {
		st.Stats.StyledFactoryCalls++
		out.Callee = normalizeFactory(call.Callee)
		if r.opts.TargetInjection && len(out.Args) > 0 {
			out.Args = injectTarget(out.Args, st.ids.ID(ordinal))
			st.Stats.Targets++
		}
	}

	if r.opts.AutoLabel && local != "" {
		out.Args = append(out.Args, ast.NewString(r.label(local, st.file.FileName)))
		st.Stats.Labels++
	}

	if r.opts.Sourcemap && !r.opts.Compiler.Production {
		if span := call.Origin(); span != nil {
			st.locations.Add(span.Line, span.Column)
			out.Args = append(out.Args, ast.NewString(st.locations.Comment()))
			st.Stats.Locations++
		}
	}

	out.LeadingComments = append(out.LeadingComments, pureAnnotation)
	return out
}

// normalizeFactory turns `factory.member` into `factory("member")`.
func normalizeFactory(callee ast.Node) ast.Node {
	access, ok := callee.(*ast.PropertyAccess)
	if !ok {
		return callee
	}
	return &ast.Call{
		Callee: access.Object,
		Args:   []ast.Node{ast.NewString(access.Name)},
	}
}

// injectTarget merges the target id into a trailing object argument or appends
// a new one.
func injectTarget(args []ast.Node, id string) []ast.Node {
	prop := &ast.PropertyAssignment{Key: "target", Value: ast.NewString(id)}
	last := len(args) - 1
	switch obj := args[last].(type) {
	case *ast.ObjectLiteral:
		props := append(slices.Clone(obj.Properties), prop)
		args[last] = &ast.ObjectLiteral{Properties: props}
		return args
	case *ast.Generic:
		if obj.Kind == "object" {
			args[last] = mergeObject(obj, prop)
			return args
		}
	}
	return append(args, &ast.ObjectLiteral{Properties: []ast.Node{prop}})
}

// mergeObject inserts prop after the last property of a source object,
// keeping the original text around it.
func mergeObject(obj *ast.Generic, prop ast.Node) ast.Node {
	at := -1
	for i, part := range obj.Parts {
		if part.Child == nil {
			continue
		}
		if g, ok := part.Child.(*ast.Generic); ok && g.Kind == "comment" {
			continue
		}
		at = i
	}
	if at < 0 {
		return &ast.ObjectLiteral{Properties: []ast.Node{prop}}
	}
	parts := make([]ast.Part, 0, len(obj.Parts)+2)
	parts = append(parts, obj.Parts[:at+1]...)
	parts = append(parts, ast.Part{Text: ", "}, ast.Part{Child: prop})
	parts = append(parts, obj.Parts[at+1:]...)
	return &ast.Generic{Kind: obj.Kind, Parts: parts}
}

func (r *Rewriter) label(local, fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	text := strings.ReplaceAll(r.opts.LabelFormat, "[local]", local)
	text = strings.ReplaceAll(text, "[filename]", base)
	return "label:" + text + ";"
}
