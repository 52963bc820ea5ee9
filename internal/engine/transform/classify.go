package transform

import "stylepass/internal/engine/ast"

type CallKind int

const (
	NotTracked CallKind = iota
	DirectFunctionCall
	StyledFactoryCall
)

func (k CallKind) String() string {
	switch k {
	case DirectFunctionCall:
		return "direct"
	case StyledFactoryCall:
		return "styled-factory"
	default:
		return "not-tracked"
	}
}

// Classification is the verdict for one call expression. Binding is nil for
// NotTracked calls.
type Classification struct {
	Kind    CallKind
	Binding *ImportBinding
}

// Classify matches call against the bindings of the current file.
func Classify(call *ast.Call, bindings []ImportBinding) Classification {
	if call == nil {
		return Classification{}
	}
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		return classifyBase(bindings, callee.Name, "")
	case *ast.PropertyAccess:
		if obj, ok := callee.Object.(*ast.Identifier); ok {
			if b := lookup(bindings, obj.Name); b != nil && b.Module.StyledFactory == obj.Name {
				return Classification{Kind: StyledFactoryCall, Binding: b}
			}
		}
		return classifyBase(bindings, baseIdentifier(callee), memberName(callee))
	case *ast.Call:
		return classifyBase(bindings, baseIdentifier(callee), memberName(callee))
	default:
		return Classification{}
	}
}

func classifyBase(bindings []ImportBinding, base, member string) Classification {
	if base == "" {
		return Classification{}
	}
	b := lookup(bindings, base)
	if b == nil {
		return Classification{}
	}
	if b.Kind == NamespaceImport && member != "default" && !b.Module.Tracks(member) {
		return Classification{}
	}
	return Classification{Kind: DirectFunctionCall, Binding: b}
}

// baseIdentifier returns the identifier at the root of a callee chain.
func baseIdentifier(n ast.Node) string {
	for {
		switch v := n.(type) {
		case *ast.Identifier:
			return v.Name
		case *ast.PropertyAccess:
			n = v.Object
		case *ast.Call:
			n = v.Callee
		default:
			return ""
		}
	}
}

// memberName returns the nearest property name walking down a callee chain.
func memberName(n ast.Node) string {
	for {
		switch v := n.(type) {
		case *ast.PropertyAccess:
			return v.Name
		case *ast.Call:
			n = v.Callee
		default:
			return ""
		}
	}
}
