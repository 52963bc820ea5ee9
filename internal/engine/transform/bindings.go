package transform

import "stylepass/internal/engine/ast"

type BindingKind int

const (
	NamedImport BindingKind = iota
	NamespaceImport
	DefaultImport
)

func (k BindingKind) String() string {
	switch k {
	case NamedImport:
		return "named"
	case NamespaceImport:
		return "namespace"
	case DefaultImport:
		return "default"
	default:
		return "unknown"
	}
}

// ImportBinding ties a local name in one file to a tracked module.
type ImportBinding struct {
	Local  string
	Kind   BindingKind
	Module *ModuleConfig
}

// ResolveBindings returns the bindings introduced by decl. The first module in
// modules whose name matches the specifier owns the import.
func ResolveBindings(decl *ast.ImportDeclaration, modules []ModuleConfig, compiler CompilerOptions) []ImportBinding {
	if decl == nil || decl.Clause == nil {
		return nil
	}
	var module *ModuleConfig
	for i := range modules {
		if modules[i].Matches(decl.Module) {
			module = &modules[i]
			break
		}
	}
	if module == nil {
		return nil
	}

	clause := decl.Clause
	var out []ImportBinding
	if clause.Default != "" {
		switch {
		case module.HasDefaultExport:
			out = append(out, ImportBinding{Local: clause.Default, Kind: DefaultImport, Module: module})
		case compiler.AllowSyntheticDefaultImports:
			out = append(out, ImportBinding{Local: clause.Default, Kind: NamespaceImport, Module: module})
		}
	}
	if clause.Namespace != "" {
		out = append(out, ImportBinding{Local: clause.Namespace, Kind: NamespaceImport, Module: module})
	}
	for _, spec := range clause.Named {
		imported := spec.Name
		if spec.PropertyName != "" {
			imported = spec.PropertyName
		}
		if module.Tracks(imported) {
			out = append(out, ImportBinding{Local: spec.Name, Kind: NamedImport, Module: module})
		}
	}
	return out
}

// lookup returns the first binding for local, or nil.
func lookup(bindings []ImportBinding, local string) *ImportBinding {
	for i := range bindings {
		if bindings[i].Local == local {
			return &bindings[i]
		}
	}
	return nil
}
