package transform

import (
	"testing"

	"stylepass/internal/engine/ast"
)

func named(specs ...ast.ImportSpecifier) *ast.ImportClause {
	return &ast.ImportClause{HasNamed: true, Named: specs}
}

func TestResolveBindings(t *testing.T) {
	modules := DefaultModules()
	tests := []struct {
		name     string
		decl     *ast.ImportDeclaration
		compiler CompilerOptions
		want     []ImportBinding
	}{
		{
			name: "default export",
			decl: &ast.ImportDeclaration{Module: "@emotion/styled", Clause: &ast.ImportClause{Default: "styled"}},
			want: []ImportBinding{{Local: "styled", Kind: DefaultImport}},
		},
		{
			name: "default without export or synthetic imports",
			decl: &ast.ImportDeclaration{Module: "emotion", Clause: &ast.ImportClause{Default: "emotion"}},
		},
		{
			name:     "synthetic default becomes namespace",
			decl:     &ast.ImportDeclaration{Module: "emotion", Clause: &ast.ImportClause{Default: "emotion"}},
			compiler: CompilerOptions{AllowSyntheticDefaultImports: true},
			want:     []ImportBinding{{Local: "emotion", Kind: NamespaceImport}},
		},
		{
			name: "named tracked and untracked",
			decl: &ast.ImportDeclaration{Module: "emotion", Clause: named(
				ast.ImportSpecifier{Name: "css"},
				ast.ImportSpecifier{Name: "cx"},
				ast.ImportSpecifier{Name: "kf", PropertyName: "keyframes"},
			)},
			want: []ImportBinding{{Local: "css", Kind: NamedImport}, {Local: "kf", Kind: NamedImport}},
		},
		{
			name: "renamed default",
			decl: &ast.ImportDeclaration{Module: "@emotion/styled", Clause: named(ast.ImportSpecifier{Name: "styled", PropertyName: "default"})},
			want: []ImportBinding{{Local: "styled", Kind: NamedImport}},
		},
		{
			name: "renamed default on module without default export",
			decl: &ast.ImportDeclaration{Module: "emotion", Clause: named(ast.ImportSpecifier{Name: "e", PropertyName: "default"})},
		},
		{
			name: "alias matched by original name only",
			decl: &ast.ImportDeclaration{Module: "emotion", Clause: named(ast.ImportSpecifier{Name: "css", PropertyName: "cx"})},
		},
		{
			name: "namespace",
			decl: &ast.ImportDeclaration{Module: "@emotion/core", Clause: &ast.ImportClause{Namespace: "core"}},
			want: []ImportBinding{{Local: "core", Kind: NamespaceImport}},
		},
		{
			name: "side effect import",
			decl: &ast.ImportDeclaration{Module: "emotion"},
		},
		{
			name: "untracked module",
			decl: &ast.ImportDeclaration{Module: "react", Clause: named(ast.ImportSpecifier{Name: "css"})},
		},
		{
			name: "subpath without opt in",
			decl: &ast.ImportDeclaration{Module: "emotion/macro", Clause: named(ast.ImportSpecifier{Name: "css"})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBindings(tt.decl, modules, tt.compiler)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d bindings, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Local != tt.want[i].Local || got[i].Kind != tt.want[i].Kind {
					t.Errorf("binding %d = %s/%s, want %s/%s", i, got[i].Local, got[i].Kind, tt.want[i].Local, tt.want[i].Kind)
				}
				if got[i].Module == nil || got[i].Module.Name != tt.decl.Module {
					t.Errorf("binding %d owned by %+v", i, got[i].Module)
				}
			}
		})
	}
}

func TestResolveBindingsSubpaths(t *testing.T) {
	modules := []ModuleConfig{{Name: "@acme/styles", MatchSubpaths: true, Exports: []string{"css"}}}
	decl := &ast.ImportDeclaration{Module: "@acme/styles/macro", Clause: named(ast.ImportSpecifier{Name: "css"})}
	if got := ResolveBindings(decl, modules, CompilerOptions{}); len(got) != 1 {
		t.Fatalf("expected subpath import to bind, got %+v", got)
	}
	decl.Module = "@acme/styles-extra"
	if got := ResolveBindings(decl, modules, CompilerOptions{}); len(got) != 0 {
		t.Fatalf("expected sibling package not to bind, got %+v", got)
	}
}

func TestResolveBindingsFirstModuleWins(t *testing.T) {
	modules := []ModuleConfig{
		{Name: "emotion", Exports: []string{"cx"}},
		{Name: "emotion", Exports: []string{"css"}},
	}
	decl := &ast.ImportDeclaration{Module: "emotion", Clause: named(ast.ImportSpecifier{Name: "css"}, ast.ImportSpecifier{Name: "cx"})}
	got := ResolveBindings(decl, modules, CompilerOptions{})
	if len(got) != 1 || got[0].Local != "cx" || got[0].Module != &modules[0] {
		t.Fatalf("expected only the first module to bind, got %+v", got)
	}
}
