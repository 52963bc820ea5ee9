package transform

import (
	"slices"
	"strings"
)

// ModuleConfig describes one styling module whose calls are tracked.
type ModuleConfig struct {
	Name          string
	MatchSubpaths bool
	Exports       []string
	// StyledFactory is the local name under which member chaining
	// (`styled.div(...)`) is recognized.
	StyledFactory    string
	HasDefaultExport bool
}

var trackedFunctions = []string{"css", "keyframes", "injectGlobal", "merge"}

// DefaultModules returns the emotion packages tracked out of the box.
func DefaultModules() []ModuleConfig {
	return []ModuleConfig{
		{
			Name:             "@emotion/styled",
			Exports:          slices.Clone(trackedFunctions),
			StyledFactory:    "styled",
			HasDefaultExport: true,
		},
		{Name: "emotion", Exports: slices.Clone(trackedFunctions)},
		{Name: "@emotion/core", Exports: slices.Clone(trackedFunctions)},
	}
}

// Matches reports whether an import specifier refers to m.
func (m *ModuleConfig) Matches(specifier string) bool {
	if specifier == m.Name {
		return true
	}
	return m.MatchSubpaths && strings.HasPrefix(specifier, m.Name+"/")
}

// Tracks reports whether name is an export whose calls are rewritten. The
// name "default" is tracked only for modules with a default export.
func (m *ModuleConfig) Tracks(name string) bool {
	if name == "default" {
		return m.HasDefaultExport
	}
	return slices.Contains(m.Exports, name)
}
