package transform

import "stylepass/internal/core/ports"

// CompilerOptions are the host compiler settings the pass reads.
type CompilerOptions struct {
	JSXFactory                   string
	AllowSyntheticDefaultImports bool
	Production                   bool
}

// Options configures a Transformer. The zero value disables every rewrite
// step; use DefaultOptions as the starting point.
type Options struct {
	Sourcemap       bool
	AutoLabel       bool
	LabelFormat     string
	AutoInject      bool
	TargetInjection bool

	// CustomModules are matched before the default modules.
	CustomModules       []ModuleConfig
	JSXFactory          string
	JSXImportSourceName string

	// HostLibrary is the import that triggers the synthetic jsx import,
	// InjectModule is where that import comes from.
	HostLibrary  string
	InjectModule string

	Compiler CompilerOptions

	// Cwd anchors the source paths recorded in location comments.
	Cwd string

	Roots     ports.PackageResolver
	Manifests ports.ManifestReader
}

const (
	DefaultLabelFormat  = "[local]"
	DefaultHostLibrary  = "react"
	DefaultInjectModule = "@emotion/core"
)

func DefaultOptions() Options {
	return Options{
		Sourcemap:       true,
		AutoLabel:       true,
		LabelFormat:     DefaultLabelFormat,
		AutoInject:      true,
		TargetInjection: true,
		HostLibrary:     DefaultHostLibrary,
		InjectModule:    DefaultInjectModule,
	}
}

// jsxFactory returns the effective factory name, the plugin override first.
func (o Options) jsxFactory() string {
	if o.JSXFactory != "" {
		return o.JSXFactory
	}
	return o.Compiler.JSXFactory
}
