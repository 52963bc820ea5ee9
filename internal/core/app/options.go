package app

import (
	"slices"

	"stylepass/internal/core/config"
	"stylepass/internal/core/ports"
	"stylepass/internal/engine/transform"
)

// transformOptions maps the config file onto pass options. Location payloads
// are recorded relative to root.
func transformOptions(cfg *config.Config, roots interface {
	ports.PackageResolver
	ports.ManifestReader
}, root string) transform.Options {
	opts := transform.DefaultOptions()
	p := cfg.Plugin

	opts.Sourcemap = p.SourcemapEnabled()
	opts.AutoLabel = p.AutoLabelEnabled()
	opts.AutoInject = p.AutoInjectEnabled()
	opts.TargetInjection = p.TargetInjectionEnabled()
	if p.LabelFormat != "" {
		opts.LabelFormat = p.LabelFormat
	}
	if p.HostLibrary != "" {
		opts.HostLibrary = p.HostLibrary
	}
	if p.InjectModule != "" {
		opts.InjectModule = p.InjectModule
	}
	opts.JSXFactory = p.JSXFactory
	opts.JSXImportSourceName = p.JSXImportSourceName

	for _, m := range p.CustomModules {
		opts.CustomModules = append(opts.CustomModules, transform.ModuleConfig{
			Name:             m.Name,
			MatchSubpaths:    m.MatchSubpaths,
			Exports:          slices.Clone(m.Exports),
			StyledFactory:    m.StyledFactory,
			HasDefaultExport: m.HasDefaultExport,
		})
	}

	opts.Compiler = transform.CompilerOptions{
		JSXFactory:                   cfg.Compiler.JSXFactory,
		AllowSyntheticDefaultImports: cfg.Compiler.AllowSyntheticDefaultImports,
		Production:                   cfg.Compiler.Production,
	}
	opts.Cwd = root
	opts.Roots = roots
	opts.Manifests = roots
	return opts
}
