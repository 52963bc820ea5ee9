package config

import "time"

const DefaultFileName = "stylepass.toml"

type Config struct {
	Version       int           `toml:"version"`
	Plugin        Plugin        `toml:"plugin"`
	Compiler      Compiler      `toml:"compiler"`
	Run           Run           `toml:"run"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

// Plugin holds the rewrite options. Unset toggles default to enabled.
type Plugin struct {
	Sourcemap           *bool    `toml:"sourcemap"`
	AutoLabel           *bool    `toml:"auto_label"`
	LabelFormat         string   `toml:"label_format"`
	AutoInject          *bool    `toml:"auto_inject"`
	TargetInjection     *bool    `toml:"target_injection"`
	JSXFactory          string   `toml:"jsx_factory"`
	JSXImportSourceName string   `toml:"jsx_import_source_name"`
	HostLibrary         string   `toml:"host_library"`
	InjectModule        string   `toml:"inject_module"`
	CustomModules       []Module `toml:"custom_modules"`
}

type Module struct {
	Name             string   `toml:"name"`
	MatchSubpaths    bool     `toml:"match_subpaths"`
	Exports          []string `toml:"exports"`
	StyledFactory    string   `toml:"styled_factory"`
	HasDefaultExport bool     `toml:"has_default_export"`
}

type Compiler struct {
	JSXFactory                   string `toml:"jsx_factory"`
	AllowSyntheticDefaultImports bool   `toml:"allow_synthetic_default_imports"`
	Production                   bool   `toml:"production"`
}

// Run selects the files to rewrite. InPlace takes precedence over OutDir.
type Run struct {
	Root          string   `toml:"root"`
	Paths         []string `toml:"paths"`
	OutDir        string   `toml:"out_dir"`
	InPlace       bool     `toml:"in_place"`
	Workers       int      `toml:"workers"`
	RootCacheSize int      `toml:"root_cache_size"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce             time.Duration `toml:"debounce"`
	MaxRebuildsPerSecond float64       `toml:"max_rebuilds_per_second"`
	ReloadConfig         *bool         `toml:"reload_config"`
}

type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Observability struct {
	MetricsAddress string `toml:"metrics_address"`
	OTLPEndpoint   string `toml:"otlp_endpoint"`
	ServiceName    string `toml:"service_name"`
}

// DefaultConfig returns a configuration with every default applied, as if
// loaded from an empty file.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func (p Plugin) SourcemapEnabled() bool       { return enabled(p.Sourcemap) }
func (p Plugin) AutoLabelEnabled() bool       { return enabled(p.AutoLabel) }
func (p Plugin) AutoInjectEnabled() bool      { return enabled(p.AutoInject) }
func (p Plugin) TargetInjectionEnabled() bool { return enabled(p.TargetInjection) }

func (w Watch) ReloadConfigEnabled() bool { return enabled(w.ReloadConfig) }

func enabled(flag *bool) bool {
	if flag == nil {
		return true
	}
	return *flag
}

func boolPtr(v bool) *bool { return &v }
