package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"stylepass/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid config"), errors.CtxPath, path)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Plugin.Sourcemap == nil {
		cfg.Plugin.Sourcemap = boolPtr(true)
	}
	if cfg.Plugin.AutoLabel == nil {
		cfg.Plugin.AutoLabel = boolPtr(true)
	}
	if cfg.Plugin.AutoInject == nil {
		cfg.Plugin.AutoInject = boolPtr(true)
	}
	if cfg.Plugin.TargetInjection == nil {
		cfg.Plugin.TargetInjection = boolPtr(true)
	}
	if strings.TrimSpace(cfg.Plugin.LabelFormat) == "" {
		cfg.Plugin.LabelFormat = "[local]"
	}
	if strings.TrimSpace(cfg.Plugin.HostLibrary) == "" {
		cfg.Plugin.HostLibrary = "react"
	}
	if strings.TrimSpace(cfg.Plugin.InjectModule) == "" {
		cfg.Plugin.InjectModule = "@emotion/core"
	}

	if len(cfg.Run.Paths) == 0 {
		cfg.Run.Paths = []string{"."}
	}
	if !cfg.Run.InPlace && strings.TrimSpace(cfg.Run.OutDir) == "" {
		cfg.Run.OutDir = "build/stylepass"
	}
	if cfg.Run.Workers <= 0 {
		cfg.Run.Workers = runtime.NumCPU()
	}
	if cfg.Run.RootCacheSize <= 0 {
		cfg.Run.RootCacheSize = 4096
	}

	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "build", "dist"}
	}
	if len(cfg.Exclude.Files) == 0 {
		cfg.Exclude.Files = []string{"*.d.ts"}
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MaxRebuildsPerSecond == 0 {
		cfg.Watch.MaxRebuildsPerSecond = 2
	}
	if cfg.Watch.ReloadConfig == nil {
		cfg.Watch.ReloadConfig = boolPtr(true)
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".stylepass/history.db"
	}
	if cfg.History.BusyTimeout <= 0 {
		cfg.History.BusyTimeout = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "stylepass"
	}
}

func normalize(cfg *Config) {
	cfg.Run.Root = strings.TrimSpace(cfg.Run.Root)
	cfg.Run.OutDir = strings.TrimSpace(cfg.Run.OutDir)
	for i := range cfg.Run.Paths {
		cfg.Run.Paths[i] = strings.TrimSpace(cfg.Run.Paths[i])
	}
	for i := range cfg.Plugin.CustomModules {
		m := &cfg.Plugin.CustomModules[i]
		m.Name = strings.TrimSpace(m.Name)
		m.StyledFactory = strings.TrimSpace(m.StyledFactory)
	}
	cfg.Observability.MetricsAddress = strings.TrimSpace(cfg.Observability.MetricsAddress)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}
