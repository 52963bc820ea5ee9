package config

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/gobwas/glob"
)

// Check normalizes cfg and runs the structural validation again, for
// configurations changed after Load (env overrides, command-line flags).
func Check(cfg *Config) error {
	normalize(cfg)
	return validate(cfg)
}

func validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateVersion,
		validatePlugin,
		validateRun,
		validateExclude,
		validateWatch,
		validateHistory,
		validateObservability,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validatePlugin(cfg *Config) error {
	p := cfg.Plugin
	if strings.TrimSpace(p.LabelFormat) == "" {
		return fmt.Errorf("plugin.label_format must not be empty")
	}
	if strings.TrimSpace(p.InjectModule) == "" {
		return fmt.Errorf("plugin.inject_module must not be empty")
	}

	seen := make(map[string]bool, len(p.CustomModules))
	for i, m := range p.CustomModules {
		ref := fmt.Sprintf("plugin.custom_modules[%d]", i)
		if m.Name == "" {
			return fmt.Errorf("%s.name must not be empty", ref)
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate custom module %q", m.Name)
		}
		seen[m.Name] = true
		if len(m.Exports) == 0 && m.StyledFactory == "" && !m.HasDefaultExport {
			return fmt.Errorf("%s (%s) tracks nothing; set exports, styled_factory or has_default_export", ref, m.Name)
		}
		for j, name := range m.Exports {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%s.exports[%d] must not be empty", ref, j)
			}
		}
	}
	return nil
}

func validateRun(cfg *Config) error {
	if !cfg.Run.InPlace && cfg.Run.OutDir == "" {
		return fmt.Errorf("run.out_dir must be set unless run.in_place=true")
	}
	if cfg.Run.Workers < 1 {
		return fmt.Errorf("run.workers must be >= 1, got %d", cfg.Run.Workers)
	}
	for i, path := range cfg.Run.Paths {
		if path == "" {
			return fmt.Errorf("run.paths[%d] must not be empty", i)
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, group := range []struct {
		name     string
		patterns []string
	}{
		{"exclude.dirs", cfg.Exclude.Dirs},
		{"exclude.files", cfg.Exclude.Files},
	} {
		for i, pattern := range group.patterns {
			if _, err := glob.Compile(pattern); err != nil {
				return fmt.Errorf("%s[%d] %q is not a valid glob: %w", group.name, i, pattern, err)
			}
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRebuildsPerSecond < 0 {
		return fmt.Errorf("watch.max_rebuilds_per_second must not be negative")
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history.enabled=true")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if addr := cfg.Observability.MetricsAddress; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("observability.metrics_address %q: %w", addr, err)
		}
	}
	return nil
}

// Validate reports problems that depend on the filesystem, such as missing
// input paths. They are returned together so callers can warn about all of
// them at once.
func Validate(cfg *Config) []error {
	var errs []error
	for i, path := range cfg.Run.Paths {
		_, err := os.Stat(path)
		switch {
		case stderrors.Is(err, os.ErrNotExist):
			errs = append(errs, fmt.Errorf("run.paths[%d] %q does not exist", i, path))
		case err != nil:
			errs = append(errs, fmt.Errorf("run.paths[%d] %q: %w", i, path, err))
		}
	}
	if cfg.Run.OutDir != "" {
		if info, err := os.Stat(cfg.Run.OutDir); err == nil && !info.IsDir() {
			errs = append(errs, fmt.Errorf("run.out_dir %q is not a directory", cfg.Run.OutDir))
		}
	}
	return errs
}
