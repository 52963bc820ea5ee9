package app

import (
	"fmt"
	"io"
	"sync"

	"stylepass/internal/core/config"
	"stylepass/internal/core/ports"
	"stylepass/internal/core/watcher"
	"stylepass/internal/engine/parser"
	"stylepass/internal/engine/pkgroot"
	"stylepass/internal/engine/transform"

	"github.com/gobwas/glob"
	"golang.org/x/time/rate"
)

// App runs the style pass over a project: it scans inputs, rewrites each
// file and writes the result either under the output directory or in place.
type App struct {
	Paths config.ResolvedPaths

	reader *parser.Reader
	roots  *pkgroot.Cache

	mu           sync.RWMutex
	cfg          *config.Config
	transformer  *transform.Transformer
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	history ports.HistoryStore

	stdoutMu sync.Mutex
	stdout   io.Writer

	activeWatcher *watcher.Watcher
	limiter       *rate.Limiter
}

func New(cfg *config.Config, paths config.ResolvedPaths) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	roots, err := pkgroot.NewFSCache(cfg.Run.RootCacheSize)
	if err != nil {
		return nil, err
	}
	a := &App{
		Paths:  paths,
		reader: parser.NewReader(),
		roots:  roots,
	}
	if err := a.Reconfigure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Reconfigure swaps in cfg for subsequent passes. Files already being
// processed finish with the previous settings.
func (a *App) Reconfigure(cfg *config.Config) error {
	dirGlobs, err := compileGlobs(cfg.Exclude.Dirs, "exclude dir")
	if err != nil {
		return err
	}
	fileGlobs, err := compileGlobs(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return err
	}
	t := transform.New(transformOptions(cfg, a.roots, a.Paths.Root))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = cfg
	a.transformer = t
	a.excludeDirs = dirGlobs
	a.excludeFiles = fileGlobs
	return nil
}

// Config returns the configuration currently in effect.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

func (a *App) current() (*config.Config, *transform.Transformer) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg, a.transformer
}

// SetHistory records every run into store. A nil store disables recording.
func (a *App) SetHistory(store ports.HistoryStore) {
	a.history = store
}

// SetStdout makes the app print rewritten files to w instead of writing them.
func (a *App) SetStdout(w io.Writer) {
	a.stdout = w
}

// Reader exposes the source reader, mostly for its supported extensions.
func (a *App) Reader() *parser.Reader {
	return a.reader
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
