package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"stylepass/internal/core/watcher"
	"stylepass/internal/engine/pkgroot"
	"stylepass/internal/shared/observability"

	"golang.org/x/time/rate"
)

// Watch reprocesses inputs as they change until ctx is done. A changed
// package.json drops every cached root lookup and rebuilds all inputs, since
// package names feed into generated ids.
func (a *App) Watch(ctx context.Context) error {
	cfg := a.Config()
	w, err := watcher.NewWatcher(
		cfg.Watch.Debounce,
		cfg.Exclude.Dirs,
		cfg.Exclude.Files,
		func(paths []string) { a.HandleChanges(ctx, paths) },
	)
	if err != nil {
		return err
	}
	w.SetFilters(a.reader.SupportedExtensions(), []string{pkgroot.ManifestName})
	a.limiter = newRebuildLimiter(cfg.Watch.MaxRebuildsPerSecond)
	a.activeWatcher = w

	if err := w.Watch(a.Paths.Inputs); err != nil {
		_ = w.Close()
		return err
	}
	slog.Info("watching for changes", "paths", a.Paths.Inputs)

	<-ctx.Done()
	return w.Close()
}

// HandleChanges rebuilds after a batch of file system changes.
func (a *App) HandleChanges(ctx context.Context, paths []string) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			observability.RebuildsTotal.WithLabelValues("cancelled").Inc()
			return
		}
	}
	slog.Info("detected changes", "count", len(paths))

	var files []string
	manifestChanged := false
	for _, path := range paths {
		if filepath.Base(path) == pkgroot.ManifestName {
			manifestChanged = true
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			a.removeOutput(path)
			continue
		}
		if a.includeFile(path) {
			files = append(files, path)
		}
	}

	if manifestChanged {
		a.roots.Purge()
		all, err := a.ScanDirectories(a.Paths.Inputs)
		if err != nil {
			observability.RebuildsTotal.WithLabelValues("error").Inc()
			slog.Error("failed to rescan inputs", "error", err)
			return
		}
		files = all
	}
	if len(files) == 0 {
		return
	}

	if _, err := a.ProcessFiles(ctx, TriggerWatch, files); err != nil {
		observability.RebuildsTotal.WithLabelValues("error").Inc()
		slog.Error("rebuild failed", "error", err)
		return
	}
	observability.RebuildsTotal.WithLabelValues("ok").Inc()
}

// newRebuildLimiter allows perSecond rebuilds with a burst of one. A
// non-positive rate disables throttling.
func newRebuildLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// removeOutput deletes the mirrored output of a removed source file.
func (a *App) removeOutput(path string) {
	if a.Paths.OutDir == "" || a.stdout != nil || !a.reader.IsSupportedPath(path) {
		return
	}
	target, err := a.OutputPath(path)
	if err != nil {
		return
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove stale output", "path", target, "error", err)
		return
	}
	slog.Debug("removed stale output", "path", target)
}
