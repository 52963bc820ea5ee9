package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stylepass/internal/core/errors"
	"stylepass/internal/engine/ast"
	"stylepass/internal/engine/transform"
	"stylepass/internal/shared/observability"
	"stylepass/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FileResult describes one processed file.
type FileResult struct {
	Path    string
	Output  string
	Stats   transform.Stats
	Written bool
}

// ProcessFile runs the pass over one file and emits the result.
func (a *App) ProcessFile(ctx context.Context, path string) (result FileResult, err error) {
	ctx, span := observability.Tracer.Start(ctx, "app.ProcessFile", trace.WithAttributes(attribute.String("path", path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return FileResult{}, err
	}
	cfg, t := a.current()

	started := time.Now()
	content, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read source"), errors.CtxPath, path)
	}
	observe("read", started)

	started = time.Now()
	file, err := a.reader.Read(path, content)
	if err != nil {
		return FileResult{}, err
	}
	observe("parse", started)

	started = time.Now()
	out, stats, err := t.TransformFile(file)
	if err != nil {
		return FileResult{}, errors.AddContext(err, errors.CtxPath, path)
	}
	observe("transform", started)

	started = time.Now()
	result = FileResult{Path: path, Output: ast.Print(out), Stats: stats}
	observe("print", started)

	span.SetAttributes(
		attribute.Int("stylepass.tracked_calls", stats.TrackedCalls),
		attribute.Bool("stylepass.import_inserted", stats.ImportInserted),
	)
	recordStats(stats)

	started = time.Now()
	written, err := a.emit(cfg.Run.InPlace, result)
	if err != nil {
		return result, errors.AddContext(err, errors.CtxPath, path)
	}
	observe("write", started)
	result.Written = written

	slog.Debug("processed file", "path", path, "calls", stats.TrackedCalls, "written", written)
	return result, nil
}

// emit delivers a result to stdout, the output tree, or the source itself.
// In-place writes are skipped when nothing changed.
func (a *App) emit(inPlace bool, r FileResult) (bool, error) {
	if a.stdout != nil {
		a.stdoutMu.Lock()
		defer a.stdoutMu.Unlock()
		_, err := fmt.Fprintf(a.stdout, "// %s\n%s", r.Path, r.Output)
		return false, err
	}

	if inPlace {
		if !r.Stats.Changed() {
			return false, nil
		}
		if a.activeWatcher != nil {
			a.activeWatcher.Remember(r.Path, []byte(r.Output))
		}
		return true, util.WriteStringWithDirs(r.Path, r.Output, 0o644)
	}

	target, err := a.OutputPath(r.Path)
	if err != nil {
		return false, err
	}
	return true, util.WriteStringWithDirs(target, r.Output, 0o644)
}

// OutputPath mirrors path under the output directory, relative to the
// project root.
func (a *App) OutputPath(path string) (string, error) {
	if a.Paths.OutDir == "" {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(a.Paths.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.AddContext(errors.New(errors.CodeValidationError, "file is outside the project root"), errors.CtxPath, path)
	}
	return filepath.Join(a.Paths.OutDir, rel), nil
}

func observe(phase string, started time.Time) {
	observability.PhaseDuration.WithLabelValues(phase).Observe(time.Since(started).Seconds())
}

func recordStats(s transform.Stats) {
	observability.TrackedCallsTotal.WithLabelValues("direct").Add(float64(s.TrackedCalls - s.StyledFactoryCalls))
	observability.TrackedCallsTotal.WithLabelValues("styled_factory").Add(float64(s.StyledFactoryCalls))
	observability.InjectionsTotal.WithLabelValues("target").Add(float64(s.Targets))
	observability.InjectionsTotal.WithLabelValues("label").Add(float64(s.Labels))
	observability.InjectionsTotal.WithLabelValues("location").Add(float64(s.Locations))
	if s.ImportInserted {
		observability.InjectionsTotal.WithLabelValues("jsx_import").Inc()
	}
}
