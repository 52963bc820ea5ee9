package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stylepass/internal/core/ports"
	"stylepass/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Run triggers recorded in history.
const (
	TriggerOnce  = "once"
	TriggerWatch = "watch"
)

// RunOnce processes every supported file under the configured inputs.
func (a *App) RunOnce(ctx context.Context) (ports.RunRecord, error) {
	files, err := a.ScanDirectories(a.Paths.Inputs)
	if err != nil {
		return ports.RunRecord{}, err
	}
	return a.ProcessFiles(ctx, TriggerOnce, files)
}

// ProcessFiles runs the pass over files with a bounded worker pool. Failures
// of single files are logged and counted; only cancellation aborts the run.
func (a *App) ProcessFiles(ctx context.Context, trigger string, files []string) (ports.RunRecord, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.ProcessFiles")
	defer span.End()
	span.SetAttributes(attribute.String("trigger", trigger), attribute.Int("files", len(files)))

	cfg, _ := a.current()
	run := ports.RunRecord{
		StartedAt:    time.Now().UTC(),
		FilesScanned: len(files),
		Trigger:      trigger,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Run.Workers, 1))
	for _, path := range files {
		g.Go(func() error {
			result, err := a.ProcessFile(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				run.FilesFailed++
				observability.FilesProcessedTotal.WithLabelValues(observability.ResultFailed).Inc()
				slog.Warn("failed to process file", "path", path, "error", err)
			case result.Stats.Changed():
				run.FilesChanged++
				run.TrackedCalls += result.Stats.TrackedCalls
				observability.FilesProcessedTotal.WithLabelValues(observability.ResultChanged).Inc()
			default:
				observability.FilesProcessedTotal.WithLabelValues(observability.ResultUnchanged).Inc()
			}
			return nil
		})
	}
	err := g.Wait()

	run.Duration = time.Since(run.StartedAt)
	observability.RunDuration.Observe(run.Duration.Seconds())
	observability.RootCacheEntries.Set(float64(a.roots.Len()))
	if err != nil {
		return run, err
	}

	slog.Info("run complete",
		"trigger", trigger,
		"files", run.FilesScanned,
		"changed", run.FilesChanged,
		"failed", run.FilesFailed,
		"calls", run.TrackedCalls,
		"duration", run.Duration,
	)
	a.record(ctx, run)
	return run, nil
}

func (a *App) record(ctx context.Context, run ports.RunRecord) {
	if a.history == nil {
		return
	}
	if err := a.history.SaveRun(ctx, run); err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}
