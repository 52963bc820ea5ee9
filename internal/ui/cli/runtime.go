package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	coreapp "stylepass/internal/core/app"
	"stylepass/internal/core/config"
	coreerrors "stylepass/internal/core/errors"
	"stylepass/internal/core/ports"
	"stylepass/internal/data/history"
	"stylepass/internal/shared/observability"
)

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "stylepass v%s\n", versionString)
		return 0
	}

	// Rewritten sources own stdout in -stdout mode.
	logOutput := stdout
	if opts.stdout {
		logOutput = stderr
	}
	configureLogging(logOutput, opts.verbose)

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if err := prepareConfig(cfg, opts.args, cwd); err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	base := cwd
	if cfgPath != "" {
		base = filepath.Dir(cfgPath)
	}
	paths, err := config.ResolvePaths(cfg, base)
	if err != nil {
		slog.Error("failed to resolve runtime paths", "error", err)
		return 1
	}
	for _, problem := range config.Validate(withResolvedInputs(cfg, paths)) {
		slog.Warn("configuration problem", "error", problem)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	historyStore, err := openHistoryStoreIfEnabled(opts.history || cfg.History.Enabled, cfg, paths)
	if err != nil {
		slog.Error("history setup failed", "error", err)
		return 1
	}
	if historyStore != nil {
		defer historyStore.Close()
	}
	if opts.history {
		if err := printHistory(ctx, stdout, historyStore, opts.historyLimit); err != nil {
			slog.Error("failed to read history", "error", err)
			return 1
		}
		return 0
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("tracing setup failed", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		server := NewObservabilityServer(addr)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	a, err := coreapp.New(cfg, paths)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	if opts.stdout {
		a.SetStdout(stdout)
	}
	if historyStore != nil {
		a.SetHistory(historyStore)
	}

	summary, err := a.RunOnce(ctx)
	if err != nil {
		slog.Error("run failed", "error", err)
		return 1
	}
	if opts.once {
		if summary.FilesFailed > 0 {
			return 1
		}
		return 0
	}

	if cfgPath != "" && cfg.Watch.ReloadConfigEnabled() {
		cw := config.NewWatcher(cfgPath, func(next *config.Config) {
			if err := prepareConfig(next, opts.args, cwd); err != nil {
				slog.Warn("ignoring reloaded config", "error", err)
				return
			}
			if err := a.Reconfigure(next); err != nil {
				slog.Warn("failed to apply reloaded config", "error", err)
				return
			}
			slog.Info("config reloaded", "path", cfgPath)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config hot-reload disabled", "error", err)
		} else {
			defer cw.Stop()
		}
	}

	if err := a.Watch(ctx); err != nil {
		slog.Error("watch failed", "error", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file. The default path is optional: when it is
// missing the built-in defaults are used and the returned path is empty.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		candidate := filepath.Join(cwd, config.DefaultFileName)
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no config file found, using defaults", "path", candidate)
			return config.DefaultConfig(), "", nil
		}
		path = candidate
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(abs)
	if err != nil {
		return nil, "", err
	}
	return cfg, abs, nil
}

// prepareConfig layers environment overrides and positional paths on top of
// a loaded config and validates the result.
func prepareConfig(cfg *config.Config, args []string, cwd string) error {
	config.ApplyEnvOverrides(cfg)
	if len(args) > 0 {
		cfg.Run.Paths = make([]string, 0, len(args))
		for _, arg := range args {
			cfg.Run.Paths = append(cfg.Run.Paths, config.ResolveRelative(cwd, arg))
		}
	}
	return config.Check(cfg)
}

func withResolvedInputs(cfg *config.Config, paths config.ResolvedPaths) *config.Config {
	resolved := *cfg
	resolved.Run.Paths = paths.Inputs
	resolved.Run.OutDir = paths.OutDir
	return &resolved
}

func openHistoryStoreIfEnabled(enabled bool, cfg *config.Config, paths config.ResolvedPaths) (ports.HistoryStore, error) {
	if !enabled {
		return nil, nil
	}
	store, err := history.Open(paths.HistoryPath, cfg.History.BusyTimeout)
	if err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "open history store")
	}
	return history.NewAdapter(store, paths.Root), nil
}

func printHistory(ctx context.Context, w io.Writer, store ports.HistoryStore, limit int) error {
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tTRIGGER\tFILES\tCHANGED\tFAILED\tCALLS\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.Trigger,
			run.FilesScanned,
			run.FilesChanged,
			run.FilesFailed,
			run.TrackedCalls,
			run.Duration.Round(time.Millisecond),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := history.Summarize(runs)
	fmt.Fprintf(w, "\n%d runs, %d files changed, %d failed, %d calls, avg %s, slowest %s\n",
		s.Runs, s.FilesChanged, s.FilesFailed, s.TrackedCalls,
		s.AverageDuration.Round(time.Millisecond), s.Slowest.Round(time.Millisecond))
	return nil
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
