package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylepass_files_processed_total",
		Help: "Total number of source files run through the pass, by result.",
	}, []string{"result"})

	TrackedCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylepass_tracked_calls_total",
		Help: "Total number of tracked style calls rewritten.",
	}, []string{"kind"})

	InjectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylepass_injections_total",
		Help: "Total number of arguments and imports injected, by kind.",
	}, []string{"kind"})

	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stylepass_phase_seconds",
		Help:    "Time spent in each phase of processing a single file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stylepass_run_seconds",
		Help:    "Time spent on a full run over all inputs.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stylepass_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylepass_rebuilds_total",
		Help: "Total number of watch-mode rebuilds, by outcome.",
	}, []string{"outcome"})

	RootCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stylepass_root_cache_entries",
		Help: "Current number of memoized package root lookups.",
	})
)

// Result labels for FilesProcessedTotal.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultFailed    = "failed"
)
