package ports

import (
	"context"
	"time"
)

// PackageResolver finds the nearest ancestor directory of path that holds a
// package manifest.
type PackageResolver interface {
	FindRoot(path string) (string, error)
}

// ManifestReader reads the package name declared in the manifest under root.
type ManifestReader interface {
	PackageName(root string) (string, error)
}

// RunRecord summarizes one batch of file passes.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	FilesScanned int
	FilesChanged int
	FilesFailed  int
	TrackedCalls int
	Trigger      string
}

// HistoryStore abstracts run persistence for the history report.
type HistoryStore interface {
	SaveRun(ctx context.Context, run RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}
