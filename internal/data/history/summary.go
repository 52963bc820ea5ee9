package history

import (
	"time"

	"stylepass/internal/core/ports"
)

// Summary aggregates a window of runs for the history report.
type Summary struct {
	Runs            int
	FilesScanned    int
	FilesChanged    int
	FilesFailed     int
	TrackedCalls    int
	AverageDuration time.Duration
	Slowest         time.Duration
	LastRun         time.Time
}

func Summarize(runs []ports.RunRecord) Summary {
	var s Summary
	var total time.Duration
	for _, run := range runs {
		s.Runs++
		s.FilesScanned += run.FilesScanned
		s.FilesChanged += run.FilesChanged
		s.FilesFailed += run.FilesFailed
		s.TrackedCalls += run.TrackedCalls
		total += run.Duration
		if run.Duration > s.Slowest {
			s.Slowest = run.Duration
		}
		if run.StartedAt.After(s.LastRun) {
			s.LastRun = run.StartedAt
		}
	}
	if s.Runs > 0 {
		s.AverageDuration = total / time.Duration(s.Runs)
	}
	return s
}
