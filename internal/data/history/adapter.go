package history

import (
	"context"

	"stylepass/internal/core/ports"
)

// Adapter bridges Store to the core HistoryStore port for one project.
type Adapter struct {
	store      *Store
	projectKey string
}

var _ ports.HistoryStore = (*Adapter)(nil)

func NewAdapter(store *Store, projectKey string) *Adapter {
	return &Adapter{store: store, projectKey: projectKey}
}

func (a *Adapter) SaveRun(ctx context.Context, run ports.RunRecord) error {
	_, err := a.store.SaveRun(ctx, a.projectKey, run)
	return err
}

func (a *Adapter) RecentRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	return a.store.RecentRuns(ctx, a.projectKey, limit)
}

func (a *Adapter) Close() error {
	return a.store.Close()
}
