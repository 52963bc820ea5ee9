package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stylepass/internal/core/ports"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := ports.RunRecord{
		StartedAt:    base,
		Duration:     1500 * time.Millisecond,
		FilesScanned: 8,
		FilesChanged: 3,
		TrackedCalls: 12,
		Trigger:      "once",
	}
	second := ports.RunRecord{
		StartedAt:    base.Add(2 * time.Hour),
		Duration:     40 * time.Millisecond,
		FilesScanned: 1,
		FilesChanged: 1,
		FilesFailed:  1,
		Trigger:      "watch",
	}

	firstID, err := store.SaveRun(ctx, "project-a", first)
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if firstID == "" {
		t.Fatal("expected a generated run id")
	}
	if _, err := store.SaveRun(ctx, "project-a", second); err != nil {
		t.Fatalf("save second run: %v", err)
	}

	got, err := store.RecentRuns(ctx, "project-a", 0)
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].Trigger != "watch" || got[1].ID != firstID {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if got[1].Duration != 1500*time.Millisecond || got[1].TrackedCalls != 12 || !got[1].StartedAt.Equal(base) {
		t.Fatalf("expected fields to roundtrip, got %+v", got[1])
	}

	limited, err := store.RecentRuns(ctx, "project-a", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Trigger != "watch" {
		t.Fatalf("unexpected limited runs %+v", limited)
	}
}

func TestStore_SaveRunUpsertsByID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := ports.RunRecord{ID: "fixed", StartedAt: time.Now().UTC(), FilesScanned: 1}
	if _, err := store.SaveRun(ctx, "", run); err != nil {
		t.Fatal(err)
	}
	run.FilesScanned = 4
	if _, err := store.SaveRun(ctx, "", run); err != nil {
		t.Fatal(err)
	}

	got, err := store.RecentRuns(ctx, defaultProjectKey, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].FilesScanned != 4 {
		t.Fatalf("expected a single upserted run, got %+v", got)
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir(), 0)
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path, 0)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsCorruptError(t *testing.T) {
	if !IsCorruptError(errors.New("database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
	if IsCorruptError(nil) {
		t.Fatal("nil is not corrupt")
	}
}

func TestAdapter_ProjectIsolation(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	a := NewAdapter(store, "project-a")
	b := NewAdapter(store, "project-b")

	if err := a.SaveRun(ctx, ports.RunRecord{FilesScanned: 1}); err != nil {
		t.Fatal(err)
	}
	if err := b.SaveRun(ctx, ports.RunRecord{FilesScanned: 2}); err != nil {
		t.Fatal(err)
	}

	aRows, err := a.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(aRows) != 1 || aRows[0].FilesScanned != 1 {
		t.Fatalf("unexpected project-a rows: %+v", aRows)
	}
	bRows, err := b.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(bRows) != 1 || bRows[0].FilesScanned != 2 {
		t.Fatalf("unexpected project-b rows: %+v", bRows)
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	s := Summarize([]ports.RunRecord{
		{StartedAt: base, Duration: time.Second, FilesScanned: 4, FilesChanged: 2, TrackedCalls: 5},
		{StartedAt: base.Add(time.Hour), Duration: 3 * time.Second, FilesScanned: 1, FilesFailed: 1},
	})
	if s.Runs != 2 || s.FilesScanned != 5 || s.FilesChanged != 2 || s.FilesFailed != 1 || s.TrackedCalls != 5 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.AverageDuration != 2*time.Second || s.Slowest != 3*time.Second {
		t.Fatalf("unexpected durations %+v", s)
	}
	if !s.LastRun.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected last run %v", s.LastRun)
	}
	if empty := Summarize(nil); empty.Runs != 0 || empty.AverageDuration != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}
