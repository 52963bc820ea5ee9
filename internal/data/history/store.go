package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"stylepass/internal/core/ports"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName         = "sqlite"
	maxAttempts        = 5
	defaultBusyTimeout = 2 * time.Second
	defaultProjectKey  = "default"
)

// Store persists run records in a single SQLite file.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun upserts run under projectKey, assigning a fresh id when it has none.
// It returns the id the run was stored under.
func (s *Store) SaveRun(ctx context.Context, projectKey string, run ports.RunRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = normalizeProjectKey(projectKey)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	query := `
INSERT INTO runs (
  id, project_key, started_at_utc, duration_ms, files_scanned, files_changed,
  files_failed, tracked_calls, trigger_source
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  project_key=excluded.project_key,
  started_at_utc=excluded.started_at_utc,
  duration_ms=excluded.duration_ms,
  files_scanned=excluded.files_scanned,
  files_changed=excluded.files_changed,
  files_failed=excluded.files_failed,
  tracked_calls=excluded.tracked_calls,
  trigger_source=excluded.trigger_source
`
	err := s.withRetry("save run", func() error {
		_, err := s.db.ExecContext(ctx,
			query,
			run.ID,
			projectKey,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.Duration.Milliseconds(),
			run.FilesScanned,
			run.FilesChanged,
			run.FilesFailed,
			run.TrackedCalls,
			run.Trigger,
		)
		return err
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// RecentRuns returns up to limit runs for projectKey, newest first. A
// non-positive limit returns every run.
func (s *Store) RecentRuns(ctx context.Context, projectKey string, limit int) ([]ports.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT id, started_at_utc, duration_ms, files_scanned, files_changed, files_failed, tracked_calls, trigger_source
FROM runs
WHERE project_key = ?
ORDER BY started_at_utc DESC, id ASC
`
	args := []any{normalizeProjectKey(projectKey)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]ports.RunRecord, 0)
	for rows.Next() {
		var (
			startedRaw string
			durationMS int64
			run        ports.RunRecord
		)
		if err := rows.Scan(
			&run.ID,
			&startedRaw,
			&durationMS,
			&run.FilesScanned,
			&run.FilesChanged,
			&run.FilesFailed,
			&run.TrackedCalls,
			&run.Trigger,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		started, err := time.Parse(time.RFC3339Nano, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedRaw, err)
		}
		run.StartedAt = started.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

func normalizeProjectKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return defaultProjectKey
	}
	return key
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
