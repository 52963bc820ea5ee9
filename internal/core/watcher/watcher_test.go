package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadGlob(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, []string{"["}, nil, func([]string) {}); err == nil {
		t.Fatal("expected glob compile error")
	}
}

func waitFor(t *testing.T, changed <-chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change to %s", want)
		}
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, []string{"node_modules"}, []string{"*.d.ts"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.SetFilters([]string{".tsx", ".ts"}, []string{"package.json"})

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "Button.tsx")
	if err := os.WriteFile(testFile, []byte("export const a = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, testFile, 2*time.Second)

	// Excluded declaration files and filtered extensions stay silent.
	if err := os.WriteFile(filepath.Join(tmpDir, "types.d.ts"), []byte("declare const a: 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("# notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("unexpected change batch %v", paths)
	case <-time.After(400 * time.Millisecond):
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "components")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "Card.tsx")
	if err := os.WriteFile(subFile, []byte("export {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, subFile, 2*time.Second)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "old.ts")
	newPath := filepath.Join(tmpDir, "new.ts")
	if err := os.WriteFile(oldPath, []byte("export {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_Filters(t *testing.T) {
	w, err := NewWatcher(10*time.Millisecond, []string{"node_modules"}, []string{"*.d.ts"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if w.shouldExcludeFile("notes.md") {
		t.Fatal("without filters every file should be reported")
	}

	w.SetFilters([]string{".ts", ".TSX"}, []string{"package.json"})

	if !w.shouldExcludeFile("main.go") {
		t.Fatal("expected .go to be excluded")
	}
	if w.shouldExcludeFile("/repo/App.tsx") {
		t.Fatal("expected .tsx to be included case-insensitively")
	}
	if w.shouldExcludeFile("/repo/package.json") {
		t.Fatal("expected package.json to be included via filename filter")
	}
	if !w.shouldExcludeFile("/repo/global.d.ts") {
		t.Fatal("expected declaration files to be excluded")
	}
	if !w.shouldExcludeDir("/repo/node_modules") {
		t.Fatal("expected node_modules to be excluded")
	}
}

func TestWatcher_ContentHashing(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 10)
	w, err := NewWatcher(50*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "hash_target.ts")
	content := []byte("export const a = css`color: red;`;")
	if err := os.WriteFile(testFile, content, 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, testFile, time.Second)

	// Same content again.
	if err := os.WriteFile(testFile, content, 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("received unexpected event for identical content: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}

	// A remembered write is ours and must not echo back.
	written := []byte("export const a = 2;")
	w.Remember(testFile, written)
	if err := os.WriteFile(testFile, written, 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("received event for remembered write: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}

	if err := os.WriteFile(testFile, []byte("export const a = 3;"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, testFile, time.Second)
}
