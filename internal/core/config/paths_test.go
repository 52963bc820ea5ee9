package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePaths_DetectsRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name":"app"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(root, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Run.Paths = []string{"src"}

	got, err := ResolvePaths(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	if got.Root != filepath.Clean(root) {
		t.Fatalf("expected root %q, got %q", root, got.Root)
	}
	if len(got.Inputs) != 1 || got.Inputs[0] != src {
		t.Fatalf("unexpected inputs %v", got.Inputs)
	}
	if got.OutDir != filepath.Join(root, "build", "stylepass") {
		t.Fatalf("unexpected out dir %q", got.OutDir)
	}
	if got.HistoryPath != filepath.Join(root, ".stylepass", "history.db") {
		t.Fatalf("unexpected history path %q", got.HistoryPath)
	}
}

func TestResolvePaths_ExplicitRootAndInPlace(t *testing.T) {
	base := t.TempDir()
	cfg := DefaultConfig()
	cfg.Run.Root = "web"
	cfg.Run.InPlace = true
	cfg.History.Path = filepath.Join(base, "h.db")

	got, err := ResolvePaths(cfg, base)
	if err != nil {
		t.Fatal(err)
	}
	if got.Root != filepath.Join(base, "web") {
		t.Fatalf("unexpected root %q", got.Root)
	}
	if got.OutDir != "" {
		t.Fatalf("in-place runs should have no out dir, got %q", got.OutDir)
	}
	if got.HistoryPath != filepath.Join(base, "h.db") {
		t.Fatalf("absolute history path should be kept, got %q", got.HistoryPath)
	}
}

func TestResolveRelative(t *testing.T) {
	if got := ResolveRelative("/base", ""); got != "/base" {
		t.Errorf("empty value: %q", got)
	}
	if got := ResolveRelative("/base", "/abs/x"); got != "/abs/x" {
		t.Errorf("absolute value: %q", got)
	}
	if got := ResolveRelative("/base", "a/../b"); got != "/base/b" {
		t.Errorf("relative value: %q", got)
	}
}
