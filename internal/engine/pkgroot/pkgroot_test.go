package pkgroot

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"stylepass/internal/core/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFSResolverFindsNearestManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"name":"outer"}`)
	writeFile(t, filepath.Join(dir, "packages", "ui", "package.json"), `{"name":"@acme/ui"}`)
	file := filepath.Join(dir, "packages", "ui", "src", "Button.tsx")
	writeFile(t, file, "export {}")

	root, err := FSResolver{}.FindRoot(file)
	if err != nil {
		t.Fatalf("FindRoot failed: %v", err)
	}
	if root != filepath.Join(dir, "packages", "ui") {
		t.Fatalf("unexpected root %s", root)
	}

	name, err := FSManifestReader{}.PackageName(root)
	if err != nil || name != "@acme/ui" {
		t.Fatalf("PackageName = %q, %v", name, err)
	}
}

func TestFSResolverStartsAtPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"name":"app"}`)
	root, err := FSResolver{}.FindRoot(dir)
	if err != nil || root != dir {
		t.Fatalf("FindRoot(%s) = %s, %v", dir, root, err)
	}
}

func TestFSManifestReaderErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := (FSManifestReader{}).PackageName(dir); !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	writeFile(t, filepath.Join(dir, "package.json"), `{not json`)
	if _, err := (FSManifestReader{}).PackageName(dir); !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type countingResolver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingResolver) FindRoot(path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return filepath.Dir(path), nil
}

func (r *countingResolver) PackageName(root string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return "pkg:" + root, nil
}

func TestCacheMemoizes(t *testing.T) {
	inner := &countingResolver{}
	cache, err := NewCache(8, inner, inner)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		root, err := cache.FindRoot("/repo/src/a.ts")
		if err != nil || root != "/repo/src" {
			t.Fatalf("FindRoot = %s, %v", root, err)
		}
		name, err := cache.PackageName(root)
		if err != nil || name != "pkg:/repo/src" {
			t.Fatalf("PackageName = %s, %v", name, err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 underlying lookups, got %d", inner.calls)
	}

	cache.Purge()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after Purge, got %d", cache.Len())
	}
	if _, err := cache.FindRoot("/repo/src/a.ts"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected a fresh lookup after Purge, got %d calls", inner.calls)
	}
}

func TestCacheRemembersFailures(t *testing.T) {
	inner := &countingResolver{err: stderrors.New("boom")}
	cache, err := NewCache(0, inner, inner)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := cache.FindRoot("/x/a.ts"); err == nil {
			t.Fatal("expected cached failure")
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 underlying lookup, got %d", inner.calls)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	inner := &countingResolver{}
	cache, err := NewCache(16, inner, inner)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := filepath.Join("/repo", "src", string(rune('a'+i%4))+".ts")
			if _, err := cache.FindRoot(path); err != nil {
				t.Errorf("FindRoot(%s): %v", path, err)
			}
		}(i)
	}
	wg.Wait()
	if cache.Len() != 4 {
		t.Fatalf("expected 4 cached roots, got %d", cache.Len())
	}
}
