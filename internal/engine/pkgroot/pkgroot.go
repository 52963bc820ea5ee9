// Package pkgroot locates package roots and reads their manifests.
package pkgroot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"stylepass/internal/core/errors"
	"stylepass/internal/core/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

const ManifestName = "package.json"

// DefaultCacheSize bounds the number of memoized lookups per kind.
const DefaultCacheSize = 4096

// FSResolver finds package roots on the local filesystem.
type FSResolver struct{}

// FindRoot walks up from path, path itself included, to the first directory
// holding a package.json.
func (FSResolver) FindRoot(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "resolve absolute path")
	}
	for {
		info, err := os.Stat(filepath.Join(dir, ManifestName))
		if err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.AddContext(errors.New(errors.CodeNotFound, "no package root"), errors.CtxPath, path)
		}
		dir = parent
	}
}

// FSManifestReader reads package.json files from disk.
type FSManifestReader struct{}

func (FSManifestReader) PackageName(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestName))
	if err != nil {
		return "", errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read manifest"), errors.CtxPath, root)
	}
	var manifest struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode manifest"), errors.CtxPath, root)
	}
	return manifest.Name, nil
}

type lookup struct {
	value string
	err   error
}

// Cache memoizes root and manifest lookups by path. Failed lookups are cached
// too; Purge drops everything after manifests change. Concurrent misses on the
// same key may both reach the underlying resolver, which is harmless since
// lookups are idempotent.
type Cache struct {
	resolver  ports.PackageResolver
	manifests ports.ManifestReader
	roots     *lru.Cache[string, lookup]
	names     *lru.Cache[string, lookup]
}

func NewCache(size int, resolver ports.PackageResolver, manifests ports.ManifestReader) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	roots, err := lru.New[string, lookup](size)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create root cache")
	}
	names, err := lru.New[string, lookup](size)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create manifest cache")
	}
	return &Cache{resolver: resolver, manifests: manifests, roots: roots, names: names}, nil
}

// NewFSCache is a Cache over the local filesystem.
func NewFSCache(size int) (*Cache, error) {
	return NewCache(size, FSResolver{}, FSManifestReader{})
}

func (c *Cache) FindRoot(path string) (string, error) {
	if hit, ok := c.roots.Get(path); ok {
		return hit.value, hit.err
	}
	root, err := c.resolver.FindRoot(path)
	c.roots.Add(path, lookup{value: root, err: err})
	return root, err
}

func (c *Cache) PackageName(root string) (string, error) {
	if hit, ok := c.names.Get(root); ok {
		return hit.value, hit.err
	}
	name, err := c.manifests.PackageName(root)
	c.names.Add(root, lookup{value: name, err: err})
	return name, err
}

// Purge forgets every cached lookup.
func (c *Cache) Purge() {
	c.roots.Purge()
	c.names.Purge()
}

// Len returns the number of cached root lookups.
func (c *Cache) Len() int {
	return c.roots.Len()
}
