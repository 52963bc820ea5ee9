package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stylepass/internal/shared/util"
)

// ScanDirectories lists the supported source files under paths. Excluded
// directories are skipped whole, and so is the output directory. Plain file
// arguments are kept when supported and not excluded.
func (a *App) ScanDirectories(paths []string) ([]string, error) {
	a.mu.RLock()
	dirGlobs, fileGlobs := a.excludeDirs, a.excludeFiles
	a.mu.RUnlock()

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if a.includeFile(root) {
				add(filepath.Clean(root))
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				if matchAny(dirGlobs, d.Name()) || a.isOutputDir(path) {
					return filepath.SkipDir
				}
				return nil
			}

			if !a.reader.IsSupportedPath(path) || matchAny(fileGlobs, d.Name()) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// includeFile applies the same filters as a directory walk to a single path.
// Only directories below the project root are matched against dir excludes.
func (a *App) includeFile(path string) bool {
	if !a.reader.IsSupportedPath(path) {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if a.Paths.OutDir != "" && util.HasPathPrefix(abs, a.Paths.OutDir) {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if matchAny(a.excludeFiles, filepath.Base(abs)) {
		return false
	}
	rel, err := filepath.Rel(a.Paths.Root, filepath.Dir(abs))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if matchAny(a.excludeDirs, part) {
			return false
		}
	}
	return true
}

func (a *App) isOutputDir(path string) bool {
	if a.Paths.OutDir == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == a.Paths.OutDir
}
