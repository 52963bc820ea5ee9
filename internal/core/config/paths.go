package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	Root        string
	Inputs      []string
	OutDir      string
	HistoryPath string
}

// ResolvePaths makes every configured path absolute. Relative paths are taken
// from base, normally the directory holding the config file.
func ResolvePaths(cfg *Config, base string) (ResolvedPaths, error) {
	if strings.TrimSpace(base) == "" {
		return ResolvedPaths{}, fmt.Errorf("base directory must not be empty")
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return ResolvedPaths{}, err
	}

	inputs := make([]string, 0, len(cfg.Run.Paths))
	for _, p := range cfg.Run.Paths {
		inputs = append(inputs, ResolveRelative(base, p))
	}

	root := cfg.Run.Root
	if root != "" {
		root = ResolveRelative(base, root)
	} else {
		detected, err := DetectProjectRoot(append(append([]string(nil), inputs...), base))
		if err != nil {
			return ResolvedPaths{}, err
		}
		root = detected
	}

	resolved := ResolvedPaths{
		Root:        filepath.Clean(root),
		Inputs:      inputs,
		HistoryPath: ResolveRelative(root, cfg.History.Path),
	}
	if !cfg.Run.InPlace {
		resolved.OutDir = ResolveRelative(root, cfg.Run.OutDir)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate to the first directory that
// looks like a project root, falling back to the working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		DefaultFileName,
		"package.json",
		".git",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
