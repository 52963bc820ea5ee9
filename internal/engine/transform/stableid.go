package transform

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"stylepass/internal/core/ports"

	"github.com/zeebo/xxh3"
)

const (
	hashWidth   = 7
	hashModulus = 78364164096 // 36^7
)

// HashParts digests the concatenation of parts into a fixed-width base36
// string.
func HashParts(parts ...string) string {
	sum := xxh3.HashString(strings.Join(parts, "")) % hashModulus
	s := strconv.FormatUint(sum, 36)
	if len(s) < hashWidth {
		s = strings.Repeat("0", hashWidth-len(s)) + s
	}
	return s
}

// IDGenerator derives stable call-site ids for one file. The file hash is
// resolved on first use and reused for every later id.
type IDGenerator struct {
	fileName  string
	text      string
	roots     ports.PackageResolver
	manifests ports.ManifestReader

	prefix string
}

func NewIDGenerator(fileName, text string, roots ports.PackageResolver, manifests ports.ManifestReader) *IDGenerator {
	return &IDGenerator{fileName: fileName, text: text, roots: roots, manifests: manifests}
}

// ID returns the id of the call with the given ordinal.
func (g *IDGenerator) ID(ordinal int) string {
	if g.prefix == "" {
		g.prefix = "e" + g.fileHash()
	}
	return g.prefix + strconv.Itoa(ordinal)
}

func (g *IDGenerator) fileHash() string {
	file := g.fileName
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}

	root, pkg := file, ""
	if g.roots != nil {
		if found, err := g.roots.FindRoot(file); err == nil {
			root = found
			if g.manifests != nil {
				if name, err := g.manifests.PackageName(found); err == nil {
					pkg = name
				}
			}
		}
	}

	if rel := relativeToRoot(file, root); rel != "" {
		return HashParts(pkg, rel)
	}
	return HashParts(pkg, g.text)
}

// relativeToRoot returns file with the root prefix removed, keeping the
// leading slash, or "" when file is not below root.
func relativeToRoot(file, root string) string {
	file, root = filepath.ToSlash(file), filepath.ToSlash(root)
	if root == "" || file == root {
		return ""
	}
	root = strings.TrimSuffix(root, "/")
	rest, ok := strings.CutPrefix(file, root)
	if !ok || !strings.HasPrefix(rest, "/") {
		return ""
	}
	return path.Clean(rest)
}
