package transform

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
)

const sourceMapCommentPrefix = "/*# sourceMappingURL=data:application/json;charset=utf-8;base64,"

type location struct {
	line   int
	column int
}

// LocationMapper accumulates the call-site mappings of one file. Every mapping
// points from generated line 1, column 0 to a call's original position, so the
// payload tags locations rather than mapping real output.
type LocationMapper struct {
	file     string
	source   string
	content  string
	mappings []location
	seen     map[location]struct{}
}

// NewLocationMapper creates a mapper for fileName whose recorded source path is
// relative to cwd.
func NewLocationMapper(fileName, cwd, content string) *LocationMapper {
	source := fileName
	if cwd != "" {
		abs := fileName
		if a, err := filepath.Abs(fileName); err == nil {
			abs = a
		}
		if rel, err := filepath.Rel(cwd, abs); err == nil {
			source = rel
		}
	}
	return &LocationMapper{
		file:    filepath.Base(fileName),
		source:  filepath.ToSlash(source),
		content: content,
		seen:    make(map[location]struct{}),
	}
}

// Add records a call at the zero-based line and column.
func (m *LocationMapper) Add(line, column int) {
	loc := location{line: line + 1, column: column + 1}
	if _, ok := m.seen[loc]; ok {
		return
	}
	m.seen[loc] = struct{}{}
	m.mappings = append(m.mappings, loc)
}

// Len returns the number of distinct mappings recorded so far.
func (m *LocationMapper) Len() int { return len(m.mappings) }

type sourceMap struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
	File           string   `json:"file"`
	SourceRoot     string   `json:"sourceRoot"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
}

// Comment renders every mapping recorded so far as an inline block comment.
func (m *LocationMapper) Comment() string {
	doc := sourceMap{
		Version:    3,
		Sources:    []string{},
		Names:      []string{},
		Mappings:   m.encodeMappings(),
		File:       m.file,
		SourceRoot: "",
	}
	if len(m.mappings) > 0 {
		doc.Sources = []string{m.source}
		doc.SourcesContent = []string{m.content}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of strings cannot fail.
	_ = enc.Encode(doc)
	payload := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	return sourceMapCommentPrefix + base64.StdEncoding.EncodeToString(payload) + " */"
}

func (m *LocationMapper) encodeMappings() string {
	if len(m.mappings) == 0 {
		return ""
	}
	sorted := make([]location, len(m.mappings))
	copy(sorted, m.mappings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].line != sorted[j].line {
			return sorted[i].line < sorted[j].line
		}
		return sorted[i].column < sorted[j].column
	})

	var b strings.Builder
	prevLine, prevColumn := 0, 0
	for i, loc := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		// Generated column and source index deltas are always zero.
		encodeVLQ(&b, 0)
		encodeVLQ(&b, 0)
		encodeVLQ(&b, (loc.line-1)-prevLine)
		encodeVLQ(&b, loc.column-prevColumn)
		prevLine, prevColumn = loc.line-1, loc.column
	}
	return b.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func encodeVLQ(b *strings.Builder, value int) {
	v := value << 1
	if value < 0 {
		v = (-value << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		b.WriteByte(base64Digits[digit])
		if v == 0 {
			return
		}
	}
}
