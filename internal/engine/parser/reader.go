package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"stylepass/internal/core/errors"
	"stylepass/internal/engine/ast"
	"stylepass/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const (
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
	LangJavaScript = "javascript"
)

type languageSpec struct {
	id         string
	extensions []string
	grammar    func() *sitter.Language
}

var languageSpecs = []languageSpec{
	{
		id:         LangTypeScript,
		extensions: []string{".ts", ".mts", ".cts"},
		grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()) },
	},
	{
		id:         LangTSX,
		extensions: []string{".tsx"},
		grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()) },
	},
	{
		// The JavaScript grammar covers JSX as well.
		id:         LangJavaScript,
		extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		grammar:    func() *sitter.Language { return sitter.NewLanguage(tree_sitter_javascript.Language()) },
	},
}

// Reader turns source files into syntax trees for the rewriting pass.
type Reader struct {
	pools      map[string]*ParserPool
	extensions map[string]string
}

func NewReader() *Reader {
	r := &Reader{
		pools:      make(map[string]*ParserPool, len(languageSpecs)),
		extensions: make(map[string]string),
	}
	for _, spec := range languageSpecs {
		r.pools[spec.id] = NewParserPool(spec.grammar())
		for _, ext := range spec.extensions {
			r.extensions[ext] = spec.id
		}
	}
	return r
}

// Language returns the language id for path, or "" when unsupported.
func (r *Reader) Language(path string) string {
	return r.extensions[strings.ToLower(filepath.Ext(path))]
}

func (r *Reader) IsSupportedPath(path string) bool {
	return r.Language(path) != ""
}

func (r *Reader) SupportedExtensions() []string {
	return util.SortedStringKeys(r.extensions)
}

// Read parses content and converts it into an ast.SourceFile named path.
// Trees with syntax errors are rejected.
func (r *Reader) Read(path string, content []byte) (*ast.SourceFile, error) {
	lang := r.Language(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported language"), errors.CtxPath, path)
	}
	pool := r.pools[lang]

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		msg := "syntax tree has errors"
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			msg = fmt.Sprintf("%s at %d:%d", msg, pos.Row+1, pos.Column+1)
		}
		err := errors.AddContext(errors.New(errors.CodeParseError, msg), errors.CtxPath, path)
		return nil, errors.AddContext(err, errors.CtxLanguage, lang)
	}

	file := &ast.SourceFile{
		FileName: path,
		Language: lang,
		Text:     string(content),
	}
	c := converter{text: file.Text}
	file.Root = c.program(root)
	return file, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
