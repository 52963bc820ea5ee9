package parser

import (
	"sync"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func tsxLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
}

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(tsxLanguage())

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	if pool.Leased() != 1 {
		t.Fatalf("expected 1 leased parser, got %d", pool.Leased())
	}
	pool.Put(sp)
	if pool.Leased() != 0 {
		t.Fatalf("expected 0 leased parsers, got %d", pool.Leased())
	}
}

func TestParserPool_PutNil(t *testing.T) {
	pool := NewParserPool(tsxLanguage())
	pool.Put(nil)
	if pool.Leased() != 0 {
		t.Fatalf("Put(nil) changed the lease count to %d", pool.Leased())
	}
}

func TestParserPool_ParsesTSX(t *testing.T) {
	pool := NewParserPool(tsxLanguage())

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse([]byte("const App = () => <div className=\"x\" />;\n"), nil)
	if tree == nil {
		t.Fatal("expected non-nil parse tree")
	}
	defer tree.Close()

	if root := tree.RootNode(); root.HasError() {
		t.Fatal("expected error-free root node")
	}
}

func TestParserPool_LanguageSetAfterReset(t *testing.T) {
	pool := NewParserPool(tsxLanguage())

	sp := pool.Get()
	sp.Reset()
	pool.Put(sp)

	sp2 := pool.Get()
	defer pool.Put(sp2)

	tree := sp2.Parse([]byte("let ok = true;\n"), nil)
	if tree == nil {
		t.Fatal("parser should still parse after Reset")
	}
	defer tree.Close()
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(tsxLanguage())

	const goroutines = 16
	const iters = 25

	var wg sync.WaitGroup
	wg.Add(goroutines)
	src := []byte("export function run(): number { return 1; }\n")

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				sp := pool.Get()
				tree := sp.Parse(src, nil)
				if tree == nil {
					t.Errorf("expected non-nil parse tree")
				} else {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}
	wg.Wait()

	if pool.Leased() != 0 {
		t.Fatalf("expected all parsers returned, %d still leased", pool.Leased())
	}
}
