// Package parser turns file bytes into concrete syntax trees, one file at a
// time. A file that fails to parse produces a per-file error; it never
// aborts the batch.
package parser

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/ccx/internal/debug"
	"github.com/standardbeagle/ccx/internal/lang"
	"github.com/standardbeagle/ccx/internal/types"
)

// Parser parses source for any language in the registry. It is not safe for
// concurrent use; each worker owns one Parser. Grammar handles come from
// the shared registry and are immutable, so parsers on other goroutines can
// hold the same language at the same time.
type Parser struct {
	registry *lang.Registry
	inner    *tree_sitter.Parser
	current  types.Language
}

// New returns a parser backed by the given registry.
func New(registry *lang.Registry) *Parser {
	return &Parser{
		registry: registry,
		inner:    tree_sitter.NewParser(),
	}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.inner.Close()
}

// Parse builds a syntax tree for content in the given language. The caller
// owns the returned tree and must Close it once metrics are extracted.
func (p *Parser) Parse(content []byte, id types.Language) (tree *tree_sitter.Tree, err error) {
	grammar, err := p.registry.Grammar(id)
	if err != nil {
		return nil, err
	}

	if p.current != id {
		if err := p.inner.SetLanguage(grammar); err != nil {
			return nil, fmt.Errorf("selecting %s grammar: %w", id, err)
		}
		p.current = id
	}

	// The C library can crash on pathological input; contain it to this file.
	defer func() {
		if r := recover(); r != nil {
			debug.LogParse("tree-sitter panic in %s parse: %v\n", id, r)
			tree = nil
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	// Tree-sitter reads the buffer through CGO while the tree is alive;
	// parse from a private copy so callers can reuse their buffers.
	buf := make([]byte, len(content))
	copy(buf, content)

	tree = p.inner.Parse(buf, nil)
	if tree == nil {
		return nil, fmt.Errorf("no syntax tree produced for %s source", id)
	}
	return tree, nil
}
