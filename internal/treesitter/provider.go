//go:build cgo

package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/scala"

	"scalyze/internal/dialect"
	"scalyze/internal/syntax"
)

// Provider parses Scala source into syntax trees.
type Provider struct {
	lang *sitter.Language
}

// NewProvider creates a provider backed by the bundled Scala grammar.
func NewProvider() *Provider {
	return &Provider{lang: scala.GetLanguage()}
}

// IsAvailable returns whether tree parsing is compiled in.
func IsAvailable() bool {
	return true
}

// ParseTree parses src and converts the grammar tree into the syntax
// model. A fresh parser per call keeps the provider safe for concurrent
// use by the batch workers.
func (p *Provider) ParseTree(ctx context.Context, src []byte) (*syntax.File, error) {
	root, err := p.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	return convertFile(root, src), nil
}

func (p *Provider) parse(ctx context.Context, src []byte) (*sitter.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return tree.RootNode(), nil
}

// TryParse runs one revision-restricted trial parse for the dialect
// selector. The grammar accepts every revision, so restriction means
// scanning the tree: error and missing nodes fail every candidate, and
// newest-only constructs additionally fail the 2.x candidates.
func (p *Provider) TryParse(d dialect.Dialect, src []byte) dialect.ParseOutcome {
	root, err := p.parse(context.Background(), src)
	if err != nil {
		return dialect.ParseOutcome{OK: false, Line: 1, Col: 1}
	}
	if n := firstOffending(root, d != dialect.Scala3); n != nil {
		pt := n.StartPoint()
		return dialect.ParseOutcome{OK: false, Line: int(pt.Row) + 1, Col: int(pt.Column) + 1}
	}
	return dialect.ParseOutcome{OK: true}
}

// firstOffending returns the first offending node in document order, or
// nil for a clean tree. Subtrees without errors are skipped unless the
// newest-only restriction forces a full scan.
func firstOffending(n *sitter.Node, restrict bool) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if restrict && scala3OnlyKinds[n.Type()] {
		return n
	}
	if !restrict && !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstOffending(n.Child(i), restrict); found != nil {
			return found
		}
	}
	return nil
}
