//go:build !cgo

package treesitter

import (
	"context"
	"errors"

	"scalyze/internal/dialect"
	"scalyze/internal/syntax"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("source parsing requires CGO (tree-sitter)")

// Provider parses source files into syntax trees.
// This is a stub implementation for non-CGO builds.
type Provider struct{}

// NewProvider creates a new parse provider.
// Returns nil when CGO is disabled.
func NewProvider() *Provider {
	return nil
}

// IsAvailable returns whether tree-sitter parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// ParseTree parses source code into a syntax tree.
// Stub implementation returns an error.
func (p *Provider) ParseTree(ctx context.Context, src []byte) (*syntax.File, error) {
	return nil, ErrNoCGO
}

// TryParse reports how far a trial parse gets under the given revision.
// Stub implementation reports an immediate failure.
func (p *Provider) TryParse(d dialect.Dialect, src []byte) dialect.ParseOutcome {
	return dialect.ParseOutcome{OK: false, Line: 1, Col: 1}
}
