// Package analyzer orchestrates per-file analysis: dialect selection,
// parsing, the declaration walk and doc-comment annotation, plus the
// concurrent batch runner on top.
package analyzer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scalyze/internal/aggregate"
	"scalyze/internal/dialect"
	"scalyze/internal/docscan"
	"scalyze/internal/errors"
	"scalyze/internal/metrics"
	"scalyze/internal/slogutil"
	"scalyze/internal/syntax"
	"scalyze/internal/walker"
)

// TreeProvider parses source bytes into syntax trees and answers the
// selector's trial parses.
type TreeProvider interface {
	ParseTree(ctx context.Context, src []byte) (*syntax.File, error)
	TryParse(d dialect.Dialect, src []byte) dialect.ParseOutcome
}

// FileMetrics is the analysis result for one source file. Error is set and
// the records left empty when the file could not be analyzed; a bad input
// never fails the batch.
type FileMetrics struct {
	Path    string                `json:"path"`
	Dialect dialect.Dialect       `json:"dialect,omitempty"`
	Package string                `json:"package,omitempty"`
	Records []metrics.Record      `json:"records,omitempty"`
	Summary aggregate.FileSummary `json:"summary"`
	Error   string                `json:"error,omitempty"`
}

// Analyzer computes structural metrics for Scala sources.
type Analyzer struct {
	provider TreeProvider
	selector *dialect.Selector
	forced   dialect.Dialect
	log      *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDialect pins every file to one grammar revision instead of detecting
// it per file.
func WithDialect(d dialect.Dialect) Option {
	return func(a *Analyzer) { a.forced = d }
}

// WithLogger sets the logger for per-file diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithTuning applies a detection tuning profile to the dialect selector.
func WithTuning(t *dialect.Tuning) Option {
	return func(a *Analyzer) { a.selector.ApplyTuning(t) }
}

// New creates an analyzer on top of a tree provider.
func New(provider TreeProvider, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider: provider,
		selector: dialect.NewSelector(provider),
		log:      slogutil.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Detect runs dialect detection on raw source without analyzing it.
func (a *Analyzer) Detect(src []byte) dialect.Detection {
	return a.selector.Detect(src)
}

// AnalyzeFile reads and analyzes a single source file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileMetrics, error) {
	if !IsSupported(path) {
		return &FileMetrics{
			Path:  path,
			Error: "unsupported file extension: " + filepath.Ext(path),
		}, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return &FileMetrics{
			Path:  path,
			Error: "failed to read file: " + err.Error(),
		}, nil
	}

	return a.AnalyzeSource(ctx, path, src)
}

// AnalyzeSource analyzes source code and returns one record set per
// declaration. Unparseable input yields a FileMetrics with Error set and a
// nil error; the returned error is reserved for caller mistakes such as an
// empty path.
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, src []byte) (*FileMetrics, error) {
	d := a.forced
	if d == "" {
		d = a.selector.Select(src)
	}

	tree, err := a.provider.ParseTree(ctx, src)
	if err != nil {
		a.log.Warn("skipping unparseable file", "path", path, "dialect", d, "error", err)
		skip := errors.New(errors.NoViableDialect, "file does not parse under any grammar revision", err)
		return &FileMetrics{Path: path, Dialect: d, Error: skip.Error()}, nil
	}

	var recs []metrics.Record
	w := walker.New(path, func(r metrics.Record) { recs = append(recs, r) })
	if err := w.Walk(tree); err != nil {
		return nil, err
	}

	recs = append(recs, docRecords(recs, docscan.Scan(src))...)

	return &FileMetrics{
		Path:    path,
		Dialect: d,
		Package: tree.Package,
		Records: recs,
		Summary: aggregate.File(path, tree.Package, d, recs),
	}, nil
}

// docRecords derives one DocPresence record per distinct declaration, in
// first-seen order.
func docRecords(recs []metrics.Record, docs *docscan.Index) []metrics.Record {
	seen := make(map[metrics.Decl]bool, len(recs))
	var out []metrics.Record
	for _, r := range recs {
		d := r.Identity()
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, metrics.DocPresence{
			Decl:       d,
			Documented: docs.Documented(d.Span.StartLine),
		})
	}
	return out
}

// IsSupported reports whether the path has a Scala source extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scala", ".sc":
		return true
	}
	return false
}
