// Package metrics holds the per-declaration record model and the four
// structural visitors: decision-path counting, nesting depth, pattern-branch
// statistics and branch density. Each visitor is a pure function over one
// declaration body; node kinds without an explicit rule are traversed
// transparently.
package metrics

import "scalyze/internal/syntax"

// Metric names, one per record variant.
const (
	MetricPaths    = "decision-paths"
	MetricNesting  = "nesting-depth"
	MetricPatterns = "pattern-branches"
	MetricDensity  = "branch-density"
	MetricDoc      = "doc-presence"
)

// Decl identifies the declaration a record describes. Records for the same
// declaration share the same Decl and are never merged here; grouping is
// the aggregator's concern.
type Decl struct {
	// Name is the bare declaration name.
	Name string `json:"name"`

	// QualifiedName is the dot-joined path of named owners plus Name.
	QualifiedName string `json:"qualifiedName"`

	// Kind is the declaration kind: class, object, trait, enum, def, val,
	// var or given.
	Kind string `json:"kind"`

	// File is the path of the owning source file.
	File string `json:"file"`

	// Span is the declaration's source span.
	Span syntax.Span `json:"span"`

	// Local is set when the declaration sits inside another function body.
	Local bool `json:"local,omitempty"`

	// Abstract is set for signatures without a body.
	Abstract bool `json:"abstract,omitempty"`
}

// Identity returns the declaration identity shared by all records.
func (d Decl) Identity() Decl { return d }

// Record is one metric result for one declaration.
type Record interface {
	Identity() Decl
	Metric() string
}

// PathCount is the decision-path record.
type PathCount struct {
	Decl
	Count int `json:"count"`
}

func (PathCount) Metric() string { return MetricPaths }

// NestingDepth is the maximum-nesting record.
type NestingDepth struct {
	Decl
	Depth int `json:"depth"`
}

func (NestingDepth) Metric() string { return MetricNesting }

// PatternStats is the pattern-branch record.
type PatternStats struct {
	Decl
	Matches     int `json:"matches"`
	Cases       int `json:"cases"`
	Guards      int `json:"guards"`
	Wildcards   int `json:"wildcards"`
	MaxNesting  int `json:"maxNesting"`
	NestedCases int `json:"nestedCases"`
}

func (PatternStats) Metric() string { return MetricPatterns }

// BranchCounts is the flat branch-density record.
type BranchCounts struct {
	Decl
	Ifs     int `json:"ifs"`
	Cases   int `json:"cases"`
	Loops   int `json:"loops"`
	Catches int `json:"catches"`
	BoolOps int `json:"boolOps"`
	Total   int `json:"totalBranches"`
	Lines   int `json:"linesOfCode"`
}

func (BranchCounts) Metric() string { return MetricDensity }

// DocPresence records whether a documentation comment is adjacent to the
// declaration.
type DocPresence struct {
	Decl
	Documented bool `json:"documented"`
}

func (DocPresence) Metric() string { return MetricDoc }

// IsDeclaration reports whether n starts a nested declaration. The walker
// measures nested declaration bodies separately, so every visitor stops at
// this boundary instead of attributing inner structure to the enclosing
// declaration.
func IsDeclaration(n syntax.Node) bool {
	switch n.(type) {
	case *syntax.Container, *syntax.Func, *syntax.Binding, *syntax.Given:
		return true
	}
	return false
}
