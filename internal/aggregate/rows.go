package aggregate

import (
	"sort"

	"scalyze/internal/dialect"
	"scalyze/internal/metrics"
)

// DeclRow flattens all records of one declaration into a single wide row.
// The store persists one row per declaration per run, the exporter writes
// rows out, and the report classifier reads thresholds against them.
type DeclRow struct {
	File          string          `json:"file"`
	Package       string          `json:"package,omitempty"`
	Dialect       dialect.Dialect `json:"dialect"`
	Name          string          `json:"name"`
	QualifiedName string          `json:"qualifiedName"`
	Kind          string          `json:"kind"`
	StartLine     int             `json:"startLine"`
	StartCol      int             `json:"startCol"`
	EndLine       int             `json:"endLine"`
	Local         bool            `json:"local,omitempty"`
	Abstract      bool            `json:"abstract,omitempty"`

	Paths      int  `json:"paths"`
	Nesting    int  `json:"nesting"`
	Matches    int  `json:"matches"`
	Cases      int  `json:"cases"`
	Guards     int  `json:"guards"`
	Wildcards  int  `json:"wildcards"`
	Branches   int  `json:"branches"`
	Lines      int  `json:"lines"`
	Documented bool `json:"documented"`
}

// Rows collates one file's records into wide rows ordered by source
// position, then qualified name.
func Rows(pkg string, d dialect.Dialect, records []metrics.Record) []DeclRow {
	byDecl := make(map[metrics.Decl]*DeclRow)
	for _, r := range records {
		id := r.Identity()
		row := byDecl[id]
		if row == nil {
			row = &DeclRow{
				File:          id.File,
				Package:       pkg,
				Dialect:       d,
				Name:          id.Name,
				QualifiedName: id.QualifiedName,
				Kind:          id.Kind,
				StartLine:     id.Span.StartLine,
				StartCol:      id.Span.StartCol,
				EndLine:       id.Span.EndLine,
				Local:         id.Local,
				Abstract:      id.Abstract,
			}
			byDecl[id] = row
		}
		switch v := r.(type) {
		case metrics.PathCount:
			row.Paths = v.Count
		case metrics.NestingDepth:
			row.Nesting = v.Depth
		case metrics.PatternStats:
			row.Matches = v.Matches
			row.Cases = v.Cases
			row.Guards = v.Guards
			row.Wildcards = v.Wildcards
		case metrics.BranchCounts:
			row.Branches = v.Total
			row.Lines = v.Lines
		case metrics.DocPresence:
			row.Documented = v.Documented
		}
	}

	rows := make([]DeclRow, 0, len(byDecl))
	for _, row := range byDecl {
		rows = append(rows, *row)
	}
	SortRows(rows)
	return rows
}

// SortRows orders rows by file, start position, then qualified name. Export
// output and fail-on checks rely on this order being stable across runs.
func SortRows(rows []DeclRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.StartCol != b.StartCol {
			return a.StartCol < b.StartCol
		}
		return a.QualifiedName < b.QualifiedName
	})
}

// FilesFromRows rebuilds file summaries from stored rows, sorted by path.
// Every row carries a doc flag, so the coverage denominator is the file's
// row count.
func FilesFromRows(rows []DeclRow) []FileSummary {
	byPath := make(map[string]*FileSummary)
	sumPaths := make(map[string]int)
	sumNesting := make(map[string]int)

	for _, r := range rows {
		s := byPath[r.File]
		if s == nil {
			s = &FileSummary{Path: r.File, Package: r.Package, Dialect: r.Dialect}
			byPath[r.File] = s
		}
		s.Declarations++
		if r.Abstract {
			s.Abstract++
		}
		if r.Local {
			s.Local++
		}
		sumPaths[r.File] += r.Paths
		if r.Paths > s.MaxPaths {
			s.MaxPaths = r.Paths
		}
		sumNesting[r.File] += r.Nesting
		if r.Nesting > s.MaxNesting {
			s.MaxNesting = r.Nesting
		}
		s.TotalBranches += r.Branches
		s.TotalLines += r.Lines
		if r.Documented {
			s.Documented++
		}
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]FileSummary, 0, len(paths))
	for _, p := range paths {
		s := byPath[p]
		if s.Declarations > 0 {
			s.MeanPaths = float64(sumPaths[p]) / float64(s.Declarations)
			s.MeanNesting = float64(sumNesting[p]) / float64(s.Declarations)
			s.DocCoverage = float64(s.Documented) / float64(s.Declarations)
		}
		out = append(out, *s)
	}
	return out
}
