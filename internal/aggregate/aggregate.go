// Package aggregate reduces metric records into per-file and per-package
// summaries for reporting and persistence.
package aggregate

import (
	"sort"

	"scalyze/internal/dialect"
	"scalyze/internal/metrics"
)

// DefaultPackage names the summary bucket for files without a package
// clause.
const DefaultPackage = "(default)"

// FileSummary is the roll-up of one analyzed file.
type FileSummary struct {
	// Path is the analyzed file path.
	Path string `json:"path"`

	// Package is the file's package clause, empty for the default package.
	Package string `json:"package,omitempty"`

	// Dialect is the grammar revision the file was parsed under.
	Dialect dialect.Dialect `json:"dialect"`

	// Declarations counts distinct declarations with records.
	Declarations int `json:"declarations"`

	// Abstract counts bodiless signatures.
	Abstract int `json:"abstract"`

	// Local counts declarations nested inside another function body.
	Local int `json:"local"`

	MaxPaths    int     `json:"maxPaths"`
	MeanPaths   float64 `json:"meanPaths"`
	MaxNesting  int     `json:"maxNesting"`
	MeanNesting float64 `json:"meanNesting"`

	// TotalBranches and TotalLines sum the branch-density records.
	TotalBranches int `json:"totalBranches"`
	TotalLines    int `json:"totalLines"`

	// Documented counts declarations with an adjacent doc comment;
	// DocCoverage is the documented share of declarations carrying a
	// doc-presence record.
	Documented  int     `json:"documented"`
	DocCoverage float64 `json:"docCoverage"`
}

// File reduces one file's records.
func File(path, pkg string, d dialect.Dialect, records []metrics.Record) FileSummary {
	s := FileSummary{Path: path, Package: pkg, Dialect: d}

	decls := make(map[metrics.Decl]bool)
	var pathRecords, nestingRecords, docRecords int
	var sumPaths, sumNesting int
	for _, r := range records {
		id := r.Identity()
		if !decls[id] {
			decls[id] = true
			if id.Abstract {
				s.Abstract++
			}
			if id.Local {
				s.Local++
			}
		}
		switch v := r.(type) {
		case metrics.PathCount:
			pathRecords++
			sumPaths += v.Count
			if v.Count > s.MaxPaths {
				s.MaxPaths = v.Count
			}
		case metrics.NestingDepth:
			nestingRecords++
			sumNesting += v.Depth
			if v.Depth > s.MaxNesting {
				s.MaxNesting = v.Depth
			}
		case metrics.BranchCounts:
			s.TotalBranches += v.Total
			s.TotalLines += v.Lines
		case metrics.DocPresence:
			docRecords++
			if v.Documented {
				s.Documented++
			}
		}
	}
	s.Declarations = len(decls)
	if pathRecords > 0 {
		s.MeanPaths = float64(sumPaths) / float64(pathRecords)
	}
	if nestingRecords > 0 {
		s.MeanNesting = float64(sumNesting) / float64(nestingRecords)
	}
	if docRecords > 0 {
		s.DocCoverage = float64(s.Documented) / float64(docRecords)
	}
	return s
}

// PackageSummary rolls several files of one package together.
type PackageSummary struct {
	Package      string `json:"package"`
	Files        int    `json:"files"`
	Declarations int    `json:"declarations"`

	MaxPaths    int     `json:"maxPaths"`
	MeanPaths   float64 `json:"meanPaths"`
	MaxNesting  int     `json:"maxNesting"`
	MeanNesting float64 `json:"meanNesting"`

	TotalBranches int     `json:"totalBranches"`
	Documented    int     `json:"documented"`
	DocCoverage   float64 `json:"docCoverage"`

	// Dialects tallies the detected revision per member file.
	Dialects map[dialect.Dialect]int `json:"dialects"`
}

// ByPackage groups file summaries by package, sorted by package name.
// Means are weighted by each file's declaration count.
func ByPackage(files []FileSummary) []PackageSummary {
	type acc struct {
		sumPaths   float64
		sumNesting float64
	}
	byName := make(map[string]*PackageSummary)
	accs := make(map[string]*acc)

	for _, f := range files {
		name := f.Package
		if name == "" {
			name = DefaultPackage
		}
		p := byName[name]
		if p == nil {
			p = &PackageSummary{Package: name, Dialects: make(map[dialect.Dialect]int)}
			byName[name] = p
			accs[name] = &acc{}
		}
		p.Files++
		p.Declarations += f.Declarations
		p.TotalBranches += f.TotalBranches
		p.Documented += f.Documented
		if f.MaxPaths > p.MaxPaths {
			p.MaxPaths = f.MaxPaths
		}
		if f.MaxNesting > p.MaxNesting {
			p.MaxNesting = f.MaxNesting
		}
		p.Dialects[f.Dialect]++
		accs[name].sumPaths += f.MeanPaths * float64(f.Declarations)
		accs[name].sumNesting += f.MeanNesting * float64(f.Declarations)
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]PackageSummary, 0, len(names))
	for _, n := range names {
		p := byName[n]
		if p.Declarations > 0 {
			p.MeanPaths = accs[n].sumPaths / float64(p.Declarations)
			p.MeanNesting = accs[n].sumNesting / float64(p.Declarations)
			p.DocCoverage = float64(p.Documented) / float64(p.Declarations)
		}
		out = append(out, *p)
	}
	return out
}
