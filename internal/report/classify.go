package report

import (
	"fmt"

	"scalyze/internal/aggregate"
)

// Level is a declaration risk level.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Rank orders levels: low < medium < high.
func (l Level) Rank() int {
	switch l {
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	}
	return 0
}

// ParseLevel maps a user-supplied level string.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "low":
		return LevelLow, nil
	case "medium":
		return LevelMedium, nil
	case "high":
		return LevelHigh, nil
	}
	return "", fmt.Errorf("unknown risk level %q (want low, medium or high)", s)
}

// Metric names used in breaches and baseline entries.
const (
	BreachPaths   = "paths"
	BreachNesting = "nesting"
	BreachDensity = "density"
)

// Breach is one threshold crossing.
type Breach struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Limit  float64 `json:"limit"`
	Level  Level   `json:"level"`
}

// Reason renders the breach for human output.
func (b Breach) Reason() string {
	if b.Metric == BreachDensity {
		return fmt.Sprintf("%s %.2f over %.2f", b.Metric, b.Value, b.Limit)
	}
	return fmt.Sprintf("%s %.0f over %.0f", b.Metric, b.Value, b.Limit)
}

// Finding is one declaration's classification. Undocumented marks
// declarations flagged at medium or above that lack a doc comment; it never
// raises the level by itself.
type Finding struct {
	aggregate.DeclRow
	Level        Level    `json:"level"`
	Breaches     []Breach `json:"breaches,omitempty"`
	Undocumented bool     `json:"undocumented,omitempty"`
}

// Density returns the row's branches per body line.
func Density(row aggregate.DeclRow) float64 {
	if row.Lines <= 0 {
		return 0
	}
	return float64(row.Branches) / float64(row.Lines)
}

// Classify grades one declaration row against the profile.
func Classify(row aggregate.DeclRow, p *Profile) Finding {
	f := Finding{DeclRow: row, Level: LevelLow}

	breach := func(metric string, value, medium, high float64) {
		var level Level
		var limit float64
		switch {
		case value > high:
			level, limit = LevelHigh, high
		case value > medium:
			level, limit = LevelMedium, medium
		default:
			return
		}
		f.Breaches = append(f.Breaches, Breach{Metric: metric, Value: value, Limit: limit, Level: level})
		if level.Rank() > f.Level.Rank() {
			f.Level = level
		}
	}

	breach(BreachPaths, float64(row.Paths), float64(p.Paths.Medium), float64(p.Paths.High))
	breach(BreachNesting, float64(row.Nesting), float64(p.Nesting.Medium), float64(p.Nesting.High))
	breach(BreachDensity, Density(row), p.Density.Medium, p.Density.High)

	if f.Level != LevelLow && !row.Documented {
		f.Undocumented = true
	}
	return f
}

// ClassifyAll grades every row, keeping input order.
func ClassifyAll(rows []aggregate.DeclRow, p *Profile) []Finding {
	findings := make([]Finding, 0, len(rows))
	for _, row := range rows {
		findings = append(findings, Classify(row, p))
	}
	return findings
}

// AtOrAbove returns the findings at or above level.
func AtOrAbove(findings []Finding, level Level) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Level.Rank() >= level.Rank() {
			out = append(out, f)
		}
	}
	return out
}

// UnderDocumented lists package summaries whose documented ratio falls
// below the profile's minimum. Packages without declarations are skipped.
func UnderDocumented(packages []aggregate.PackageSummary, p *Profile) []aggregate.PackageSummary {
	var out []aggregate.PackageSummary
	for _, pkg := range packages {
		if pkg.Declarations == 0 {
			continue
		}
		if pkg.DocCoverage < p.Docs.MinCoverage {
			out = append(out, pkg)
		}
	}
	return out
}
