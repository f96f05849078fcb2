package report

import (
	"os"
	"path/filepath"
	"testing"

	"scalyze/internal/aggregate"
)

func TestLoadProfileEmptyPathUsesDefaults(t *testing.T) {
	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Paths.High != 20 || p.Nesting.Medium != 3 || p.Density.High != 0.5 {
		t.Errorf("defaults = %+v", p)
	}
}

func TestLoadProfilePartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strict.toml")
	content := `
name = "strict"

[paths]
medium = 5
high = 8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Name != "strict" {
		t.Errorf("name = %q, want strict", p.Name)
	}
	if p.Paths.Medium != 5 || p.Paths.High != 8 {
		t.Errorf("paths band = %+v, want 5/8", p.Paths)
	}
	// Sections absent from the file keep their defaults.
	if p.Nesting.Medium != 3 || p.Nesting.High != 5 {
		t.Errorf("nesting band = %+v, want defaults 3/5", p.Nesting)
	}
	if p.Docs.MinCoverage != 0.5 {
		t.Errorf("docs minCoverage = %g, want default 0.5", p.Docs.MinCoverage)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for explicit missing profile path")
	}
}

func TestLoadProfileInvalidThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	content := `
[paths]
medium = 10
high = 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	if _, err := LoadProfile(path); err == nil {
		t.Error("expected error for inverted thresholds")
	}
}

func TestClassify(t *testing.T) {
	p := DefaultProfile()

	tests := []struct {
		name         string
		row          aggregate.DeclRow
		level        Level
		breaches     int
		undocumented bool
	}{
		{
			name:  "simple declaration is low",
			row:   aggregate.DeclRow{Paths: 3, Nesting: 1, Branches: 1, Lines: 12, Documented: true},
			level: LevelLow,
		},
		{
			name:  "value at the threshold stays low",
			row:   aggregate.DeclRow{Paths: 10, Nesting: 3, Branches: 3, Lines: 10, Documented: true},
			level: LevelLow,
		},
		{
			name:     "paths over medium",
			row:      aggregate.DeclRow{Paths: 11, Documented: true},
			level:    LevelMedium,
			breaches: 1,
		},
		{
			name:     "paths and nesting over high",
			row:      aggregate.DeclRow{Paths: 21, Nesting: 6, Documented: true},
			level:    LevelHigh,
			breaches: 2,
		},
		{
			name:     "dense branching",
			row:      aggregate.DeclRow{Branches: 6, Lines: 10, Documented: true},
			level:    LevelHigh,
			breaches: 1,
		},
		{
			name:     "mixed levels take the worst",
			row:      aggregate.DeclRow{Paths: 12, Nesting: 7, Documented: true},
			level:    LevelHigh,
			breaches: 2,
		},
		{
			name:         "undocumented flagged declaration",
			row:          aggregate.DeclRow{Paths: 15},
			level:        LevelMedium,
			breaches:     1,
			undocumented: true,
		},
		{
			name:  "undocumented low declaration is not flagged",
			row:   aggregate.DeclRow{Paths: 2},
			level: LevelLow,
		},
		{
			name:  "empty body has zero density",
			row:   aggregate.DeclRow{Branches: 3, Lines: 0, Documented: true},
			level: LevelLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Classify(tt.row, p)
			if f.Level != tt.level {
				t.Errorf("level = %s, want %s (breaches %+v)", f.Level, tt.level, f.Breaches)
			}
			if len(f.Breaches) != tt.breaches {
				t.Errorf("breach count = %d, want %d: %+v", len(f.Breaches), tt.breaches, f.Breaches)
			}
			if f.Undocumented != tt.undocumented {
				t.Errorf("undocumented = %v, want %v", f.Undocumented, tt.undocumented)
			}
		})
	}
}

func TestClassifyBreachDetail(t *testing.T) {
	row := aggregate.DeclRow{QualifiedName: "app.Service.handle", Paths: 24, Documented: true}
	f := Classify(row, DefaultProfile())

	if len(f.Breaches) != 1 {
		t.Fatalf("breaches = %+v", f.Breaches)
	}
	b := f.Breaches[0]
	if b.Metric != BreachPaths || b.Value != 24 || b.Limit != 20 || b.Level != LevelHigh {
		t.Errorf("breach = %+v", b)
	}
	if got, want := b.Reason(), "paths 24 over 20"; got != want {
		t.Errorf("reason = %q, want %q", got, want)
	}
}

func TestAtOrAbove(t *testing.T) {
	p := DefaultProfile()
	rows := []aggregate.DeclRow{
		{QualifiedName: "a", Paths: 1, Documented: true},
		{QualifiedName: "b", Paths: 12, Documented: true},
		{QualifiedName: "c", Paths: 25, Documented: true},
	}
	findings := ClassifyAll(rows, p)
	if len(findings) != 3 {
		t.Fatalf("finding count = %d, want 3", len(findings))
	}

	medium := AtOrAbove(findings, LevelMedium)
	if len(medium) != 2 {
		t.Errorf("at/above medium = %d, want 2", len(medium))
	}
	high := AtOrAbove(findings, LevelHigh)
	if len(high) != 1 || high[0].QualifiedName != "c" {
		t.Errorf("at/above high = %+v", high)
	}
	all := AtOrAbove(findings, LevelLow)
	if len(all) != 3 {
		t.Errorf("at/above low = %d, want 3", len(all))
	}
}

func TestUnderDocumented(t *testing.T) {
	p := DefaultProfile()
	packages := []aggregate.PackageSummary{
		{Package: "app.core", Declarations: 10, DocCoverage: 0.8},
		{Package: "app.util", Declarations: 4, DocCoverage: 0.25},
		{Package: "app.empty", Declarations: 0, DocCoverage: 0},
	}

	got := UnderDocumented(packages, p)
	if len(got) != 1 || got[0].Package != "app.util" {
		t.Errorf("under-documented = %+v, want app.util only", got)
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"low", "medium", "high"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseLevel("critical"); err == nil {
		t.Error("expected error for unknown level")
	}
}
