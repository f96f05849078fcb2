package aggregate

import (
	"testing"

	"scalyze/internal/dialect"
	"scalyze/internal/metrics"
	"scalyze/internal/syntax"
)

func TestRowsCollatesPerDeclaration(t *testing.T) {
	handle := metrics.Decl{
		Name:          "handle",
		QualifiedName: "app.Service.handle",
		Kind:          "def",
		File:          "service.scala",
		Span:          syntax.Span{StartLine: 5, StartCol: 3, EndLine: 12},
	}
	limit := metrics.Decl{
		Name:          "limit",
		QualifiedName: "app.Service.limit",
		Kind:          "val",
		File:          "service.scala",
		Span:          syntax.Span{StartLine: 3, StartCol: 3, EndLine: 3},
		Abstract:      true,
	}

	records := []metrics.Record{
		metrics.PathCount{Decl: handle, Count: 4},
		metrics.NestingDepth{Decl: handle, Depth: 2},
		metrics.PatternStats{Decl: handle, Matches: 1, Cases: 3, Guards: 1, Wildcards: 1},
		metrics.BranchCounts{Decl: handle, Ifs: 2, Total: 5, Lines: 8},
		metrics.DocPresence{Decl: handle, Documented: true},

		metrics.PathCount{Decl: limit, Count: 0},
		metrics.NestingDepth{Decl: limit, Depth: 0},
		metrics.DocPresence{Decl: limit, Documented: false},
	}

	rows := Rows("app", dialect.Scala3, records)
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}

	// Ordered by start position: limit (line 3) before handle (line 5).
	if rows[0].Name != "limit" || rows[1].Name != "handle" {
		t.Fatalf("row order = %s, %s", rows[0].Name, rows[1].Name)
	}

	got := rows[1]
	if got.QualifiedName != "app.Service.handle" || got.Kind != "def" {
		t.Errorf("identity = %s %s", got.QualifiedName, got.Kind)
	}
	if got.Package != "app" || got.Dialect != dialect.Scala3 {
		t.Errorf("context = %s %s", got.Package, got.Dialect)
	}
	if got.Paths != 4 || got.Nesting != 2 {
		t.Errorf("paths = %d, nesting = %d, want 4 and 2", got.Paths, got.Nesting)
	}
	if got.Matches != 1 || got.Cases != 3 || got.Guards != 1 || got.Wildcards != 1 {
		t.Errorf("pattern stats = %d %d %d %d", got.Matches, got.Cases, got.Guards, got.Wildcards)
	}
	if got.Branches != 5 || got.Lines != 8 {
		t.Errorf("branches = %d, lines = %d, want 5 and 8", got.Branches, got.Lines)
	}
	if !got.Documented {
		t.Error("handle should be documented")
	}

	abstract := rows[0]
	if !abstract.Abstract {
		t.Error("limit row should carry the abstract flag")
	}
	if abstract.Paths != 0 || abstract.Branches != 0 {
		t.Errorf("abstract row values = %+v", abstract)
	}
}

func TestRowsEmpty(t *testing.T) {
	if rows := Rows("", dialect.Scala213, nil); len(rows) != 0 {
		t.Errorf("rows from no records = %v", rows)
	}
}

func TestFilesFromRows(t *testing.T) {
	rows := []DeclRow{
		{
			File: "a.scala", Package: "core", Dialect: dialect.Scala213,
			QualifiedName: "core.A", Paths: 4, Nesting: 2, Branches: 3, Lines: 10,
			Documented: true,
		},
		{
			File: "a.scala", Package: "core", Dialect: dialect.Scala213,
			QualifiedName: "core.A.run", Paths: 8, Nesting: 4, Branches: 5, Lines: 20,
			Local: true,
		},
		{
			File: "b.scala", Package: "core", Dialect: dialect.Scala3,
			QualifiedName: "core.B", Paths: 1, Abstract: true, Documented: true,
		},
	}

	files := FilesFromRows(rows)
	if len(files) != 2 {
		t.Fatalf("file count = %d, want 2", len(files))
	}
	if files[0].Path != "a.scala" || files[1].Path != "b.scala" {
		t.Fatalf("file order = %s, %s", files[0].Path, files[1].Path)
	}

	a := files[0]
	if a.Declarations != 2 || a.Local != 1 || a.Abstract != 0 {
		t.Errorf("a.scala counts = %+v", a)
	}
	if a.MaxPaths != 8 || a.MeanPaths != 6 {
		t.Errorf("a.scala paths = max %d mean %v, want 8 and 6", a.MaxPaths, a.MeanPaths)
	}
	if a.TotalBranches != 8 || a.TotalLines != 30 {
		t.Errorf("a.scala branches = %d, lines = %d", a.TotalBranches, a.TotalLines)
	}
	if a.DocCoverage != 0.5 {
		t.Errorf("a.scala doc coverage = %v, want 0.5", a.DocCoverage)
	}

	b := files[1]
	if b.Abstract != 1 || b.Dialect != dialect.Scala3 {
		t.Errorf("b.scala summary = %+v", b)
	}
}

func TestSortRowsStable(t *testing.T) {
	rows := []DeclRow{
		{File: "b.scala", StartLine: 1, QualifiedName: "b.B"},
		{File: "a.scala", StartLine: 9, QualifiedName: "a.Z"},
		{File: "a.scala", StartLine: 9, QualifiedName: "a.A"},
		{File: "a.scala", StartLine: 2, StartCol: 5, QualifiedName: "a.M"},
		{File: "a.scala", StartLine: 2, StartCol: 1, QualifiedName: "a.N"},
	}

	SortRows(rows)

	want := []string{"a.N", "a.M", "a.A", "a.Z", "b.B"}
	for i, q := range want {
		if rows[i].QualifiedName != q {
			t.Fatalf("rows[%d] = %s, want %s", i, rows[i].QualifiedName, q)
		}
	}
}
