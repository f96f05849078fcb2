package main

import (
	"strings"
	"testing"
	"time"

	"scalyze/internal/store"
)

func TestFormatResponse_JSON(t *testing.T) {
	resp := map[string]interface{}{
		"key": "value",
		"num": 42,
	}

	result, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, `"key": "value"`) {
		t.Error("JSON output missing expected key")
	}
	if !strings.Contains(result, `"num": 42`) {
		t.Error("JSON output missing expected number")
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	resp := map[string]string{"key": "value"}

	_, err := FormatResponse(resp, "xml")
	if err == nil {
		t.Error("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatJSON(t *testing.T) {
	resp := struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}{
		Name:  "test",
		Value: 123,
	}

	result, err := formatJSON(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, `"name": "test"`) {
		t.Error("missing name field")
	}
	if !strings.Contains(result, `"value": 123`) {
		t.Error("missing value field")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
		{1099511627776, "1.0 TiB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatBytes(tt.bytes)
			if result != tt.expected {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, result, tt.expected)
			}
		})
	}
}

func TestFormatHuman_UnknownType(t *testing.T) {
	// Unknown response types fall back to JSON
	resp := struct {
		Foo string `json:"foo"`
	}{Foo: "bar"}

	result, err := formatHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, `"foo": "bar"`) {
		t.Error("missing JSON content")
	}
}

func TestFormatAnalyzeHuman(t *testing.T) {
	resp := &AnalyzeResponseCLI{
		Root:  "/work/app",
		Files: 3,
		SkippedFiles: []SkippedFileCLI{
			{Path: "broken/Bad.scala", Reason: "parse failed"},
		},
		Dialects: map[string]int{"2.13": 2, "3": 1},
		Summary: AnalyzeSummaryCLI{
			Declarations:  12,
			Abstract:      2,
			Local:         3,
			MaxPaths:      14,
			MeanPaths:     4.5,
			MaxNesting:    5,
			MeanNesting:   1.8,
			TotalBranches: 40,
			TotalLines:    200,
			DocCoverage:   0.75,
		},
		Declarations: []DeclarationCLI{
			{
				Name:      "app.Service.handle",
				Kind:      "def",
				File:      "src/Service.scala",
				StartLine: 10,
				Paths:     14,
				Nesting:   5,
				Density:   0.42,
				Risk:      "high",
			},
		},
		Findings: []FindingCLI{
			{
				Name:         "app.Service.handle",
				File:         "src/Service.scala",
				StartLine:    10,
				Risk:         "high",
				Reasons:      []string{"path count 14 exceeds 10"},
				Undocumented: true,
			},
		},
		Suppressed: 2,
		RunID:      "9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8",
	}

	result, err := formatAnalyzeHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Scala Complexity Analysis") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "Files: 3 analyzed, 1 skipped") {
		t.Error("missing file counts")
	}
	if !strings.Contains(result, "Dialects: 2.13 (2), 3 (1)") {
		t.Error("missing dialect tally")
	}
	if !strings.Contains(result, "Declarations: 12 (2 abstract, 3 local)") {
		t.Error("missing declaration counts")
	}
	if !strings.Contains(result, "Paths: max 14, mean 4.5") {
		t.Error("missing path stats")
	}
	if !strings.Contains(result, "Branches: 40 over 200 lines (density 0.20)") {
		t.Error("missing branch stats")
	}
	if !strings.Contains(result, "Doc coverage: 75.0%") {
		t.Error("missing doc coverage")
	}
	if !strings.Contains(result, "1. app.Service.handle (def) src/Service.scala:10") {
		t.Error("missing declaration line")
	}
	if !strings.Contains(result, "paths 14, nesting 5, density 0.42 [high]") {
		t.Error("missing declaration metrics")
	}
	if !strings.Contains(result, "Findings: 1 flagged, 2 suppressed by baseline") {
		t.Error("missing findings summary")
	}
	if !strings.Contains(result, "! app.Service.handle [high] src/Service.scala:10") {
		t.Error("missing finding line")
	}
	if !strings.Contains(result, "path count 14 exceeds 10") {
		t.Error("missing finding reason")
	}
	if !strings.Contains(result, "undocumented") {
		t.Error("missing undocumented marker")
	}
	if !strings.Contains(result, "✗ broken/Bad.scala: parse failed") {
		t.Error("missing skipped file")
	}
	if !strings.Contains(result, "Run saved: 9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8") {
		t.Error("missing run id")
	}
}

func TestFormatAnalyzeHuman_CleanRun(t *testing.T) {
	resp := &AnalyzeResponseCLI{
		Root:  "/work/app",
		Files: 2,
		Summary: AnalyzeSummaryCLI{
			Declarations: 4,
			MeanPaths:    1.5,
		},
	}

	result, err := formatAnalyzeHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Files: 2 analyzed") {
		t.Error("missing file count")
	}
	// Empty sections stay out of the output
	if strings.Contains(result, "skipped") {
		t.Error("should not mention skipped files")
	}
	if strings.Contains(result, "Findings:") {
		t.Error("should not have findings section")
	}
	if strings.Contains(result, "Run saved:") {
		t.Error("should not mention a saved run")
	}
}

func TestFormatDialectHuman(t *testing.T) {
	resp := &DialectResponseCLI{
		Files: []DialectFileCLI{
			{File: "src/Main.scala", Dialect: "3", Method: "marker"},
			{File: "missing.scala", Error: "no such file"},
		},
	}

	result, err := formatDialectHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Dialect Detection") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "✓ src/Main.scala: Scala 3 (marker)") {
		t.Error("missing detected file")
	}
	if !strings.Contains(result, "✗ missing.scala: no such file") {
		t.Error("missing failed file")
	}
}

func TestFormatDialectHuman_Explain(t *testing.T) {
	resp := &DialectResponseCLI{
		Files: []DialectFileCLI{
			{
				File:        "src/Util.scala",
				Dialect:     "2.13",
				Method:      "posterior",
				Features:    []string{"arrow-lambda", "implicit-keyword"},
				Scores:      map[string]float64{"2.12": 0.1, "2.13": 0.8, "3": 0.1},
				ParseScores: map[string]float64{"2.13": 39},
			},
		},
	}

	result, err := formatDialectHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Features: arrow-lambda, implicit-keyword") {
		t.Error("missing features")
	}
	if !strings.Contains(result, "Scores: 2.12=0.10, 2.13=0.80, 3=0.10") {
		t.Error("missing posterior scores")
	}
	if !strings.Contains(result, "Parse scores: 2.13=39.00") {
		t.Error("missing parse scores")
	}
}

func TestFormatReportHuman(t *testing.T) {
	resp := &ReportResponseCLI{
		Run: &store.Run{
			ID:           "9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8",
			FinishedAt:   time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC),
			Files:        12,
			Skipped:      1,
			Declarations: 80,
		},
		StorePath: ".scalyze/metrics.db",
		StoreSize: 2048,
		Packages: []PackageReportCLI{
			{
				Package:      "app.service",
				Files:        4,
				Declarations: 30,
				MaxPaths:     14,
				MeanPaths:    3.2,
				MaxNesting:   5,
				DocCoverage:  0.5,
			},
		},
		Flagged: []FindingCLI{
			{Name: "app.Service.handle", File: "src/Service.scala", StartLine: 10, Risk: "high"},
		},
		UnderDocumented: []UnderDocCLI{
			{Package: "app.service", DocCoverage: 0.5, MinCoverage: 0.6},
		},
		RecentRuns: []RunSummaryCLI{
			{ID: "9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8", FinishedAt: "2026-03-10T12:30:00Z", Files: 12, Declarations: 80},
		},
	}

	result, err := formatReportHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Metrics Report") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "Latest run: 9f2c1b34") {
		t.Error("missing run id")
	}
	if !strings.Contains(result, "Finished: 2026-03-10T12:30:00Z") {
		t.Error("missing finish time")
	}
	if !strings.Contains(result, "Files: 12 (1 skipped), Declarations: 80") {
		t.Error("missing run counts")
	}
	if !strings.Contains(result, "Path: .scalyze/metrics.db") {
		t.Error("missing store path")
	}
	if !strings.Contains(result, "Size: 2.0 KiB") {
		t.Error("missing store size")
	}
	if !strings.Contains(result, "Files: 4, Declarations: 30") {
		t.Error("missing package counts")
	}
	if !strings.Contains(result, "Paths: max 14, mean 3.2; Nesting: max 5") {
		t.Error("missing package metrics")
	}
	if !strings.Contains(result, "Flagged declarations: 1") {
		t.Error("missing flagged count")
	}
	if !strings.Contains(result, "! app.Service.handle [high] src/Service.scala:10") {
		t.Error("missing flagged line")
	}
	if !strings.Contains(result, "⚠ app.service: 50.0% (min 60%)") {
		t.Error("missing under-documented package")
	}
	if !strings.Contains(result, "9f2c1b34  2026-03-10T12:30:00Z  files 12, declarations 80") {
		t.Error("missing recent run line")
	}
}

func TestFormatTrendHuman(t *testing.T) {
	resp := &TrendResponseCLI{
		File: "src/Service.scala",
		Runs: []TrendPointCLI{
			{
				RunID:        "9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8",
				FinishedAt:   "2026-03-10T12:30:00Z",
				Declarations: 6,
				MaxPaths:     14,
				MeanPaths:    4.5,
				Branches:     22,
			},
		},
	}

	result, err := formatTrendHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "History for: src/Service.scala") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "9f2c1b34  2026-03-10T12:30:00Z") {
		t.Error("missing run line")
	}
	if !strings.Contains(result, "declarations 6, max paths 14, mean paths 4.5, branches 22") {
		t.Error("missing trend metrics")
	}
}

func TestFormatTrendHuman_Empty(t *testing.T) {
	resp := &TrendResponseCLI{File: "src/Orphan.scala"}

	result, err := formatTrendHuman(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "No saved runs cover this file.") {
		t.Error("missing empty message")
	}
}

func TestFormatScores(t *testing.T) {
	scores := map[string]float64{"3": 1, "2.12": 0.5, "2.13": 2.25}

	result := formatScores(scores)
	if result != "2.12=0.50, 2.13=2.25, 3=1.00" {
		t.Errorf("unexpected score string: %q", result)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8", "9f2c1b34"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := shortID(tt.id); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
