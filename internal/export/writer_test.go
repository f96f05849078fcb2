package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"scalyze/internal/aggregate"
	"scalyze/internal/dialect"
	"scalyze/internal/store"
)

func sampleRun() *store.Run {
	return &store.Run{
		ID:           "9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8",
		Root:         "/work/billing",
		StartedAt:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		FinishedAt:   time.Date(2026, 3, 10, 9, 0, 12, 0, time.UTC),
		Files:        2,
		Skipped:      0,
		Declarations: 2,
	}
}

func sampleRows() []aggregate.DeclRow {
	return []aggregate.DeclRow{
		{
			File:          "src/main/scala/app/Service.scala",
			Package:       "app",
			Dialect:       dialect.Scala213,
			Name:          "handle",
			QualifiedName: "app.Service.handle",
			Kind:          "def",
			StartLine:     12,
			StartCol:      2,
			EndLine:       40,
			Paths:         9,
			Nesting:       3,
			Matches:       1,
			Cases:         4,
			Guards:        1,
			Wildcards:     1,
			Branches:      8,
			Lines:         28,
			Documented:    true,
		},
		{
			File:          "src/main/scala/app/util.scala",
			Package:       "app.util",
			Dialect:       dialect.Scala3,
			Name:          "clamp",
			QualifiedName: "app.util.clamp",
			Kind:          "def",
			StartLine:     3,
			StartCol:      0,
			EndLine:       7,
			Paths:         3,
			Nesting:       1,
			Branches:      2,
			Lines:         5,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRun(), sampleRows(), Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var doc struct {
		Run     *store.Run          `json:"run"`
		Records []aggregate.DeclRow `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc.Run == nil || doc.Run.ID != "9f2c1b34-5e7d-4a90-b1c2-d3e4f5a6b7c8" {
		t.Errorf("run = %+v", doc.Run)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(doc.Records))
	}
	if doc.Records[0].QualifiedName != "app.Service.handle" {
		t.Errorf("first record = %q", doc.Records[0].QualifiedName)
	}
	if doc.Records[0].Paths != 9 || doc.Records[0].Cases != 4 {
		t.Errorf("first record metrics = %+v", doc.Records[0])
	}
}

func TestWriteJSONEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRun(), nil, Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !strings.Contains(buf.String(), `"records": []`) {
		t.Errorf("empty rows should encode as [], got:\n%s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRun(), sampleRows(), Options{Format: FormatCSV}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[0][0] != "file" || records[0][len(records[0])-1] != "documented" {
		t.Errorf("header = %v", records[0])
	}
	if len(records[1]) != len(csvHeader) {
		t.Errorf("record width = %d, want %d", len(records[1]), len(csvHeader))
	}

	first := records[1]
	if first[4] != "app.Service.handle" {
		t.Errorf("qualified_name = %q", first[4])
	}
	if first[2] != "2.13" || first[11] != "9" || first[19] != "true" {
		t.Errorf("record = %v", first)
	}
}

func TestWriteSortsRows(t *testing.T) {
	rows := sampleRows()
	rows[0], rows[1] = rows[1], rows[0]

	var buf bytes.Buffer
	if err := Write(&buf, sampleRun(), rows, Options{Format: FormatCSV}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if records[1][0] != "src/main/scala/app/Service.scala" {
		t.Errorf("first data row = %q, want Service.scala first", records[1][0])
	}
}

func TestWriteCompressed(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRun(), sampleRows(), Options{Format: FormatJSON, Compress: true}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	gz, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("output is not gzip: %v", err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decompressed payload is not JSON: %v", err)
	}
	if _, ok := doc["records"]; !ok {
		t.Error("decompressed payload missing records")
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleRun(), nil, Options{Format: "xml"})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.json")
	if err := WriteFile(path, sampleRun(), sampleRows(), Options{Format: FormatJSON}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if !json.Valid(data) {
		t.Error("export file is not valid JSON")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("export dir has %d entries, want only the export", len(entries))
	}
}

func TestWriteFileCleansUpOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.bad")
	if err := WriteFile(path, sampleRun(), nil, Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed export left %d entries behind", len(entries))
	}
}
