// Package export renders saved analysis runs as JSON or CSV so metrics can
// feed dashboards and spreadsheets outside the tool.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"scalyze/internal/aggregate"
	"scalyze/internal/store"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or csv)", s)
	}
}

// Options control how a run is written.
type Options struct {
	Format   Format
	Compress bool
}

type document struct {
	Run     *store.Run          `json:"run"`
	Records []aggregate.DeclRow `json:"records"`
}

// Write renders the run and its rows to w. Rows are sorted first so repeated
// exports of the same run are byte-identical.
func Write(w io.Writer, run *store.Run, rows []aggregate.DeclRow, opts Options) error {
	aggregate.SortRows(rows)

	out := w
	var gz *gzip.Writer
	if opts.Compress {
		gz = gzip.NewWriter(w)
		out = gz
	}

	var err error
	switch opts.Format {
	case FormatCSV:
		err = writeCSV(out, rows)
	case FormatJSON, "":
		err = writeJSON(out, run, rows)
	default:
		err = fmt.Errorf("unknown export format %q", opts.Format)
	}
	if err != nil {
		if gz != nil {
			gz.Close()
		}
		return err
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	return nil
}

// WriteFile writes the export to path via a temp file in the same directory,
// so a failed export never leaves a truncated file behind.
func WriteFile(path string, run *store.Run, rows []aggregate.DeclRow, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp export file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Write(tmp, run, rows, opts); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp export file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, run *store.Run, rows []aggregate.DeclRow) error {
	doc := document{Run: run, Records: rows}
	if doc.Records == nil {
		doc.Records = []aggregate.DeclRow{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"file", "package", "dialect", "name", "qualified_name", "kind",
	"start_line", "start_col", "end_line", "local", "abstract",
	"path_count", "nesting_depth", "match_count", "case_count",
	"guard_count", "wildcard_count", "branch_total", "line_count",
	"documented",
}

func writeCSV(w io.Writer, rows []aggregate.DeclRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.File,
			r.Package,
			string(r.Dialect),
			r.Name,
			r.QualifiedName,
			r.Kind,
			strconv.Itoa(r.StartLine),
			strconv.Itoa(r.StartCol),
			strconv.Itoa(r.EndLine),
			strconv.FormatBool(r.Local),
			strconv.FormatBool(r.Abstract),
			strconv.Itoa(r.Paths),
			strconv.Itoa(r.Nesting),
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Cases),
			strconv.Itoa(r.Guards),
			strconv.Itoa(r.Wildcards),
			strconv.Itoa(r.Branches),
			strconv.Itoa(r.Lines),
			strconv.FormatBool(r.Documented),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
