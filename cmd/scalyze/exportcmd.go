package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scalyze/internal/export"
	"scalyze/internal/store"
)

var (
	exportRun      string
	exportOutput   string
	exportFormat   string
	exportCompress bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a saved run as JSON or CSV",
	Long: `Export a saved analysis run from the metrics store.

Writes the run header and its declaration records as JSON or CSV, optionally
gzip-compressed. Without --run the latest run is exported; without --output
the export goes to stdout.

Examples:
  scalyze export
  scalyze export --format=csv --output=metrics.csv
  scalyze export --run=9f2c1b34 --compress --output=run.json.gz`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportRun, "run", "", "Run id to export (default: latest)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format (json, csv)")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "Gzip-compress the output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	sess := mustSession()
	defer sess.Close()

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st, err := sess.openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening metrics store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	var run *store.Run
	if exportRun != "" {
		run, err = st.GetRun(exportRun)
	} else {
		run, err = st.LatestRun()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading metrics store: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		if exportRun != "" {
			fmt.Fprintf(os.Stderr, "Error: run not found: %s\n", exportRun)
		} else {
			fmt.Fprintf(os.Stderr, "Error: no saved runs to export\n")
		}
		os.Exit(1)
	}

	rows, err := st.RunRows(run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading run records: %v\n", err)
		os.Exit(1)
	}

	opts := export.Options{Format: format, Compress: exportCompress}

	if exportOutput == "" {
		if err := export.Write(os.Stdout, run, rows, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
			os.Exit(1)
		}
		return
	}

	outPath := exportOutput
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(sess.repoRoot, outPath)
	}
	if err := export.WriteFile(outPath, run, rows, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
		os.Exit(1)
	}

	sess.log.Info("run exported", "run", run.ID, "records", len(rows), "output", outPath)
	fmt.Printf("Exported run %s (%d records) to %s\n", shortID(run.ID), len(rows), outPath)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
