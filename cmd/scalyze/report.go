package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scalyze/internal/aggregate"
	"scalyze/internal/paths"
	"scalyze/internal/report"
	"scalyze/internal/store"
)

var (
	reportFormat string
	reportFile   string
	reportRuns   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize stored analysis runs",
	Long: `Summarize the latest saved run from the metrics store.

Shows per-package aggregates, flagged declarations and under-documented
packages from the latest run. --file narrows the view to one source file
and shows its trend across runs.

Examples:
  scalyze report
  scalyze report --file src/main/scala/app/Service.scala
  scalyze report --format=json`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format (json, human)")
	reportCmd.Flags().StringVar(&reportFile, "file", "", "Show the history of one source file")
	reportCmd.Flags().IntVar(&reportRuns, "runs", 10, "Number of runs listed (0 for all)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) {
	sess := mustSession()
	defer sess.Close()

	st, err := sess.openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening metrics store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	if reportFile != "" {
		runFileTrend(sess, st)
		return
	}

	run, err := st.LatestRun()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading metrics store: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Println("No saved runs found.")
		fmt.Println()
		fmt.Printf("Metrics store: %s\n", sess.storePath())
		fmt.Println()
		fmt.Println("Runs are saved when:")
		fmt.Println("  - Running 'scalyze analyze --save'")
		fmt.Println("  - Running 'scalyze analyze' with store.enabled in config")
		return
	}

	rows, err := st.RunRows(run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading run records: %v\n", err)
		os.Exit(1)
	}

	prof, err := sess.profile("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files := aggregate.FilesFromRows(rows)
	pkgs := aggregate.ByPackage(files)
	findings := report.ClassifyAll(rows, prof)
	flagged := report.AtOrAbove(findings, report.LevelMedium)
	underDoc := report.UnderDocumented(pkgs, prof)

	recent, err := st.ListRuns(reportRuns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
		os.Exit(1)
	}

	resp := &ReportResponseCLI{
		Run:       run,
		StorePath: sess.storePath(),
	}
	if info, statErr := os.Stat(sess.storePath()); statErr == nil {
		resp.StoreSize = info.Size()
	}

	for _, p := range pkgs {
		resp.Packages = append(resp.Packages, PackageReportCLI{
			Package:      p.Package,
			Files:        p.Files,
			Declarations: p.Declarations,
			MaxPaths:     p.MaxPaths,
			MeanPaths:    p.MeanPaths,
			MaxNesting:   p.MaxNesting,
			DocCoverage:  p.DocCoverage,
		})
	}

	for _, f := range flagged {
		reasons := make([]string, 0, len(f.Breaches))
		for _, br := range f.Breaches {
			reasons = append(reasons, br.Reason())
		}
		resp.Flagged = append(resp.Flagged, FindingCLI{
			Name:         f.QualifiedName,
			File:         f.File,
			StartLine:    f.StartLine,
			Risk:         string(f.Level),
			Reasons:      reasons,
			Undocumented: f.Undocumented,
		})
	}

	for _, p := range underDoc {
		resp.UnderDocumented = append(resp.UnderDocumented, UnderDocCLI{
			Package:     p.Package,
			DocCoverage: p.DocCoverage,
			MinCoverage: prof.Docs.MinCoverage,
		})
	}

	for _, r := range recent {
		resp.RecentRuns = append(resp.RecentRuns, RunSummaryCLI{
			ID:           r.ID,
			FinishedAt:   r.FinishedAt.Format(time.RFC3339),
			Files:        r.Files,
			Declarations: r.Declarations,
		})
	}

	output, err := FormatResponse(resp, OutputFormat(reportFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

func runFileTrend(sess *session, st *store.Store) {
	file := reportFile
	if filepath.IsAbs(file) {
		file = sess.relPath(file)
	} else {
		file = paths.NormalizePath(file)
	}

	trends, err := st.FileHistory(file, reportRuns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file history: %v\n", err)
		os.Exit(1)
	}

	resp := &TrendResponseCLI{File: file}
	for _, tr := range trends {
		resp.Runs = append(resp.Runs, TrendPointCLI{
			RunID:        tr.RunID,
			FinishedAt:   tr.FinishedAt.Format(time.RFC3339),
			Declarations: tr.Declarations,
			MaxPaths:     tr.MaxPaths,
			MeanPaths:    tr.MeanPaths,
			Branches:     tr.Branches,
		})
	}

	output, err := FormatResponse(resp, OutputFormat(reportFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// ReportResponseCLI contains the latest-run overview for CLI output
type ReportResponseCLI struct {
	Run             *store.Run         `json:"run"`
	StorePath       string             `json:"storePath"`
	StoreSize       int64              `json:"storeSizeBytes,omitempty"`
	Packages        []PackageReportCLI `json:"packages,omitempty"`
	Flagged         []FindingCLI       `json:"flagged,omitempty"`
	UnderDocumented []UnderDocCLI      `json:"underDocumented,omitempty"`
	RecentRuns      []RunSummaryCLI    `json:"recentRuns,omitempty"`
}

type PackageReportCLI struct {
	Package      string  `json:"package"`
	Files        int     `json:"files"`
	Declarations int     `json:"declarations"`
	MaxPaths     int     `json:"maxPaths"`
	MeanPaths    float64 `json:"meanPaths"`
	MaxNesting   int     `json:"maxNesting"`
	DocCoverage  float64 `json:"docCoverage"`
}

type UnderDocCLI struct {
	Package     string  `json:"package"`
	DocCoverage float64 `json:"docCoverage"`
	MinCoverage float64 `json:"minCoverage"`
}

type RunSummaryCLI struct {
	ID           string `json:"id"`
	FinishedAt   string `json:"finishedAt"`
	Files        int    `json:"files"`
	Declarations int    `json:"declarations"`
}

// TrendResponseCLI contains one file's history for CLI output
type TrendResponseCLI struct {
	File string          `json:"file"`
	Runs []TrendPointCLI `json:"runs"`
}

type TrendPointCLI struct {
	RunID        string  `json:"runId"`
	FinishedAt   string  `json:"finishedAt"`
	Declarations int     `json:"declarations"`
	MaxPaths     int     `json:"maxPaths"`
	MeanPaths    float64 `json:"meanPaths"`
	Branches     int     `json:"branches"`
}
