package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"scalyze/internal/aggregate"
	"scalyze/internal/analyzer"
	"scalyze/internal/baseline"
	"scalyze/internal/config"
	"scalyze/internal/dialect"
	"scalyze/internal/report"
	"scalyze/internal/treesitter"
)

var (
	analyzeFormat   string
	analyzeWorkers  int
	analyzeDialect  string
	analyzeSortBy   string
	analyzeLimit    int
	analyzeSave     bool
	analyzeProfile  string
	analyzeBaseline string
	analyzeFailOn   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path...]",
	Short: "Measure structural complexity of Scala sources",
	Long: `Measure structural complexity of Scala sources using tree-sitter parsing.

Walks the given paths (default: the repository root), detects the dialect of
each file and reports decision paths, nesting depth, pattern-match shape and
branch density per declaration. Declarations over the threshold profile are
classified medium or high risk; a baseline file suppresses known findings
until they grow.

Examples:
  scalyze analyze
  scalyze analyze src/main/scala --sort=nesting --limit=10
  scalyze analyze --dialect=3 --format=json modules/core
  scalyze analyze --fail-on=high --save`,
	Args: cobra.ArbitraryArgs,
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (json, human)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Worker count (0 for one per CPU)")
	analyzeCmd.Flags().StringVar(&analyzeDialect, "dialect", "", "Pin the dialect: 2.12, 2.13 or 3 (default: per-file detection)")
	analyzeCmd.Flags().StringVar(&analyzeSortBy, "sort", "paths", "Sort declarations by: paths, nesting, density, or name")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "Limit number of declarations shown (0 for all)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the run to the metrics store (default: config store.enabled)")
	analyzeCmd.Flags().StringVar(&analyzeProfile, "profile", "", "Threshold profile file (TOML)")
	analyzeCmd.Flags().StringVar(&analyzeBaseline, "baseline", "", "Suppression baseline file (default: config baseline.path)")
	analyzeCmd.Flags().StringVar(&analyzeFailOn, "fail-on", "", "Exit non-zero on unsuppressed findings at this level: medium or high")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	start := time.Now()
	sess := mustSession()
	defer sess.Close()

	if !treesitter.IsAvailable() {
		fmt.Fprintf(os.Stderr, "Error: analysis requires CGO (tree-sitter)\n")
		fmt.Fprintf(os.Stderr, "This binary was built without CGO support.\n")
		os.Exit(1)
	}

	format := analyzeFormat
	if !cmd.Flags().Changed("format") && sess.cfg.Output.Format != "" {
		format = sess.cfg.Output.Format
	}
	sortBy := analyzeSortBy
	if !cmd.Flags().Changed("sort") && sess.cfg.Output.Sort != "" {
		sortBy = sess.cfg.Output.Sort
	}
	limit := analyzeLimit
	if !cmd.Flags().Changed("limit") && sess.cfg.Output.Limit > 0 {
		limit = sess.cfg.Output.Limit
	}
	save := analyzeSave
	if !cmd.Flags().Changed("save") {
		save = sess.cfg.Store.Enabled
	}

	failOn := analyzeFailOn
	if failOn == "" {
		failOn = sess.cfg.Report.FailOn
	}
	var failLevel report.Level
	switch failOn {
	case "":
	case "medium":
		failLevel = report.LevelMedium
	case "high":
		failLevel = report.LevelHigh
	default:
		fmt.Fprintf(os.Stderr, "Error: --fail-on must be medium or high\n")
		os.Exit(1)
	}

	forced, err := resolveDialect(sess.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	prof, err := sess.profile(analyzeProfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	roots := make([]string, 0, len(args))
	for _, arg := range args {
		if !filepath.IsAbs(arg) {
			arg = filepath.Join(sess.repoRoot, arg)
		}
		roots = append(roots, arg)
	}
	if len(roots) == 0 {
		roots = []string{sess.repoRoot}
	}

	files, err := analyzer.DiscoverFiles(roots, sess.cfg.Analysis.Exclude...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering files: %v\n", err)
		os.Exit(1)
	}

	a, err := newAnalyzer(sess, forced)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	workers := analyzeWorkers
	if workers == 0 {
		workers = sess.cfg.Analysis.Workers
	}

	results, err := a.RunBatch(context.Background(), files, workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing files: %v\n", err)
		os.Exit(1)
	}

	rows, skipped, dialects := collectRows(sess, results)

	findings := report.ClassifyAll(rows, prof)
	flagged := report.AtOrAbove(findings, report.LevelMedium)

	bl, err := baseline.Load(sess.baselinePath(analyzeBaseline))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	unsuppressed := bl.Filter(flagged)

	runID := ""
	if save {
		st, err := sess.openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening metrics store: %v\n", err)
			os.Exit(1)
		}
		run, saveErr := st.SaveRun(sess.repoRoot, start, time.Now(), len(results)-len(skipped), len(skipped), rows)
		closeErr := st.Close()
		if saveErr != nil {
			fmt.Fprintf(os.Stderr, "Error saving run: %v\n", saveErr)
			os.Exit(1)
		}
		if closeErr != nil {
			sess.log.Warn("failed to close metrics store", "error", closeErr)
		}
		runID = run.ID
	}

	resp := buildAnalyzeResponse(sess, rows, findings, unsuppressed, skipped, dialects, sortBy, limit)
	resp.Files = len(results) - len(skipped)
	resp.Suppressed = len(flagged) - len(unsuppressed)
	resp.RunID = runID

	output, err := FormatResponse(resp, OutputFormat(format))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	sess.log.Debug("analysis completed",
		"files", resp.Files,
		"declarations", len(rows),
		"flagged", len(flagged),
		"duration", time.Since(start).Milliseconds(),
	)

	if failLevel != "" && len(report.AtOrAbove(unsuppressed, failLevel)) > 0 {
		sess.log.Warn("unsuppressed findings at or above fail level",
			"level", string(failLevel),
			"findings", len(report.AtOrAbove(unsuppressed, failLevel)),
		)
		sess.Close()
		os.Exit(1)
	}
}

// AnalyzeResponseCLI contains batch analysis results for CLI output
type AnalyzeResponseCLI struct {
	Root         string            `json:"root"`
	Files        int               `json:"files"`
	SkippedFiles []SkippedFileCLI  `json:"skippedFiles,omitempty"`
	Dialects     map[string]int    `json:"dialects,omitempty"`
	Summary      AnalyzeSummaryCLI `json:"summary"`
	Declarations []DeclarationCLI  `json:"declarations,omitempty"`
	Findings     []FindingCLI      `json:"findings,omitempty"`
	Suppressed   int               `json:"suppressed"`
	RunID        string            `json:"runId,omitempty"`
}

type AnalyzeSummaryCLI struct {
	Declarations  int     `json:"declarations"`
	Abstract      int     `json:"abstract"`
	Local         int     `json:"local"`
	MaxPaths      int     `json:"maxPaths"`
	MeanPaths     float64 `json:"meanPaths"`
	MaxNesting    int     `json:"maxNesting"`
	MeanNesting   float64 `json:"meanNesting"`
	TotalBranches int     `json:"totalBranches"`
	TotalLines    int     `json:"totalLines"`
	DocCoverage   float64 `json:"docCoverage"`
}

type SkippedFileCLI struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type DeclarationCLI struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	File       string  `json:"file"`
	StartLine  int     `json:"startLine"`
	EndLine    int     `json:"endLine"`
	Dialect    string  `json:"dialect"`
	Paths      int     `json:"paths"`
	Nesting    int     `json:"nesting"`
	Branches   int     `json:"branches"`
	Lines      int     `json:"lines"`
	Density    float64 `json:"density"`
	Documented bool    `json:"documented"`
	Risk       string  `json:"risk"` // low, medium, high
}

type FindingCLI struct {
	Name         string   `json:"name"`
	File         string   `json:"file"`
	StartLine    int      `json:"startLine"`
	Risk         string   `json:"risk"`
	Reasons      []string `json:"reasons"`
	Undocumented bool     `json:"undocumented,omitempty"`
}

// collectRows flattens batch results into declaration rows with
// repo-relative paths, collecting skip diagnostics and the per-file dialect
// tally along the way.
func collectRows(sess *session, results []*analyzer.FileMetrics) ([]aggregate.DeclRow, []SkippedFileCLI, map[string]int) {
	var rows []aggregate.DeclRow
	var skipped []SkippedFileCLI
	dialects := make(map[string]int)

	for _, fm := range results {
		if fm.Error != "" {
			sess.log.Warn("skipping file", "path", fm.Path, "reason", fm.Error)
			skipped = append(skipped, SkippedFileCLI{Path: sess.relPath(fm.Path), Reason: fm.Error})
			continue
		}
		dialects[string(fm.Dialect)]++

		fileRows := aggregate.Rows(fm.Package, fm.Dialect, fm.Records)
		rel := sess.relPath(fm.Path)
		for i := range fileRows {
			fileRows[i].File = rel
		}
		rows = append(rows, fileRows...)
	}

	aggregate.SortRows(rows)
	return rows, skipped, dialects
}

func buildAnalyzeResponse(sess *session, rows []aggregate.DeclRow, findings, unsuppressed []report.Finding,
	skipped []SkippedFileCLI, dialects map[string]int, sortBy string, limit int) *AnalyzeResponseCLI {

	resp := &AnalyzeResponseCLI{
		Root:         sess.repoRoot,
		SkippedFiles: skipped,
		Dialects:     dialects,
	}

	s := &resp.Summary
	s.Declarations = len(rows)
	var sumPaths, sumNesting, documented int
	for _, r := range rows {
		if r.Abstract {
			s.Abstract++
		}
		if r.Local {
			s.Local++
		}
		sumPaths += r.Paths
		if r.Paths > s.MaxPaths {
			s.MaxPaths = r.Paths
		}
		sumNesting += r.Nesting
		if r.Nesting > s.MaxNesting {
			s.MaxNesting = r.Nesting
		}
		s.TotalBranches += r.Branches
		s.TotalLines += r.Lines
		if r.Documented {
			documented++
		}
	}
	if len(rows) > 0 {
		s.MeanPaths = float64(sumPaths) / float64(len(rows))
		s.MeanNesting = float64(sumNesting) / float64(len(rows))
		s.DocCoverage = float64(documented) / float64(len(rows))
	}

	decls := make([]DeclarationCLI, 0, len(rows))
	for i, r := range rows {
		decls = append(decls, DeclarationCLI{
			Name:       r.QualifiedName,
			Kind:       r.Kind,
			File:       r.File,
			StartLine:  r.StartLine,
			EndLine:    r.EndLine,
			Dialect:    string(r.Dialect),
			Paths:      r.Paths,
			Nesting:    r.Nesting,
			Branches:   r.Branches,
			Lines:      r.Lines,
			Density:    report.Density(r),
			Documented: r.Documented,
			Risk:       string(findings[i].Level),
		})
	}

	switch sortBy {
	case "nesting":
		sort.Slice(decls, func(i, j int) bool {
			return decls[i].Nesting > decls[j].Nesting
		})
	case "density":
		sort.Slice(decls, func(i, j int) bool {
			return decls[i].Density > decls[j].Density
		})
	case "name":
		sort.Slice(decls, func(i, j int) bool {
			return decls[i].Name < decls[j].Name
		})
	default: // paths
		sort.Slice(decls, func(i, j int) bool {
			return decls[i].Paths > decls[j].Paths
		})
	}

	if limit > 0 && len(decls) > limit {
		decls = decls[:limit]
	}
	resp.Declarations = decls

	fcli := make([]FindingCLI, 0, len(unsuppressed))
	for _, f := range unsuppressed {
		reasons := make([]string, 0, len(f.Breaches))
		for _, br := range f.Breaches {
			reasons = append(reasons, br.Reason())
		}
		fcli = append(fcli, FindingCLI{
			Name:         f.QualifiedName,
			File:         f.File,
			StartLine:    f.StartLine,
			Risk:         string(f.Level),
			Reasons:      reasons,
			Undocumented: f.Undocumented,
		})
	}
	resp.Findings = fcli

	return resp
}

// resolveDialect determines the pinned dialect from CLI flag and config.
// Precedence: --dialect flag > config analysis.dialect > per-file detection
func resolveDialect(cfg *config.Config) (dialect.Dialect, error) {
	// 1. CLI flag (highest priority)
	if analyzeDialect != "" {
		return dialect.Parse(analyzeDialect)
	}

	// 2. Config file default
	if cfg != nil && cfg.Analysis.Dialect != "" {
		return dialect.Parse(cfg.Analysis.Dialect)
	}

	// 3. Per-file detection (default)
	return "", nil
}

// newAnalyzer builds the analyzer with the session logger, the pinned
// dialect and any configured detection tuning.
func newAnalyzer(sess *session, forced dialect.Dialect) (*analyzer.Analyzer, error) {
	opts := []analyzer.Option{analyzer.WithLogger(sess.log)}
	if forced != "" {
		opts = append(opts, analyzer.WithDialect(forced))
	}
	if sess.cfg.Analysis.Tuning != "" {
		path := sess.cfg.Analysis.Tuning
		if !filepath.IsAbs(path) {
			path = filepath.Join(sess.repoRoot, path)
		}
		tuning, err := dialect.LoadTuning(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load detection tuning: %w", err)
		}
		opts = append(opts, analyzer.WithTuning(tuning))
	}
	return analyzer.New(treesitter.NewProvider(), opts...), nil
}
