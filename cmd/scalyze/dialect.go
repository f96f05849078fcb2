package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scalyze/internal/dialect"
)

var (
	dialectFormat  string
	dialectExplain bool
)

var dialectCmd = &cobra.Command{
	Use:   "dialect <file...>",
	Short: "Detect the Scala dialect of source files",
	Long: `Detect the grammar revision (2.12, 2.13 or 3) of Scala source files.

Detection scrubs literals and comments, scans for revision-specific markers
and combines the evidence with trial parses. Use --explain to see the
markers or pattern hits that fired and the per-candidate scores.

Examples:
  scalyze dialect src/main/scala/App.scala
  scalyze dialect --explain build.sc
  scalyze dialect --format=json src/main/scala/App.scala project/plugins.sbt`,
	Args: cobra.MinimumNArgs(1),
	Run:  runDialect,
}

func init() {
	dialectCmd.Flags().StringVar(&dialectFormat, "format", "human", "Output format (json, human)")
	dialectCmd.Flags().BoolVar(&dialectExplain, "explain", false, "Show the evidence behind each decision")
	rootCmd.AddCommand(dialectCmd)
}

func runDialect(cmd *cobra.Command, args []string) {
	sess := mustSession()
	defer sess.Close()

	a, err := newAnalyzer(sess, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp := &DialectResponseCLI{}
	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(sess.repoRoot, path)
		}

		src, err := os.ReadFile(path)
		if err != nil {
			resp.Files = append(resp.Files, DialectFileCLI{File: arg, Error: err.Error()})
			continue
		}

		det := a.Detect(src)
		entry := DialectFileCLI{
			File:    sess.relPath(path),
			Dialect: string(det.Dialect),
			Method:  string(det.Method),
		}
		if dialectExplain {
			entry.Features = det.Features
			entry.Scores = scoreMap(det.Scores)
			entry.ParseScores = scoreMap(det.ParseScores)
		}
		resp.Files = append(resp.Files, entry)
	}

	output, err := FormatResponse(resp, OutputFormat(dialectFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// DialectResponseCLI contains dialect detection results for CLI output
type DialectResponseCLI struct {
	Files []DialectFileCLI `json:"files"`
}

type DialectFileCLI struct {
	File        string             `json:"file"`
	Dialect     string             `json:"dialect"`
	Method      string             `json:"method"`
	Features    []string           `json:"features,omitempty"`
	Scores      map[string]float64 `json:"scores,omitempty"`
	ParseScores map[string]float64 `json:"parseScores,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func scoreMap(m map[dialect.Dialect]float64) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for d, v := range m {
		out[string(d)] = v
	}
	return out
}
