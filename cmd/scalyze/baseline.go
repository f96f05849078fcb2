package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scalyze/internal/baseline"
	"scalyze/internal/report"
)

var (
	baselineOutput string
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage the suppression baseline",
	Long: `Manage the suppression baseline consulted by analyze.

The baseline tolerates known findings at their recorded values; a finding
resurfaces as soon as any of its metrics grows past the allowance.`,
}

var baselineWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Regenerate the baseline from the latest saved run",
	Long: `Regenerate the suppression baseline from the latest saved run.

Classifies the latest run against the threshold profile and records an
allowance for every flagged metric, so the next analyze reports only
findings that grew or appeared since.

Examples:
  scalyze baseline write
  scalyze baseline write --output=ci/baseline.yml`,
	Run: runBaselineWrite,
}

func init() {
	baselineWriteCmd.Flags().StringVar(&baselineOutput, "output", "", "Baseline file to write (default: config baseline.path)")
	baselineCmd.AddCommand(baselineWriteCmd)
	rootCmd.AddCommand(baselineCmd)
}

func runBaselineWrite(cmd *cobra.Command, args []string) {
	sess := mustSession()
	defer sess.Close()

	st, err := sess.openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening metrics store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	run, err := st.LatestRun()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading metrics store: %v\n", err)
		os.Exit(1)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "Error: no saved runs; run 'scalyze analyze --save' first\n")
		os.Exit(1)
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

	flagged := report.AtOrAbove(report.ClassifyAll(rows, prof), report.LevelMedium)
	bl := baseline.FromFindings(flagged)

	path := sess.baselinePath(baselineOutput)
	if err := bl.Save(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sess.log.Info("baseline written", "path", path, "entries", len(bl.Entries))
	fmt.Printf("Baseline written to %s (%d entries from run %s)\n", path, len(bl.Entries), shortID(run.ID))
}
