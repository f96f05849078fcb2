package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scalyze/internal/version"
)

var (
	// repoRootFlag is the CLI --repo-root flag value
	repoRootFlag string
	verboseFlag  bool
	quietFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "scalyze",
	Short: "scalyze - Scala structural complexity analyzer",
	Long: `scalyze measures structural complexity of Scala sources: decision paths,
nesting depth, pattern-match shape and branch density per declaration, with
per-file dialect detection across Scala 2.12, 2.13 and 3.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("scalyze version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoRootFlag, "repo-root", "",
		"Repository root (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false,
		"Log debug detail to the console")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false,
		"Only log warnings and errors to the console")
}

// resolveRepoRoot determines the repository root from CLI flag, env var, and
// the working directory.
// Precedence: --repo-root flag > SCALYZE_REPO_ROOT env var > cwd
func resolveRepoRoot() (string, error) {
	// 1. CLI flag (highest priority)
	if repoRootFlag != "" {
		return filepath.Abs(repoRootFlag)
	}

	// 2. Environment variable
	if env := os.Getenv("SCALYZE_REPO_ROOT"); env != "" {
		return filepath.Abs(env)
	}

	// 3. Working directory (default)
	return os.Getwd()
}
