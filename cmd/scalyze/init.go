package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scalyze/internal/config"
	"scalyze/internal/paths"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize scalyze configuration",
	Long:  "Creates a .scalyze/ directory with default configuration in the repository root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .scalyze directory)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return fmt.Errorf("failed to resolve repository root: %w", err)
	}

	stateDir := paths.StateDir(repoRoot)
	if _, statErr := os.Stat(stateDir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success (CI-friendly)
			fmt.Println("scalyze already initialized.")
			fmt.Printf("Configuration at: %s\n", paths.ConfigPath(repoRoot))
			fmt.Println("\nRun 'scalyze init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(stateDir); removeErr != nil {
			return fmt.Errorf("failed to remove existing %s directory: %w", paths.StateDirName, removeErr)
		}
	}

	if _, err := paths.EnsureStateDir(repoRoot); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", paths.StateDirName, err)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(repoRoot); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Println("scalyze initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", paths.ConfigPath(repoRoot))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'scalyze analyze' to measure your sources")
	fmt.Println("  2. Run 'scalyze report' to see stored trends")

	return nil
}
