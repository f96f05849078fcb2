package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scalyze/internal/config"
	"scalyze/internal/slogutil"
)

var (
	logFollow bool
	logLines  int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View scalyze logs",
	Long: `View scalyze operation logs.

Examples:
  scalyze log              # Show last 50 lines
  scalyze log -n 100       # Show last 100 lines
  scalyze log -f           # Follow log output (tail -f)`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "Follow log output")
	logCmd.Flags().IntVarP(&logLines, "lines", "n", 50, "Number of lines to show")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return fmt.Errorf("failed to resolve repository root: %w", err)
	}

	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	logPath := slogutil.NewLoggerFactory(repoRoot, cfg).LogPath()
	if logPath == "" {
		fmt.Println("File logging is disabled for this repository.")
		return nil
	}

	// Check if log file exists
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No logs found.")
		fmt.Println()
		fmt.Printf("Log file location: %s\n", logPath)
		fmt.Println()
		fmt.Println("Logs are created when:")
		fmt.Println("  - Running 'scalyze analyze' in an initialized repository")
		fmt.Println("  - Using verbose mode: scalyze --verbose <command>")
		return nil
	}

	if logFollow {
		return followLogFile(logPath)
	}

	return showLogLines(logPath, logLines)
}

// showLogLines prints the last n lines of the file. The window is kept
// bounded while scanning so large logs are not held in memory whole.
func showLogLines(path string, n int) error {
	if n <= 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) >= 2*n {
			lines = append(lines[:0], lines[len(lines)-n:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	start := 0
	if len(lines) > n {
		start = len(lines) - n
	}
	for _, line := range lines[start:] {
		fmt.Println(line)
	}
	return nil
}

// followLogFile tails the file from its current end, polling for
// appended data. Partial lines print as they arrive.
func followLogFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	fmt.Printf("Following %s (Ctrl+C to stop)\n\n", path)

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			fmt.Print(line)
		}
		if err != nil {
			time.Sleep(250 * time.Millisecond)
		}
	}
}
