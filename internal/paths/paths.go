// Package paths centralizes repo-relative path handling and the layout of
// the .scalyze state directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// StateDirName is the per-repo state directory.
const StateDirName = ".scalyze"

// StateDir returns the state directory path for a repo root.
func StateDir(repoRoot string) string {
	return filepath.Join(repoRoot, StateDirName)
}

// ConfigPath returns the configuration file path for a repo root.
func ConfigPath(repoRoot string) string {
	return filepath.Join(StateDir(repoRoot), "config.json")
}

// DBPath returns the metrics database path for a repo root.
func DBPath(repoRoot string) string {
	return filepath.Join(StateDir(repoRoot), "metrics.db")
}

// BaselinePath returns the suppression baseline path for a repo root.
func BaselinePath(repoRoot string) string {
	return filepath.Join(StateDir(repoRoot), "baseline.yml")
}

// LogsDir returns the log directory for a repo root.
func LogsDir(repoRoot string) string {
	return filepath.Join(StateDir(repoRoot), "logs")
}

// CLILogPath returns the CLI log file path for a repo root.
func CLILogPath(repoRoot string) string {
	return filepath.Join(LogsDir(repoRoot), "scalyze.log")
}

// EnsureStateDir creates the state directory if needed and returns it.
func EnsureStateDir(repoRoot string) (string, error) {
	dir := StateDir(repoRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// EnsureLogsDir creates the log directory if needed and returns it.
func EnsureLogsDir(repoRoot string) (string, error) {
	dir := LogsDir(repoRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// CanonicalizePath converts an absolute path into the repo-relative,
// forward-slash form used in metric rows, findings and the baseline.
// Symlinks are resolved on both sides first so a linked checkout and its
// target agree on the canonical form. Paths that do not exist yet
// canonicalize from their literal spelling.
func CanonicalizePath(absolutePath, repoRoot string) (string, error) {
	resolved, err := resolveSymlinks(absolutePath)
	if err != nil {
		return "", err
	}
	root, err := resolveSymlinks(repoRoot)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// resolveSymlinks is EvalSymlinks with nonexistent paths passed through
// unchanged.
func resolveSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if os.IsNotExist(err) {
		return path, nil
	}
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// IsWithinRepo reports whether path canonicalizes to somewhere under
// repoRoot.
func IsWithinRepo(path, repoRoot string) bool {
	canonical, err := CanonicalizePath(path, repoRoot)
	return err == nil && !strings.HasPrefix(canonical, "..")
}

// NormalizePath rewrites separators to forward slashes without touching
// anything else.
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRepoPath resolves a canonical repo-relative path back to an OS path
// under repoRoot.
func JoinRepoPath(repoRoot, canonicalPath string) string {
	parts := strings.Split(strings.ReplaceAll(canonicalPath, "\\", "/"), "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}
