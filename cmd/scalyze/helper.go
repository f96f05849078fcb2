package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scalyze/internal/config"
	"scalyze/internal/paths"
	"scalyze/internal/report"
	"scalyze/internal/slogutil"
	"scalyze/internal/store"
)

// session bundles what every command wires up: the resolved repo root, the
// merged configuration and the CLI logger with its file and remote sinks.
type session struct {
	repoRoot string
	cfg      *config.Config
	log      *slog.Logger
	factory  *slogutil.LoggerFactory
}

// newSession resolves the repo root, loads configuration and builds the CLI
// logger. A broken config file degrades to defaults with a warning instead
// of failing the command.
func newSession() (*session, error) {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	cfg, cfgErr := config.LoadConfig(repoRoot)
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	factory := slogutil.NewLoggerFactory(repoRoot, cfg)
	logger := factory.CLILogger(os.Stderr, consoleLevel())
	if cfgErr != nil {
		logger.Warn("failed to load config, using defaults", "error", cfgErr)
	}

	return &session{repoRoot: repoRoot, cfg: cfg, log: logger, factory: factory}, nil
}

// mustSession creates a session or exits on error.
func mustSession() *session {
	s, err := newSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return s
}

// Close flushes and closes the log sinks.
func (s *session) Close() {
	if err := s.factory.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log sinks: %v\n", err)
	}
}

// consoleLevel maps --verbose/--quiet onto the console handler level.
func consoleLevel() slog.Level {
	switch {
	case quietFlag:
		return slog.LevelWarn
	case verboseFlag:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// storePath resolves the metrics database location from config.
func (s *session) storePath() string {
	p := s.cfg.Store.Path
	if p == "" {
		return paths.DBPath(s.repoRoot)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.repoRoot, p)
}

// openStore opens the metrics database.
func (s *session) openStore() (*store.Store, error) {
	return store.Open(s.storePath(), s.log)
}

// baselinePath resolves the suppression baseline location. A non-empty flag
// value wins over config; both resolve relative to the repo root.
func (s *session) baselinePath(flagValue string) string {
	p := flagValue
	if p == "" {
		p = s.cfg.Baseline.Path
	}
	if p == "" {
		return paths.BaselinePath(s.repoRoot)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.repoRoot, p)
}

// profile loads the threshold profile. A non-empty flag value wins over
// config; an empty resolved path yields the built-in thresholds.
func (s *session) profile(flagValue string) (*report.Profile, error) {
	path := flagValue
	if path == "" {
		path = s.cfg.Report.Profile
	}
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.repoRoot, path)
	}
	return report.LoadProfile(path)
}

// relPath converts an absolute source path to the repo-relative canonical
// form used in rows, findings and the baseline. Paths outside the repo stay
// absolute.
func (s *session) relPath(abs string) string {
	rel, err := paths.CanonicalizePath(abs, s.repoRoot)
	if err != nil || strings.HasPrefix(rel, "..") {
		return paths.NormalizePath(abs)
	}
	return rel
}
