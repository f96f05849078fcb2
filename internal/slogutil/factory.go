package slogutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"scalyze/internal/config"
	"scalyze/internal/paths"
)

// LoggerFactory creates configured loggers for the CLI. Console verbosity
// comes from flags; the file and remote sinks follow the repo config.
type LoggerFactory struct {
	repoRoot string
	config   *config.Config
	closers  []io.Closer
}

// NewLoggerFactory creates a new logger factory rooted at repoRoot.
// repoRoot may be empty, in which case only console logging is available.
func NewLoggerFactory(repoRoot string, cfg *config.Config) *LoggerFactory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &LoggerFactory{
		repoRoot: repoRoot,
		config:   cfg,
		closers:  make([]io.Closer, 0),
	}
}

// CLILogger builds the logger for a CLI invocation: a console handler at
// consoleLevel teed with the configured file and remote sinks. Sink setup
// failures degrade to console-only logging rather than failing the command.
func (f *LoggerFactory) CLILogger(console io.Writer, consoleLevel slog.Level) *slog.Logger {
	handlers := []slog.Handler{NewLineHandler(console, &slog.HandlerOptions{Level: consoleLevel})}

	sinkLevel := f.sinkLevel()

	if path := f.logFilePath(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			if handler, closer, err := f.fileHandler(path, sinkLevel); err == nil {
				handlers = append(handlers, handler)
				f.closers = append(f.closers, closer)
			}
		}
	}

	if remote := &f.config.Logging.Remote; remote.Enabled && remote.Endpoint != "" {
		labels := map[string]string{"app": "scalyze"}
		if f.repoRoot != "" {
			labels["repo"] = filepath.Base(f.repoRoot)
		}
		if loki, err := NewLokiHandler(remote, labels, sinkLevel); err == nil {
			loki.Start()
			handlers = append(handlers, loki)
			f.closers = append(f.closers, loki)
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(NewTeeHandler(handlers...))
}

// FileLogger creates a file-only logger at the configured sink level.
// Used when console output must stay clean, such as machine-readable modes.
func (f *LoggerFactory) FileLogger() (*slog.Logger, error) {
	path := f.logFilePath()
	if path == "" {
		return NewDiscardLogger(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewDiscardLogger(), nil
	}

	handler, closer, err := f.fileHandler(path, f.sinkLevel())
	if err != nil {
		return NewDiscardLogger(), nil
	}

	f.closers = append(f.closers, closer)
	return slog.New(handler), nil
}

// LogPath returns the resolved log file location, or "" when no file sink
// applies.
func (f *LoggerFactory) LogPath() string {
	return f.logFilePath()
}

// logFilePath resolves the log file location. An explicit config path wins;
// relative paths are resolved against the repo root. With no repo root and
// no absolute path configured there is nowhere to log, so return "".
func (f *LoggerFactory) logFilePath() string {
	path := f.config.Logging.File
	if path != "" {
		if filepath.IsAbs(path) {
			return path
		}
		if f.repoRoot != "" {
			return filepath.Join(f.repoRoot, path)
		}
		return ""
	}
	if f.repoRoot != "" {
		return paths.CLILogPath(f.repoRoot)
	}
	return ""
}

// fileHandler creates the file sink, with rotation when maxSize is configured.
func (f *LoggerFactory) fileHandler(path string, level slog.Level) (slog.Handler, io.Closer, error) {
	if f.config.Logging.MaxSize != "" {
		logger, closer, err := NewFileLoggerWithRotation(path, level, f.config.Logging.MaxSize, f.config.Logging.MaxBackups)
		if err != nil {
			return nil, nil, err
		}
		return logger.Handler(), closer, nil
	}
	logger, closer, err := NewFileLogger(path, level)
	if err != nil {
		return nil, nil, err
	}
	return logger.Handler(), closer, nil
}

// sinkLevel returns the level for file and remote sinks from config.
func (f *LoggerFactory) sinkLevel() slog.Level {
	if f.config.Logging.Level != "" {
		return LevelFromString(f.config.Logging.Level)
	}
	return slog.LevelInfo
}

// Close closes all open log sinks.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
