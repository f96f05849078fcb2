package slogutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// RotatingFile is an io.WriteCloser that rotates the underlying file once
// it exceeds maxSize bytes. Rotated files are kept as path.1 .. path.N
// where N is maxBackups; older files are removed.
type RotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int
	file       *os.File
	size       int64
	mu         sync.Mutex
}

// OpenRotatingFile opens path for appending with rotation support.
// A maxSize of 0 disables rotation. A maxBackups of 0 means rotated
// files are deleted rather than kept.
func OpenRotatingFile(path string, maxSize int64, maxBackups int) (*RotatingFile, error) {
	rf := &RotatingFile{
		path:       path,
		maxSize:    maxSize,
		maxBackups: maxBackups,
	}
	if err := rf.openFile(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (r *RotatingFile) openFile() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}

	r.file = f
	r.size = info.Size()
	return nil
}

// Write implements io.Writer, rotating first when the write would push the
// file over maxSize. A failed rotation does not block the write.
func (r *RotatingFile) Write(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSize > 0 && r.size+int64(len(p)) > r.maxSize {
		_ = r.rotate()
	}

	n, err = r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Close implements io.Closer.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// rotate shifts path -> path.1 -> path.2 ... dropping the oldest backup,
// then reopens a fresh file at path.
func (r *RotatingFile) rotate() error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return err
		}
	}

	for i := r.maxBackups; i >= 1; i-- {
		if i == r.maxBackups {
			_ = os.Remove(r.backupPath(i))
			continue
		}
		if _, err := os.Stat(r.backupPath(i)); err == nil {
			_ = os.Rename(r.backupPath(i), r.backupPath(i+1))
		}
	}

	if r.maxBackups > 0 {
		_ = os.Rename(r.path, r.backupPath(1))
	} else {
		_ = os.Remove(r.path)
	}

	r.size = 0
	return r.openFile()
}

func (r *RotatingFile) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", r.path, n)
}

// ParseSize parses a human size string like "10MB", "1.5GB" or "500KB"
// into bytes. Suffixes B, KB, MB and GB are accepted case-insensitively;
// a bare number is bytes. Empty or malformed strings parse to 0.
func ParseSize(s string) int64 {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0
	}

	multiplier := int64(1)
	for _, unit := range []struct {
		suffix string
		factor int64
	}{
		{"KB", 1024},
		{"MB", 1024 * 1024},
		{"GB", 1024 * 1024 * 1024},
		{"B", 1},
	} {
		if rest, ok := strings.CutSuffix(s, unit.suffix); ok {
			s = strings.TrimSpace(rest)
			multiplier = unit.factor
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0
	}

	return int64(value * float64(multiplier))
}

// NewFileLoggerWithRotation creates a file logger that rotates at maxSize
// (e.g. "10MB"), keeping maxBackups rotated files. An empty or invalid
// maxSize falls back to a plain file logger.
func NewFileLoggerWithRotation(path string, level slog.Level, maxSize string, maxBackups int) (*slog.Logger, io.Closer, error) {
	size := ParseSize(maxSize)
	if size <= 0 {
		return NewFileLogger(path, level)
	}

	rf, err := OpenRotatingFile(path, size, maxBackups)
	if err != nil {
		return nil, nil, err
	}

	return NewLogger(rf, level), rf, nil
}
