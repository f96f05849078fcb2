// Package slogutil builds the slog loggers used across scalyze. Every
// sink shares one line format (LineHandler); the factory assembles
// console, file and Loki sinks from config.
package slogutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// LineHandler writes one record per line:
//
//	TIMESTAMP [level] Message | key=value key=value
type LineHandler struct {
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

// NewLineHandler creates a line-oriented handler on w. Only the Level
// option is honored; nil opts means info.
func NewLineHandler(w io.Writer, opts *slog.HandlerOptions) *LineHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &LineHandler{w: w, level: level, mu: &sync.Mutex{}}
}

func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, " [%s] %s", levelName(r.Level), r.Message)

	sep := false
	emit := func(a slog.Attr) {
		if a.Key == "" {
			return
		}
		if !sep {
			buf.WriteString(" |")
			sep = true
		}
		fmt.Fprintf(&buf, " %s=%s", a.Key, displayValue(a.Value))
	}
	for _, a := range h.attrs {
		emit(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		emit(h.resolveAttr(a))
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := h.clone()
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.resolveAttr(a))
	}
	return c
}

func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

// clone clips the shared slices so appends on the copy cannot reach the
// parent's backing arrays. The mutex stays shared: every derived handler
// writes to the same w.
func (h *LineHandler) clone() *LineHandler {
	return &LineHandler{
		w:      h.w,
		level:  h.level,
		attrs:  slices.Clip(h.attrs),
		groups: slices.Clip(h.groups),
		mu:     h.mu,
	}
}

// resolveAttr prefixes the key with the open groups, dot-joined.
func (h *LineHandler) resolveAttr(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 || a.Key == "" {
		return a
	}
	return slog.Attr{Key: strings.Join(h.groups, ".") + "." + a.Key, Value: a.Value}
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}

// displayValue renders an attribute value for the log line. Strings stay
// unquoted; times use RFC3339. Everything else takes slog's default
// rendering.
func displayValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		return fmt.Sprint(v.Any())
	}
	return v.String()
}

// TeeHandler fans each record out to several handlers. Enabled reports
// true when any child would accept the level; Handle delivers to every
// accepting child and returns the first error seen.
type TeeHandler struct {
	children []slog.Handler
}

// NewTeeHandler creates a handler that forwards to all of children.
func NewTeeHandler(children ...slog.Handler) *TeeHandler {
	return &TeeHandler{children: children}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, c := range t.children {
		if c.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, c := range t.children {
		if !c.Enabled(ctx, r.Level) {
			continue
		}
		if err := c.Handle(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(t.children))
	for i, c := range t.children {
		out[i] = c.WithAttrs(attrs)
	}
	return &TeeHandler{children: out}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(t.children))
	for i, c := range t.children {
		out[i] = c.WithGroup(name)
	}
	return &TeeHandler{children: out}
}
