package slogutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"scalyze/internal/config"
)

const (
	lokiPushPath        = "/loki/api/v1/push"
	defaultLokiBatch    = 100
	defaultLokiInterval = 5 * time.Second
	lokiRequestTimeout  = 10 * time.Second
)

// lokiPushRequest is the body of a Loki push API call.
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

// lokiStream carries one label set and its entries. Values are
// [nanosecond-timestamp, line] pairs, both as strings.
type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// lokiRecord is one buffered entry awaiting a flush.
type lokiRecord struct {
	ts    time.Time
	line  string
	level string
}

// LokiHandler is a slog.Handler that batches records and ships them to
// a Grafana Loki endpoint. Records buffer until the batch size is hit
// or the flush interval fires; pushes run detached so logging never
// blocks on the network.
type LokiHandler struct {
	endpoint      string
	labels        map[string]string
	batchSize     int
	flushInterval time.Duration
	level         slog.Level
	client        *http.Client

	mu     sync.Mutex
	buffer []lokiRecord

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewLokiHandler builds a handler for cfg. baseLabels apply to every
// stream; labels from cfg win on collision, and a host label is filled
// in when absent.
func NewLokiHandler(cfg *config.RemoteLogConfig, baseLabels map[string]string, level slog.Level) (*LokiHandler, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("loki endpoint is required")
	}

	labels := mergeLabels(baseLabels, cfg.Labels)
	if _, ok := labels["host"]; !ok {
		if host, err := os.Hostname(); err == nil {
			labels["host"] = host
		}
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultLokiBatch
	}

	// A non-positive interval would make NewTicker panic.
	interval := defaultLokiInterval
	if d, err := time.ParseDuration(cfg.FlushInterval); err == nil && d > 0 {
		interval = d
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if !strings.HasSuffix(endpoint, lokiPushPath) {
		endpoint += lokiPushPath
	}

	return &LokiHandler{
		endpoint:      endpoint,
		labels:        labels,
		batchSize:     batch,
		flushInterval: interval,
		level:         level,
		client:        &http.Client{Timeout: lokiRequestTimeout},
		buffer:        make([]lokiRecord, 0, batch),
		done:          make(chan struct{}),
	}, nil
}

// Start launches the background flush goroutine.
func (h *LokiHandler) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop halts the flush goroutine and pushes whatever is still buffered.
// Safe to call more than once and without a prior Start.
func (h *LokiHandler) Stop() error {
	var err error
	h.stopOnce.Do(func() {
		close(h.done)
		h.wg.Wait()
		h.mu.Lock()
		defer h.mu.Unlock()
		err = h.flushLocked()
	})
	return err
}

// Close implements io.Closer so the logger factory can track the
// handler alongside file sinks.
func (h *LokiHandler) Close() error {
	return h.Stop()
}

func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *LokiHandler) Handle(_ context.Context, r slog.Record) error {
	rec := lokiRecord{ts: r.Time, line: h.formatRecord(r), level: r.Level.String()}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffer = append(h.buffer, rec)
	if len(h.buffer) >= h.batchSize {
		return h.flushLocked()
	}
	return nil
}

// WithAttrs layers the attrs over this handler in a wrapper. The
// handler itself is never copied: it owns mutexes and the flush
// goroutine.
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &lokiHandlerWithContext{parent: h, attrs: slices.Clip(attrs)}
}

func (h *LokiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &lokiHandlerWithContext{parent: h, groups: []string{name}}
}

// formatRecord renders the record logfmt-style for the Loki line body.
func (h *LokiHandler) formatRecord(r slog.Record) string {
	var b strings.Builder
	b.WriteString("level=")
	b.WriteString(r.Level.String())
	b.WriteString(" msg=")
	b.WriteString(strconv.Quote(r.Message))
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, a)
		return true
	})
	return b.String()
}

// appendAttr writes " key=value". Strings are quoted so Loki's logfmt
// parser keeps spaced values intact.
func appendAttr(b *strings.Builder, a slog.Attr) {
	b.WriteByte(' ')
	b.WriteString(a.Key)
	b.WriteByte('=')
	switch a.Value.Kind() {
	case slog.KindString:
		b.WriteString(strconv.Quote(a.Value.String()))
	case slog.KindTime:
		b.WriteString(a.Value.Time().Format(time.RFC3339))
	case slog.KindAny:
		fmt.Fprintf(b, "%v", a.Value.Any())
	default:
		b.WriteString(a.Value.String())
	}
}

// run flushes on a ticker until Stop closes done.
func (h *LokiHandler) run() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.mu.Lock()
			_ = h.flushLocked()
			h.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

// flushLocked hands the buffered entries to a background push, one
// stream per level. Callers must hold h.mu. The buffer is reset before
// the push starts so records arriving mid-send are not dropped.
func (h *LokiHandler) flushLocked() error {
	if len(h.buffer) == 0 {
		return nil
	}

	byLevel := make(map[string][][]string)
	for _, rec := range h.buffer {
		ts := strconv.FormatInt(rec.ts.UnixNano(), 10)
		byLevel[rec.level] = append(byLevel[rec.level], []string{ts, rec.line})
	}

	req := lokiPushRequest{Streams: make([]lokiStream, 0, len(byLevel))}
	for level, values := range byLevel {
		req.Streams = append(req.Streams, lokiStream{
			Stream: mergeLabels(h.labels, map[string]string{"level": level}),
			Values: values,
		})
	}

	h.buffer = h.buffer[:0]
	go h.push(req)
	return nil
}

// push posts one batch. Errors are dropped: logging a log-shipping
// failure would loop.
func (h *LokiHandler) push(req lokiPushRequest) {
	body, err := json.Marshal(req)
	if err != nil {
		return
	}
	httpReq, err := http.NewRequest(http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return
	}
	_ = resp.Body.Close()
}

// mergeLabels copies base and lays over on top of it.
func mergeLabels(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// lokiHandlerWithContext layers attrs and group prefixes over a
// LokiHandler. It rebuilds each record rather than mutating the copy it
// receives; slog records share attr backing arrays across copies.
type lokiHandlerWithContext struct {
	parent *LokiHandler
	attrs  []slog.Attr
	groups []string
}

func (w *lokiHandlerWithContext) Enabled(ctx context.Context, level slog.Level) bool {
	return w.parent.Enabled(ctx, level)
}

func (w *lokiHandlerWithContext) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	out.AddAttrs(w.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(w.qualify(a))
		return true
	})
	return w.parent.Handle(ctx, out)
}

func (w *lokiHandlerWithContext) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return w
	}
	merged := slices.Clip(w.attrs)
	for _, a := range attrs {
		merged = append(merged, w.qualify(a))
	}
	return &lokiHandlerWithContext{parent: w.parent, attrs: merged, groups: w.groups}
}

func (w *lokiHandlerWithContext) WithGroup(name string) slog.Handler {
	if name == "" {
		return w
	}
	return &lokiHandlerWithContext{
		parent: w.parent,
		attrs:  w.attrs,
		groups: append(slices.Clip(w.groups), name),
	}
}

// qualify prefixes the key with the open groups, dot-joined.
func (w *lokiHandlerWithContext) qualify(a slog.Attr) slog.Attr {
	if len(w.groups) == 0 || a.Key == "" {
		return a
	}
	return slog.Attr{Key: strings.Join(w.groups, ".") + "." + a.Key, Value: a.Value}
}
