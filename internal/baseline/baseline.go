// Package baseline reads and writes the suppression file consulted by
// analyze --baseline. An entry tolerates one metric of one declaration up
// to a recorded value; the finding resurfaces as soon as any flagged
// metric grows past its allowance.
package baseline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"scalyze/internal/report"
)

// Entry tolerates one metric of one declaration up to Value.
type Entry struct {
	QualifiedName string  `yaml:"qualifiedName"`
	Metric        string  `yaml:"metric"`
	Value         float64 `yaml:"value"`
}

// Baseline is the suppression file model.
type Baseline struct {
	Version     int     `yaml:"version"`
	GeneratedAt string  `yaml:"generatedAt,omitempty"`
	Entries     []Entry `yaml:"suppressions"`
}

// Load reads a baseline file. A missing file yields an empty baseline, not
// an error, so a fresh repo can run with the default path configured.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Baseline{Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	var b Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline: %w", err)
	}
	if b.Version == 0 {
		b.Version = 1
	}
	return &b, nil
}

// Save writes the baseline, creating parent directories as needed.
func (b *Baseline) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	return nil
}

// FromFindings builds a baseline tolerating every breach in findings.
// Duplicate name+metric pairs keep the largest value, covering overloads
// that share a qualified name.
func FromFindings(findings []report.Finding) *Baseline {
	type key struct {
		name   string
		metric string
	}
	allowed := make(map[key]float64)
	for _, f := range findings {
		for _, br := range f.Breaches {
			k := key{f.QualifiedName, br.Metric}
			if br.Value > allowed[k] {
				allowed[k] = br.Value
			}
		}
	}

	entries := make([]Entry, 0, len(allowed))
	for k, v := range allowed {
		entries = append(entries, Entry{QualifiedName: k.name, Metric: k.metric, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].QualifiedName != entries[j].QualifiedName {
			return entries[i].QualifiedName < entries[j].QualifiedName
		}
		return entries[i].Metric < entries[j].Metric
	})

	return &Baseline{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:     entries,
	}
}

// Filter returns the findings the baseline does not cover. A finding is
// covered when it has at least one breach and every breach value is at or
// under its recorded allowance.
func (b *Baseline) Filter(findings []report.Finding) []report.Finding {
	idx := b.index()
	var out []report.Finding
	for _, f := range findings {
		if !covers(idx, f) {
			out = append(out, f)
		}
	}
	return out
}

type entryKey struct {
	name   string
	metric string
}

func (b *Baseline) index() map[entryKey]float64 {
	idx := make(map[entryKey]float64, len(b.Entries))
	for _, e := range b.Entries {
		k := entryKey{e.QualifiedName, e.Metric}
		if e.Value > idx[k] {
			idx[k] = e.Value
		}
	}
	return idx
}

func covers(idx map[entryKey]float64, f report.Finding) bool {
	if len(f.Breaches) == 0 {
		return false
	}
	for _, br := range f.Breaches {
		allowance, ok := idx[entryKey{f.QualifiedName, br.Metric}]
		if !ok || br.Value > allowance {
			return false
		}
	}
	return true
}
