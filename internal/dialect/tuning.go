package dialect

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Tuning overrides the built-in detection tables. Every section is
// optional; entries it does not name keep their defaults. An override row
// replaces the whole row for that feature or pattern.
type Tuning struct {
	// Priors replaces prior probabilities, keyed by revision.
	Priors map[string]float64 `toml:"priors"`

	// Weights replaces the point table of a heuristic pattern, keyed by
	// pattern id then revision.
	Weights map[string]map[string]float64 `toml:"weights"`

	// Likelihoods replaces the likelihood row of a marker feature, keyed
	// by feature id then revision.
	Likelihoods map[string]map[string]float64 `toml:"likelihoods"`
}

// LoadTuning reads and validates a TOML tuning file.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}
	var t Tuning
	if _, err := toml.Decode(string(data), &t); err != nil {
		return nil, fmt.Errorf("parse tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	return &t, nil
}

// Validate rejects unknown revisions and out-of-range probabilities.
func (t *Tuning) Validate() error {
	for name, v := range t.Priors {
		if _, err := Parse(name); err != nil {
			return fmt.Errorf("priors: %w", err)
		}
		if v <= 0 || v > 1 {
			return fmt.Errorf("priors[%s]: probability %v out of (0, 1]", name, v)
		}
	}
	for id, row := range t.Likelihoods {
		for name, v := range row {
			if _, err := Parse(name); err != nil {
				return fmt.Errorf("likelihoods[%s]: %w", id, err)
			}
			if v <= 0 || v > 1 {
				return fmt.Errorf("likelihoods[%s][%s]: probability %v out of (0, 1]", id, name, v)
			}
		}
	}
	for id, row := range t.Weights {
		for name := range row {
			if _, err := Parse(name); err != nil {
				return fmt.Errorf("weights[%s]: %w", id, err)
			}
		}
	}
	return nil
}

// ApplyTuning merges overrides into the selector's tables. The built-in
// package tables are never mutated; overridden rows are rebuilt on the
// selector's own copies.
func (s *Selector) ApplyTuning(t *Tuning) {
	if t == nil {
		return
	}
	for name, v := range t.Priors {
		d, err := Parse(name)
		if err != nil {
			continue
		}
		s.priors[d] = v
	}
	if len(t.Likelihoods) > 0 {
		merged := make(map[string]map[Dialect]float64, len(s.likelihoods))
		for id, row := range s.likelihoods {
			merged[id] = row
		}
		for id, row := range t.Likelihoods {
			merged[id] = dialectRow(row)
		}
		s.likelihoods = merged
	}
	if len(t.Weights) > 0 {
		patterns := make([]pattern, len(s.patterns))
		copy(patterns, s.patterns)
		for i := range patterns {
			if row, ok := t.Weights[patterns[i].id]; ok {
				patterns[i].points = dialectRow(row)
			}
		}
		s.patterns = patterns
	}
}

func dialectRow(row map[string]float64) map[Dialect]float64 {
	out := make(map[Dialect]float64, len(row))
	for name, v := range row {
		d, err := Parse(name)
		if err != nil {
			continue
		}
		out[d] = v
	}
	return out
}
