// Package report classifies declaration metric rows against a threshold
// profile. Each declaration gets a risk level with the threshold breaches
// that produced it; the analyze and report commands render the findings
// and --fail-on gates on them.
package report

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Band holds the escalation thresholds for an integer metric. A value
// strictly above Medium classifies medium, strictly above High classifies
// high.
type Band struct {
	Medium int `toml:"medium"`
	High   int `toml:"high"`
}

// FloatBand is Band for ratio metrics.
type FloatBand struct {
	Medium float64 `toml:"medium"`
	High   float64 `toml:"high"`
}

// DocPolicy sets the minimum acceptable documented ratio for a package.
type DocPolicy struct {
	MinCoverage float64 `toml:"minCoverage"`
}

// Profile holds the thresholds the classifier reads. Density is branches
// per body line.
type Profile struct {
	Name    string    `toml:"name"`
	Paths   Band      `toml:"paths"`
	Nesting Band      `toml:"nesting"`
	Density FloatBand `toml:"density"`
	Docs    DocPolicy `toml:"docs"`
}

// DefaultProfile returns the compiled-in thresholds.
func DefaultProfile() *Profile {
	return &Profile{
		Name:    "default",
		Paths:   Band{Medium: 10, High: 20},
		Nesting: Band{Medium: 3, High: 5},
		Density: FloatBand{Medium: 0.3, High: 0.5},
		Docs:    DocPolicy{MinCoverage: 0.5},
	}
}

// LoadProfile reads a TOML threshold profile. Fields absent from the file
// keep their default values. An empty path returns the defaults.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read threshold profile: %w", err)
	}

	if err := toml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse threshold profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Validate checks threshold ordering.
func (p *Profile) Validate() error {
	if p.Paths.Medium < 0 || p.Paths.High < p.Paths.Medium {
		return fmt.Errorf("paths thresholds out of order: medium %d, high %d", p.Paths.Medium, p.Paths.High)
	}
	if p.Nesting.Medium < 0 || p.Nesting.High < p.Nesting.Medium {
		return fmt.Errorf("nesting thresholds out of order: medium %d, high %d", p.Nesting.Medium, p.Nesting.High)
	}
	if p.Density.Medium < 0 || p.Density.High < p.Density.Medium {
		return fmt.Errorf("density thresholds out of order: medium %g, high %g", p.Density.Medium, p.Density.High)
	}
	if p.Docs.MinCoverage < 0 || p.Docs.MinCoverage > 1 {
		return fmt.Errorf("docs minCoverage %g outside [0, 1]", p.Docs.MinCoverage)
	}
	return nil
}
