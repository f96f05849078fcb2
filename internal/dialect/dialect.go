// Package dialect picks the grammar revision for one source file. Detection
// scrubs literals and comments, looks for revision-specific markers and,
// depending on whether any fired, combines marker likelihoods or weighted
// pattern scores with trial-parse outcomes. Detection never fails; when the
// evidence is useless it falls back to the default revision.
package dialect

import "fmt"

// Dialect is one supported grammar revision.
type Dialect string

const (
	// Scala212 is the oldest supported revision.
	Scala212 Dialect = "2.12"
	// Scala213 is the middle revision and the fallback on ties, empty
	// input and unusable evidence.
	Scala213 Dialect = "2.13"
	// Scala3 is the newest revision.
	Scala3 Dialect = "3"
)

// Default is the revision assumed when detection cannot decide.
const Default = Scala213

// Candidates returns the supported revisions, oldest first.
func Candidates() []Dialect {
	return []Dialect{Scala212, Scala213, Scala3}
}

// Parse maps a user-supplied revision string to a Dialect.
func Parse(s string) (Dialect, error) {
	switch s {
	case "2.12", "scala2.12":
		return Scala212, nil
	case "2.13", "scala2.13":
		return Scala213, nil
	case "3", "3.x", "scala3":
		return Scala3, nil
	}
	return "", fmt.Errorf("unknown dialect %q (want 2.12, 2.13 or 3)", s)
}
