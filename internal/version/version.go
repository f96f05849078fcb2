// Package version is the single source of build version information.
package version

import "fmt"

// Set at build time via ldflags, e.g.
//
//	go build -ldflags "-X scalyze/internal/version.Version=1.0.0 -X scalyze/internal/version.Commit=abc123"
var (
	// Version is the semantic version of scalyze.
	Version = "0.4.0"

	// Commit is the git commit hash of the build.
	Commit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Info returns the version, with an abbreviated commit when one was
// stamped in.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return fmt.Sprintf("%s (%s)", Version, Commit[:7])
	}
	return Version
}

// Full returns the multi-line version block for --version style output.
func Full() string {
	return fmt.Sprintf("scalyze version %s\nCommit: %s\nBuilt: %s", Version, Commit, BuildDate)
}
