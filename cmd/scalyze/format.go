package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *AnalyzeResponseCLI:
		return formatAnalyzeHuman(v)
	case *DialectResponseCLI:
		return formatDialectHuman(v)
	case *ReportResponseCLI:
		return formatReportHuman(v)
	case *TrendResponseCLI:
		return formatTrendHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatAnalyzeHuman formats an AnalyzeResponseCLI in human-readable format
func formatAnalyzeHuman(resp *AnalyzeResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Scala Complexity Analysis\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Files: %d analyzed", resp.Files))
	if len(resp.SkippedFiles) > 0 {
		b.WriteString(fmt.Sprintf(", %d skipped", len(resp.SkippedFiles)))
	}
	b.WriteString("\n")

	if len(resp.Dialects) > 0 {
		parts := make([]string, 0, len(resp.Dialects))
		for _, d := range sortedKeys(resp.Dialects) {
			parts = append(parts, fmt.Sprintf("%s (%d)", d, resp.Dialects[d]))
		}
		b.WriteString(fmt.Sprintf("Dialects: %s\n", strings.Join(parts, ", ")))
	}
	b.WriteString("\n")

	s := resp.Summary
	b.WriteString("Summary:\n")
	b.WriteString(fmt.Sprintf("  Declarations: %d (%d abstract, %d local)\n", s.Declarations, s.Abstract, s.Local))
	b.WriteString(fmt.Sprintf("  Paths: max %d, mean %.1f\n", s.MaxPaths, s.MeanPaths))
	b.WriteString(fmt.Sprintf("  Nesting: max %d, mean %.1f\n", s.MaxNesting, s.MeanNesting))
	density := 0.0
	if s.TotalLines > 0 {
		density = float64(s.TotalBranches) / float64(s.TotalLines)
	}
	b.WriteString(fmt.Sprintf("  Branches: %d over %d lines (density %.2f)\n", s.TotalBranches, s.TotalLines, density))
	b.WriteString(fmt.Sprintf("  Doc coverage: %.1f%%\n\n", s.DocCoverage*100))

	if len(resp.Declarations) > 0 {
		b.WriteString("Declarations:\n")
		for i, d := range resp.Declarations {
			b.WriteString(fmt.Sprintf("  %d. %s (%s) %s:%d\n", i+1, d.Name, d.Kind, d.File, d.StartLine))
			b.WriteString(fmt.Sprintf("     paths %d, nesting %d, density %.2f [%s]\n", d.Paths, d.Nesting, d.Density, d.Risk))
		}
		b.WriteString("\n")
	}

	if len(resp.Findings) > 0 || resp.Suppressed > 0 {
		b.WriteString(fmt.Sprintf("Findings: %d flagged", len(resp.Findings)))
		if resp.Suppressed > 0 {
			b.WriteString(fmt.Sprintf(", %d suppressed by baseline", resp.Suppressed))
		}
		b.WriteString("\n")
		for _, f := range resp.Findings {
			b.WriteString(fmt.Sprintf("  ! %s [%s] %s:%d\n", f.Name, f.Risk, f.File, f.StartLine))
			for _, r := range f.Reasons {
				b.WriteString(fmt.Sprintf("      %s\n", r))
			}
			if f.Undocumented {
				b.WriteString("      undocumented\n")
			}
		}
		b.WriteString("\n")
	}

	if len(resp.SkippedFiles) > 0 {
		b.WriteString("Skipped:\n")
		for _, sf := range resp.SkippedFiles {
			b.WriteString(fmt.Sprintf("  ✗ %s: %s\n", sf.Path, sf.Reason))
		}
		b.WriteString("\n")
	}

	if resp.RunID != "" {
		b.WriteString(fmt.Sprintf("Run saved: %s\n", resp.RunID))
	}

	return b.String(), nil
}

// formatDialectHuman formats a DialectResponseCLI in human-readable format
func formatDialectHuman(resp *DialectResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Dialect Detection\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, f := range resp.Files {
		if f.Error != "" {
			b.WriteString(fmt.Sprintf("✗ %s: %s\n", f.File, f.Error))
			continue
		}
		b.WriteString(fmt.Sprintf("✓ %s: Scala %s (%s)\n", f.File, f.Dialect, f.Method))
		if len(f.Features) > 0 {
			b.WriteString(fmt.Sprintf("    Features: %s\n", strings.Join(f.Features, ", ")))
		}
		if len(f.Scores) > 0 {
			b.WriteString(fmt.Sprintf("    Scores: %s\n", formatScores(f.Scores)))
		}
		if len(f.ParseScores) > 0 {
			b.WriteString(fmt.Sprintf("    Parse scores: %s\n", formatScores(f.ParseScores)))
		}
	}

	return b.String(), nil
}

// formatReportHuman formats a ReportResponseCLI in human-readable format
func formatReportHuman(resp *ReportResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Metrics Report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if resp.Run != nil {
		b.WriteString(fmt.Sprintf("Latest run: %s\n", shortID(resp.Run.ID)))
		b.WriteString(fmt.Sprintf("  Finished: %s\n", resp.Run.FinishedAt.Format(time.RFC3339)))
		b.WriteString(fmt.Sprintf("  Files: %d (%d skipped), Declarations: %d\n\n", resp.Run.Files, resp.Run.Skipped, resp.Run.Declarations))
	}

	b.WriteString("Store:\n")
	b.WriteString(fmt.Sprintf("  Path: %s\n", resp.StorePath))
	if resp.StoreSize > 0 {
		b.WriteString(fmt.Sprintf("  Size: %s\n", formatBytes(resp.StoreSize)))
	}
	b.WriteString("\n")

	if len(resp.Packages) > 0 {
		b.WriteString("Packages:\n")
		for _, p := range resp.Packages {
			b.WriteString(fmt.Sprintf("  %s\n", p.Package))
			b.WriteString(fmt.Sprintf("    Files: %d, Declarations: %d\n", p.Files, p.Declarations))
			b.WriteString(fmt.Sprintf("    Paths: max %d, mean %.1f; Nesting: max %d\n", p.MaxPaths, p.MeanPaths, p.MaxNesting))
			b.WriteString(fmt.Sprintf("    Doc coverage: %.1f%%\n", p.DocCoverage*100))
		}
		b.WriteString("\n")
	}

	if len(resp.Flagged) > 0 {
		b.WriteString(fmt.Sprintf("Flagged declarations: %d\n", len(resp.Flagged)))
		for _, f := range resp.Flagged {
			b.WriteString(fmt.Sprintf("  ! %s [%s] %s:%d\n", f.Name, f.Risk, f.File, f.StartLine))
		}
		b.WriteString("\n")
	}

	if len(resp.UnderDocumented) > 0 {
		b.WriteString("Under-documented packages:\n")
		for _, p := range resp.UnderDocumented {
			b.WriteString(fmt.Sprintf("  ⚠ %s: %.1f%% (min %.0f%%)\n", p.Package, p.DocCoverage*100, p.MinCoverage*100))
		}
		b.WriteString("\n")
	}

	if len(resp.RecentRuns) > 0 {
		b.WriteString("Recent runs:\n")
		for _, r := range resp.RecentRuns {
			b.WriteString(fmt.Sprintf("  %s  %s  files %d, declarations %d\n", shortID(r.ID), r.FinishedAt, r.Files, r.Declarations))
		}
	}

	return b.String(), nil
}

// formatTrendHuman formats a TrendResponseCLI in human-readable format
func formatTrendHuman(resp *TrendResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("History for: %s\n", resp.File))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Runs) == 0 {
		b.WriteString("No saved runs cover this file.\n")
		return b.String(), nil
	}

	for _, r := range resp.Runs {
		b.WriteString(fmt.Sprintf("%s  %s\n", shortID(r.RunID), r.FinishedAt))
		b.WriteString(fmt.Sprintf("    declarations %d, max paths %d, mean paths %.1f, branches %d\n",
			r.Declarations, r.MaxPaths, r.MeanPaths, r.Branches))
	}

	return b.String(), nil
}

func formatScores(scores map[string]float64) string {
	parts := make([]string, 0, len(scores))
	for _, d := range sortedKeys(scores) {
		parts = append(parts, fmt.Sprintf("%s=%.2f", d, scores[d]))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatBytes formats byte size in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
