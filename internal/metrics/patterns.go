package metrics

import "scalyze/internal/syntax"

// PatternSummary aggregates match-construct statistics over one body.
// MaxNesting and NestedCases track match-within-match only, independent of
// structural nesting depth. Catch arms are not match arms and do not count
// here.
type PatternSummary struct {
	Matches     int
	Cases       int
	Guards      int
	Wildcards   int
	MaxNesting  int
	NestedCases int
}

// Patterns computes match statistics for one declaration body.
func Patterns(body syntax.Node) PatternSummary {
	var s PatternSummary
	patterns(body, 0, &s)
	return s
}

// PatternsOver computes match statistics across loose statements.
func PatternsOver(stmts []syntax.Node) PatternSummary {
	var s PatternSummary
	for _, st := range stmts {
		patterns(st, 0, &s)
	}
	return s
}

// patterns walks n carrying the current match-nesting counter. The counter
// is higher while arm bodies are visited; scrutinees, patterns and guards
// see the unraised value.
func patterns(n syntax.Node, matchDepth int, s *PatternSummary) {
	if n == nil || IsDeclaration(n) {
		return
	}
	m, ok := n.(*syntax.Match)
	if !ok {
		for _, c := range syntax.Children(n) {
			patterns(c, matchDepth, s)
		}
		return
	}

	s.Matches++
	s.Cases += len(m.Cases)
	patterns(m.Scrutinee, matchDepth, s)

	armDepth := matchDepth + 1
	if len(m.Cases) > 0 && armDepth > s.MaxNesting {
		s.MaxNesting = armDepth
	}
	for _, c := range m.Cases {
		// An arm is nested when its match sits inside another match's arm.
		if armDepth > 1 {
			s.NestedCases++
		}
		if c.Guard != nil {
			s.Guards++
		}
		if c.Wildcard {
			s.Wildcards++
		}
		patterns(c.Pattern, matchDepth, s)
		patterns(c.Guard, matchDepth, s)
		patterns(c.Body, armDepth, s)
	}
}
