package metrics

import (
	"testing"

	"scalyze/internal/syntax"
)

func TestPatternsSingleMatch(t *testing.T) {
	m := &syntax.Match{Scrutinee: ident(), Cases: plainArms(3)}
	m.Cases[1].Guard = ident()
	m.Cases[2].Wildcard = true

	got := Patterns(m)
	want := PatternSummary{Matches: 1, Cases: 3, Guards: 1, Wildcards: 1, MaxNesting: 1}
	if got != want {
		t.Errorf("Patterns = %+v, want %+v", got, want)
	}
}

func TestPatternsNestedMatch(t *testing.T) {
	inner := &syntax.Match{Scrutinee: ident(), Cases: plainArms(2)}
	outer := &syntax.Match{Scrutinee: ident(), Cases: plainArms(2)}
	outer.Cases[0].Body = inner

	got := Patterns(outer)
	want := PatternSummary{Matches: 2, Cases: 4, MaxNesting: 2, NestedCases: 2}
	if got != want {
		t.Errorf("Patterns = %+v, want %+v", got, want)
	}
}

func TestPatternsScrutineeDoesNotNest(t *testing.T) {
	outer := &syntax.Match{
		Scrutinee: &syntax.Match{Scrutinee: ident(), Cases: plainArms(2)},
		Cases:     plainArms(1),
	}

	got := Patterns(outer)
	want := PatternSummary{Matches: 2, Cases: 3, MaxNesting: 1}
	if got != want {
		t.Errorf("Patterns = %+v, want %+v", got, want)
	}
}

func TestPatternsGuardDoesNotNest(t *testing.T) {
	m := &syntax.Match{Scrutinee: ident(), Cases: plainArms(1)}
	m.Cases[0].Guard = &syntax.Match{Scrutinee: ident(), Cases: plainArms(2)}

	got := Patterns(m)
	// The guard's match is visited with the unraised counter, so its arms
	// are not nested even though they sit syntactically inside an arm.
	want := PatternSummary{Matches: 2, Cases: 3, Guards: 1, MaxNesting: 1}
	if got != want {
		t.Errorf("Patterns = %+v, want %+v", got, want)
	}
}

func TestPatternsTripleNesting(t *testing.T) {
	innermost := &syntax.Match{Scrutinee: ident(), Cases: plainArms(1)}
	middle := &syntax.Match{Scrutinee: ident(), Cases: plainArms(1)}
	middle.Cases[0].Body = innermost
	outer := &syntax.Match{Scrutinee: ident(), Cases: plainArms(1)}
	outer.Cases[0].Body = middle

	got := Patterns(outer)
	want := PatternSummary{Matches: 3, Cases: 3, MaxNesting: 3, NestedCases: 2}
	if got != want {
		t.Errorf("Patterns = %+v, want %+v", got, want)
	}
}

func TestPatternsIgnoresCatchArms(t *testing.T) {
	body := &syntax.Try{Body: ident(), Catches: plainArms(2)}

	got := Patterns(body)
	if got != (PatternSummary{}) {
		t.Errorf("catch arms counted as match arms: %+v", got)
	}
}

func TestPatternsStopAtNestedDeclarations(t *testing.T) {
	body := block(
		&syntax.Func{Name: "inner", Body: &syntax.Match{Scrutinee: ident(), Cases: plainArms(3)}},
	)

	got := Patterns(body)
	if got != (PatternSummary{}) {
		t.Errorf("nested declaration leaked pattern stats: %+v", got)
	}
}
