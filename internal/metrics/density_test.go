package metrics

import (
	"testing"

	"scalyze/internal/syntax"
)

func TestBranchesMixedBody(t *testing.T) {
	body := block(
		&syntax.If{Cond: &syntax.Infix{Op: "&&", Left: ident(), Right: ident()}, Then: ident()},
		&syntax.Match{Scrutinee: ident(), Cases: plainArms(3)},
		&syntax.While{Cond: ident(), Body: ident()},
		&syntax.For{
			Clauses: []*syntax.EnumClause{{Kind: syntax.ClauseGenerator, Pattern: ident(), Expr: ident()}},
			Body:    ident(),
		},
		&syntax.Try{Body: ident(), Catches: plainArms(2)},
	)

	got := Branches(body)
	want := BranchSummary{Ifs: 1, Cases: 3, Loops: 2, Catches: 2, BoolOps: 1}
	if got != want {
		t.Errorf("Branches = %+v, want %+v", got, want)
	}
	if got.Sum() != 9 {
		t.Errorf("Sum = %d, want 9", got.Sum())
	}
}

func TestBranchesPositionInsensitive(t *testing.T) {
	// A conditional buried in a lambda inside a match arm still counts one.
	arm := &syntax.CaseClause{
		Pattern: ident(),
		Body: &syntax.Lambda{
			Body: &syntax.If{Cond: ident(), Then: ident()},
		},
	}
	body := &syntax.Match{Scrutinee: ident(), Cases: []*syntax.CaseClause{arm}}

	got := Branches(body)
	want := BranchSummary{Ifs: 1, Cases: 1}
	if got != want {
		t.Errorf("Branches = %+v, want %+v", got, want)
	}
}

func TestBranchesIgnoresPlainOperators(t *testing.T) {
	body := &syntax.Infix{
		Op:    "==",
		Left:  &syntax.Infix{Op: "+", Left: ident(), Right: ident()},
		Right: ident(),
	}
	if got := Branches(body); got != (BranchSummary{}) {
		t.Errorf("plain operators counted: %+v", got)
	}
}

func TestBranchesStopAtNestedDeclarations(t *testing.T) {
	body := block(
		&syntax.Binding{Kind: syntax.KindVal, Name: "x", Body: &syntax.If{Cond: ident(), Then: ident()}},
		&syntax.If{Cond: ident(), Then: ident()},
	)

	got := Branches(body)
	want := BranchSummary{Ifs: 1}
	if got != want {
		t.Errorf("nested binding leaked branches: %+v, want %+v", got, want)
	}
}

func TestBranchesOver(t *testing.T) {
	stmts := []syntax.Node{
		&syntax.If{Cond: ident(), Then: ident()},
		&syntax.DoWhile{Body: ident(), Cond: ident()},
	}
	got := BranchesOver(stmts)
	want := BranchSummary{Ifs: 1, Loops: 1}
	if got != want {
		t.Errorf("BranchesOver = %+v, want %+v", got, want)
	}
}
