package metrics

import "scalyze/internal/syntax"

// BranchSummary is the flat branching census of one body. Unlike the
// nesting tracker it is position-insensitive: every construct counts the
// same wherever it appears.
type BranchSummary struct {
	Ifs     int
	Cases   int
	Loops   int
	Catches int
	BoolOps int
}

// Sum returns the total branch count across the five categories.
func (b BranchSummary) Sum() int {
	return b.Ifs + b.Cases + b.Loops + b.Catches + b.BoolOps
}

// Branches counts branching constructs in one declaration body.
func Branches(body syntax.Node) BranchSummary {
	var s BranchSummary
	branches(body, &s)
	return s
}

// BranchesOver counts branching constructs across loose statements.
func BranchesOver(stmts []syntax.Node) BranchSummary {
	var s BranchSummary
	for _, st := range stmts {
		branches(st, &s)
	}
	return s
}

func branches(n syntax.Node, s *BranchSummary) {
	if n == nil || IsDeclaration(n) {
		return
	}
	switch x := n.(type) {
	case *syntax.If:
		s.Ifs++
	case *syntax.Match:
		s.Cases += len(x.Cases)
	case *syntax.While, *syntax.DoWhile, *syntax.For:
		s.Loops++
	case *syntax.Try:
		s.Catches += len(x.Catches)
	case *syntax.Infix:
		if x.ShortCircuit() {
			s.BoolOps++
		}
	}
	for _, c := range syntax.Children(n) {
		branches(c, s)
	}
}
