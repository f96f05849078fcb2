package metrics

import "scalyze/internal/syntax"

// DecisionPaths counts the independent execution paths through one
// declaration body, starting at one for the straight-line path. Conditionals
// and loops add one path each, match constructs add one per arm plus one per
// guarded arm, try constructs add one per catch arm, comprehensions add one
// plus one per filter guard, and each short-circuit boolean operator adds
// one.
func DecisionPaths(body syntax.Node) int {
	return 1 + pathIncrements(body)
}

// DecisionPathsOver counts paths across loose statements sharing one base
// path, as for the constructor code of a container.
func DecisionPathsOver(stmts []syntax.Node) int {
	total := 1
	for _, s := range stmts {
		total += pathIncrements(s)
	}
	return total
}

func pathIncrements(n syntax.Node) int {
	if n == nil || IsDeclaration(n) {
		return 0
	}
	switch x := n.(type) {
	case *syntax.If:
		return 1 + pathIncrements(x.Cond) + pathIncrements(x.Then) + pathIncrements(x.Else)
	case *syntax.While:
		return 1 + pathIncrements(x.Cond) + pathIncrements(x.Body)
	case *syntax.DoWhile:
		return 1 + pathIncrements(x.Body) + pathIncrements(x.Cond)
	case *syntax.For:
		total := 1
		for _, c := range x.Clauses {
			if c.Kind == syntax.ClauseGuard {
				total++
			}
			total += pathIncrements(c.Pattern) + pathIncrements(c.Expr)
		}
		return total + pathIncrements(x.Body)
	case *syntax.Match:
		total := len(x.Cases) + pathIncrements(x.Scrutinee)
		for _, c := range x.Cases {
			if c.Guard != nil {
				total++
			}
			total += pathIncrements(c.Pattern) + pathIncrements(c.Guard) + pathIncrements(c.Body)
		}
		return total
	case *syntax.Try:
		total := len(x.Catches) + pathIncrements(x.Body) + pathIncrements(x.Finally)
		for _, c := range x.Catches {
			total += pathIncrements(c.Pattern) + pathIncrements(c.Guard) + pathIncrements(c.Body)
		}
		return total
	case *syntax.Infix:
		total := pathIncrements(x.Left) + pathIncrements(x.Right)
		if x.ShortCircuit() {
			total++
		}
		return total
	default:
		total := 0
		for _, c := range syntax.Children(n) {
			total += pathIncrements(c)
		}
		return total
	}
}
