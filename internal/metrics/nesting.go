package metrics

import "scalyze/internal/syntax"

// Depth returns the maximum nesting depth reached in one declaration body.
// The level-counting rules:
//   - a literal block adds a level only when it holds more than one
//     statement; a single-statement block is sugar and is unwrapped
//   - a conditional's then branch adds a level; its else branch adds a
//     level unless it is another conditional (else-if chains stay flat)
//   - match arm bodies add a level each; the scrutinee does not
//   - while and do-while bodies never add a level, block or not
//   - comprehension bodies and function-literal bodies level through the
//     block rule; their clause lists and parameters do not
//   - a try body, each catch arm body and a finally body add a level each
func Depth(body syntax.Node) int {
	var max int
	nest(body, 0, &max)
	return max
}

// DepthOver returns the maximum depth across loose statements.
func DepthOver(stmts []syntax.Node) int {
	var max int
	for _, s := range stmts {
		nest(s, 0, &max)
	}
	return max
}

// nest visits n in a generic position at the given depth.
func nest(n syntax.Node, depth int, max *int) {
	if n == nil || IsDeclaration(n) {
		return
	}
	switch x := n.(type) {
	case *syntax.Block:
		switch len(x.Stmts) {
		case 0:
		case 1:
			nest(x.Stmts[0], depth, max)
		default:
			d := depth + 1
			if d > *max {
				*max = d
			}
			for _, s := range x.Stmts {
				nest(s, d, max)
			}
		}
	case *syntax.If:
		nest(x.Cond, depth, max)
		level(x.Then, depth, max)
		if x.Else == nil {
			return
		}
		if chained, ok := x.Else.(*syntax.If); ok {
			nest(chained, depth, max)
		} else {
			level(x.Else, depth, max)
		}
	case *syntax.Match:
		nest(x.Scrutinee, depth, max)
		for _, c := range x.Cases {
			nest(c.Pattern, depth, max)
			nest(c.Guard, depth, max)
			level(c.Body, depth, max)
		}
	case *syntax.While:
		nest(x.Cond, depth, max)
		loopBody(x.Body, depth, max)
	case *syntax.DoWhile:
		loopBody(x.Body, depth, max)
		nest(x.Cond, depth, max)
	case *syntax.For:
		for _, c := range x.Clauses {
			nest(c.Pattern, depth, max)
			nest(c.Expr, depth, max)
		}
		nest(x.Body, depth, max)
	case *syntax.Try:
		level(x.Body, depth, max)
		for _, c := range x.Catches {
			nest(c.Pattern, depth, max)
			nest(c.Guard, depth, max)
			level(c.Body, depth, max)
		}
		if x.Finally != nil {
			level(x.Finally, depth, max)
		}
	case *syntax.Lambda:
		nest(x.Body, depth, max)
	default:
		for _, c := range syntax.Children(n) {
			nest(c, depth, max)
		}
	}
}

// level enters a body position that is itself a new nesting level. A block
// in this position does not add a second level on top; its statements are
// visited as siblings at the new depth.
func level(body syntax.Node, depth int, max *int) {
	if body == nil {
		return
	}
	d := depth + 1
	if d > *max {
		*max = d
	}
	if b, ok := body.(*syntax.Block); ok {
		for _, s := range b.Stmts {
			nest(s, d, max)
		}
		return
	}
	nest(body, d, max)
}

// loopBody visits a while or do-while body without adding a level. A block
// in this position is flattened so it cannot add one either.
func loopBody(body syntax.Node, depth int, max *int) {
	if body == nil {
		return
	}
	if b, ok := body.(*syntax.Block); ok {
		for _, s := range b.Stmts {
			nest(s, depth, max)
		}
		return
	}
	nest(body, depth, max)
}
