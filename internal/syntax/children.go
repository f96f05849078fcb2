package syntax

// Children returns the direct children of a node in source order. It is the
// uniform traversal every visitor falls back to for node kinds it has no
// explicit rule for. Nil children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch x := n.(type) {
	case *File:
		for _, d := range x.Decls {
			add(d)
		}
	case *Container:
		for _, p := range x.Parents {
			add(p)
		}
		for _, s := range x.Body {
			add(s)
		}
	case *Func:
		for _, pc := range x.Params {
			add(pc)
		}
		add(x.Body)
	case *Binding:
		add(x.Body)
	case *Given:
		add(x.Body)
	case *ParamClause:
		for _, p := range x.Params {
			add(p)
		}
	case *Param:
		add(x.Default)
	case *If:
		add(x.Cond)
		add(x.Then)
		add(x.Else)
	case *Match:
		add(x.Scrutinee)
		for _, c := range x.Cases {
			add(c)
		}
	case *CaseClause:
		add(x.Pattern)
		add(x.Guard)
		add(x.Body)
	case *For:
		for _, c := range x.Clauses {
			add(c)
		}
		add(x.Body)
	case *EnumClause:
		add(x.Pattern)
		add(x.Expr)
	case *While:
		add(x.Cond)
		add(x.Body)
	case *DoWhile:
		add(x.Body)
		add(x.Cond)
	case *Try:
		add(x.Body)
		for _, c := range x.Catches {
			add(c)
		}
		add(x.Finally)
	case *Infix:
		add(x.Left)
		add(x.Right)
	case *Block:
		for _, s := range x.Stmts {
			add(s)
		}
	case *Lambda:
		for _, p := range x.Params {
			add(p)
		}
		add(x.Body)
	case *Template:
		for _, p := range x.Parents {
			add(p)
		}
		for _, s := range x.Body {
			add(s)
		}
	case *Generic:
		for _, c := range x.Nodes {
			add(c)
		}
	}
	return out
}
