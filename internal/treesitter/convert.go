//go:build cgo

package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"scalyze/internal/syntax"
)

// convertFile maps the grammar root onto the file model. Chained package
// clauses concatenate into one dotted path; declarations inside a braced
// package body surface through the clause.
func convertFile(root *sitter.Node, src []byte) *syntax.File {
	f := &syntax.File{Pos: span(root)}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c := root.NamedChild(i)
		if c.Type() == "package_clause" {
			convertPackageClause(c, src, f)
			continue
		}
		if node := convert(c, src); node != nil {
			f.Decls = append(f.Decls, node)
		}
	}
	return f
}

func convertPackageClause(n *sitter.Node, src []byte, f *syntax.File) {
	name := n.ChildByFieldName("name")
	if name == nil {
		name = namedNonComment(n, 0)
	}
	if name != nil {
		path := nodeText(name, src)
		if f.Package == "" {
			f.Package = path
		} else {
			f.Package += "." + path
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if name != nil && c.Equal(name) {
			continue
		}
		if node := convert(c, src); node != nil {
			f.Decls = append(f.Decls, node)
		}
	}
}

// convert maps one grammar node onto the syntax model. Unlisted kinds
// become Generic nodes so the visitors traverse them transparently;
// comments vanish.
func convert(n *sitter.Node, src []byte) syntax.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment", "block_comment":
		return nil

	case "class_definition", "object_definition", "trait_definition",
		"enum_definition", "package_object":
		return convertContainer(n, src)

	case "function_definition":
		return convertFunc(n, src, false)
	case "function_declaration":
		return convertFunc(n, src, true)

	case "val_definition":
		return convertBinding(n, src, syntax.KindVal, false)
	case "var_definition":
		return convertBinding(n, src, syntax.KindVar, false)
	case "val_declaration":
		return convertBinding(n, src, syntax.KindVal, true)
	case "var_declaration":
		return convertBinding(n, src, syntax.KindVar, true)

	case "given_definition":
		return convertGiven(n, src)

	case "if_expression":
		return &syntax.If{
			Pos:  span(n),
			Cond: convert(field(n, "condition", 0), src),
			Then: convert(n.ChildByFieldName("consequence"), src),
			Else: convert(n.ChildByFieldName("alternative"), src),
		}

	case "match_expression":
		return convertMatch(n, src)

	case "for_expression":
		return convertFor(n, src)

	case "while_expression":
		return &syntax.While{
			Pos:  span(n),
			Cond: convert(field(n, "condition", 0), src),
			Body: convert(field(n, "body", 1), src),
		}
	case "do_while_expression":
		return &syntax.DoWhile{
			Pos:  span(n),
			Body: convert(field(n, "body", 0), src),
			Cond: convert(field(n, "condition", 1), src),
		}

	case "try_expression":
		return convertTry(n, src)

	case "infix_expression":
		return &syntax.Infix{
			Pos:   span(n),
			Op:    nodeText(n.ChildByFieldName("operator"), src),
			Left:  convert(n.ChildByFieldName("left"), src),
			Right: convert(n.ChildByFieldName("right"), src),
		}

	case "block", "indented_block":
		b := &syntax.Block{Pos: span(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if s := convert(n.NamedChild(i), src); s != nil {
				b.Stmts = append(b.Stmts, s)
			}
		}
		return b

	case "lambda_expression":
		return convertLambda(n, src)

	default:
		return genericOf(n, src)
	}
}

func convertContainer(n *sitter.Node, src []byte) syntax.Node {
	c := &syntax.Container{
		Pos:  span(n),
		Kind: containerKinds[n.Type()],
		Name: nameOf(n, src),
	}
	if ext := childOfType(n, "extends_clause"); ext != nil {
		for i := 0; i < int(ext.NamedChildCount()); i++ {
			if p := convert(ext.NamedChild(i), src); p != nil {
				c.Parents = append(c.Parents, p)
			}
		}
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		body = childOfType(n, "template_body", "enum_body")
	}
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			if s := convert(body.NamedChild(i), src); s != nil {
				c.Body = append(c.Body, s)
			}
		}
	}
	return c
}

func convertFunc(n *sitter.Node, src []byte, abstract bool) syntax.Node {
	f := &syntax.Func{
		Pos:  span(n),
		Mods: modifiersOf(n, src),
		Name: nameOf(n, src),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "parameters" {
			f.Params = append(f.Params, convertParamClause(c, src))
		}
	}
	if !abstract {
		f.Body = funcBody(n, src)
	}
	return f
}

// funcBody prefers the body field; without one the body is the last named
// child past the signature parts.
func funcBody(n *sitter.Node, src []byte) syntax.Node {
	if b := n.ChildByFieldName("body"); b != nil {
		return convert(b, src)
	}
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		c := n.NamedChild(i)
		switch c.Type() {
		case "comment", "block_comment", "modifiers", "annotation",
			"parameters", "type_parameters", "identifier", "operator_identifier":
			continue
		}
		return convert(c, src)
	}
	return nil
}

func convertParamClause(n *sitter.Node, src []byte) *syntax.ParamClause {
	clause := &syntax.ParamClause{Pos: span(n)}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "implicit":
			clause.Implicit = true
		case "using":
			clause.Using = true
		case "parameter":
			p := &syntax.Param{Pos: span(c), Name: nameOf(c, src)}
			if d := c.ChildByFieldName("default_value"); d != nil {
				p.Default = convert(d, src)
			}
			clause.Params = append(clause.Params, p)
		}
	}
	return clause
}

func convertBinding(n *sitter.Node, src []byte, kind syntax.BindKind, abstract bool) syntax.Node {
	b := &syntax.Binding{Pos: span(n), Kind: kind, Name: bindingName(n, src)}
	if !abstract {
		if v := n.ChildByFieldName("value"); v != nil {
			b.Body = convert(v, src)
		} else {
			b.Body = funcBody(n, src)
		}
	}
	return b
}

// bindingName reads the name field, falling back to the bound pattern's
// text for destructuring forms.
func bindingName(n *sitter.Node, src []byte) string {
	if f := n.ChildByFieldName("name"); f != nil {
		return nodeText(f, src)
	}
	if p := n.ChildByFieldName("pattern"); p != nil {
		return strings.TrimSpace(nodeText(p, src))
	}
	return nameOf(n, src)
}

func convertGiven(n *sitter.Node, src []byte) syntax.Node {
	g := &syntax.Given{Pos: span(n), Name: nodeText(n.ChildByFieldName("name"), src)}
	if b := n.ChildByFieldName("body"); b != nil {
		g.Body = convert(b, src)
		return g
	}
	if tb := childOfType(n, "template_body", "with_template_body"); tb != nil {
		t := &syntax.Template{Pos: span(tb)}
		for i := 0; i < int(tb.NamedChildCount()); i++ {
			if s := convert(tb.NamedChild(i), src); s != nil {
				t.Body = append(t.Body, s)
			}
		}
		g.Body = t
		return g
	}
	if hasToken(n, "=") {
		g.Body = convert(namedNonComment(n, countNonComment(n)-1), src)
	}
	return g
}

func convertMatch(n *sitter.Node, src []byte) syntax.Node {
	m := &syntax.Match{Pos: span(n), Scrutinee: convert(field(n, "value", 0), src)}
	arms := childOfType(n, "case_block", "indented_cases")
	if arms == nil {
		arms = n
	}
	for i := 0; i < int(arms.NamedChildCount()); i++ {
		c := arms.NamedChild(i)
		if c.Type() == "case_clause" {
			m.Cases = append(m.Cases, convertCase(c, src))
		}
	}
	return m
}

func convertCase(n *sitter.Node, src []byte) *syntax.CaseClause {
	cc := &syntax.CaseClause{Pos: span(n)}
	if p := n.ChildByFieldName("pattern"); p != nil {
		cc.Wildcard = p.Type() == "wildcard"
		cc.Pattern = convert(p, src)
	}
	g := n.ChildByFieldName("guard")
	if g == nil {
		g = childOfType(n, "guard")
	}
	if g != nil {
		cond := g.ChildByFieldName("condition")
		if cond == nil {
			cond = namedNonComment(g, 0)
		}
		cc.Guard = convert(cond, src)
	}
	if b := n.ChildByFieldName("body"); b != nil {
		cc.Body = convert(b, src)
	}
	return cc
}

func convertFor(n *sitter.Node, src []byte) syntax.Node {
	f := &syntax.For{Pos: span(n), Yield: hasToken(n, "yield")}
	if enums := field(n, "enumerators", 0); enums != nil && enums.Type() == "enumerators" {
		for i := 0; i < int(enums.NamedChildCount()); i++ {
			f.Clauses = append(f.Clauses, convertEnumerator(enums.NamedChild(i), src)...)
		}
	}
	f.Body = convert(n.ChildByFieldName("body"), src)
	return f
}

// convertEnumerator turns one enumerators entry into clauses. A guard
// attached inside a generator surfaces as its own filter clause.
func convertEnumerator(n *sitter.Node, src []byte) []*syntax.EnumClause {
	switch n.Type() {
	case "guard":
		cond := n.ChildByFieldName("condition")
		if cond == nil {
			cond = namedNonComment(n, 0)
		}
		return []*syntax.EnumClause{{
			Pos:  span(n),
			Kind: syntax.ClauseGuard,
			Expr: convert(cond, src),
		}}
	case "enumerator":
		kind := syntax.ClauseGenerator
		if hasToken(n, "=") && !hasToken(n, "<-") {
			kind = syntax.ClauseBind
		}
		clause := &syntax.EnumClause{Pos: span(n), Kind: kind}
		var guards []*syntax.EnumClause
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "guard" {
				guards = append(guards, convertEnumerator(c, src)...)
				continue
			}
			if clause.Pattern == nil {
				clause.Pattern = convert(c, src)
			} else {
				clause.Expr = convert(c, src)
			}
		}
		return append([]*syntax.EnumClause{clause}, guards...)
	default:
		return []*syntax.EnumClause{{
			Pos:  span(n),
			Kind: syntax.ClauseBind,
			Expr: convert(n, src),
		}}
	}
}

func convertTry(n *sitter.Node, src []byte) syntax.Node {
	t := &syntax.Try{Pos: span(n), Body: convert(field(n, "body", 0), src)}
	if catch := childOfType(n, "catch_clause"); catch != nil {
		arms := childOfType(catch, "case_block", "indented_cases")
		if arms == nil {
			arms = catch
		}
		for i := 0; i < int(arms.NamedChildCount()); i++ {
			c := arms.NamedChild(i)
			if c.Type() == "case_clause" {
				t.Catches = append(t.Catches, convertCase(c, src))
			}
		}
	}
	if fin := childOfType(n, "finally_clause"); fin != nil {
		t.Finally = convert(namedNonComment(fin, 0), src)
	}
	return t
}

func convertLambda(n *sitter.Node, src []byte) syntax.Node {
	l := &syntax.Lambda{Pos: span(n)}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if i == count-1 {
			l.Body = convert(c, src)
			break
		}
		switch c.Type() {
		case "bindings":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				b := c.NamedChild(j)
				l.Params = append(l.Params, &syntax.Param{Pos: span(b), Name: nameOf(b, src)})
			}
		case "identifier", "wildcard":
			l.Params = append(l.Params, &syntax.Param{Pos: span(c), Name: nodeText(c, src)})
		}
	}
	return l
}

func genericOf(n *sitter.Node, src []byte) syntax.Node {
	g := &syntax.Generic{Pos: span(n), Kind: n.Type()}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := convert(n.NamedChild(i), src); c != nil {
			g.Nodes = append(g.Nodes, c)
		}
	}
	return g
}

// span converts tree-sitter's 0-based points to 1-based inclusive lines
// and columns.
func span(n *sitter.Node) syntax.Span {
	start, end := n.StartPoint(), n.EndPoint()
	return syntax.Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// field reads a named field, falling back to the idx-th non-comment named
// child for grammar versions without the field.
func field(n *sitter.Node, name string, idx int) *sitter.Node {
	if f := n.ChildByFieldName(name); f != nil {
		return f
	}
	return namedNonComment(n, idx)
}

func namedNonComment(n *sitter.Node, idx int) *sitter.Node {
	if idx < 0 {
		return nil
	}
	seen := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" || c.Type() == "block_comment" {
			continue
		}
		if seen == idx {
			return c
		}
		seen++
	}
	return nil
}

func countNonComment(n *sitter.Node) int {
	count := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" || c.Type() == "block_comment" {
			continue
		}
		count++
	}
	return count
}

func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

func nameOf(n *sitter.Node, src []byte) string {
	if f := n.ChildByFieldName("name"); f != nil {
		return nodeText(f, src)
	}
	if c := childOfType(n, "identifier", "operator_identifier"); c != nil {
		return nodeText(c, src)
	}
	return ""
}

func modifiersOf(n *sitter.Node, src []byte) []string {
	mods := childOfType(n, "modifiers")
	if mods == nil {
		return nil
	}
	return strings.Fields(nodeText(mods, src))
}

func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == token {
			return true
		}
	}
	return false
}
