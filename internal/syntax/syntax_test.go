package syntax

import "testing"

func TestSpanLines(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want int
	}{
		{"single line", Span{StartLine: 3, EndLine: 3}, 1},
		{"multi line", Span{StartLine: 10, EndLine: 14}, 5},
		{"inverted span", Span{StartLine: 8, EndLine: 5}, 0},
		{"zero span", Span{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Lines(); got != tt.want {
				t.Errorf("Lines() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChildrenOmitsNil(t *testing.T) {
	cond := &Generic{Kind: "identifier"}
	n := &If{Cond: cond, Then: &Block{}, Else: nil}

	kids := Children(n)
	if len(kids) != 2 {
		t.Fatalf("Children(if) = %d nodes, want 2", len(kids))
	}
	if kids[0] != cond {
		t.Errorf("first child should be the condition")
	}
}

func TestChildrenCoversCompositeNodes(t *testing.T) {
	arm := &CaseClause{Pattern: &Generic{Kind: "pattern"}, Guard: &Generic{Kind: "guard"}, Body: &Block{}}
	tree := &File{
		Package: "demo",
		Decls: []Node{
			&Container{
				Kind: KindClass,
				Name: "A",
				Body: []Node{
					&Func{
						Name: "f",
						Body: &Match{
							Scrutinee: &Generic{Kind: "identifier"},
							Cases:     []*CaseClause{arm},
						},
					},
					&Binding{Kind: KindVal, Name: "x", Body: &Infix{Op: "+", Left: &Generic{}, Right: &Generic{}}},
				},
			},
		},
	}

	var count int
	var walk func(Node)
	walk = func(n Node) {
		count++
		for _, c := range Children(n) {
			walk(c)
		}
	}
	walk(tree)

	// file, container, func, match, scrutinee, case, pattern, guard, block,
	// binding, infix, left, right
	if count != 13 {
		t.Errorf("walked %d nodes, want 13", count)
	}
}

func TestShortCircuit(t *testing.T) {
	tests := []struct {
		op   string
		want bool
	}{
		{"&&", true},
		{"||", true},
		{"+", false},
		{"==", false},
		{"&", false},
	}

	for _, tt := range tests {
		n := &Infix{Op: tt.op}
		if got := n.ShortCircuit(); got != tt.want {
			t.Errorf("ShortCircuit(%q) = %v, want %v", tt.op, got, tt.want)
		}
	}
}
