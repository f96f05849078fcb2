// Package walker performs the single top-to-bottom traversal of one file's
// syntax tree: it recognizes declaration boundaries, maintains the
// ownership chain, and invokes the four metric visitors exactly once per
// declaration body.
package walker

import (
	"scalyze/internal/errors"
	"scalyze/internal/metrics"
	"scalyze/internal/scope"
	"scalyze/internal/syntax"
)

// EmitFunc receives each record as it is produced. Ownership of the record
// passes to the callback; the walker holds no record state between calls.
type EmitFunc func(metrics.Record)

// Walker traverses one file's tree. A file identity must be attached at
// construction; Walk refuses to run without one.
type Walker struct {
	file string
	emit EmitFunc

	scope *scope.Context
}

// New creates a walker for one file. The emit callback may be nil, in which
// case records are discarded.
func New(file string, emit EmitFunc) *Walker {
	if emit == nil {
		emit = func(metrics.Record) {}
	}
	return &Walker{file: file, emit: emit}
}

// Walk traverses the tree and emits records for every recognized
// declaration. The ownership context is created fresh on each call, so
// walking the same tree twice produces identical record sets.
func (w *Walker) Walk(tree *syntax.File) error {
	if w.file == "" {
		return errors.New(errors.MissingFileContext,
			"declaration walker invoked before a file identity was attached", nil)
	}
	w.scope = scope.NewContext()
	if tree.Package != "" {
		w.scope.Push(scope.Package(tree.Package))
	}
	for _, d := range tree.Decls {
		w.walk(d)
	}
	return nil
}

func (w *Walker) walk(n syntax.Node) {
	if n == nil {
		return
	}
	switch x := n.(type) {
	case *syntax.Container:
		w.emitContainer(x)
		w.scope.With(scope.Container(string(x.Kind), x.Name), func() {
			for _, p := range x.Parents {
				w.walk(p)
			}
			for _, s := range x.Body {
				w.walk(s)
			}
		})

	case *syntax.Func:
		d := w.declFor(x.Name, "def", x.Pos, x.Body == nil)
		if x.Body == nil {
			w.emitAbstract(d)
			return
		}
		w.emitBody(d, x.Body)
		w.scope.With(scope.Function(x.Name), func() {
			w.walk(x.Body)
		})

	case *syntax.Binding:
		d := w.declFor(x.Name, string(x.Kind), x.Pos, x.Body == nil)
		if x.Body == nil {
			w.emitAbstract(d)
			return
		}
		w.emitBody(d, x.Body)
		w.scope.With(scope.Member(string(x.Kind), x.Name), func() {
			w.walk(x.Body)
		})

	case *syntax.Given:
		name := x.Name
		if name == "" {
			name = "<anonymous>"
		}
		d := w.declFor(name, "given", x.Pos, x.Body == nil)
		if x.Body == nil {
			w.emitAbstract(d)
			return
		}
		w.emitBody(d, x.Body)
		w.scope.With(scope.Member("given", x.Name), func() {
			w.walk(x.Body)
		})

	case *syntax.Block:
		w.scope.With(w.scope.Block(), func() {
			for _, s := range x.Stmts {
				w.walk(s)
			}
		})

	case *syntax.Lambda:
		w.scope.With(w.scope.Lambda(), func() {
			for _, p := range x.Params {
				w.walk(p)
			}
			w.walk(x.Body)
		})

	case *syntax.Template:
		w.scope.With(w.scope.Template(), func() {
			for _, p := range x.Parents {
				w.walk(p)
			}
			for _, s := range x.Body {
				w.walk(s)
			}
		})

	default:
		for _, c := range syntax.Children(n) {
			w.walk(c)
		}
	}
}

// declFor builds the shared identity for one declaration using the current
// ownership chain, before the declaration's own owner is pushed.
func (w *Walker) declFor(name, kind string, pos syntax.Span, abstract bool) metrics.Decl {
	return metrics.Decl{
		Name:          name,
		QualifiedName: w.scope.QualifiedName(name),
		Kind:          kind,
		File:          w.file,
		Span:          pos,
		Local:         w.scope.InsideFunction(),
		Abstract:      abstract,
	}
}

// emitBody runs the four visitors over one declaration body.
func (w *Walker) emitBody(d metrics.Decl, body syntax.Node) {
	w.emit(metrics.PathCount{Decl: d, Count: metrics.DecisionPaths(body)})
	w.emit(metrics.NestingDepth{Decl: d, Depth: metrics.Depth(body)})

	p := metrics.Patterns(body)
	w.emit(metrics.PatternStats{
		Decl:        d,
		Matches:     p.Matches,
		Cases:       p.Cases,
		Guards:      p.Guards,
		Wildcards:   p.Wildcards,
		MaxNesting:  p.MaxNesting,
		NestedCases: p.NestedCases,
	})

	b := metrics.Branches(body)
	w.emit(metrics.BranchCounts{
		Decl:    d,
		Ifs:     b.Ifs,
		Cases:   b.Cases,
		Loops:   b.Loops,
		Catches: b.Catches,
		BoolOps: b.BoolOps,
		Total:   b.Sum(),
		Lines:   body.Span().Lines(),
	})
}

// emitContainer runs the visitors over a container's loose template
// statements, the constructor path. Nested declarations in the template
// body are excluded by the visitors and measured on their own.
func (w *Walker) emitContainer(x *syntax.Container) {
	d := w.declFor(x.Name, string(x.Kind), x.Pos, false)

	w.emit(metrics.PathCount{Decl: d, Count: metrics.DecisionPathsOver(x.Body)})
	w.emit(metrics.NestingDepth{Decl: d, Depth: metrics.DepthOver(x.Body)})

	p := metrics.PatternsOver(x.Body)
	w.emit(metrics.PatternStats{
		Decl:        d,
		Matches:     p.Matches,
		Cases:       p.Cases,
		Guards:      p.Guards,
		Wildcards:   p.Wildcards,
		MaxNesting:  p.MaxNesting,
		NestedCases: p.NestedCases,
	})

	b := metrics.BranchesOver(x.Body)
	w.emit(metrics.BranchCounts{
		Decl:    d,
		Ifs:     b.Ifs,
		Cases:   b.Cases,
		Loops:   b.Loops,
		Catches: b.Catches,
		BoolOps: b.BoolOps,
		Total:   b.Sum(),
		Lines:   looseLines(x.Body),
	})
}

// emitAbstract emits the reduced record pair for a signature without a
// body: zero decision paths and a nesting depth equal to the current
// function-nesting depth.
func (w *Walker) emitAbstract(d metrics.Decl) {
	w.emit(metrics.PathCount{Decl: d, Count: 0})
	w.emit(metrics.NestingDepth{Decl: d, Depth: w.scope.FunctionDepth()})
}

// looseLines measures the source extent of a container's loose statements,
// the ones not starting a nested declaration. Containers whose template
// holds only declarations have no constructor code of their own.
func looseLines(stmts []syntax.Node) int {
	first, last := 0, 0
	for _, s := range stmts {
		if s == nil || metrics.IsDeclaration(s) {
			continue
		}
		sp := s.Span()
		if first == 0 || sp.StartLine < first {
			first = sp.StartLine
		}
		if sp.EndLine > last {
			last = sp.EndLine
		}
	}
	if first == 0 {
		return 0
	}
	return syntax.Span{StartLine: first, EndLine: last}.Lines()
}
