// Package scope tracks the lexical ownership chain during one file walk.
// The chain is used to build qualified names and to classify declarations
// as local to an enclosing function.
package scope

import "strings"

// OwnerKind discriminates the owner variants. The set is closed; every
// switch over it handles all seven kinds.
type OwnerKind string

const (
	KindPackage   OwnerKind = "package"
	KindContainer OwnerKind = "container"
	KindFunction  OwnerKind = "function"
	KindBlock     OwnerKind = "block"
	KindLambda    OwnerKind = "lambda"
	KindTemplate  OwnerKind = "template"
	KindMember    OwnerKind = "member"
)

// Owner is one entry in the ownership chain.
type Owner struct {
	Kind OwnerKind
	// Name is set for package, container, function and named member owners.
	// Block, lambda and template owners are anonymous.
	Name string
	// Detail carries the flavor of container (class, object, trait, enum)
	// and member (val, var, given) owners.
	Detail string
	// ID distinguishes anonymous owners of the same kind within one walk.
	ID int
}

// Named reports whether the owner contributes to qualified names.
func (o Owner) Named() bool { return o.Name != "" }

// Package returns a package owner for the given dotted path.
func Package(path string) Owner {
	return Owner{Kind: KindPackage, Name: path}
}

// Container returns a container owner.
func Container(detail, name string) Owner {
	return Owner{Kind: KindContainer, Name: name, Detail: detail}
}

// Function returns a function owner.
func Function(name string) Owner {
	return Owner{Kind: KindFunction, Name: name}
}

// Member returns a member owner for a binding acting as a local scope.
func Member(detail, name string) Owner {
	return Owner{Kind: KindMember, Name: name, Detail: detail}
}

// Context is the ownership stack for one declaration-walker pass. It is
// created fresh per file and never shared across walks.
type Context struct {
	owners        []Owner
	blockCounter  int
	lambdaCounter int
}

// NewContext returns an empty ownership context.
func NewContext() *Context {
	return &Context{}
}

// Push adds an owner to the top of the stack.
func (c *Context) Push(o Owner) {
	c.owners = append(c.owners, o)
}

// Pop removes the top owner. Popping an empty stack is a no-op.
func (c *Context) Pop() {
	if len(c.owners) > 0 {
		c.owners = c.owners[:len(c.owners)-1]
	}
}

// Block returns the next anonymous block owner.
func (c *Context) Block() Owner {
	c.blockCounter++
	return Owner{Kind: KindBlock, ID: c.blockCounter}
}

// Lambda returns the next anonymous lambda owner.
func (c *Context) Lambda() Owner {
	c.lambdaCounter++
	return Owner{Kind: KindLambda, ID: c.lambdaCounter}
}

// Template returns an anonymous template owner.
func (c *Context) Template() Owner {
	return Owner{Kind: KindTemplate}
}

// With runs fn with o pushed on the stack and restores the stack to its
// prior state on every exit path, including panics and early returns
// inside fn. Restoration truncates to the entry depth, so fn cannot leak
// owners even if its own push/pop discipline is broken.
func (c *Context) With(o Owner, fn func()) {
	depth := len(c.owners)
	c.Push(o)
	defer func() {
		c.owners = c.owners[:depth]
	}()
	fn()
}

// QualifiedName joins the named owners, outer to inner, with the given
// declaration name. With no named owner on the stack the bare name is
// returned unchanged.
func (c *Context) QualifiedName(name string) string {
	var parts []string
	for _, o := range c.owners {
		if o.Named() {
			parts = append(parts, o.Name)
		}
	}
	if len(parts) == 0 {
		return name
	}
	parts = append(parts, name)
	return strings.Join(parts, ".")
}

// InsideFunction reports whether any function owner is on the stack, which
// classifies declarations emitted at this point as local.
func (c *Context) InsideFunction() bool {
	for _, o := range c.owners {
		if o.Kind == KindFunction {
			return true
		}
	}
	return false
}

// FunctionDepth returns the number of function owners on the stack.
func (c *Context) FunctionDepth() int {
	n := 0
	for _, o := range c.owners {
		if o.Kind == KindFunction {
			n++
		}
	}
	return n
}

// Depth returns the current stack depth.
func (c *Context) Depth() int {
	return len(c.owners)
}

// Owners returns a copy of the current stack, outer to inner.
func (c *Context) Owners() []Owner {
	out := make([]Owner, len(c.owners))
	copy(out, c.owners)
	return out
}
