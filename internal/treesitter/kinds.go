// Package treesitter parses source files with the bundled Scala grammar
// and builds the syntax model the metric visitors consume. Parsing needs
// cgo; without it the package compiles to a stub that reports the
// capability as unavailable.
package treesitter

import "scalyze/internal/syntax"

// scala3OnlyKinds lists grammar node kinds that only the newest revision
// produces. A trial parse restricted to a 2.x revision fails at the first
// node of one of these kinds.
var scala3OnlyKinds = map[string]bool{
	"given_definition":     true,
	"enum_definition":      true,
	"extension_definition": true,
	"export_declaration":   true,
	"opaque_modifier":      true,
	"end_marker":           true,
}

// containerKinds maps declaration node kinds onto container kinds.
var containerKinds = map[string]syntax.ContainerKind{
	"class_definition":  syntax.KindClass,
	"object_definition": syntax.KindObject,
	"package_object":    syntax.KindObject,
	"trait_definition":  syntax.KindTrait,
	"enum_definition":   syntax.KindEnum,
}
