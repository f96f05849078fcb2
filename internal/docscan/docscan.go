// Package docscan indexes documentation comments by source line. The
// analyzer consults the index to decide whether a declaration has a doc
// comment adjacent to its start.
package docscan

import "strings"

type lineKind int

const (
	lineOther lineKind = iota
	lineBlank
	lineAnnotation
	lineComment
	lineDocEnd
)

// Index classifies every line of one file. Lines are 1-based to match
// declaration spans.
type Index struct {
	kinds []lineKind
}

// Scan builds the line index for src. The scan is line-oriented: block
// comments are tracked across lines with a nesting counter, and only
// blocks opened with the doc form count as documentation.
func Scan(src []byte) *Index {
	rawLines := strings.Split(string(src), "\n")
	kinds := make([]lineKind, len(rawLines)+1)

	depth := 0
	doc := false
	for i, raw := range rawLines {
		line := i + 1
		if depth > 0 {
			if scanBlock(raw, &depth) && doc {
				kinds[line] = lineDocEnd
			}
			continue
		}
		trimmed := strings.TrimSpace(raw)
		switch {
		case trimmed == "":
			kinds[line] = lineBlank
		case strings.HasPrefix(trimmed, "@"):
			kinds[line] = lineAnnotation
		case strings.HasPrefix(trimmed, "//"):
			kinds[line] = lineComment
		case strings.HasPrefix(trimmed, "/*"):
			doc = strings.HasPrefix(trimmed, "/**")
			if scanBlock(trimmed, &depth) && doc {
				kinds[line] = lineDocEnd
			}
		}
	}
	return &Index{kinds: kinds}
}

// Documented reports whether the declaration starting at declLine has an
// adjacent doc comment. Blank lines and annotation lines between the
// comment and the declaration are transparent; any other line breaks
// adjacency.
func (ix *Index) Documented(declLine int) bool {
	start := declLine - 1
	if last := len(ix.kinds) - 1; start > last {
		start = last
	}
	for l := start; l >= 1; l-- {
		switch ix.kinds[l] {
		case lineBlank, lineAnnotation:
			continue
		case lineComment, lineDocEnd:
			return true
		default:
			return false
		}
	}
	return false
}

// scanBlock advances the block-comment nesting depth over one line and
// reports whether the outermost block closed on it.
func scanBlock(s string, depth *int) bool {
	closed := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '/' && i+1 < len(s) && s[i+1] == '*':
			*depth++
			i++
		case s[i] == '*' && i+1 < len(s) && s[i+1] == '/':
			if *depth > 0 {
				*depth--
				if *depth == 0 {
					closed = true
				}
			}
			i++
		}
	}
	return closed
}
