package dialect

import (
	"regexp"
	"strings"
)

// pattern is one weighted heuristic hit. Unlike markers, pattern hits are
// soft evidence: several revisions may score points from the same text.
type pattern struct {
	id     string
	re     *regexp.Regexp
	points map[Dialect]float64
}

var defaultPatterns = []pattern{
	{
		id:     "template-colon",
		re:     regexp.MustCompile(`(?m)^[ \t]*(?:(?:final|abstract|sealed|open|case|implicit)[ \t]+)*(?:class|trait|object|enum)\b[^\n]*:[ \t]*$`),
		points: map[Dialect]float64{Scala3: 2},
	},
	{
		id:     "if-then",
		re:     regexp.MustCompile(`\bif\b[^\n]*\bthen\b`),
		points: map[Dialect]float64{Scala3: 2},
	},
	{
		id:     "main-annotation",
		re:     regexp.MustCompile(`(?m)^[ \t]*@main\b`),
		points: map[Dialect]float64{Scala3: 2},
	},
	{
		id:     "star-import",
		re:     regexp.MustCompile(`(?m)^[ \t]*import[ \t][^\n]*\.\*[ \t]*$`),
		points: map[Dialect]float64{Scala3: 2},
	},
	{
		id:     "procedure-syntax",
		re:     regexp.MustCompile(`(?m)\bdef[ \t]+[A-Za-z_$][\w$]*[ \t]*(?:\([^()\n]*\))*[ \t]*\{`),
		points: map[Dialect]float64{Scala212: 2},
	},
	{
		id:     "symbol-literal",
		re:     regexp.MustCompile(`'[A-Za-z_][A-Za-z0-9_]*`),
		points: map[Dialect]float64{Scala212: 2, Scala213: 1},
	},
	{
		id:     "view-bound",
		re:     regexp.MustCompile(`<%`),
		points: map[Dialect]float64{Scala212: 2},
	},
	{
		id:     "package-object",
		re:     regexp.MustCompile(`\bpackage[ \t]+object\b`),
		points: map[Dialect]float64{Scala212: 1, Scala213: 1},
	},
	{
		id:     "implicit-member",
		re:     regexp.MustCompile(`\bimplicit[ \t]+(?:val|def|class|object)\b`),
		points: map[Dialect]float64{Scala212: 1, Scala213: 1},
	},
}

// repeatedPrefixBonus is added to the newest revision when the braceless
// match shape is found.
const repeatedPrefixBonus = 2

// hasRepeatedCasePrefix looks for a line ending in match or catch without a
// brace, followed by at least two consecutive lines led by case. Brace-free
// match expressions laid out this way only parse under the newest revision.
func hasRepeatedCasePrefix(scrubbed string) bool {
	lines := strings.Split(scrubbed, "\n")
	for i := 0; i+2 < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		if last != "match" && last != "catch" {
			continue
		}
		if firstField(lines[i+1]) == "case" && firstField(lines[i+2]) == "case" {
			return true
		}
	}
	return false
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// heuristicScores sums pattern points per candidate and returns the ids
// that contributed.
func heuristicScores(scrubbed string, patterns []pattern) (map[Dialect]float64, []string) {
	scores := map[Dialect]float64{Scala212: 0, Scala213: 0, Scala3: 0}
	var hits []string
	for _, p := range patterns {
		if !p.re.MatchString(scrubbed) {
			continue
		}
		hits = append(hits, p.id)
		for d, pts := range p.points {
			scores[d] += pts
		}
	}
	if hasRepeatedCasePrefix(scrubbed) {
		hits = append(hits, "repeated-case-prefix")
		scores[Scala3] += repeatedPrefixBonus
	}
	return scores, hits
}
