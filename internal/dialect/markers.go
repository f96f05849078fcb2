package dialect

import (
	"regexp"
	"sort"
)

// marker is one revision-specific syntax or API occurrence. Marker scans
// run over scrubbed text, so occurrences inside literals and comments never
// count.
type marker struct {
	id string
	re *regexp.Regexp
}

// The catalogue covers declaration forms and keyword-led statements that
// only the newest revision has, and collection-conversion calls and import
// paths split between the 2.13 and 2.12 standard libraries.
var markers = []marker{
	{"enum-decl", regexp.MustCompile(`(?m)^\s*(?:(?:private|protected|final|case)\s+)*enum\s+[A-Za-z_]`)},
	{"given-decl", regexp.MustCompile(`(?m)^\s*(?:(?:private|protected|transparent|inline)\s+)*given\s`)},
	{"extension-decl", regexp.MustCompile(`(?m)^\s*extension\s*[(\[]`)},
	{"opaque-type", regexp.MustCompile(`\bopaque\s+type\b`)},
	{"export-clause", regexp.MustCompile(`(?m)^\s*export\s+[A-Za-z_]`)},
	{"end-marker", regexp.MustCompile(`(?m)^\s*end\s+(?:if|while|for|match|try|[A-Za-z_][\w]*)\s*$`)},

	{"jdk-converters", regexp.MustCompile(`scala\.jdk\.CollectionConverters`)},
	{"chaining-import", regexp.MustCompile(`scala\.util\.chaining`)},
	{"lazy-list", regexp.MustCompile(`\bLazyList\b`)},
	{"to-factory", regexp.MustCompile(`\.to\((?:List|Vector|Seq|IndexedSeq|Set|Map|Array)\b`)},

	{"java-converters", regexp.MustCompile(`scala\.collection\.JavaConverters`)},
	{"java-conversions", regexp.MustCompile(`scala\.collection\.JavaConversions`)},
	{"can-build-from", regexp.MustCompile(`\bCanBuildFrom\b`)},
	{"break-out", regexp.MustCompile(`\bbreakOut\b`)},
}

// defaultLikelihoods holds P(feature | revision). The 2.13 library ships
// with Scala 3, so 2.13 API markers still leave real mass on Scala 3; the
// 2.12-era names are gone from both newer revisions.
var defaultLikelihoods = map[string]map[Dialect]float64{
	"enum-decl":        {Scala212: 0.02, Scala213: 0.02, Scala3: 0.90},
	"given-decl":       {Scala212: 0.05, Scala213: 0.05, Scala3: 0.85},
	"extension-decl":   {Scala212: 0.02, Scala213: 0.02, Scala3: 0.90},
	"opaque-type":      {Scala212: 0.01, Scala213: 0.01, Scala3: 0.90},
	"export-clause":    {Scala212: 0.02, Scala213: 0.02, Scala3: 0.85},
	"end-marker":       {Scala212: 0.05, Scala213: 0.05, Scala3: 0.80},
	"jdk-converters":   {Scala212: 0.02, Scala213: 0.75, Scala3: 0.45},
	"chaining-import":  {Scala212: 0.02, Scala213: 0.70, Scala3: 0.50},
	"lazy-list":        {Scala212: 0.02, Scala213: 0.65, Scala3: 0.50},
	"to-factory":       {Scala212: 0.05, Scala213: 0.70, Scala3: 0.55},
	"java-converters":  {Scala212: 0.80, Scala213: 0.30, Scala3: 0.10},
	"java-conversions": {Scala212: 0.85, Scala213: 0.05, Scala3: 0.01},
	"can-build-from":   {Scala212: 0.90, Scala213: 0.02, Scala3: 0.01},
	"break-out":        {Scala212: 0.90, Scala213: 0.02, Scala3: 0.01},
}

// neutralLikelihood is assumed for features missing from the table; it
// moves no candidate relative to another.
const neutralLikelihood = 0.33

// scanMarkers returns the distinct marker ids present in scrubbed text,
// sorted for stable output. Repeats of the same marker carry no extra
// evidence.
func scanMarkers(scrubbed string) []string {
	var ids []string
	for _, m := range markers {
		if m.re.MatchString(scrubbed) {
			ids = append(ids, m.id)
		}
	}
	sort.Strings(ids)
	return ids
}
