package dialect

import (
	"bytes"
	"math"
	"sort"
)

// ParseOutcome reports one revision-restricted trial parse.
type ParseOutcome struct {
	// OK is set when the parse produced a tree free of errors under the
	// tried revision.
	OK bool
	// Line and Col locate the first failure, 1-based, when OK is false.
	Line int
	Col  int
}

// TrialParser runs a revision-restricted parse over raw source. The
// tree provider implements it; tests substitute fixed outcomes.
type TrialParser interface {
	TryParse(d Dialect, src []byte) ParseOutcome
}

// Method records which evidence combination picked the dialect.
type Method string

const (
	// MethodBayesian combines marker likelihoods with trial parses; it is
	// used when at least one marker fired.
	MethodBayesian Method = "bayesian"
	// MethodHeuristic adds weighted pattern points to trial-parse scores;
	// it is the fallback when no marker fired.
	MethodHeuristic Method = "heuristic"
)

const (
	eps         = 1e-6
	parseWeight = 1.5

	// Trial-parse scores live in [0, maxParseScore]; a failed parse can
	// reach at most maxParseScore-1 so a clean parse always beats it.
	maxParseScore     = 40.0
	neutralParseScore = 20.0
)

// Detection is the full detection result for one file.
type Detection struct {
	// Dialect is the selected revision.
	Dialect Dialect `json:"dialect"`

	// Method names the evidence combination that decided.
	Method Method `json:"method"`

	// Features lists the markers (bayesian) or pattern hits (heuristic)
	// that contributed, sorted.
	Features []string `json:"features,omitempty"`

	// Scores holds the per-candidate comparison values: log-scores under
	// the bayesian method, additive points under the heuristic one.
	Scores map[Dialect]float64 `json:"scores,omitempty"`

	// ParseScores holds the trial-parse score per candidate in [0, 40].
	ParseScores map[Dialect]float64 `json:"parseScores,omitempty"`
}

// Selector detects the grammar revision of source files. The zero tables
// from this package apply unless a tuning file overrides them.
type Selector struct {
	parser      TrialParser
	priors      map[Dialect]float64
	patterns    []pattern
	likelihoods map[string]map[Dialect]float64
}

// NewSelector returns a selector with the built-in priors, patterns and
// likelihood table. parser may be nil, in which case every candidate gets
// a neutral trial-parse score.
func NewSelector(parser TrialParser) *Selector {
	return &Selector{
		parser:      parser,
		priors:      map[Dialect]float64{Scala212: 0.20, Scala213: 0.45, Scala3: 0.35},
		patterns:    defaultPatterns,
		likelihoods: defaultLikelihoods,
	}
}

// Select returns the detected revision for src.
func (s *Selector) Select(src []byte) Dialect {
	return s.Detect(src).Dialect
}

// Detect runs the full detection pipeline over src. It never fails; empty
// or undecidable input resolves to the default revision.
func (s *Selector) Detect(src []byte) Detection {
	if len(bytes.TrimSpace(src)) == 0 {
		return Detection{Dialect: Default, Method: MethodHeuristic}
	}
	scrubbed := Scrub(string(src))
	parseScores := s.parseScores(src)
	if features := scanMarkers(scrubbed); len(features) > 0 {
		return s.bayesian(features, parseScores)
	}
	return s.heuristic(scrubbed, parseScores)
}

// bayesian fuses prior, per-feature likelihood and trial-parse likelihood
// in log space. Distinct features contribute once each no matter how often
// they occur in the file.
func (s *Selector) bayesian(features []string, parseScores map[Dialect]float64) Detection {
	scores := make(map[Dialect]float64, 3)
	for _, d := range Candidates() {
		score := math.Log(math.Max(eps, s.priors[d]))
		for _, f := range features {
			like := neutralLikelihood
			if row, ok := s.likelihoods[f]; ok {
				if v, ok := row[d]; ok {
					like = v
				}
			}
			score += math.Log(math.Max(eps, like))
		}
		score += parseWeight * math.Log(math.Max(eps, parseLikelihood(parseScores[d])))
		scores[d] = score
	}
	return Detection{
		Dialect:     pickBest(scores),
		Method:      MethodBayesian,
		Features:    features,
		Scores:      scores,
		ParseScores: parseScores,
	}
}

// heuristic adds weighted pattern points to the trial-parse scores.
func (s *Selector) heuristic(scrubbed string, parseScores map[Dialect]float64) Detection {
	scores, hits := heuristicScores(scrubbed, s.patterns)
	for d, ps := range parseScores {
		scores[d] += ps
	}
	sort.Strings(hits)
	return Detection{
		Dialect:     pickBest(scores),
		Method:      MethodHeuristic,
		Features:    hits,
		Scores:      scores,
		ParseScores: parseScores,
	}
}

func (s *Selector) parseScores(src []byte) map[Dialect]float64 {
	out := make(map[Dialect]float64, 3)
	for _, d := range Candidates() {
		out[d] = s.parseScore(d, src)
	}
	return out
}

// parseScore maps one trial parse to [0, 40]. A clean parse scores the
// maximum; a failure scores by how far into the file it happened, so later
// failures count as less bad.
func (s *Selector) parseScore(d Dialect, src []byte) float64 {
	if s.parser == nil {
		return neutralParseScore
	}
	o := s.parser.TryParse(d, src)
	if o.OK {
		return maxParseScore
	}
	score := float64(o.Line-1) + float64(o.Col)/100
	if score < 0 {
		score = 0
	}
	return math.Min(score, maxParseScore-1)
}

// parseLikelihood maps a [0, 40] parse score onto a probability in
// [0.1, 1.0], clamped to [eps, 1].
func parseLikelihood(score float64) float64 {
	p := 0.1 + 0.9*(score/maxParseScore)
	return math.Min(1.0, math.Max(eps, p))
}

// pickBest returns the highest-scoring candidate. The middle revision wins
// exact ties: comparison starts there and replacement requires a strictly
// greater score.
func pickBest(scores map[Dialect]float64) Dialect {
	best := Default
	for _, d := range Candidates() {
		if scores[d] > scores[best] {
			best = d
		}
	}
	return best
}
