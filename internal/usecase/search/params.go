package search

// Params are the tunable scoring policy constants. Defaults reproduce the
// reference behavior; the weight split favors lexical evidence because the
// small corpus-trained embeddings are the noisier signal.
type Params struct {
	// SemanticWeight and KeywordWeight combine the two signals; they
	// should sum to 1.
	SemanticWeight float64
	KeywordWeight  float64
	// NegationPenalty multiplies the keyword score once per negated match.
	NegationPenalty float64
	// AntonymPenalty multiplies the final score once per antonym hit.
	AntonymPenalty float64
	// ScoreFloor is the minimum processed score (0-1) kept as a candidate.
	ScoreFloor float64
	// NameBoost is the floor a review is raised to when its place name or
	// location contains the raw query verbatim.
	NameBoost float64
	// PenaltyExempt: scores at or above this skip the antonym penalty,
	// they are already known-correct via the name boost.
	PenaltyExempt float64
	// DisplayCap caps scored results on the 0-100 display scale; 100.0 is
	// reserved for intent listings.
	DisplayCap float64
	// CandidateFactor bounds the number of candidates inspected per query
	// to topK * CandidateFactor.
	CandidateFactor int
	// AllLimit and RatingLimit cap the ALL and rating intent listings.
	AllLimit    int
	RatingLimit int
	// RatingEpsilon: places must have rating > epsilon to count as rated.
	RatingEpsilon float64
}

// DefaultParams returns the reference policy constants.
func DefaultParams() Params {
	return Params{
		SemanticWeight:  0.3,
		KeywordWeight:   0.7,
		NegationPenalty: 0.3,
		AntonymPenalty:  0.1,
		ScoreFloor:      0.15,
		NameBoost:       0.99,
		PenaltyExempt:   0.9,
		DisplayCap:      99.9,
		CandidateFactor: 5,
		AllLimit:        100,
		RatingLimit:     20,
		RatingEpsilon:   0.1,
	}
}

// sanitize fills zero fields with defaults so a partially-populated config
// cannot produce a degenerate scorer.
func (p Params) sanitize() Params {
	def := DefaultParams()
	if p.SemanticWeight <= 0 && p.KeywordWeight <= 0 {
		p.SemanticWeight = def.SemanticWeight
		p.KeywordWeight = def.KeywordWeight
	}
	if p.NegationPenalty <= 0 {
		p.NegationPenalty = def.NegationPenalty
	}
	if p.AntonymPenalty <= 0 {
		p.AntonymPenalty = def.AntonymPenalty
	}
	if p.ScoreFloor <= 0 {
		p.ScoreFloor = def.ScoreFloor
	}
	if p.NameBoost <= 0 {
		p.NameBoost = def.NameBoost
	}
	if p.PenaltyExempt <= 0 {
		p.PenaltyExempt = def.PenaltyExempt
	}
	if p.DisplayCap <= 0 {
		p.DisplayCap = def.DisplayCap
	}
	if p.CandidateFactor <= 0 {
		p.CandidateFactor = def.CandidateFactor
	}
	if p.AllLimit <= 0 {
		p.AllLimit = def.AllLimit
	}
	if p.RatingLimit <= 0 {
		p.RatingLimit = def.RatingLimit
	}
	if p.RatingEpsilon <= 0 {
		p.RatingEpsilon = def.RatingEpsilon
	}
	return p
}
