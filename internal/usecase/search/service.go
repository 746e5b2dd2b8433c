// Package search implements the query-time ranking engine: it turns a raw
// query string into a scored, ordered, deduplicated list of places by
// blending word-embedding similarity with synonym- and negation-aware
// keyword matching, then applying region filtering, name boosting, and
// antonym penalties.
package search

import (
	"context"
	"math"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/campscout/campsearch/internal/domain"
	"github.com/campscout/campsearch/internal/embedding"
	"github.com/campscout/campsearch/internal/lexicon"
)

// doc is one corpus entry with the lowercased fields the scorer matches
// against, precomputed once at construction.
type doc struct {
	entry     domain.CorpusEntry
	lowerRaw  string
	lowerName string
	lowerLoc  string
}

// Engine is the search engine. All state is write-once at construction and
// read-only afterwards, so concurrent Search calls are safe. Rebuilding on a
// corpus change means constructing a new Engine, never patching this one.
type Engine struct {
	params Params
	lex    *lexicon.Lexicon
	model  VectorModel
	docs   []doc
	// vectors[i] is the averaged embedding of docs[i].entry.CleanText,
	// indexed in lockstep with docs.
	vectors [][]float32
	ready   bool
	pool    *ants.Pool
	logger  *zap.Logger
}

// New builds an engine from the corpus, model, and lexicon. Any missing
// dependency yields a permanently not-ready engine whose Search returns
// empty results; construction itself never fails.
func New(ctx context.Context, loader CorpusLoader, model VectorModel, lex *lexicon.Lexicon, params Params, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lex == nil {
		lex = &lexicon.Lexicon{}
	}
	e := &Engine{
		params: params.sanitize(),
		lex:    lex,
		model:  model,
		pool:   newPool(runtime.GOMAXPROCS(0)),
		logger: logger,
	}

	if loader == nil {
		logger.Warn("engine not ready: no corpus loader")
		return e
	}
	entries, err := loader.LoadAll(ctx)
	if err != nil {
		logger.Warn("engine not ready: corpus load failed", zap.Error(err))
		return e
	}
	if len(entries) == 0 {
		logger.Warn("engine not ready", zap.Error(domain.ErrEmptyCorpus))
		return e
	}
	if model == nil {
		logger.Warn("engine not ready", zap.Error(domain.ErrModelNotLoaded))
		return e
	}

	e.docs = make([]doc, len(entries))
	e.vectors = make([][]float32, len(entries))
	e.parallelFor(len(entries), func(i int) {
		entry := entries[i]
		e.docs[i] = doc{
			entry:     entry,
			lowerRaw:  strings.ToLower(entry.RawText),
			lowerName: strings.ToLower(entry.PlaceName),
			lowerLoc:  strings.ToLower(entry.Location),
		}
		e.vectors[i] = model.Vectorize(strings.Fields(entry.CleanText))
	})
	e.ready = true

	phrases, regions, intents := lex.Counts()
	logger.Info("search engine ready",
		zap.Int("reviews", len(entries)),
		zap.Int("vector_dim", model.Dim()),
		zap.Int("phrase_rules", phrases),
		zap.Int("region_codes", regions),
		zap.Int("intents", intents),
	)
	return e
}

// Ready reports whether the engine initialized with a corpus and model.
func (e *Engine) Ready() bool {
	return e.ready
}

// Close releases the scoring worker pool.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Search ranks the corpus against the query and returns up to topK distinct
// places plus the per-query debug record. A not-ready engine returns empty
// results, never an error; "no matches" is an empty list.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]domain.Result, domain.Debug) {
	debug := domain.Debug{}
	if !e.ready || topK <= 0 || strings.TrimSpace(query) == "" {
		return nil, debug
	}

	normalized, intent := e.normalize(query)
	debug.NormalizedQuery = normalized
	debug.Intent = intent

	if intent != domain.IntentNone {
		results := e.listByIntent(intent, topK)
		if len(results) > 0 {
			debug.TopResult = results[0].PlaceName
		}
		return results, debug
	}

	tokens := strings.Fields(normalized)
	scores := e.scoreAll(query, tokens)

	if terms := e.lex.DetectRegions(query); len(terms) > 0 {
		debug.RegionTerms = terms
		e.maskRegions(scores, terms)
	}

	results := e.collect(tokens, scores, topK)
	if len(results) > 0 {
		debug.TopResult = results[0].PlaceName
	}

	return results, debug
}

// scoreAll computes the combined raw score for every review. The loop over
// documents is sharded across the worker pool; each shard writes disjoint
// indices so the output matches the serial computation.
func (e *Engine) scoreAll(query string, tokens []string) []float64 {
	queryVec := e.model.Vectorize(tokens)
	// Cosine against a zero vector is meaningless; define the semantic
	// signal as zero instead of propagating NaN.
	zeroQuery := embedding.IsZero(queryVec)

	hasImportant := false
	for _, t := range tokens {
		if !lexicon.IsStopword(t) {
			hasImportant = true
			break
		}
	}

	rawLower := strings.ToLower(query)

	scores := make([]float64, len(e.docs))
	e.parallelFor(len(e.docs), func(i int) {
		d := &e.docs[i]

		semantic := 0.0
		if !zeroQuery {
			semantic = embedding.Cosine(queryVec, e.vectors[i])
		}
		keyword := e.keywordScore(tokens, d.lowerRaw)

		score := semantic*e.params.SemanticWeight + keyword*e.params.KeywordWeight

		// A query with substantive terms must have lexical grounding:
		// pure semantic drift is treated as noise.
		if hasImportant && keyword == 0 {
			score = 0
		}

		// An exact name/location match outranks ordinary matches.
		if strings.Contains(d.lowerName, rawLower) || strings.Contains(d.lowerLoc, rawLower) {
			score = math.Max(score, e.params.NameBoost)
		}

		scores[i] = score
	})
	return scores
}

// maskRegions zeroes every review whose place location contains none of the
// detected region terms. Region is a mandatory filter once invoked, not a
// ranking signal.
func (e *Engine) maskRegions(scores []float64, terms []string) {
	for i := range e.docs {
		if scores[i] == 0 {
			continue
		}
		matched := false
		for _, term := range terms {
			if strings.Contains(e.docs[i].lowerLoc, term) {
				matched = true
				break
			}
		}
		if !matched {
			scores[i] = 0
		}
	}
}

// collect applies the antonym penalty and presentation threshold to the
// highest-scoring candidates, then aggregates to distinct places.
func (e *Engine) collect(tokens []string, scores []float64, topK int) []domain.Result {
	cands := make([]candidate, 0, len(scores))
	for i, s := range scores {
		if s > 0.01 {
			cands = append(cands, candidate{index: i, score: s})
		}
	}
	// Inspect only the top candidates; the bound keeps antonym scanning
	// cheap on large corpora.
	limit := topK * e.params.CandidateFactor
	if len(cands) > limit {
		sortCandidatesDesc(cands)
		cands = cands[:limit]
	}

	kept := cands[:0]
	for _, c := range cands {
		score := c.score
		if score < e.params.PenaltyExempt {
			score = e.antonymPenalty(tokens, e.docs[c.index].lowerRaw, score)
		}
		if score > e.params.ScoreFloor {
			kept = append(kept, candidate{index: c.index, score: score})
		}
	}

	return e.aggregate(kept, topK)
}

// listByIntent serves the non-scoring intent queries directly from place
// attributes, one entry per distinct place, relevance fixed at 100.
func (e *Engine) listByIntent(intent domain.Intent, topK int) []domain.Result {
	limit := min(topK, e.params.AllLimit)
	order := make([]int, 0, len(e.docs))

	switch intent {
	case domain.IntentAll:
		for i := range e.docs {
			order = append(order, i)
		}
	case domain.IntentRatingTop, domain.IntentRatingBottom:
		limit = min(topK, e.params.RatingLimit)
		for i := range e.docs {
			if e.docs[i].entry.Rating > e.params.RatingEpsilon {
				order = append(order, i)
			}
		}
		desc := intent == domain.IntentRatingTop
		sortByRating(order, e.docs, desc)
	default:
		return nil
	}

	results := make([]domain.Result, 0, limit)
	seen := make(map[string]struct{})
	for _, i := range order {
		d := &e.docs[i]
		if _, dup := seen[d.entry.PlaceName]; dup {
			continue
		}
		seen[d.entry.PlaceName] = struct{}{}
		results = append(results, domain.Result{
			PlaceName:  d.entry.PlaceName,
			Location:   d.entry.Location,
			ReviewText: d.entry.RawText,
			Relevance:  100.0,
		})
		if len(results) >= limit {
			break
		}
	}
	return results
}
