package search

import (
	"math"
	"regexp"
	"strings"

	"github.com/campscout/campsearch/internal/lexicon"
)

var wordRe = regexp.MustCompile(`\w+`)

// importantTokens drops stopwords from the query tokens. A degenerate
// all-stopword query falls back to the full token set so it still scores.
func importantTokens(tokens []string) []string {
	important := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !lexicon.IsStopword(t) {
			important = append(important, t)
		}
	}
	if len(important) == 0 {
		return tokens
	}
	return important
}

// surfaceForms lists every string that counts as a lexical match for a query
// token: the token itself, its registered synonyms, and any phrase that
// rewrites to it.
func (e *Engine) surfaceForms(token string) []string {
	forms := []string{token}
	forms = append(forms, lexicon.KeywordSynonyms[token]...)
	forms = append(forms, e.lex.ReversePhrases(token)...)
	return forms
}

// keywordScore is the lexical signal for one review: the fraction of
// important query tokens whose surface forms appear in the review's raw
// text, scaled down once per negated match. textLower must already be
// lowercased.
func (e *Engine) keywordScore(tokens []string, textLower string) float64 {
	important := importantTokens(tokens)
	if len(important) == 0 {
		return 0
	}

	words := wordRe.FindAllString(textLower, -1)

	matches := 0
	negations := 0
	for _, token := range important {
		for _, form := range e.surfaceForms(token) {
			if !strings.Contains(textLower, form) {
				continue
			}
			matches++
			// Inspect up to 3 words before each occurrence of the
			// matched form for a negation marker.
			firstWord, _, _ := strings.Cut(form, " ")
			for idx, w := range words {
				if !strings.HasPrefix(w, firstWord) {
					continue
				}
				start := idx - 3
				if start < 0 {
					start = 0
				}
				for _, prev := range words[start:idx] {
					if lexicon.IsNegation(prev) {
						negations++
						break
					}
				}
			}
			break
		}
	}

	base := float64(matches) / float64(len(important))
	return base * math.Pow(e.params.NegationPenalty, float64(negations))
}

// antonymPenalty scales the score down once per query token whose registered
// antonym group has a hit in the review text. Handles the case where
// semantic similarity plus keyword overlap coincidentally favor a review
// that explicitly contradicts the query's intent word.
func (e *Engine) antonymPenalty(tokens []string, textLower string, score float64) float64 {
	penalty := 1.0
	for _, token := range tokens {
		if lexicon.IsStopword(token) {
			continue
		}
		keys := append([]string{token}, e.lex.ReversePhrases(token)...)
		for _, key := range keys {
			group, ok := lexicon.AntonymGroups[key]
			if !ok {
				group, ok = lexicon.AntonymGroups[token]
			}
			if !ok {
				continue
			}
			for _, bad := range group {
				if strings.Contains(textLower, bad) {
					penalty *= e.params.AntonymPenalty
					break
				}
			}
		}
	}
	return score * penalty
}
