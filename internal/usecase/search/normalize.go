package search

import (
	"regexp"
	"strings"

	"github.com/campscout/campsearch/internal/domain"
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// normalize lowercases and trims the query, short-circuits on a whole-query
// intent match, rewrites known phrases to canonical tokens (longest phrase
// first, so "kamar mandi" rewrites before any rule for "mandi" alone), and
// strips punctuation.
func (e *Engine) normalize(raw string) (string, domain.Intent) {
	q := strings.ToLower(strings.TrimSpace(raw))

	if intent, ok := e.lex.Intent(q); ok {
		return q, intent
	}

	for _, rule := range e.lex.PhraseRules() {
		if strings.Contains(q, rule.Phrase) {
			q = strings.ReplaceAll(q, rule.Phrase, rule.Token)
		}
	}

	return nonWordRe.ReplaceAllString(q, ""), domain.IntentNone
}
