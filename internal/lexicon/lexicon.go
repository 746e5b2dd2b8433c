// Package lexicon holds the static linguistic configuration consumed by the
// search engine: phrase rewrites, region synonyms, special intents, and the
// inline stopword/negation/antonym/synonym tables.
package lexicon

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/campscout/campsearch/internal/domain"
)

// File names under the dictionary directory. Formats are fixed by the
// upstream config pipeline.
const (
	PhraseMapFile = "config_phrase_map.csv"
	RegionMapFile = "config_region_map.csv"
	IntentMapFile = "config_special_intent.csv"
)

// PhraseRule rewrites a multi-word phrase to a single canonical token.
type PhraseRule struct {
	Phrase string
	Token  string
}

// Lexicon is the loaded, read-only configuration. A zero-value Lexicon is
// usable and simply recognizes nothing.
type Lexicon struct {
	phrases       []PhraseRule
	reversePhrase map[string][]string
	regions       map[string][]string
	intents       map[string]domain.Intent
}

// Load reads the three dictionary files from dir. A missing file degrades to
// an empty section; a malformed file is an error. The phrase rules are kept
// sorted by descending phrase length (stable on file order) so multi-word
// phrases always rewrite before their constituent words.
func Load(dir string) (*Lexicon, error) {
	lex := &Lexicon{
		reversePhrase: make(map[string][]string),
		regions:       make(map[string][]string),
		intents:       make(map[string]domain.Intent),
	}

	if rows, err := readCSV(filepath.Join(dir, PhraseMapFile), 2); err != nil {
		return nil, fmt.Errorf("load phrase map: %w", err)
	} else {
		for _, row := range rows {
			phrase := strings.ToLower(strings.TrimSpace(row[0]))
			token := strings.ToLower(strings.TrimSpace(row[1]))
			if phrase == "" || token == "" {
				continue
			}
			lex.phrases = append(lex.phrases, PhraseRule{Phrase: phrase, Token: token})
		}
		sort.SliceStable(lex.phrases, func(i, j int) bool {
			return len(lex.phrases[i].Phrase) > len(lex.phrases[j].Phrase)
		})
		for _, r := range lex.phrases {
			lex.reversePhrase[r.Token] = append(lex.reversePhrase[r.Token], r.Phrase)
		}
	}

	if rows, err := readCSV(filepath.Join(dir, RegionMapFile), 2); err != nil {
		return nil, fmt.Errorf("load region map: %w", err)
	} else {
		for _, row := range rows {
			code := strings.ToLower(strings.TrimSpace(row[0]))
			term := strings.ToLower(strings.TrimSpace(row[1]))
			if code == "" || term == "" {
				continue
			}
			lex.regions[code] = append(lex.regions[code], term)
		}
	}

	if rows, err := readCSV(filepath.Join(dir, IntentMapFile), 2); err != nil {
		return nil, fmt.Errorf("load intent map: %w", err)
	} else {
		for _, row := range rows {
			phrase := strings.ToLower(strings.TrimSpace(row[0]))
			intent, ok := domain.ParseIntent(strings.TrimSpace(row[1]))
			if phrase == "" || !ok {
				continue
			}
			lex.intents[phrase] = intent
		}
	}

	return lex, nil
}

// PhraseRules returns the rewrite rules in application order
// (longest phrase first).
func (l *Lexicon) PhraseRules() []PhraseRule {
	return l.phrases
}

// ReversePhrases returns the phrases that rewrite to the given canonical
// token, for surface-form matching against raw review text.
func (l *Lexicon) ReversePhrases(token string) []string {
	return l.reversePhrase[token]
}

// Intent returns the special intent registered for a whole normalized query.
func (l *Lexicon) Intent(query string) (domain.Intent, bool) {
	intent, ok := l.intents[query]
	return intent, ok
}

// DetectRegions scans the query for any registered region term. A hit on one
// term pulls in every term under the same region code, so a province name
// matches all of its cities and districts. The result is sorted for
// deterministic output.
func (l *Lexicon) DetectRegions(query string) []string {
	q := strings.ToLower(query)
	seen := make(map[string]struct{})
	for _, terms := range l.regions {
		for _, term := range terms {
			if strings.Contains(q, term) {
				for _, t := range terms {
					seen[t] = struct{}{}
				}
				break
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	detected := make([]string, 0, len(seen))
	for t := range seen {
		detected = append(detected, t)
	}
	sort.Strings(detected)
	return detected
}

// Counts reports the number of loaded entries per section, for startup logs.
func (l *Lexicon) Counts() (phrases, regions, intents int) {
	return len(l.phrases), len(l.regions), len(l.intents)
}

// readCSV reads all records with at least want columns, skipping the header
// row. A missing file yields no rows and no error.
func readCSV(path string, want int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	header := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) < want {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
