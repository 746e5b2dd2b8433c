package domain

// CorpusEntry is one review joined with its place, as loaded from storage.
// RawText is the scraped review used for lexical matching and display;
// CleanText is the preprocessed form used for semantic vectorization.
// Entries are read-only once loaded: a corpus change requires building a
// new engine, never patching a live one.
type CorpusEntry struct {
	ReviewID  int64
	PlaceID   int64
	PlaceName string
	Location  string
	RawText   string
	CleanText string
	Rating    float64
}
