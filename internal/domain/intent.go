package domain

// Intent is a whole-query exact match against the special intent lexicon.
// Intent queries bypass scoring entirely and list places directly.
type Intent string

const (
	// IntentNone means the query goes through the scored search path.
	IntentNone Intent = ""
	// IntentAll lists every distinct place with a fixed max score.
	IntentAll Intent = "ALL"
	// IntentRatingTop lists rated places by descending aggregate rating.
	IntentRatingTop Intent = "RATING_TOP"
	// IntentRatingBottom lists rated places by ascending aggregate rating.
	// Unrated places are excluded: an absent rating is not evidence of badness.
	IntentRatingBottom Intent = "RATING_BOTTOM"
)

// ParseIntent maps an intent code from the lexicon to a known Intent.
func ParseIntent(code string) (Intent, bool) {
	switch Intent(code) {
	case IntentAll, IntentRatingTop, IntentRatingBottom:
		return Intent(code), true
	}
	return IntentNone, false
}
