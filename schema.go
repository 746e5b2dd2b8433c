package campsearch

import (
	"time"

	"github.com/campscout/campsearch/internal/domain"
)

// Result is one ranked search hit: a place with its best-matching review.
// Relevance is a display percentage in [0, 100] rounded to one decimal.
type Result struct {
	PlaceName  string
	Location   string
	ReviewText string
	Relevance  float64
}

// PriceSource tags where a place's price lines were resolved from.
type PriceSource string

// Price source values.
const (
	PriceSourceNone PriceSource = "none"
	PriceSourceRows PriceSource = "rows"
	PriceSourceJSON PriceSource = "json"
)

// PriceLine is one price entry for a place.
type PriceLine struct {
	Item     string
	Price    int64
	Category string
}

// PlaceDetail is the full place record.
type PlaceDetail struct {
	ID          int64
	Name        string
	Location    string
	Rating      float64
	Prices      []PriceLine
	PriceSource PriceSource
	Facilities  []string
}

// HistoryEntry is one logged search.
type HistoryEntry struct {
	ID          int64
	At          time.Time
	Query       string
	ResultCount int
	TopResult   string
}

func fromResults(in []domain.Result) []Result {
	out := make([]Result, len(in))
	for i, r := range in {
		out[i] = Result{
			PlaceName:  r.PlaceName,
			Location:   r.Location,
			ReviewText: r.ReviewText,
			Relevance:  r.Relevance,
		}
	}
	return out
}

func fromPlaceDetail(d domain.PlaceDetail) PlaceDetail {
	prices := make([]PriceLine, len(d.Prices))
	for i, p := range d.Prices {
		prices[i] = PriceLine{Item: p.Item, Price: p.Price, Category: p.Category}
	}
	return PlaceDetail{
		ID:          d.Place.ID,
		Name:        d.Place.Name,
		Location:    d.Place.Location,
		Rating:      d.Place.Rating,
		Prices:      prices,
		PriceSource: PriceSource(d.PriceSource),
		Facilities:  d.Facilities,
	}
}

func fromHistoryEntries(in []domain.HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(in))
	for i, e := range in {
		out[i] = HistoryEntry{
			ID:          e.ID,
			At:          e.At,
			Query:       e.Query,
			ResultCount: e.ResultCount,
			TopResult:   e.TopResult,
		}
	}
	return out
}
