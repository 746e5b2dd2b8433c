package domain

// Place is a campsite/venue record.
type Place struct {
	ID       int64
	Name     string
	Location string
	Rating   float64
}

// PriceSource tags where a place's price lines were resolved from.
// Relational rows take precedence; the embedded JSON blob on the place row
// is a legacy shape consulted only when no rows exist.
type PriceSource string

const (
	// PriceSourceNone means the place has no price information.
	PriceSourceNone PriceSource = "none"
	// PriceSourceRows means prices came from the relational price table.
	PriceSourceRows PriceSource = "rows"
	// PriceSourceJSON means prices came from the embedded JSON blob.
	PriceSourceJSON PriceSource = "json"
)

// PriceItem is one price line for a place.
type PriceItem struct {
	Item     string `json:"item"`
	Price    int64  `json:"harga"`
	Category string `json:"kategori"`
}

// PlaceDetail is the full place record: base info plus price lines and
// facility tags.
type PlaceDetail struct {
	Place       Place
	Prices      []PriceItem
	PriceSource PriceSource
	Facilities  []string
}
