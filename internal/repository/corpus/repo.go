// Package corpus loads the review corpus consumed by the search engine.
package corpus

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campscout/campsearch/internal/domain"
)

// Repo reads reviews joined with their places from the sqlite store.
type Repo struct {
	db *sql.DB
}

// New creates a corpus repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// LoadAll fetches every review with non-empty cleaned text, joined with its
// place's name, location, and aggregate rating. Missing text fields are
// coerced to empty strings and missing ratings to zero; rows are never
// rejected at this layer.
func (r *Repo) LoadAll(ctx context.Context) ([]domain.CorpusEntry, error) {
	const q = `
		SELECT u.id, t.id, u.teks_bersih, u.teks_mentah, t.nama, t.lokasi, t.rating_gmaps
		FROM ulasan u
		JOIN tempat t ON u.tempat_id = t.id
		WHERE u.teks_bersih IS NOT NULL AND u.teks_bersih != ''`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}
	defer rows.Close()

	var entries []domain.CorpusEntry
	for rows.Next() {
		var (
			e         domain.CorpusEntry
			clean     sql.NullString
			raw       sql.NullString
			name      sql.NullString
			location  sql.NullString
			rating    sql.NullFloat64
		)
		if err := rows.Scan(&e.ReviewID, &e.PlaceID, &clean, &raw, &name, &location, &rating); err != nil {
			return nil, fmt.Errorf("scan corpus row: %w", err)
		}
		e.CleanText = clean.String
		e.RawText = raw.String
		e.PlaceName = name.String
		e.Location = location.String
		e.Rating = rating.Float64
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corpus rows: %w", err)
	}
	return entries, nil
}
