// Package place reads full place records: base info, price lines, and
// facility tags.
package place

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/campscout/campsearch/internal/domain"
)

// Repo reads place details from the sqlite store.
type Repo struct {
	db *sql.DB
}

// New creates a place repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Detail fetches a place's base record, price lines, and facility tags.
// Prices resolve from the relational price table first; the legacy embedded
// JSON blob on the place row is consulted only when no rows exist, and the
// chosen source is tagged on the result.
func (r *Repo) Detail(ctx context.Context, id int64) (domain.PlaceDetail, error) {
	var (
		detail    domain.PlaceDetail
		name      sql.NullString
		location  sql.NullString
		rating    sql.NullFloat64
		priceJSON sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nama, lokasi, rating_gmaps, harga_json FROM tempat WHERE id = ?`, id,
	).Scan(&detail.Place.ID, &name, &location, &rating, &priceJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlaceDetail{}, domain.ErrPlaceNotFound
	}
	if err != nil {
		return domain.PlaceDetail{}, fmt.Errorf("query place %d: %w", id, err)
	}
	detail.Place.Name = name.String
	detail.Place.Location = location.String
	detail.Place.Rating = rating.Float64

	prices, err := r.priceRows(ctx, id)
	if err != nil {
		return domain.PlaceDetail{}, err
	}
	switch {
	case len(prices) > 0:
		detail.Prices = prices
		detail.PriceSource = domain.PriceSourceRows
	case priceJSON.Valid && strings.TrimSpace(priceJSON.String) != "":
		var fromJSON []domain.PriceItem
		if err := json.Unmarshal([]byte(priceJSON.String), &fromJSON); err == nil && len(fromJSON) > 0 {
			detail.Prices = fromJSON
			detail.PriceSource = domain.PriceSourceJSON
		} else {
			detail.PriceSource = domain.PriceSourceNone
		}
	default:
		detail.PriceSource = domain.PriceSourceNone
	}

	facilities, err := r.facilities(ctx, id)
	if err != nil {
		return domain.PlaceDetail{}, err
	}
	detail.Facilities = facilities

	return detail, nil
}

// LookupID finds a place id by name: case-insensitive exact match first,
// then substring match.
func (r *Repo) LookupID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM tempat WHERE nama = ? COLLATE NOCASE LIMIT 1`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup place %q: %w", name, err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT id FROM tempat WHERE nama LIKE ? COLLATE NOCASE ORDER BY id LIMIT 1`,
		"%"+name+"%",
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrPlaceNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup place %q: %w", name, err)
	}
	return id, nil
}

func (r *Repo) priceRows(ctx context.Context, id int64) ([]domain.PriceItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item, harga, kategori FROM harga WHERE tempat_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query prices for place %d: %w", id, err)
	}
	defer rows.Close()

	var prices []domain.PriceItem
	for rows.Next() {
		var (
			p        domain.PriceItem
			item     sql.NullString
			price    sql.NullInt64
			category sql.NullString
		)
		if err := rows.Scan(&item, &price, &category); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		p.Item = item.String
		p.Price = price.Int64
		p.Category = category.String
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func (r *Repo) facilities(ctx context.Context, id int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT nama_fasilitas FROM fasilitas WHERE tempat_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query facilities for place %d: %w", id, err)
	}
	defer rows.Close()

	var facilities []string
	for rows.Next() {
		var f sql.NullString
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan facility row: %w", err)
		}
		if f.String != "" {
			facilities = append(facilities, f.String)
		}
	}
	return facilities, rows.Err()
}
