// Package history persists the per-query search log.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/campscout/campsearch/internal/domain"
)

// Repo appends and lists search log rows. Recording is best-effort from the
// caller's perspective; the engine itself never writes here.
type Repo struct {
	db *sql.DB
}

// New creates a history repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Init creates the search log table when absent.
func (r *Repo) Init(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS riwayat (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			waktu TEXT,
			query TEXT,
			normalized_query TEXT,
			intent TEXT,
			regions TEXT,
			jumlah_hasil INTEGER,
			top_result TEXT,
			duration_ms INTEGER
		)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create riwayat table: %w", err)
	}
	return nil
}

// Record appends one search log row.
func (r *Repo) Record(ctx context.Context, e domain.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO riwayat (waktu, query, normalized_query, intent, regions, jumlah_hasil, top_result, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.At.Format("2006-01-02 15:04:05"),
		e.Query,
		e.NormalizedQuery,
		string(e.Intent),
		strings.Join(e.RegionTerms, ","),
		e.ResultCount,
		e.TopResult,
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}

// Recent returns the latest logged searches, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, waktu, query, normalized_query, intent, regions, jumlah_hasil, top_result, duration_ms
		FROM riwayat ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query search log: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			e          domain.HistoryEntry
			at         sql.NullString
			query      sql.NullString
			normalized sql.NullString
			intent     sql.NullString
			regions    sql.NullString
			topResult  sql.NullString
			durationMS sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &at, &query, &normalized, &intent, &regions, &e.ResultCount, &topResult, &durationMS); err != nil {
			return nil, fmt.Errorf("scan search log row: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", at.String); err == nil {
			e.At = t
		}
		e.Query = query.String
		e.NormalizedQuery = normalized.String
		e.Intent = domain.Intent(intent.String)
		if regions.String != "" {
			e.RegionTerms = strings.Split(regions.String, ",")
		}
		e.TopResult = topResult.String
		e.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
