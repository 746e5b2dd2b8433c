package corpus

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ddl := []string{
		`CREATE TABLE tempat (
			id INTEGER PRIMARY KEY,
			nama TEXT,
			lokasi TEXT,
			rating_gmaps REAL,
			harga_json TEXT
		)`,
		`CREATE TABLE ulasan (
			id INTEGER PRIMARY KEY,
			tempat_id INTEGER,
			teks_bersih TEXT,
			teks_mentah TEXT
		)`,
	}
	for _, q := range ddl {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func TestLoadAll(t *testing.T) {
	db := openTestDB(t)
	mustExec(t, db, `INSERT INTO tempat (id, nama, lokasi, rating_gmaps) VALUES
		(1, 'Pantai Ngrumput', 'Gunung Kidul', 4.6),
		(2, 'Bukit Pinus', 'Sleman', NULL)`)
	mustExec(t, db, `INSERT INTO ulasan (id, tempat_id, teks_bersih, teks_mentah) VALUES
		(10, 1, 'pantai bersih pasir putih', 'Pantainya bersih, pasirnya putih!'),
		(11, 1, '', 'review without cleaned text'),
		(12, 1, NULL, 'review with null cleaned text'),
		(13, 2, 'hutan pinus sejuk', NULL)`)

	entries, err := New(db).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (empty/null cleaned text excluded), got %d", len(entries))
	}

	first := entries[0]
	if first.ReviewID != 10 || first.PlaceID != 1 {
		t.Errorf("unexpected ids %+v", first)
	}
	if first.PlaceName != "Pantai Ngrumput" || first.Location != "Gunung Kidul" {
		t.Errorf("join fields not populated: %+v", first)
	}
	if first.Rating != 4.6 {
		t.Errorf("expected rating 4.6, got %v", first.Rating)
	}

	// NULL raw text and rating coerce instead of failing the load.
	second := entries[1]
	if second.RawText != "" {
		t.Errorf("expected empty raw text for NULL, got %q", second.RawText)
	}
	if second.Rating != 0 {
		t.Errorf("expected zero rating for NULL, got %v", second.Rating)
	}
}

func TestLoadAll_EmptyCorpus(t *testing.T) {
	db := openTestDB(t)

	entries, err := New(db).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty corpus, got %d entries", len(entries))
	}
}

func mustExec(t *testing.T, db *sql.DB, q string, args ...any) {
	t.Helper()
	if _, err := db.Exec(q, args...); err != nil {
		t.Fatalf("exec %q: %v", q, err)
	}
}
