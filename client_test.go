package campsearch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestNew_NoDatabase(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no database path provided")
	}
}

func TestNew_EmptyDatabaseNotReady(t *testing.T) {
	// A fresh sqlite file has no corpus, so the engine stays fail-soft
	// not-ready and Search reports it.
	c, err := New(WithDatabase(filepath.Join(t.TempDir(), "empty.db")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if c.Ready() {
		t.Error("expected not-ready engine for empty database")
	}
	if _, err := c.Search(context.Background(), "pantai bersih", 5); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestLookupPlace_BlankName(t *testing.T) {
	c, err := New(WithDatabase(filepath.Join(t.TempDir(), "empty.db")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.LookupPlace(context.Background(), "  "); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound for blank name, got %v", err)
	}
}

func TestHistory_EmptyDatabase(t *testing.T) {
	c, err := New(WithDatabase(filepath.Join(t.TempDir(), "empty.db")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	entries, err := c.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no history, got %d entries", len(entries))
	}
}
