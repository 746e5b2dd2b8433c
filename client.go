// Package campsearch is the embedded client for the campsite review search
// engine. It wires the sqlite store, lexicon, embedding model, and ranking
// engine behind a single entry point, without the HTTP layer.
package campsearch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/campscout/campsearch/internal/domain"
	"github.com/campscout/campsearch/internal/embedding"
	"github.com/campscout/campsearch/internal/lexicon"
	corpusrepo "github.com/campscout/campsearch/internal/repository/corpus"
	historyrepo "github.com/campscout/campsearch/internal/repository/history"
	placerepo "github.com/campscout/campsearch/internal/repository/place"
	placeuc "github.com/campscout/campsearch/internal/usecase/place"
	searchuc "github.com/campscout/campsearch/internal/usecase/search"
)

// Sentinel errors surfaced by the client.
var (
	// ErrNotReady means the engine is missing its corpus or model.
	ErrNotReady = domain.ErrNotReady
	// ErrPlaceNotFound means no place matched the id or name.
	ErrPlaceNotFound = domain.ErrPlaceNotFound
)

// Client is the campsearch SDK entry point.
type Client struct {
	db      *sql.DB
	engine  *searchuc.Engine
	places  *placeuc.Service
	history *historyrepo.Repo
}

// New creates a Client and opens the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.dbPath == "" {
		return nil, errors.New("campsearch: database path required (use WithDatabase)")
	}

	db, err := sql.Open("sqlite3", cfg.dbPath)
	if err != nil {
		return nil, fmt.Errorf("campsearch: open database: %w", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("campsearch: database not ready: %w", err)
	}

	return wireClient(ctx, db, cfg)
}

func wireClient(ctx context.Context, db *sql.DB, cfg *clientConfig) (*Client, error) {
	lex, err := lexicon.Load(cfg.lexiconDir)
	if err != nil {
		cfg.logger.Warn("lexicon load failed", zap.Error(err))
		lex = nil
	}

	// Pass nil interface (not typed nil pointer!) when the model is absent.
	var model searchuc.VectorModel
	if m, err := embedding.Load(cfg.modelPath); err != nil {
		cfg.logger.Warn("model load failed", zap.Error(err))
	} else {
		model = m
	}

	engine := searchuc.New(ctx, corpusrepo.New(db), model, lex, cfg.params, cfg.logger)

	return &Client{
		db:      db,
		engine:  engine,
		places:  placeuc.New(placerepo.New(db)),
		history: historyrepo.New(db),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.engine != nil {
		c.engine.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ready reports whether the engine initialized with a corpus and model.
func (c *Client) Ready() bool {
	return c.engine.Ready()
}

// Search ranks the corpus against the query and returns up to topK distinct
// places. Returns ErrNotReady when the engine is missing its corpus or model.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if !c.engine.Ready() {
		return nil, ErrNotReady
	}
	results, _ := c.engine.Search(ctx, query, topK)
	return fromResults(results), nil
}

// Place fetches the full record for a place id.
func (c *Client) Place(ctx context.Context, id int64) (PlaceDetail, error) {
	detail, err := c.places.Detail(ctx, id)
	if err != nil {
		return PlaceDetail{}, fmt.Errorf("place: %w", err)
	}
	return fromPlaceDetail(detail), nil
}

// LookupPlace resolves a place name to its full record.
func (c *Client) LookupPlace(ctx context.Context, name string) (PlaceDetail, error) {
	detail, err := c.places.Lookup(ctx, name)
	if err != nil {
		return PlaceDetail{}, fmt.Errorf("lookup place: %w", err)
	}
	return fromPlaceDetail(detail), nil
}

// History returns the most recent logged searches, newest first. The search
// log table is created on first use.
func (c *Client) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if err := c.history.Init(ctx); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	entries, err := c.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return fromHistoryEntries(entries), nil
}
