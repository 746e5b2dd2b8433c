package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chiv5 "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/campscout/campsearch/internal/domain"
	healthuc "github.com/campscout/campsearch/internal/usecase/health"
)

// --- Mocks ---

type mockEngine struct {
	ready    bool
	results  []domain.Result
	debug    domain.Debug
	lastTopK int
}

func (m *mockEngine) Search(_ context.Context, _ string, topK int) ([]domain.Result, domain.Debug) {
	m.lastTopK = topK
	return m.results, m.debug
}

func (m *mockEngine) Ready() bool { return m.ready }

type mockPlaces struct {
	details map[int64]domain.PlaceDetail
	names   map[string]int64
}

func (m *mockPlaces) Detail(_ context.Context, id int64) (domain.PlaceDetail, error) {
	d, ok := m.details[id]
	if !ok {
		return domain.PlaceDetail{}, domain.ErrPlaceNotFound
	}
	return d, nil
}

func (m *mockPlaces) Lookup(_ context.Context, name string) (domain.PlaceDetail, error) {
	id, ok := m.names[name]
	if !ok {
		return domain.PlaceDetail{}, domain.ErrPlaceNotFound
	}
	return m.Detail(context.Background(), id)
}

type mockHistory struct {
	recorded chan domain.HistoryEntry
	entries  []domain.HistoryEntry
}

func (m *mockHistory) Record(_ context.Context, e domain.HistoryEntry) error {
	if m.recorded != nil {
		m.recorded <- e
	}
	return nil
}

func (m *mockHistory) Recent(_ context.Context, _ int) ([]domain.HistoryEntry, error) {
	return m.entries, nil
}

type mockCache struct {
	data map[string][]byte
	sets int
}

func (m *mockCache) Get(_ context.Context, query string, topK int) ([]byte, bool) {
	v, ok := m.data[query]
	return v, ok
}

func (m *mockCache) Set(_ context.Context, query string, topK int, value []byte) {
	m.data[query] = value
	m.sets++
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type failPinger struct{}

func (failPinger) Ping(context.Context) error { return context.DeadlineExceeded }

// --- Helpers ---

func newTestRouter(s *Server) http.Handler {
	r := chiv5.NewRouter()
	s.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

// --- Tests ---

func TestSearch_OK(t *testing.T) {
	engine := &mockEngine{
		ready: true,
		results: []domain.Result{
			{PlaceName: "Pantai Ngrumput", Location: "Gunung Kidul", ReviewText: "pantainya bersih", Relevance: 91.2},
		},
		debug: domain.Debug{NormalizedQuery: "pantai bersih", TopResult: "Pantai Ngrumput"},
	}
	hist := &mockHistory{recorded: make(chan domain.HistoryEntry, 1)}
	s := NewServer(engine, &mockPlaces{}, hist, nil, healthuc.New(okPinger{}, engine), Limits{}, zap.NewNop())

	rec := doRequest(t, newTestRouter(s), http.MethodGet, "/v1/search?q=pantai+bersih")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Query != "pantai bersih" {
		t.Errorf("unexpected query %q", resp.Query)
	}
	if resp.NormalizedQuery != "pantai bersih" {
		t.Errorf("unexpected normalized query %q", resp.NormalizedQuery)
	}
	if len(resp.Results) != 1 || resp.Results[0].PlaceName != "Pantai Ngrumput" {
		t.Errorf("unexpected results %+v", resp.Results)
	}
	if engine.lastTopK != 20 {
		t.Errorf("expected default top_k 20, got %d", engine.lastTopK)
	}

	select {
	case e := <-hist.recorded:
		if e.Query != "pantai bersih" || e.ResultCount != 1 || e.TopResult != "Pantai Ngrumput" {
			t.Errorf("unexpected history entry %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("history entry was not recorded")
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	engine := &mockEngine{ready: true}
	s := NewServer(engine, &mockPlaces{}, &mockHistory{}, nil, healthuc.New(okPinger{}, engine), Limits{}, zap.NewNop())

	rec := doRequest(t, newTestRouter(s), http.MethodGet, "/v1/search")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "bad_request" {
		t.Errorf("unexpected error code %q", e.Code)
	}
}

func TestSearch_TopKValidation(t *testing.T) {
	engine := &mockEngine{ready: true}
	s := NewServer(engine, &mockPlaces{}, &mockHistory{}, nil, healthuc.New(okPinger{}, engine),
		Limits{DefaultTopK: 10, MaxTopK: 50}, zap.NewNop())
	router := newTestRouter(s)

	rec := doRequest(t, router, http.MethodGet, "/v1/search?q=pantai&top_k=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric top_k, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/search?q=pantai&top_k=-3")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative top_k, got %d", rec.Code)
	}

	// Oversized top_k clamps rather than errors.
	rec = doRequest(t, router, http.MethodGet, "/v1/search?q=pantai&top_k=9999")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if engine.lastTopK != 50 {
		t.Errorf("expected top_k clamped to 50, got %d", engine.lastTopK)
	}
}

func TestSearch_CacheHitSkipsEngine(t *testing.T) {
	engine := &mockEngine{ready: true, results: []domain.Result{{PlaceName: "fresh"}}}
	cache := &mockCache{data: map[string][]byte{}}
	s := NewServer(engine, &mockPlaces{}, &mockHistory{}, cache, healthuc.New(okPinger{}, engine), Limits{}, zap.NewNop())
	router := newTestRouter(s)

	// First request misses and populates the cache.
	rec := doRequest(t, router, http.MethodGet, "/v1/search?q=pantai")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache set, got %d", cache.sets)
	}
	firstBody := rec.Body.String()

	// Second request is served from the cache byte for byte.
	engine.lastTopK = -1
	rec = doRequest(t, router, http.MethodGet, "/v1/search?q=pantai")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Cache") != "hit" {
		t.Error("expected X-Cache: hit header")
	}
	if rec.Body.String() != firstBody {
		t.Error("cached body differs from original response")
	}
	if engine.lastTopK != -1 {
		t.Error("engine was called despite cache hit")
	}
}

func TestGetPlace(t *testing.T) {
	engine := &mockEngine{ready: true}
	places := &mockPlaces{details: map[int64]domain.PlaceDetail{
		7: {
			Place:       domain.Place{ID: 7, Name: "Pantai Ngrumput", Location: "Gunung Kidul", Rating: 4.6},
			Prices:      []domain.PriceItem{{Item: "tiket masuk", Price: 10000, Category: "tiket"}},
			PriceSource: domain.PriceSourceRows,
			Facilities:  []string{"toilet", "warung"},
		},
	}}
	s := NewServer(engine, places, &mockHistory{}, nil, healthuc.New(okPinger{}, engine), Limits{}, zap.NewNop())
	router := newTestRouter(s)

	rec := doRequest(t, router, http.MethodGet, "/v1/places/7")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp placeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 7 || resp.Name != "Pantai Ngrumput" || resp.PriceSource != domain.PriceSourceRows {
		t.Errorf("unexpected place %+v", resp)
	}
	if len(resp.Prices) != 1 || resp.Prices[0].Price != 10000 {
		t.Errorf("unexpected prices %+v", resp.Prices)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/places/99")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "place_not_found" {
		t.Errorf("unexpected error code %q", e.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/places/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func TestLookupPlace(t *testing.T) {
	engine := &mockEngine{ready: true}
	places := &mockPlaces{
		details: map[int64]domain.PlaceDetail{7: {Place: domain.Place{ID: 7, Name: "Bukit Pinus"}}},
		names:   map[string]int64{"Bukit Pinus": 7},
	}
	s := NewServer(engine, places, &mockHistory{}, nil, healthuc.New(okPinger{}, engine), Limits{}, zap.NewNop())
	router := newTestRouter(s)

	rec := doRequest(t, router, http.MethodGet, "/v1/places/lookup?name=Bukit+Pinus")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/places/lookup")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
}

func TestListHistory(t *testing.T) {
	engine := &mockEngine{ready: true}
	hist := &mockHistory{entries: []domain.HistoryEntry{
		{ID: 2, Query: "pantai bersih", ResultCount: 3},
		{ID: 1, Query: "semua tempat", ResultCount: 20},
	}}
	s := NewServer(engine, &mockPlaces{}, hist, nil, healthuc.New(okPinger{}, engine), Limits{}, zap.NewNop())
	router := newTestRouter(s)

	rec := doRequest(t, router, http.MethodGet, "/v1/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Query != "pantai bersih" {
		t.Errorf("unexpected history %+v", resp.Items)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/history?limit=0")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	engine := &mockEngine{ready: true}
	s := NewServer(engine, &mockPlaces{}, &mockHistory{}, nil, healthuc.New(okPinger{}, engine), Limits{}, zap.NewNop())
	rec := doRequest(t, newTestRouter(s), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	s = NewServer(engine, &mockPlaces{}, &mockHistory{}, nil, healthuc.New(failPinger{}, engine), Limits{}, zap.NewNop())
	rec = doRequest(t, newTestRouter(s), http.MethodGet, "/healthz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when database is down, got %d", rec.Code)
	}
}
