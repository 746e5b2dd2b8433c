// Package chi exposes the search engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campscout/campsearch/internal/domain"
	"github.com/campscout/campsearch/internal/metrics"
	healthuc "github.com/campscout/campsearch/internal/usecase/health"
)

// Searcher ranks the corpus against a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]domain.Result, domain.Debug)
	Ready() bool
}

// PlaceReader serves full place records.
type PlaceReader interface {
	Detail(ctx context.Context, id int64) (domain.PlaceDetail, error)
	Lookup(ctx context.Context, name string) (domain.PlaceDetail, error)
}

// HistoryStore appends and lists the search log.
type HistoryStore interface {
	Record(ctx context.Context, e domain.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// ResultCache caches serialized search responses. May be absent.
type ResultCache interface {
	Get(ctx context.Context, query string, topK int) ([]byte, bool)
	Set(ctx context.Context, query string, topK int, value []byte)
}

// Limits bounds client-supplied paging parameters.
type Limits struct {
	DefaultTopK int
	MaxTopK     int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the search API.
type Server struct {
	engine        Searcher
	places        PlaceReader
	history       HistoryStore
	cache         ResultCache
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. cache may be nil.
func NewServer(
	engine Searcher,
	places PlaceReader,
	history HistoryStore,
	cache ResultCache,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.DefaultTopK <= 0 {
		limits.DefaultTopK = 20
	}
	if limits.MaxTopK <= 0 {
		limits.MaxTopK = 100
	}
	s := &Server{
		engine:  engine,
		places:  places,
		history: history,
		cache:   cache,
		health:  health,
		limits:  limits,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrPlaceNotFound, http.StatusNotFound, "place_not_found"),
		sentinelHandler(domain.ErrNotReady, http.StatusServiceUnavailable, "engine_not_ready"),
	}
	return s
}

// Routes registers the API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/search", s.Search)
	r.Get("/v1/places/lookup", s.LookupPlace)
	r.Get("/v1/places/{id}", s.GetPlace)
	r.Get("/v1/history", s.ListHistory)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type searchResponse struct {
	Query           string          `json:"query"`
	NormalizedQuery string          `json:"normalized_query"`
	Intent          domain.Intent   `json:"intent,omitempty"`
	RegionTerms     []string        `json:"region_terms,omitempty"`
	Results         []domain.Result `json:"results"`
}

// Search handles GET /v1/search?q=...&top_k=N.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Query parameter q is required")
		return
	}

	topK, err := s.parseTopK(r.URL.Query().Get("top_k"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if s.cache != nil {
		if data, ok := s.cache.Get(r.Context(), query, topK); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
			return
		}
	}

	start := time.Now()
	results, debug := s.engine.Search(r.Context(), query, topK)
	elapsed := time.Since(start)

	metrics.SearchDuration.Observe(elapsed.Seconds())
	metrics.SearchResults.Observe(float64(len(results)))
	metrics.SearchesTotal.WithLabelValues(searchOutcome(s.engine, results, debug)).Inc()

	if results == nil {
		results = []domain.Result{}
	}
	resp := searchResponse{
		Query:           query,
		NormalizedQuery: debug.NormalizedQuery,
		Intent:          debug.Intent,
		RegionTerms:     debug.RegionTerms,
		Results:         results,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal search response", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if s.cache != nil {
		s.cache.Set(r.Context(), query, topK, data)
	}
	s.recordHistory(query, results, debug, elapsed)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// recordHistory appends the search log row without blocking the response.
func (s *Server) recordHistory(query string, results []domain.Result, debug domain.Debug, elapsed time.Duration) {
	if s.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		At:              time.Now(),
		Query:           query,
		NormalizedQuery: debug.NormalizedQuery,
		Intent:          debug.Intent,
		RegionTerms:     debug.RegionTerms,
		ResultCount:     len(results),
		TopResult:       debug.TopResult,
		Duration:        elapsed,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("record search history failed", zap.Error(err))
		}
	}()
}

func (s *Server) parseTopK(raw string) (int, error) {
	if raw == "" {
		return s.limits.DefaultTopK, nil
	}
	topK, err := strconv.Atoi(raw)
	if err != nil || topK <= 0 {
		return 0, errors.New("top_k must be a positive integer")
	}
	if topK > s.limits.MaxTopK {
		topK = s.limits.MaxTopK
	}
	return topK, nil
}

func searchOutcome(engine Searcher, results []domain.Result, debug domain.Debug) string {
	switch {
	case !engine.Ready():
		return "not_ready"
	case debug.Intent != domain.IntentNone:
		return "intent"
	case len(results) == 0:
		return "empty"
	default:
		return "scored"
	}
}

type placeResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Location    string             `json:"location"`
	Rating      float64            `json:"rating"`
	Prices      []domain.PriceItem `json:"prices"`
	PriceSource domain.PriceSource `json:"price_source"`
	Facilities  []string           `json:"facilities"`
}

func placeToResponse(d domain.PlaceDetail) placeResponse {
	resp := placeResponse{
		ID:          d.Place.ID,
		Name:        d.Place.Name,
		Location:    d.Place.Location,
		Rating:      d.Place.Rating,
		Prices:      d.Prices,
		PriceSource: d.PriceSource,
		Facilities:  d.Facilities,
	}
	if resp.Prices == nil {
		resp.Prices = []domain.PriceItem{}
	}
	if resp.Facilities == nil {
		resp.Facilities = []string{}
	}
	return resp
}

// GetPlace handles GET /v1/places/{id}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "Place id must be a positive integer")
		return
	}

	detail, err := s.places.Detail(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, placeToResponse(detail))
}

// LookupPlace handles GET /v1/places/lookup?name=...
func (s *Server) LookupPlace(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Query parameter name is required")
		return
	}

	detail, err := s.places.Lookup(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, placeToResponse(detail))
}

type historyResponse struct {
	Items []domain.HistoryEntry `json:"items"`
}

// ListHistory handles GET /v1/history?limit=N.
func (s *Server) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "limit must be a positive integer")
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Items: entries})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPlaceNotFound,
		domain.ErrNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
