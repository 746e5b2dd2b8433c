package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/mattn/go-sqlite3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/campscout/campsearch/internal/config"
	"github.com/campscout/campsearch/internal/embedding"
	"github.com/campscout/campsearch/internal/lexicon"
	logpkg "github.com/campscout/campsearch/internal/logger"
	"github.com/campscout/campsearch/internal/metrics"
	corpusrepo "github.com/campscout/campsearch/internal/repository/corpus"
	historyrepo "github.com/campscout/campsearch/internal/repository/history"
	placerepo "github.com/campscout/campsearch/internal/repository/place"
	"github.com/campscout/campsearch/internal/repository/resultcache"
	chiTransport "github.com/campscout/campsearch/internal/transport/chi"
	healthuc "github.com/campscout/campsearch/internal/usecase/health"
	placeuc "github.com/campscout/campsearch/internal/usecase/place"
	searchuc "github.com/campscout/campsearch/internal/usecase/search"
	"github.com/campscout/campsearch/internal/version"
)

func main() {
	app := &cli.App{
		Name:  "campsearch",
		Usage: "Campsite review search engine",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveAction,
			},
			{
				Name:      "query",
				Usage:     "Run a one-shot search and print the results",
				ArgsUsage: "<query text>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of places to return",
						Value:   10,
					},
				},
				Action: queryAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveAction(c *cli.Context) error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting campsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_path", cfg.Database.Path),
	)

	ctx := c.Context

	db, err := openDatabase(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Connected to database")

	historyRepo := historyrepo.New(db)
	if err := historyRepo.Init(ctx); err != nil {
		return fmt.Errorf("init search log: %w", err)
	}

	metrics.RegisterSearchMetrics()

	engine := buildEngine(ctx, cfg, db, logger)
	defer engine.Close()

	// Result cache is optional; no addrs means uncached operation.
	// Pass nil interface (not typed nil pointer!) if the cache is absent.
	var cacheIface chiTransport.ResultCache
	if len(cfg.Cache.Addrs) > 0 {
		cache, err := resultcache.New(resultcache.Config{
			Addrs:     cfg.Cache.Addrs,
			Password:  cfg.Cache.Password,
			KeyPrefix: cfg.Cache.KeyPrefix,
			TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.ResultCacheTotal, logger)
		if err != nil {
			logger.Warn("result cache disabled", zap.Error(err))
		} else {
			defer cache.Close()
			cacheIface = cache
			logger.Info("Result cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
		}
	}

	placeSvc := placeuc.New(placerepo.New(db))
	healthSvc := healthuc.New(sqlPinger{db: db}, engine)

	server := chiTransport.NewServer(
		engine, placeSvc, historyRepo, cacheIface, healthSvc,
		chiTransport.Limits{DefaultTopK: cfg.Search.DefaultTopK, MaxTopK: cfg.Search.MaxTopK},
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func queryAction(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return fmt.Errorf("usage: campsearch query <query text>")
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()

	ctx := c.Context
	db, err := openDatabase(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := buildEngine(ctx, cfg, db, logger)
	defer engine.Close()

	if !engine.Ready() {
		return fmt.Errorf("engine not ready: check database, model, and lexicon paths")
	}

	results, debug := engine.Search(ctx, query, c.Int("top-k"))
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	if debug.NormalizedQuery != query {
		fmt.Printf("normalized: %s\n", debug.NormalizedQuery)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RELEVANCE\tPLACE\tLOCATION")
	for _, res := range results {
		fmt.Fprintf(w, "%.1f\t%s\t%s\n", res.Relevance, res.PlaceName, res.Location)
	}
	return w.Flush()
}

// buildEngine assembles the search engine. Missing model or lexicon files
// degrade to a not-ready engine rather than aborting startup.
func buildEngine(ctx context.Context, cfg config.Config, db *sql.DB, logger *zap.Logger) *searchuc.Engine {
	lex, err := lexicon.Load(cfg.Lexicon.Dir)
	if err != nil {
		logger.Warn("lexicon load failed", zap.String("dir", cfg.Lexicon.Dir), zap.Error(err))
		lex = nil
	}

	// Pass nil interface (not typed nil pointer!) when the model is absent.
	var model searchuc.VectorModel
	if m, err := embedding.Load(cfg.Model.Path); err != nil {
		logger.Warn("model load failed", zap.String("path", cfg.Model.Path), zap.Error(err))
	} else {
		model = m
	}

	params := searchuc.DefaultParams()
	params.SemanticWeight = cfg.Search.SemanticWeight
	params.KeywordWeight = cfg.Search.KeywordWeight
	params.NegationPenalty = cfg.Search.NegationPenalty
	params.AntonymPenalty = cfg.Search.AntonymPenalty
	params.ScoreFloor = cfg.Search.ScoreFloor

	return searchuc.New(ctx, corpusrepo.New(db), model, lex, params, logger)
}

func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}
	return db, nil
}

// sqlPinger adapts *sql.DB to the health check interface.
type sqlPinger struct {
	db *sql.DB
}

func (p sqlPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
