// Package main is the entry point for the trip search API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/tripsearch/backend/internal/catalog"
	"github.com/pkordes/tripsearch/backend/internal/config"
	"github.com/pkordes/tripsearch/backend/internal/handler"
	"github.com/pkordes/tripsearch/backend/internal/metrics"
	"github.com/pkordes/tripsearch/backend/internal/middleware"
	"github.com/pkordes/tripsearch/backend/internal/repo"
	"github.com/pkordes/tripsearch/backend/internal/search"
	"github.com/pkordes/tripsearch/backend/internal/service"
	"github.com/pkordes/tripsearch/backend/internal/suggest"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	m := metrics.New("tripsearch")

	// --- Database (optional) ----------------------------------------------
	// Without DATABASE_URL the server runs on the built-in catalog and keeps
	// no search history.
	var (
		pool    *pgxpool.Pool
		history repo.SearchRepo
		places  = catalog.Default()
	)
	if cfg.DatabaseURL != "" {
		pool, err = repo.Connect(context.Background(), cfg.DatabaseURL, logger)
		if err != nil {
			slog.Error("database setup failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		slog.Info("database connection established")

		extra, err := repo.NewPlaceRepo(pool).List(context.Background())
		if err != nil {
			slog.Error("failed to load places", "error", err)
			os.Exit(1)
		}
		places = catalog.New(extra...)
		history = repo.NewSearchRepo(pool)
	}
	slog.Info("place catalog loaded", "places", places.Len())

	// --- Services ---------------------------------------------------------
	var suggester service.Suggester
	if cfg.SuggestURL != "" {
		suggester = suggest.NewClient(cfg.SuggestURL, cfg.SuggestAPIKey, cfg.SuggestTimeout)
	} else {
		slog.Warn("SUGGEST_URL not set, location lookups use the built-in catalog only")
	}

	resolver := service.NewResolverService(suggester, places, m, logger)
	searches := service.NewSearchService(search.NewBuilder(places), history, cfg.Currency, m, logger)
	sessions := service.NewSessionService(
		repo.NewMemorySessionStore(cfg.SessionTTL, nil),
		resolver,
		searches,
		service.SessionOptions{Currency: cfg.Currency, StrictDates: cfg.StrictSegmentDates},
		m,
		logger,
	)

	var db handler.Pinger
	if pool != nil {
		db = pool
	}
	server := handler.NewServer(sessions, searches, resolver, places, db, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS → MaxBodySize.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", m.Handler())
	server.Register(r)

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a suggestion lookup that runs to its own timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.SuggestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
