// Package handler implements the HTTP handlers for the trip search API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, places.go, searches.go, sessions.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripsearch/backend/internal/codes"
	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/service"
)

// SessionServicer defines the session operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the service layer.
type SessionServicer interface {
	Create(ctx context.Context) (domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetTripType(ctx context.Context, id uuid.UUID, t domain.TripType) (domain.Session, error)
	AddSegment(ctx context.Context, id uuid.UUID) (domain.Session, error)
	RemoveSegment(ctx context.Context, id uuid.UUID, index int) (domain.Session, error)
	Swap(ctx context.Context, id uuid.UUID, index int) (domain.Session, error)
	UpdateSegment(ctx context.Context, id uuid.UUID, index int, patch service.SegmentPatch) (domain.Session, error)
	SetReturnDate(ctx context.Context, id uuid.UUID, date string) (domain.Session, error)
	IncrementTravellers(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error)
	DecrementTravellers(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error)
	UpdateFilters(ctx context.Context, id uuid.UUID, patch service.FilterPatch) (domain.Session, error)
	Suggest(ctx context.Context, id uuid.UUID, field, query string) (service.SuggestionResult, error)
	Submit(ctx context.Context, id uuid.UUID) (service.BuildResult, error)
}

// SearchServicer defines the stateless search operations.
type SearchServicer interface {
	Submit(ctx context.Context, in service.SearchInput) (service.BuildResult, error)
	History(ctx context.Context, p domain.PaginationParams) ([]domain.SearchRecord, int64, error)
}

// PlaceResolver turns typed text into place candidates.
type PlaceResolver interface {
	Resolve(ctx context.Context, query string) []domain.Place
}

// Pinger reports whether a backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of every handler.
type Server struct {
	sessions SessionServicer
	searches SearchServicer
	places   PlaceResolver
	matcher  codes.Matcher
	db       Pinger
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies. db may be nil
// when the service runs without Postgres.
func NewServer(sessions SessionServicer, searches SearchServicer, places PlaceResolver, matcher codes.Matcher, db Pinger, log *slog.Logger) *Server {
	return &Server{
		sessions: sessions,
		searches: searches,
		places:   places,
		matcher:  matcher,
		db:       db,
		log:      log,
	}
}

// Register mounts every API route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Get("/places", s.ListPlaces)
	r.Get("/codes", s.ExtractCode)

	r.Route("/searches", func(r chi.Router) {
		r.Post("/", s.CreateSearch)
		r.Get("/", s.ListSearches)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/trip-type", s.SetTripType)
			r.Post("/segments", s.AddSegment)
			r.Patch("/segments/{index}", s.UpdateSegment)
			r.Delete("/segments/{index}", s.RemoveSegment)
			r.Post("/segments/{index}/swap", s.SwapSegment)
			r.Put("/return-date", s.SetReturnDate)
			r.Post("/travellers/{kind}/{op}", s.ChangeTravellers)
			r.Put("/filters", s.UpdateFilters)
			r.Post("/suggestions", s.Suggest)
			r.Post("/submit", s.SubmitSession)
		})
	})
}

// Routes returns a router serving every API route.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	s.Register(r)
	return r
}
