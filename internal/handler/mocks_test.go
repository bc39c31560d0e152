package handler_test

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripsearch/backend/internal/catalog"
	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/handler"
	"github.com/pkordes/tripsearch/backend/internal/service"
)

// mockSessionServicer is a test double for handler.SessionServicer.
// Set only the method fields your test needs.
type mockSessionServicer struct {
	create        func(ctx context.Context) (domain.Session, error)
	get           func(ctx context.Context, id uuid.UUID) (domain.Session, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	setTripType   func(ctx context.Context, id uuid.UUID, t domain.TripType) (domain.Session, error)
	addSegment    func(ctx context.Context, id uuid.UUID) (domain.Session, error)
	removeSegment func(ctx context.Context, id uuid.UUID, index int) (domain.Session, error)
	swap          func(ctx context.Context, id uuid.UUID, index int) (domain.Session, error)
	updateSegment func(ctx context.Context, id uuid.UUID, index int, patch service.SegmentPatch) (domain.Session, error)
	setReturnDate func(ctx context.Context, id uuid.UUID, date string) (domain.Session, error)
	increment     func(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error)
	decrement     func(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error)
	updateFilters func(ctx context.Context, id uuid.UUID, patch service.FilterPatch) (domain.Session, error)
	suggest       func(ctx context.Context, id uuid.UUID, field, query string) (service.SuggestionResult, error)
	submit        func(ctx context.Context, id uuid.UUID) (service.BuildResult, error)
}

func (m *mockSessionServicer) Create(ctx context.Context) (domain.Session, error) {
	return m.create(ctx)
}
func (m *mockSessionServicer) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return m.get(ctx, id)
}
func (m *mockSessionServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockSessionServicer) SetTripType(ctx context.Context, id uuid.UUID, t domain.TripType) (domain.Session, error) {
	return m.setTripType(ctx, id, t)
}
func (m *mockSessionServicer) AddSegment(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return m.addSegment(ctx, id)
}
func (m *mockSessionServicer) RemoveSegment(ctx context.Context, id uuid.UUID, index int) (domain.Session, error) {
	return m.removeSegment(ctx, id, index)
}
func (m *mockSessionServicer) Swap(ctx context.Context, id uuid.UUID, index int) (domain.Session, error) {
	return m.swap(ctx, id, index)
}
func (m *mockSessionServicer) UpdateSegment(ctx context.Context, id uuid.UUID, index int, patch service.SegmentPatch) (domain.Session, error) {
	return m.updateSegment(ctx, id, index, patch)
}
func (m *mockSessionServicer) SetReturnDate(ctx context.Context, id uuid.UUID, date string) (domain.Session, error) {
	return m.setReturnDate(ctx, id, date)
}
func (m *mockSessionServicer) IncrementTravellers(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error) {
	return m.increment(ctx, id, kind)
}
func (m *mockSessionServicer) DecrementTravellers(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error) {
	return m.decrement(ctx, id, kind)
}
func (m *mockSessionServicer) UpdateFilters(ctx context.Context, id uuid.UUID, patch service.FilterPatch) (domain.Session, error) {
	return m.updateFilters(ctx, id, patch)
}
func (m *mockSessionServicer) Suggest(ctx context.Context, id uuid.UUID, field, query string) (service.SuggestionResult, error) {
	return m.suggest(ctx, id, field, query)
}
func (m *mockSessionServicer) Submit(ctx context.Context, id uuid.UUID) (service.BuildResult, error) {
	return m.submit(ctx, id)
}

// mockSearchServicer is a test double for handler.SearchServicer.
type mockSearchServicer struct {
	submit  func(ctx context.Context, in service.SearchInput) (service.BuildResult, error)
	history func(ctx context.Context, p domain.PaginationParams) ([]domain.SearchRecord, int64, error)
}

func (m *mockSearchServicer) Submit(ctx context.Context, in service.SearchInput) (service.BuildResult, error) {
	return m.submit(ctx, in)
}
func (m *mockSearchServicer) History(ctx context.Context, p domain.PaginationParams) ([]domain.SearchRecord, int64, error) {
	return m.history(ctx, p)
}

// mockResolver is a test double for handler.PlaceResolver.
type mockResolver struct {
	resolve func(ctx context.Context, query string) []domain.Place
}

func (m *mockResolver) Resolve(ctx context.Context, query string) []domain.Place {
	return m.resolve(ctx, query)
}

// mockPinger is a test double for handler.Pinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.SessionServicer = (*mockSessionServicer)(nil)
	_ handler.SearchServicer  = (*mockSearchServicer)(nil)
	_ handler.PlaceResolver   = (*mockResolver)(nil)
	_ handler.Pinger          = (*mockPinger)(nil)
)

// deps collects the doubles one test wires; nil fields stay unset.
type deps struct {
	sessions handler.SessionServicer
	searches handler.SearchServicer
	places   handler.PlaceResolver
	db       handler.Pinger
}

// newHTTPHandler wires a Server with the given doubles into a chi router,
// the way main.go wires it in production.
func newHTTPHandler(d deps) http.Handler {
	srv := handler.NewServer(d.sessions, d.searches, d.places, catalog.Default(), d.db, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	srv.Register(r)
	return r
}
