package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/metrics"
	"github.com/pkordes/tripsearch/backend/internal/repo"
	"github.com/pkordes/tripsearch/backend/internal/search"
)

// SearchInput is the complete search state submitted for a build.
type SearchInput struct {
	Itinerary  domain.Itinerary
	Travellers domain.TravellerCounts
	Filters    domain.Filters
	Currency   string
}

// BuildResult is a successfully built request plus caveats for the user.
type BuildResult struct {
	Request  domain.SearchRequest
	Warnings []string
}

// SearchService builds search requests and keeps the search history.
type SearchService struct {
	builder  *search.Builder
	history  repo.SearchRepo
	currency string
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewSearchService constructs a SearchService. history may be nil, in which
// case built requests are not recorded and History is always empty.
// currency is used when an input carries none.
func NewSearchService(b *search.Builder, history repo.SearchRepo, currency string, m *metrics.Metrics, log *slog.Logger) *SearchService {
	return &SearchService{builder: b, history: history, currency: currency, metrics: m, log: log}
}

// Submit validates in and returns the built request.
// Returns a domain.ValidationErrors (matching domain.ErrValidation) when the
// state is not searchable. Failing to record history is logged, not returned.
func (s *SearchService) Submit(ctx context.Context, in SearchInput) (BuildResult, error) {
	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}

	req, err := s.builder.Build(in.Itinerary, in.Travellers, in.Filters, currency)
	if err != nil {
		s.metrics.Builds.WithLabelValues(metrics.OutcomeInvalid, string(in.Itinerary.TripType)).Inc()
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			for _, msg := range verrs {
				s.metrics.ValidationErrors.WithLabelValues(msg).Inc()
			}
		}
		return BuildResult{}, err
	}
	s.metrics.Builds.WithLabelValues(metrics.OutcomeOK, string(in.Itinerary.TripType)).Inc()

	if s.history != nil {
		rec := domain.SearchRecord{Request: req, TripType: in.Itinerary.TripType}
		if _, err := s.history.Create(ctx, rec); err != nil {
			s.log.ErrorContext(ctx, "failed to record search", "origin", req.Origin, "destination", req.Destination, "error", err)
		}
	}

	return BuildResult{Request: req, Warnings: search.Warnings(in.Itinerary)}, nil
}

// History returns one page of recorded searches, newest first, and the total count.
// Always returns a non-nil slice.
func (s *SearchService) History(ctx context.Context, p domain.PaginationParams) ([]domain.SearchRecord, int64, error) {
	if s.history == nil {
		return []domain.SearchRecord{}, 0, nil
	}
	records, total, err := s.history.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.SearchService.History: %w", err)
	}
	if records == nil {
		records = []domain.SearchRecord{}
	}
	return records, total, nil
}
