// Package service contains the business logic of the trip search API.
// Services orchestrate the catalog, the suggestion client, the builder and
// the repos; they depend on interfaces declared here, not implementations.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/metrics"
)

// Result caps applied by Resolve.
const (
	BrowseLimit   = 8
	RemoteLimit   = 12
	FallbackLimit = 10
	minQueryRunes = 2
)

// Suggester is the remote Location Suggestion Service.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]domain.Place, error)
}

// PlaceSource is the static place catalog.
type PlaceSource interface {
	TopN(n int) []domain.Place
	Search(query string, limit int) []domain.Place
}

// ResolverService turns typed text into ranked place candidates.
type ResolverService struct {
	suggester Suggester
	places    PlaceSource
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewResolverService constructs a ResolverService. A nil suggester makes
// every lookup use the catalog.
func NewResolverService(s Suggester, places PlaceSource, m *metrics.Metrics, log *slog.Logger) *ResolverService {
	return &ResolverService{suggester: s, places: places, metrics: m, log: log}
}

// Resolve returns place candidates for query. It never fails:
//   - fewer than 2 characters: the first 8 catalog places, no remote call.
//   - otherwise the suggestion service, de-duplicated by (code, city) and
//     capped at 12.
//   - if the service fails or has nothing usable, catalog matches capped at 10.
func (s *ResolverService) Resolve(ctx context.Context, query string) []domain.Place {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minQueryRunes {
		s.metrics.Resolutions.WithLabelValues(metrics.SourceBrowse).Inc()
		return s.places.TopN(BrowseLimit)
	}

	if s.suggester != nil {
		places, err := s.suggest(ctx, q)
		if err == nil && len(places) > 0 {
			s.metrics.Resolutions.WithLabelValues(metrics.SourceRemote).Inc()
			return domain.DedupePlaces(places, RemoteLimit)
		}
		if err != nil {
			s.log.WarnContext(ctx, "location suggestion failed, using catalog", "query", q, "error", err)
		}
	}

	s.metrics.Resolutions.WithLabelValues(metrics.SourceFallback).Inc()
	return domain.DedupePlaces(s.places.Search(q, FallbackLimit), FallbackLimit)
}

func (s *ResolverService) suggest(ctx context.Context, q string) ([]domain.Place, error) {
	start := time.Now()
	defer func() { s.metrics.SuggestLatency.Observe(time.Since(start).Seconds()) }()

	return s.suggester.Suggest(ctx, q)
}
