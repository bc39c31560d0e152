package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/itinerary"
	"github.com/pkordes/tripsearch/backend/internal/metrics"
	"github.com/pkordes/tripsearch/backend/internal/repo"
)

// suggestionField matches the input fields that can request suggestions,
// e.g. "segments.0.origin".
var suggestionField = regexp.MustCompile(`^segments\.([0-3])\.(origin|destination)$`)

// SessionOptions configures a SessionService.
type SessionOptions struct {
	// Currency is the currency of new sessions.
	Currency string
	// StrictDates re-checks multi-city leg order whenever a date is edited.
	StrictDates bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// SegmentPatch carries the fields of a segment edit; nil fields are left alone.
type SegmentPatch struct {
	Origin      *string
	Destination *string
	Date        *string
}

// FilterPatch carries the fields of a filter edit; nil fields are left alone.
type FilterPatch struct {
	CabinClass *string
	Stops      *string
	MaxPrice   *float64
}

// SuggestionResult is the outcome of one suggestion lookup for a field.
// Stale is true when a newer lookup was issued for the same field while this
// one was running; its places were not applied to the session.
type SuggestionResult struct {
	Field  string
	Seq    uint64
	Stale  bool
	Places []domain.Place
}

// SessionService owns the search form state of each session and applies
// user edits to it.
type SessionService struct {
	store    repo.SessionStore
	resolver *ResolverService
	searches *SearchService
	opts     SessionOptions
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(store repo.SessionStore, resolver *ResolverService, searches *SearchService, opts SessionOptions, m *metrics.Metrics, log *slog.Logger) *SessionService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionService{store: store, resolver: resolver, searches: searches, opts: opts, metrics: m, log: log}
}

// Create starts a session holding the default search state.
func (s *SessionService) Create(ctx context.Context) (domain.Session, error) {
	sess := domain.NewSession(uuid.New(), s.opts.Currency, s.opts.Now())
	created, err := s.store.Create(ctx, sess)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.SessionService.Create: %w", err)
	}
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	s.log.DebugContext(ctx, "session created", "session_id", created.ID)
	return created, nil
}

// Get returns a session. Returns domain.ErrNotFound if it does not exist or expired.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.SessionService.Get: %w", err)
	}
	return sess, nil
}

// Delete discards a session. Returns domain.ErrNotFound if it does not exist.
func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.SessionService.Delete: %w", err)
	}
	s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	return nil
}

// SetTripType switches the session's trip type. Suggestions of legs dropped
// by the switch are discarded.
func (s *SessionService) SetTripType(ctx context.Context, id uuid.UUID, t domain.TripType) (domain.Session, error) {
	return s.update(ctx, id, "SetTripType", func(sess *domain.Session) error {
		if err := s.machine(sess).SetTripType(t); err != nil {
			return err
		}
		n := len(sess.Itinerary.Segments)
		sess.RemapSuggestions(func(i int) (int, bool) {
			return i, i < n
		})
		return nil
	})
}

// AddSegment appends a multi-city leg.
func (s *SessionService) AddSegment(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return s.edit(ctx, id, "AddSegment", func(m *itinerary.Machine) error {
		return m.AddSegment()
	})
}

// RemoveSegment removes the leg at index. Suggestions of later legs move
// along with them.
func (s *SessionService) RemoveSegment(ctx context.Context, id uuid.UUID, index int) (domain.Session, error) {
	return s.update(ctx, id, "RemoveSegment", func(sess *domain.Session) error {
		if err := s.machine(sess).RemoveSegment(index); err != nil {
			return err
		}
		sess.RemapSuggestions(func(i int) (int, bool) {
			switch {
			case i < index:
				return i, true
			case i == index:
				return 0, false
			}
			return i - 1, true
		})
		return nil
	})
}

// Swap exchanges origin and destination of the leg at index.
func (s *SessionService) Swap(ctx context.Context, id uuid.UUID, index int) (domain.Session, error) {
	return s.edit(ctx, id, "Swap", func(m *itinerary.Machine) error {
		return m.Swap(index)
	})
}

// UpdateSegment applies every non-nil field of patch to the leg at index.
// Either all fields apply or none do.
func (s *SessionService) UpdateSegment(ctx context.Context, id uuid.UUID, index int, patch SegmentPatch) (domain.Session, error) {
	return s.edit(ctx, id, "UpdateSegment", func(m *itinerary.Machine) error {
		for _, f := range []struct {
			field domain.SegmentField
			value *string
		}{
			{domain.FieldOrigin, patch.Origin},
			{domain.FieldDestination, patch.Destination},
			{domain.FieldDate, patch.Date},
		} {
			if f.value == nil {
				continue
			}
			if err := m.SetSegmentField(index, f.field, *f.value); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetReturnDate sets the return date of a round trip.
func (s *SessionService) SetReturnDate(ctx context.Context, id uuid.UUID, date string) (domain.Session, error) {
	return s.edit(ctx, id, "SetReturnDate", func(m *itinerary.Machine) error {
		return m.SetReturnDate(date)
	})
}

// IncrementTravellers adds one traveller of kind.
func (s *SessionService) IncrementTravellers(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error) {
	return s.update(ctx, id, "IncrementTravellers", func(sess *domain.Session) error {
		return sess.Travellers.Increment(kind)
	})
}

// DecrementTravellers removes one traveller of kind, never going below the floor.
func (s *SessionService) DecrementTravellers(ctx context.Context, id uuid.UUID, kind domain.TravellerKind) (domain.Session, error) {
	return s.update(ctx, id, "DecrementTravellers", func(sess *domain.Session) error {
		return sess.Travellers.Decrement(kind)
	})
}

// UpdateFilters applies every non-nil field of patch. Max price is clamped
// to the slider range; zero or less removes the cap.
func (s *SessionService) UpdateFilters(ctx context.Context, id uuid.UUID, patch FilterPatch) (domain.Session, error) {
	return s.update(ctx, id, "UpdateFilters", func(sess *domain.Session) error {
		if patch.CabinClass != nil {
			c, err := domain.ParseCabinClass(*patch.CabinClass)
			if err != nil {
				return err
			}
			sess.Filters.CabinClass = c
		}
		if patch.Stops != nil {
			st, err := domain.ParseStops(*patch.Stops)
			if err != nil {
				return err
			}
			sess.Filters.Stops = st
		}
		if patch.MaxPrice != nil {
			sess.Filters.SetMaxPrice(*patch.MaxPrice)
		}
		return nil
	})
}

// Suggest resolves query for field and stores the result as the field's
// displayed suggestions, unless a newer lookup for the same field was issued
// in the meantime. Each field has its own sequence counter.
func (s *SessionService) Suggest(ctx context.Context, id uuid.UUID, field, query string) (SuggestionResult, error) {
	match := suggestionField.FindStringSubmatch(field)
	if match == nil {
		return SuggestionResult{}, fmt.Errorf("%w: unknown suggestion field %q", domain.ErrValidation, field)
	}
	index, _ := strconv.Atoi(match[1])

	var seq uint64
	if _, err := s.store.Update(ctx, id, func(sess *domain.Session) error {
		if index >= len(sess.Itinerary.Segments) {
			return fmt.Errorf("%w: unknown suggestion field %q", domain.ErrValidation, field)
		}
		sess.Issued[field]++
		seq = sess.Issued[field]
		sess.Loading[field] = seq
		return nil
	}); err != nil {
		return SuggestionResult{}, fmt.Errorf("service.SessionService.Suggest: %w", err)
	}

	places := s.resolver.Resolve(ctx, query)

	stale := false
	if _, err := s.store.Update(ctx, id, func(sess *domain.Session) error {
		if sess.Loading[field] == seq {
			delete(sess.Loading, field)
		}
		if sess.Issued[field] != seq {
			stale = true
			return nil
		}
		sess.Suggestions[field] = domain.Suggestions{Seq: seq, Places: places}
		return nil
	}); err != nil {
		return SuggestionResult{}, fmt.Errorf("service.SessionService.Suggest: %w", err)
	}
	if stale {
		s.metrics.StaleSuggestions.Inc()
		s.log.DebugContext(ctx, "discarded stale suggestions", "session_id", id, "field", field, "seq", seq)
	}

	return SuggestionResult{Field: field, Seq: seq, Stale: stale, Places: places}, nil
}

// Submit builds the search request from the session's current state.
func (s *SessionService) Submit(ctx context.Context, id uuid.UUID) (BuildResult, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return BuildResult{}, fmt.Errorf("service.SessionService.Submit: %w", err)
	}
	return s.searches.Submit(ctx, SearchInput{
		Itinerary:  sess.Itinerary,
		Travellers: sess.Travellers,
		Filters:    sess.Filters,
		Currency:   sess.Currency,
	})
}

// edit runs fn against the session's itinerary through the state machine.
func (s *SessionService) edit(ctx context.Context, id uuid.UUID, op string, fn func(*itinerary.Machine) error) (domain.Session, error) {
	return s.update(ctx, id, op, func(sess *domain.Session) error {
		return fn(s.machine(sess))
	})
}

func (s *SessionService) machine(sess *domain.Session) *itinerary.Machine {
	return itinerary.New(&sess.Itinerary,
		itinerary.WithClock(s.opts.Now),
		itinerary.WithStrictDates(s.opts.StrictDates),
	)
}

// update applies fn to the stored session. When fn fails the session is
// left unchanged and returned together with the error.
func (s *SessionService) update(ctx context.Context, id uuid.UUID, op string, fn func(*domain.Session) error) (domain.Session, error) {
	sess, err := s.store.Update(ctx, id, func(sess *domain.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		sess.UpdatedAt = s.opts.Now()
		return nil
	})
	if err != nil {
		return sess, fmt.Errorf("service.SessionService.%s: %w", op, err)
	}
	return sess, nil
}
