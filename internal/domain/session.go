package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Suggestions is the list currently displayed under one input field,
// tagged with the sequence number of the lookup that produced it.
type Suggestions struct {
	Seq    uint64  `json:"seq"`
	Places []Place `json:"places"`
}

// Session is the explicitly owned search state behind one search form:
// itinerary, travellers, filters and per-field suggestion lists.
type Session struct {
	ID          uuid.UUID              `json:"id"`
	Itinerary   Itinerary              `json:"itinerary"`
	Travellers  TravellerCounts        `json:"travellers"`
	Filters     Filters                `json:"filters"`
	Currency    string                 `json:"currency"`
	Suggestions map[string]Suggestions `json:"suggestions"`
	// Issued holds the latest sequence number handed out per field.
	Issued map[string]uint64 `json:"-"`
	// Loading holds, per field, the sequence number of a lookup that is
	// still running and has not been superseded.
	Loading   map[string]uint64 `json:"-"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession returns a session holding the default search state.
func NewSession(id uuid.UUID, currency string, now time.Time) Session {
	return Session{
		ID:          id,
		Itinerary:   NewItinerary(now),
		Travellers:  DefaultTravellers(),
		Filters:     DefaultFilters(),
		Currency:    currency,
		Suggestions: map[string]Suggestions{},
		Issued:      map[string]uint64{},
		Loading:     map[string]uint64{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Itinerary = s.Itinerary.Clone()
	out.Suggestions = make(map[string]Suggestions, len(s.Suggestions))
	for k, v := range s.Suggestions {
		v.Places = append([]Place(nil), v.Places...)
		out.Suggestions[k] = v
	}
	out.Issued = make(map[string]uint64, len(s.Issued))
	for k, v := range s.Issued {
		out.Issued[k] = v
	}
	out.Loading = make(map[string]uint64, len(s.Loading))
	for k, v := range s.Loading {
		out.Loading[k] = v
	}
	return out
}

// SuggestionKey is the key of the suggestion list under one segment input,
// e.g. "segments.0.origin".
func SuggestionKey(index int, field SegmentField) string {
	return fmt.Sprintf("segments.%d.%s", index, field)
}

// ParseSuggestionKey splits a key built by SuggestionKey.
func ParseSuggestionKey(key string) (int, SegmentField, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "segments" {
		return 0, "", false
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || i < 0 {
		return 0, "", false
	}
	return i, SegmentField(parts[2]), true
}

// RemapSuggestions moves per-segment suggestion state after the legs were
// restructured. remap maps an old leg index to its new index, or reports
// false when the leg is gone. Lookups still running for a field that moved
// or disappeared can no longer be applied.
func (s *Session) RemapSuggestions(remap func(int) (int, bool)) {
	moved := make(map[string]Suggestions, len(s.Suggestions))
	for key, sg := range s.Suggestions {
		i, f, ok := ParseSuggestionKey(key)
		if !ok {
			moved[key] = sg
			continue
		}
		if ni, keep := remap(i); keep {
			moved[SuggestionKey(ni, f)] = sg
		}
	}
	s.Suggestions = moved

	for key := range s.Issued {
		i, _, ok := ParseSuggestionKey(key)
		if !ok {
			continue
		}
		if ni, keep := remap(i); !keep || ni != i {
			s.Issued[key]++
			delete(s.Loading, key)
		}
	}
}

// LoadingFields lists the fields with a lookup in progress, sorted.
func (s Session) LoadingFields() []string {
	out := make([]string, 0, len(s.Loading))
	for key := range s.Loading {
		out = append(out, key)
	}
	slices.Sort(out)
	return out
}
