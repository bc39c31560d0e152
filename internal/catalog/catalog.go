// Package catalog holds the static list of known airports and city codes.
// It serves the default browse list, the offline fallback for location
// lookups and the fuzzy text match used when extracting codes.
package catalog

import (
	"strings"

	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// DefaultSearchLimit caps Search results when the caller passes limit <= 0.
const DefaultSearchLimit = 10

// Catalog is an immutable, de-duplicated list of places. The zero value is
// empty; use New or Default.
type Catalog struct {
	places []domain.Place
}

// New returns a catalog holding extra followed by the built-in places.
// Entries sharing a (code, city) pair keep their first occurrence, so extra
// places override built-in ones.
func New(extra ...domain.Place) *Catalog {
	all := make([]domain.Place, 0, len(extra)+len(builtin))
	all = append(all, extra...)
	all = append(all, builtin...)
	return &Catalog{places: domain.DedupePlaces(all, 0)}
}

// Default returns a catalog of the built-in places only.
func Default() *Catalog {
	return New()
}

// Len reports the number of places held.
func (c *Catalog) Len() int {
	return len(c.places)
}

// TopN returns the first n places, the browse list shown before the user
// has typed anything.
func (c *Catalog) TopN(n int) []domain.Place {
	n = max(0, min(n, len(c.places)))
	out := make([]domain.Place, n)
	copy(out, c.places[:n])
	return out
}

// Search returns up to limit places whose code, city, country or display
// name contains query, ignoring case. An empty query matches nothing.
func (c *Catalog) Search(query string, limit int) []domain.Place {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.Place{}
	}
	var matches []domain.Place
	for _, p := range c.places {
		if matchesAny(q, p.Code, p.City, p.Country, p.DisplayName) {
			matches = append(matches, p)
		}
	}
	return domain.DedupePlaces(matches, limit)
}

// MatchText returns the first place whose city or display name contains
// text, or whose city is contained in text, ignoring case.
func (c *Catalog) MatchText(text string) (domain.Place, bool) {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return domain.Place{}, false
	}
	for _, p := range c.places {
		if matchesAny(q, p.City, p.DisplayName) {
			return p, true
		}
		if city := strings.ToLower(p.City); city != "" && strings.Contains(q, city) {
			return p, true
		}
	}
	return domain.Place{}, false
}

func matchesAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
