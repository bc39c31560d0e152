package domain

import (
	"fmt"
	"strings"
)

// PlaceKind distinguishes an airport from a city-wide destination code.
type PlaceKind string

const (
	PlaceAirport PlaceKind = "airport"
	PlaceCity    PlaceKind = "city"
)

// Place is a resolved airport or city carrying its canonical 3-letter code.
// Places are reference data and are passed by value.
type Place struct {
	Code        string    `json:"code"`
	DisplayName string    `json:"display_name"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Kind        PlaceKind `json:"kind"`
}

// Label returns the "CODE - City, Country" form written into a segment field
// when the user picks a suggestion.
func (p Place) Label() string {
	city := p.City
	if city == "" {
		city = p.DisplayName
	}
	if p.Country == "" {
		return fmt.Sprintf("%s - %s", p.Code, city)
	}
	return fmt.Sprintf("%s - %s, %s", p.Code, city, p.Country)
}

// Key identifies a place for de-duplication: the (code, city) pair,
// compared case-insensitively.
func (p Place) Key() string {
	return strings.ToUpper(p.Code) + "|" + strings.ToLower(strings.TrimSpace(p.City))
}

// DedupePlaces removes later entries whose Key repeats an earlier one and
// truncates the result to limit entries (limit <= 0 means no cap).
// Order of first occurrence is preserved. Always returns a non-nil slice.
func DedupePlaces(places []Place, limit int) []Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]Place, 0, len(places))
	for _, p := range places {
		if limit > 0 && len(out) >= limit {
			break
		}
		k := p.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
