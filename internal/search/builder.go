// Package search validates the collected search state and turns it into a
// domain.SearchRequest. Nothing here performs I/O.
package search

import (
	"strings"

	"github.com/pkordes/tripsearch/backend/internal/codes"
	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// Validation messages returned by Build.
const (
	MsgInvalidOrigin      = "invalid origin"
	MsgInvalidDestination = "invalid destination"
	MsgSameEndpoints      = "origin and destination cannot match"
	MsgDepartureRequired  = "departure date required"
	MsgInvalidDeparture   = "invalid departure date"
	MsgReturnRequired     = "return date required"
	MsgInvalidReturn      = "invalid return date"
	MsgReturnBeforeDepart = "return before departure"
)

// WarnMultiCity is attached to multi-city builds, which only carry the first leg.
const WarnMultiCity = "multi-city searches only include the first segment"

// DefaultCurrency is used when Build is given an empty currency code.
const DefaultCurrency = "USD"

// Builder turns search state into a SearchRequest.
type Builder struct {
	matcher codes.Matcher
}

// NewBuilder returns a Builder that resolves free text through m.
// A nil m limits code extraction to text that already holds a code.
func NewBuilder(m codes.Matcher) *Builder {
	return &Builder{matcher: m}
}

// Build validates the state and returns the request, or a non-nil
// domain.ValidationErrors listing every problem found. The two results are
// mutually exclusive: on error the request is the zero value.
//
// Only the first segment is translated; see Warnings.
func (b *Builder) Build(it domain.Itinerary, travellers domain.TravellerCounts, filters domain.Filters, currency string) (domain.SearchRequest, error) {
	first := it.First()
	origin := codes.Extract(first.Origin, b.matcher)
	destination := codes.Extract(first.Destination, b.matcher)
	departure := strings.TrimSpace(first.Date)
	ret := strings.TrimSpace(it.ReturnDate)

	var errs domain.ValidationErrors
	if !codes.Valid(origin) {
		errs = append(errs, MsgInvalidOrigin)
	}
	if !codes.Valid(destination) {
		errs = append(errs, MsgInvalidDestination)
	}
	if origin != "" && origin == destination {
		errs = append(errs, MsgSameEndpoints)
	}

	depOK := false
	if departure == "" {
		errs = append(errs, MsgDepartureRequired)
	} else if _, err := domain.ParseDate(departure); err != nil {
		errs = append(errs, MsgInvalidDeparture)
	} else {
		depOK = true
	}

	retOK := false
	if ret == "" {
		if it.TripType == domain.RoundTrip {
			errs = append(errs, MsgReturnRequired)
		}
	} else if _, err := domain.ParseDate(ret); err != nil {
		errs = append(errs, MsgInvalidReturn)
	} else {
		retOK = true
	}

	if depOK && retOK {
		d, _ := domain.ParseDate(departure)
		r, _ := domain.ParseDate(ret)
		if d.After(r) {
			errs = append(errs, MsgReturnBeforeDepart)
		}
	}

	if len(errs) > 0 {
		return domain.SearchRequest{}, errs
	}

	req := domain.SearchRequest{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departure,
		Passengers:    travellers.Total(),
		CabinClass:    strings.ToLower(string(filters.CabinClass)),
		Currency:      normalizeCurrency(currency),
	}
	if it.TripType == domain.RoundTrip {
		req.ReturnDate = &ret
	}
	if n, ok := filters.Stops.MaxConnections(); ok {
		req.MaxConnections = &n
	}
	if filters.MaxPrice > 0 && filters.MaxPrice < domain.MaxPriceCap {
		p := filters.MaxPrice
		req.MaxPrice = &p
	}
	return req, nil
}

// Warnings lists caveats the caller should show alongside a built request.
func Warnings(it domain.Itinerary) []string {
	if it.TripType == domain.MultiCity && len(it.Segments) > 1 {
		return []string{WarnMultiCity}
	}
	return []string{}
}

func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return DefaultCurrency
	}
	return c
}
