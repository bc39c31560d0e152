package domain

import (
	"fmt"
	"strings"
)

// TravellerKind names one of the passenger counters.
type TravellerKind string

const (
	Adults   TravellerKind = "adults"
	Children TravellerKind = "children"
	Infants  TravellerKind = "infants"
)

// TravellerCounts holds passenger counts. Adults never drops below 1 and the
// other counters never drop below 0. No upper bound is enforced here.
type TravellerCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// DefaultTravellers is a single adult.
func DefaultTravellers() TravellerCounts {
	return TravellerCounts{Adults: 1}
}

// Total is the passenger count sent downstream.
func (c TravellerCounts) Total() int {
	return c.Adults + c.Children + c.Infants
}

// Increment adds one traveller of the given kind.
func (c *TravellerCounts) Increment(kind TravellerKind) error {
	switch kind {
	case Adults:
		c.Adults++
	case Children:
		c.Children++
	case Infants:
		c.Infants++
	default:
		return fmt.Errorf("%w: unknown traveller kind %q", ErrValidation, kind)
	}
	return nil
}

// Decrement removes one traveller of the given kind. Decrementing at the
// floor (1 adult, 0 children, 0 infants) is a no-op reported as ErrPrecondition.
func (c *TravellerCounts) Decrement(kind TravellerKind) error {
	var n *int
	floor := 0
	switch kind {
	case Adults:
		n, floor = &c.Adults, 1
	case Children:
		n = &c.Children
	case Infants:
		n = &c.Infants
	default:
		return fmt.Errorf("%w: unknown traveller kind %q", ErrValidation, kind)
	}
	if *n <= floor {
		return fmt.Errorf("%w: %s already at minimum", ErrPrecondition, kind)
	}
	*n--
	return nil
}

// CabinClass is the requested cabin, stored lower-case.
type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// ParseCabinClass accepts "Economy", "premium economy", "PREMIUM_ECONOMY", ...
func ParseCabinClass(s string) (CabinClass, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch c := CabinClass(norm); c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown cabin class %q", ErrValidation, s)
}

// Stops is the connection filter.
type Stops string

const (
	StopsAny     Stops = "Any"
	StopsNonStop Stops = "NonStop"
	StopsOne     Stops = "OneStop"
	StopsTwoPlus Stops = "TwoPlusStops"
)

// ParseStops matches the filter values case-insensitively.
func ParseStops(s string) (Stops, error) {
	for _, v := range []Stops{StopsAny, StopsNonStop, StopsOne, StopsTwoPlus} {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown stops filter %q", ErrValidation, s)
}

// MaxConnections maps the filter to the downstream connection cap.
// ok is false for StopsAny, meaning "no cap".
func (s Stops) MaxConnections() (n int, ok bool) {
	switch s {
	case StopsNonStop:
		return 0, true
	case StopsOne:
		return 1, true
	case StopsTwoPlus:
		return 2, true
	}
	return 0, false
}

// Bounds of the max price slider, in the search currency.
const (
	MinPriceCap = 100
	MaxPriceCap = 10000
)

// Filters are independent search toggles with no cross-field validation.
type Filters struct {
	CabinClass CabinClass `json:"cabin_class"`
	Stops      Stops      `json:"stops"`
	MaxPrice   float64    `json:"max_price"`
}

// DefaultFilters is economy, any number of stops, slider at its upper bound.
func DefaultFilters() Filters {
	return Filters{CabinClass: CabinEconomy, Stops: StopsAny, MaxPrice: MaxPriceCap}
}

// SetMaxPrice stores v clamped to the slider range. Zero or less means no
// cap and is stored as 0.
func (f *Filters) SetMaxPrice(v float64) {
	if v <= 0 {
		f.MaxPrice = 0
		return
	}
	f.MaxPrice = max(MinPriceCap, min(v, MaxPriceCap))
}
