package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for every travel date.
const DateLayout = time.DateOnly

// MaxSegments is the largest number of legs a multi-city itinerary may hold.
const MaxSegments = 4

// TripType governs how many segments an itinerary may hold and whether a
// return date is tracked.
type TripType string

const (
	OneWay    TripType = "one_way"
	RoundTrip TripType = "round_trip"
	MultiCity TripType = "multi_city"
)

// ParseTripType accepts the wire value ("one_way") as well as the
// display spellings ("OneWay", "one-way", "Round Trip").
func ParseTripType(s string) (TripType, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "oneway":
		return OneWay, nil
	case "roundtrip", "return":
		return RoundTrip, nil
	case "multicity":
		return MultiCity, nil
	}
	return "", fmt.Errorf("%w: unknown trip type %q", ErrValidation, s)
}

// SegmentField names the editable fields of a Segment.
type SegmentField string

const (
	FieldOrigin      SegmentField = "origin"
	FieldDestination SegmentField = "destination"
	FieldDate        SegmentField = "date"
)

// Segment is one point-to-point leg. Origin and Destination hold either raw
// user text or the "CODE - City, Country" label of a picked Place.
type Segment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// Itinerary is the trip type plus the ordered list of legs being searched.
// ReturnDate is empty when unset and is only meaningful for RoundTrip.
type Itinerary struct {
	TripType   TripType  `json:"trip_type"`
	Segments   []Segment `json:"segments"`
	ReturnDate string    `json:"return_date,omitempty"`
}

// NewItinerary returns the initial one-way itinerary: a single empty leg
// departing the day after today.
func NewItinerary(today time.Time) Itinerary {
	return Itinerary{
		TripType: OneWay,
		Segments: []Segment{{Date: today.AddDate(0, 0, 1).Format(DateLayout)}},
	}
}

// Clone returns a deep copy so callers can mutate segments without aliasing.
func (it Itinerary) Clone() Itinerary {
	out := it
	out.Segments = append([]Segment(nil), it.Segments...)
	return out
}

// First returns the first segment, or the zero Segment if there is none.
func (it Itinerary) First() Segment {
	if len(it.Segments) == 0 {
		return Segment{}
	}
	return it.Segments[0]
}

// ParseDate parses an ISO calendar date. Surrounding whitespace is ignored.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ShiftDate returns s moved by days. It returns "" when s is not a valid date.
func ShiftDate(s string, days int) string {
	t, err := ParseDate(s)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}
