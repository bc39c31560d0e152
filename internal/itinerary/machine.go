// Package itinerary implements the trip-type state machine that owns an
// itinerary's segment list.
//
// Every operation either applies completely or leaves the itinerary as it
// was. Structural misuse (adding a fifth leg, removing the last one, an out of
// range index) is reported as domain.ErrPrecondition and changes nothing.
package itinerary

import (
	"fmt"
	"time"

	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// defaultReturnOffset is how many days after departure a fresh return date lands.
const defaultReturnOffset = 3

// Machine mutates one itinerary in place.
type Machine struct {
	it          *domain.Itinerary
	now         func() time.Time
	strictDates bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the clock used for "not in the past" date checks.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithStrictDates makes SetSegmentField reject a date that would put a
// multi-city leg before the previous leg or after the next one. By default
// only AddSegment keeps legs in order and later date edits are not re-checked.
func WithStrictDates(strict bool) Option {
	return func(m *Machine) { m.strictDates = strict }
}

// New returns a Machine operating on it. An itinerary without segments is
// first reset to the one-way default.
func New(it *domain.Itinerary, opts ...Option) *Machine {
	m := &Machine{it: it, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if len(it.Segments) == 0 {
		*it = domain.NewItinerary(m.now())
	}
	if it.TripType == "" {
		it.TripType = domain.OneWay
	}
	return m
}

// Itinerary returns the itinerary being edited.
func (m *Machine) Itinerary() *domain.Itinerary {
	return m.it
}

// SetTripType switches the trip type:
//   - to RoundTrip: keeps only the first leg and defaults the return date to
//     departure + 3 days unless a return date on or after departure is set.
//   - to MultiCity: a lone leg gains a second, empty leg dated one day later.
//   - to OneWay: keeps only the first leg.
//
// Leaving RoundTrip clears the return date. Selecting the current type is a no-op.
func (m *Machine) SetTripType(t domain.TripType) error {
	switch t {
	case domain.OneWay, domain.RoundTrip, domain.MultiCity:
	default:
		return fmt.Errorf("%w: unknown trip type %q", domain.ErrValidation, t)
	}
	if t == m.it.TripType {
		return nil
	}

	switch t {
	case domain.OneWay:
		m.it.Segments = m.it.Segments[:1]
		m.it.ReturnDate = ""
	case domain.RoundTrip:
		m.it.Segments = m.it.Segments[:1]
		m.it.ReturnDate = defaultReturnDate(m.it.Segments[0].Date, m.it.ReturnDate)
	case domain.MultiCity:
		if len(m.it.Segments) == 1 {
			m.it.Segments = append(m.it.Segments, domain.Segment{
				Date: domain.ShiftDate(m.it.Segments[0].Date, 1),
			})
		}
		m.it.ReturnDate = ""
	}
	m.it.TripType = t
	return nil
}

// defaultReturnDate keeps current when it is a valid date on or after
// departure, otherwise returns departure + 3 days.
func defaultReturnDate(departure, current string) string {
	dep, err := domain.ParseDate(departure)
	if err != nil {
		return current
	}
	if ret, err := domain.ParseDate(current); err == nil && !ret.Before(dep) {
		return current
	}
	return dep.AddDate(0, 0, defaultReturnOffset).Format(domain.DateLayout)
}

// AddSegment appends an empty leg dated one day after the last leg.
// Only valid in MultiCity mode with fewer than domain.MaxSegments legs.
func (m *Machine) AddSegment() error {
	if m.it.TripType != domain.MultiCity {
		return fmt.Errorf("%w: segments can only be added to multi-city trips", domain.ErrPrecondition)
	}
	if len(m.it.Segments) >= domain.MaxSegments {
		return fmt.Errorf("%w: at most %d segments", domain.ErrPrecondition, domain.MaxSegments)
	}
	last := m.it.Segments[len(m.it.Segments)-1]
	m.it.Segments = append(m.it.Segments, domain.Segment{Date: domain.ShiftDate(last.Date, 1)})
	return nil
}

// RemoveSegment deletes the leg at index, keeping the others in order.
// The last remaining leg cannot be removed.
func (m *Machine) RemoveSegment(index int) error {
	if len(m.it.Segments) <= 1 {
		return fmt.Errorf("%w: cannot remove the only segment", domain.ErrPrecondition)
	}
	if err := m.checkIndex(index); err != nil {
		return err
	}
	m.it.Segments = append(m.it.Segments[:index], m.it.Segments[index+1:]...)
	return nil
}

// Swap exchanges origin and destination text of the leg at index.
func (m *Machine) Swap(index int) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	s := &m.it.Segments[index]
	s.Origin, s.Destination = s.Destination, s.Origin
	return nil
}

// SetSegmentField overwrites one field of the leg at index.
//
// A non-empty date must parse and must not be in the past. With strict
// dates enabled it must also stay between its neighbours.
func (m *Machine) SetSegmentField(index int, field domain.SegmentField, value string) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}
	s := &m.it.Segments[index]
	switch field {
	case domain.FieldOrigin:
		s.Origin = value
	case domain.FieldDestination:
		s.Destination = value
	case domain.FieldDate:
		if value == "" {
			s.Date = ""
			return nil
		}
		if err := m.checkDate(index, value); err != nil {
			return err
		}
		s.Date = value
	default:
		return fmt.Errorf("%w: unknown segment field %q", domain.ErrValidation, field)
	}
	return nil
}

// SetReturnDate sets the return date of a round trip. It must parse and
// must not be in the past; ordering against departure is left to the builder.
func (m *Machine) SetReturnDate(value string) error {
	if m.it.TripType != domain.RoundTrip {
		return fmt.Errorf("%w: return date only applies to round trips", domain.ErrPrecondition)
	}
	if value == "" {
		m.it.ReturnDate = ""
		return nil
	}
	if err := m.checkNotPast(value); err != nil {
		return err
	}
	m.it.ReturnDate = value
	return nil
}

func (m *Machine) checkIndex(index int) error {
	if index < 0 || index >= len(m.it.Segments) {
		return fmt.Errorf("%w: segment %d out of range", domain.ErrPrecondition, index)
	}
	return nil
}

func (m *Machine) checkDate(index int, value string) error {
	if err := m.checkNotPast(value); err != nil {
		return err
	}
	if !m.strictDates || m.it.TripType != domain.MultiCity {
		return nil
	}
	d, _ := domain.ParseDate(value)
	if index > 0 {
		if prev, err := domain.ParseDate(m.it.Segments[index-1].Date); err == nil && d.Before(prev) {
			return fmt.Errorf("%w: segment %d cannot depart before segment %d", domain.ErrValidation, index+1, index)
		}
	}
	if index < len(m.it.Segments)-1 {
		if next, err := domain.ParseDate(m.it.Segments[index+1].Date); err == nil && d.After(next) {
			return fmt.Errorf("%w: segment %d cannot depart after segment %d", domain.ErrValidation, index+1, index+2)
		}
	}
	return nil
}

func (m *Machine) checkNotPast(value string) error {
	d, err := domain.ParseDate(value)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", domain.ErrValidation, value)
	}
	now := m.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return fmt.Errorf("%w: date %s is in the past", domain.ErrValidation, value)
	}
	return nil
}
