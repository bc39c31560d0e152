package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchRequest is the validated, transport-ready search handed to the
// booking service. It is built fresh for every submission and never mutated.
// Optional fields are nil when not applicable and are omitted from JSON.
type SearchRequest struct {
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	DepartureDate  string   `json:"departureDate"`
	ReturnDate     *string  `json:"returnDate,omitempty"`
	Passengers     int      `json:"passengers"`
	CabinClass     string   `json:"cabinClass"`
	Currency       string   `json:"currency"`
	MaxConnections *int     `json:"maxConnections,omitempty"`
	MaxPrice       *float64 `json:"maxPrice,omitempty"`
}

// SearchRecord is a SearchRequest as stored in the search history.
type SearchRecord struct {
	ID        uuid.UUID
	Request   SearchRequest
	TripType  TripType
	CreatedAt time.Time
}
