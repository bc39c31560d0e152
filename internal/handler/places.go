package handler

import (
	"net/http"

	"github.com/pkordes/tripsearch/backend/internal/codes"
	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// PlaceResponse is one place candidate. Label is the text the UI shows and
// later submits back as the segment endpoint.
type PlaceResponse struct {
	domain.Place
	Label string `json:"label"`
}

// PlacesResponse is the body of GET /places.
type PlacesResponse struct {
	Data []PlaceResponse `json:"data"`
}

// CodeResponse is the body of GET /codes.
type CodeResponse struct {
	Text  string `json:"text"`
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
}

// ListPlaces handles GET /places?q=.
// An empty or one-character q returns the browse list.
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places := s.places.Resolve(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, PlacesResponse{Data: placesToResponse(places)})
}

// ExtractCode handles GET /codes?text=.
// It reports the three-letter code recoverable from free text; Code is empty
// when none is.
func (s *Server) ExtractCode(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	code := codes.Extract(text, s.matcher)
	writeJSON(w, http.StatusOK, CodeResponse{Text: text, Code: code, Valid: codes.Valid(code)})
}

func placesToResponse(places []domain.Place) []PlaceResponse {
	out := make([]PlaceResponse, len(places))
	for i, p := range places {
		out[i] = PlaceResponse{Place: p, Label: p.Label()}
	}
	return out
}
