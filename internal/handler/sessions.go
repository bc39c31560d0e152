package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/service"
)

// SessionResponse is the full state of one search form.
type SessionResponse struct {
	ID          uuid.UUID                      `json:"id"`
	Itinerary   domain.Itinerary               `json:"itinerary"`
	Travellers  domain.TravellerCounts         `json:"travellers"`
	Passengers  int                            `json:"passengers"`
	Filters     domain.Filters                 `json:"filters"`
	Currency    string                         `json:"currency"`
	Suggestions map[string]SuggestionsResponse `json:"suggestions"`
	// Loading lists the fields whose latest lookup is still running.
	Loading []string `json:"loading"`
	// CanAddSegment and CanRemoveSegment drive the multi-city add/remove buttons.
	CanAddSegment    bool      `json:"can_add_segment"`
	CanRemoveSegment bool      `json:"can_remove_segment"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SuggestionsResponse is the list shown under one input field.
type SuggestionsResponse struct {
	Seq  uint64          `json:"seq"`
	Data []PlaceResponse `json:"data"`
}

// TripTypeRequest is the body of PUT /sessions/{id}/trip-type.
type TripTypeRequest struct {
	TripType string `json:"trip_type"`
}

// SegmentRequest is the body of PATCH /sessions/{id}/segments/{index}.
// Omitted fields are left alone; an empty date clears it.
type SegmentRequest struct {
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	Date        *string `json:"date"`
}

// ReturnDateRequest is the body of PUT /sessions/{id}/return-date.
// An empty return_date clears it.
type ReturnDateRequest struct {
	ReturnDate string `json:"return_date"`
}

// SuggestRequest is the body of POST /sessions/{id}/suggestions.
type SuggestRequest struct {
	Field string `json:"field"`
	Query string `json:"query"`
}

// SuggestResponse is the outcome of one lookup. Stale results were not
// stored on the session because a newer lookup for the field was issued.
type SuggestResponse struct {
	Field string          `json:"field"`
	Seq   uint64          `json:"seq"`
	Stale bool            `json:"stale"`
	Data  []PlaceResponse `json:"data"`
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	s.writeSession(w, r, sess, err)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, notFoundBody("session not found"))
			return
		}
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTripType handles PUT /sessions/{id}/trip-type.
func (s *Server) SetTripType(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var body TripTypeRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	t, err := domain.ParseTripType(body.TripType)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	}
	sess, err := s.sessions.SetTripType(r.Context(), id, t)
	s.writeSession(w, r, sess, err)
}

// AddSegment handles POST /sessions/{id}/segments.
func (s *Server) AddSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.AddSegment(r.Context(), id)
	s.writeSession(w, r, sess, err)
}

// RemoveSegment handles DELETE /sessions/{id}/segments/{index}.
func (s *Server) RemoveSegment(w http.ResponseWriter, r *http.Request) {
	id, index, ok := sessionSegment(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.RemoveSegment(r.Context(), id, index)
	s.writeSession(w, r, sess, err)
}

// SwapSegment handles POST /sessions/{id}/segments/{index}/swap.
func (s *Server) SwapSegment(w http.ResponseWriter, r *http.Request) {
	id, index, ok := sessionSegment(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Swap(r.Context(), id, index)
	s.writeSession(w, r, sess, err)
}

// UpdateSegment handles PATCH /sessions/{id}/segments/{index}.
func (s *Server) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, index, ok := sessionSegment(w, r)
	if !ok {
		return
	}
	var body SegmentRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.sessions.UpdateSegment(r.Context(), id, index, service.SegmentPatch{
		Origin:      body.Origin,
		Destination: body.Destination,
		Date:        body.Date,
	})
	s.writeSession(w, r, sess, err)
}

// SetReturnDate handles PUT /sessions/{id}/return-date.
func (s *Server) SetReturnDate(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var body ReturnDateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.sessions.SetReturnDate(r.Context(), id, body.ReturnDate)
	s.writeSession(w, r, sess, err)
}

// ChangeTravellers handles POST /sessions/{id}/travellers/{kind}/{op},
// where op is "increment" or "decrement".
func (s *Server) ChangeTravellers(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	kind := domain.TravellerKind(chi.URLParam(r, "kind"))

	var (
		sess domain.Session
		err  error
	)
	switch op := chi.URLParam(r, "op"); op {
	case "increment":
		sess, err = s.sessions.IncrementTravellers(r.Context(), id, kind)
	case "decrement":
		sess, err = s.sessions.DecrementTravellers(r.Context(), id, kind)
	default:
		writeJSON(w, http.StatusBadRequest, requestBody("unknown traveller operation "+strconv.Quote(op)))
		return
	}
	s.writeSession(w, r, sess, err)
}

// UpdateFilters handles PUT /sessions/{id}/filters.
func (s *Server) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var body FiltersRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.sessions.UpdateFilters(r.Context(), id, service.FilterPatch{
		CabinClass: body.CabinClass,
		Stops:      body.Stops,
		MaxPrice:   body.MaxPrice,
	})
	s.writeSession(w, r, sess, err)
}

// Suggest handles POST /sessions/{id}/suggestions.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var body SuggestRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := s.sessions.Suggest(r.Context(), id, body.Field, body.Query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, notFoundBody("session not found"))
		case errors.Is(err, domain.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		default:
			s.internalError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{
		Field: res.Field,
		Seq:   res.Seq,
		Stale: res.Stale,
		Data:  placesToResponse(res.Places),
	})
}

// SubmitSession handles POST /sessions/{id}/submit.
func (s *Server) SubmitSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	res, err := s.sessions.Submit(r.Context(), id)
	if err != nil {
		s.writeBuildError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, buildToResponse(res))
}

// writeSession maps the outcome of a session edit onto the response.
// Structural misuse (domain.ErrPrecondition) is a no-op, not an error: the
// unchanged session is returned with 200.
func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, sess domain.Session, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, sessionToResponse(sess))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody("session not found"))
	case errors.Is(err, domain.ErrPrecondition):
		s.log.DebugContext(r.Context(), "ignored edit", "session_id", sess.ID, "reason", err)
		writeJSON(w, http.StatusOK, sessionToResponse(sess))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	default:
		s.internalError(w, r, err)
	}
}

// --- path helpers -----------------------------------------------------------

// sessionID parses the {id} path parameter. Writes a 400 and returns false
// when it is not a UUID.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid session id"))
		return uuid.Nil, false
	}
	return id, true
}

// sessionSegment parses the {id} and {index} path parameters. An index
// outside the itinerary is left to the service, which ignores it.
func sessionSegment(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return uuid.Nil, 0, false
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("segment index must be an integer"))
		return uuid.Nil, 0, false
	}
	return id, index, true
}

// sessionToResponse converts a domain.Session into its response type.
func sessionToResponse(sess domain.Session) SessionResponse {
	suggestions := make(map[string]SuggestionsResponse, len(sess.Suggestions))
	for field, sg := range sess.Suggestions {
		suggestions[field] = SuggestionsResponse{Seq: sg.Seq, Data: placesToResponse(sg.Places)}
	}
	n := len(sess.Itinerary.Segments)
	return SessionResponse{
		ID:               sess.ID,
		Itinerary:        sess.Itinerary,
		Travellers:       sess.Travellers,
		Passengers:       sess.Travellers.Total(),
		Filters:          sess.Filters,
		Currency:         sess.Currency,
		Suggestions:      suggestions,
		Loading:          sess.LoadingFields(),
		CanAddSegment:    sess.Itinerary.TripType == domain.MultiCity && n < domain.MaxSegments,
		CanRemoveSegment: n > 1,
		CreatedAt:        sess.CreatedAt,
		UpdatedAt:        sess.UpdatedAt,
	}
}
