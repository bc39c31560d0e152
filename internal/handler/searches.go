package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/service"
)

// CreateSearchRequest is the body of POST /searches: a complete search form
// submitted without a session. Omitted travellers and filters take their
// defaults.
type CreateSearchRequest struct {
	Itinerary  domain.Itinerary        `json:"itinerary"`
	Travellers *domain.TravellerCounts `json:"travellers"`
	Filters    *FiltersRequest         `json:"filters"`
	Currency   string                  `json:"currency"`
}

// FiltersRequest carries filter values; nil fields keep their current value.
type FiltersRequest struct {
	CabinClass *string  `json:"cabin_class"`
	Stops      *string  `json:"stops"`
	MaxPrice   *float64 `json:"max_price"`
}

// BuildResponse is the body of a successful search build.
type BuildResponse struct {
	Request  domain.SearchRequest `json:"request"`
	Warnings []string             `json:"warnings"`
}

// SearchRecordResponse is one entry of the search history.
type SearchRecordResponse struct {
	ID             openapi_types.UUID  `json:"id"`
	TripType       domain.TripType     `json:"trip_type"`
	Origin         string              `json:"origin"`
	Destination    string              `json:"destination"`
	DepartureDate  openapi_types.Date  `json:"departure_date"`
	ReturnDate     *openapi_types.Date `json:"return_date,omitempty"`
	Passengers     int                 `json:"passengers"`
	CabinClass     string              `json:"cabin_class"`
	Currency       string              `json:"currency"`
	MaxConnections *int                `json:"max_connections,omitempty"`
	MaxPrice       *float64            `json:"max_price,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// SearchListResponse is the body of GET /searches.
type SearchListResponse struct {
	Data       []SearchRecordResponse `json:"data"`
	Pagination Pagination             `json:"pagination"`
}

// CreateSearch handles POST /searches.
func (s *Server) CreateSearch(w http.ResponseWriter, r *http.Request) {
	var body CreateSearchRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	in, err := requestToSearchInput(body)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	}

	res, err := s.searches.Submit(r.Context(), in)
	if err != nil {
		s.writeBuildError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, buildToResponse(res))
}

// ListSearches handles GET /searches.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListSearches(w http.ResponseWriter, r *http.Request) {
	page, err := optionalInt(r, "page")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	params := domain.NewPaginationParams(page, limit)
	records, total, err := s.searches.History(r.Context(), params)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	data := make([]SearchRecordResponse, len(records))
	for i, rec := range records {
		data[i] = recordToResponse(rec)
	}
	writeJSON(w, http.StatusOK, SearchListResponse{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// writeBuildError maps a Submit failure onto the response.
func (s *Server) writeBuildError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody("session not found"))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	default:
		s.internalError(w, r, err)
	}
}

// --- mapping helpers --------------------------------------------------------

// requestToSearchInput validates the shape of a stateless search and fills
// in defaults. Field contents are left to the builder.
func requestToSearchInput(body CreateSearchRequest) (service.SearchInput, error) {
	it := body.Itinerary
	if it.TripType == "" {
		it.TripType = domain.OneWay
	}
	tt, err := domain.ParseTripType(string(it.TripType))
	if err != nil {
		return service.SearchInput{}, err
	}
	it.TripType = tt
	if len(it.Segments) == 0 || len(it.Segments) > domain.MaxSegments {
		return service.SearchInput{}, fmt.Errorf("%w: itinerary needs 1 to %d segments", domain.ErrValidation, domain.MaxSegments)
	}
	if tt != domain.MultiCity && len(it.Segments) != 1 {
		return service.SearchInput{}, fmt.Errorf("%w: %s itinerary needs exactly 1 segment", domain.ErrValidation, tt)
	}

	travellers := domain.DefaultTravellers()
	if body.Travellers != nil {
		travellers = *body.Travellers
		if travellers.Adults < 1 || travellers.Children < 0 || travellers.Infants < 0 {
			return service.SearchInput{}, fmt.Errorf("%w: at least one adult is required and counts cannot be negative", domain.ErrValidation)
		}
	}

	filters := domain.DefaultFilters()
	if body.Filters != nil {
		if err := applyFilters(&filters, *body.Filters); err != nil {
			return service.SearchInput{}, err
		}
	}

	return service.SearchInput{
		Itinerary:  it,
		Travellers: travellers,
		Filters:    filters,
		Currency:   body.Currency,
	}, nil
}

// applyFilters applies every non-nil field of req to f.
func applyFilters(f *domain.Filters, req FiltersRequest) error {
	if req.CabinClass != nil {
		c, err := domain.ParseCabinClass(*req.CabinClass)
		if err != nil {
			return err
		}
		f.CabinClass = c
	}
	if req.Stops != nil {
		st, err := domain.ParseStops(*req.Stops)
		if err != nil {
			return err
		}
		f.Stops = st
	}
	if req.MaxPrice != nil {
		f.SetMaxPrice(*req.MaxPrice)
	}
	return nil
}

func buildToResponse(res service.BuildResult) BuildResponse {
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return BuildResponse{Request: res.Request, Warnings: warnings}
}

// recordToResponse converts a history record into its response type.
// Stored dates were validated when built, so parse failures cannot occur.
func recordToResponse(rec domain.SearchRecord) SearchRecordResponse {
	req := rec.Request
	resp := SearchRecordResponse{
		ID:             rec.ID,
		TripType:       rec.TripType,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureDate:  toDate(req.DepartureDate),
		Passengers:     req.Passengers,
		CabinClass:     req.CabinClass,
		Currency:       req.Currency,
		MaxConnections: req.MaxConnections,
		MaxPrice:       req.MaxPrice,
		CreatedAt:      rec.CreatedAt,
	}
	if req.ReturnDate != nil {
		rd := toDate(*req.ReturnDate)
		resp.ReturnDate = &rd
	}
	return resp
}

func toDate(s string) openapi_types.Date {
	t, _ := domain.ParseDate(s)
	return openapi_types.Date{Time: t}
}

// optionalInt reads an integer query parameter; nil when absent.
func optionalInt(r *http.Request, name string) (*int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s must be an integer", name)
	}
	return &n, nil
}
