package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/handler"
	"github.com/pkordes/tripsearch/backend/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func sessionFixture() domain.Session {
	return domain.NewSession(uuid.New(), "USD", time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) handler.SessionResponse {
	t.Helper()
	var resp handler.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---- create / get / delete -------------------------------------------------

func TestCreateSession_201(t *testing.T) {
	fixture := sessionFixture()
	sessions := &mockSessionServicer{create: func(context.Context) (domain.Session, error) {
		return fixture, nil
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPost, "/sessions", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, domain.OneWay, resp.Itinerary.TripType)
	assert.Equal(t, 1, resp.Passengers)
	assert.False(t, resp.CanAddSegment)
	assert.NotNil(t, resp.Suggestions)
}

func TestGetSession_ListsLoadingFields(t *testing.T) {
	fixture := sessionFixture()
	fixture.Loading["segments.0.origin"] = 3
	sessions := &mockSessionServicer{get: func(context.Context, uuid.UUID) (domain.Session, error) {
		return fixture, nil
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodGet, "/sessions/"+fixture.ID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"segments.0.origin"}, decodeSession(t, rec).Loading)
}

func TestGetSession_404(t *testing.T) {
	sessions := &mockSessionServicer{get: func(context.Context, uuid.UUID) (domain.Session, error) {
		return domain.Session{}, fmt.Errorf("service.SessionService.Get: %w", domain.ErrNotFound)
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodGet, "/sessions/"+uuid.NewString(), "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestGetSession_400_InvalidID(t *testing.T) {
	rec := serve(newHTTPHandler(deps{sessions: &mockSessionServicer{}}), http.MethodGet, "/sessions/not-a-uuid", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Code)
}

func TestDeleteSession(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	sessions := &mockSessionServicer{delete: func(_ context.Context, got uuid.UUID) error {
		if got != id {
			return domain.ErrNotFound
		}
		deleted = got
		return nil
	}}
	h := newHTTPHandler(deps{sessions: sessions})

	rec := serve(h, http.MethodDelete, "/sessions/"+id.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, deleted)

	rec = serve(h, http.MethodDelete, "/sessions/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- edits -----------------------------------------------------------------

func TestSetTripType_200(t *testing.T) {
	fixture := sessionFixture()
	var got domain.TripType
	sessions := &mockSessionServicer{setTripType: func(_ context.Context, _ uuid.UUID, tt domain.TripType) (domain.Session, error) {
		got = tt
		s := fixture
		s.Itinerary.TripType = tt
		s.Itinerary.Segments = append(s.Itinerary.Segments, domain.Segment{})
		return s, nil
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPut,
		"/sessions/"+fixture.ID.String()+"/trip-type", `{"trip_type":"Multi City"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MultiCity, got)
	resp := decodeSession(t, rec)
	assert.True(t, resp.CanAddSegment)
	assert.True(t, resp.CanRemoveSegment)
}

func TestSetTripType_422_Unknown(t *testing.T) {
	rec := serve(newHTTPHandler(deps{sessions: &mockSessionServicer{}}), http.MethodPut,
		"/sessions/"+uuid.NewString()+"/trip-type", `{"trip_type":"circular"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "validation_error", e.Code)
	assert.Equal(t, `unknown trip type "circular"`, e.Message)
}

// Structural misuse is a no-op: the unchanged session comes back with 200.
func TestAddSegment_PreconditionReturnsUnchangedSession(t *testing.T) {
	fixture := sessionFixture()
	sessions := &mockSessionServicer{addSegment: func(context.Context, uuid.UUID) (domain.Session, error) {
		return fixture, fmt.Errorf("service.SessionService.AddSegment: %w: segments can only be added to multi-city trips", domain.ErrPrecondition)
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPost, "/sessions/"+fixture.ID.String()+"/segments", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Len(t, resp.Itinerary.Segments, 1)
}

func TestSegmentRoutes_ParseIndex(t *testing.T) {
	fixture := sessionFixture()
	var removed, swapped int
	sessions := &mockSessionServicer{
		removeSegment: func(_ context.Context, _ uuid.UUID, i int) (domain.Session, error) {
			removed = i
			return fixture, nil
		},
		swap: func(_ context.Context, _ uuid.UUID, i int) (domain.Session, error) {
			swapped = i
			return fixture, nil
		},
	}
	h := newHTTPHandler(deps{sessions: sessions})
	base := "/sessions/" + fixture.ID.String() + "/segments/"

	require.Equal(t, http.StatusOK, serve(h, http.MethodDelete, base+"2", "").Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, base+"3/swap", "").Code)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 3, swapped)

	rec := serve(h, http.MethodDelete, base+"last", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSegment_PassesPatch(t *testing.T) {
	fixture := sessionFixture()
	var got service.SegmentPatch
	sessions := &mockSessionServicer{updateSegment: func(_ context.Context, _ uuid.UUID, i int, p service.SegmentPatch) (domain.Session, error) {
		assert.Equal(t, 0, i)
		got = p
		return fixture, nil
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPatch,
		"/sessions/"+fixture.ID.String()+"/segments/0", `{"origin":"LOS - Lagos, Nigeria","date":""}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Origin)
	assert.Equal(t, "LOS - Lagos, Nigeria", *got.Origin)
	assert.Nil(t, got.Destination)
	require.NotNil(t, got.Date)
	assert.Empty(t, *got.Date)
}

func TestUpdateSegment_422_PastDate(t *testing.T) {
	sessions := &mockSessionServicer{updateSegment: func(context.Context, uuid.UUID, int, service.SegmentPatch) (domain.Session, error) {
		return domain.Session{}, fmt.Errorf("service.SessionService.UpdateSegment: %w: date 2025-12-01 is in the past", domain.ErrValidation)
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPatch,
		"/sessions/"+uuid.NewString()+"/segments/0", `{"date":"2025-12-01"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "date 2025-12-01 is in the past", decodeError(t, rec).Message)
}

func TestSetReturnDate(t *testing.T) {
	fixture := sessionFixture()
	var got string
	sessions := &mockSessionServicer{setReturnDate: func(_ context.Context, _ uuid.UUID, d string) (domain.Session, error) {
		got = d
		return fixture, nil
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPut,
		"/sessions/"+fixture.ID.String()+"/return-date", `{"return_date":"2026-01-20"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-01-20", got)
}

func TestChangeTravellers(t *testing.T) {
	fixture := sessionFixture()
	var calls []string
	sessions := &mockSessionServicer{
		increment: func(_ context.Context, _ uuid.UUID, k domain.TravellerKind) (domain.Session, error) {
			calls = append(calls, "+"+string(k))
			return fixture, nil
		},
		decrement: func(_ context.Context, _ uuid.UUID, k domain.TravellerKind) (domain.Session, error) {
			calls = append(calls, "-"+string(k))
			return fixture, fmt.Errorf("%w: adults already at minimum", domain.ErrPrecondition)
		},
	}
	h := newHTTPHandler(deps{sessions: sessions})
	base := "/sessions/" + fixture.ID.String() + "/travellers/"

	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, base+"children/increment", "").Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, base+"adults/decrement", "").Code)
	assert.Equal(t, []string{"+children", "-adults"}, calls)

	rec := serve(h, http.MethodPost, base+"adults/double", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFilters_PassesPatch(t *testing.T) {
	fixture := sessionFixture()
	var got service.FilterPatch
	sessions := &mockSessionServicer{updateFilters: func(_ context.Context, _ uuid.UUID, p service.FilterPatch) (domain.Session, error) {
		got = p
		return fixture, nil
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPut,
		"/sessions/"+fixture.ID.String()+"/filters", `{"cabin_class":"business","max_price":2500}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.CabinClass)
	assert.Equal(t, "business", *got.CabinClass)
	assert.Nil(t, got.Stops)
	require.NotNil(t, got.MaxPrice)
	assert.Equal(t, 2500.0, *got.MaxPrice)
}

// ---- suggestions -----------------------------------------------------------

func TestSuggest_200(t *testing.T) {
	sessions := &mockSessionServicer{suggest: func(_ context.Context, _ uuid.UUID, field, query string) (service.SuggestionResult, error) {
		assert.Equal(t, "segments.0.origin", field)
		assert.Equal(t, "lag", query)
		return service.SuggestionResult{
			Field: field, Seq: 3, Stale: true,
			Places: []domain.Place{{Code: "LOS", City: "Lagos", Country: "Nigeria"}},
		}, nil
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPost,
		"/sessions/"+uuid.NewString()+"/suggestions", `{"field":"segments.0.origin","query":"lag"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.SuggestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, uint64(3), resp.Seq)
	assert.True(t, resp.Stale)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "LOS - Lagos, Nigeria", resp.Data[0].Label)
}

func TestSuggest_422_UnknownField(t *testing.T) {
	sessions := &mockSessionServicer{suggest: func(context.Context, uuid.UUID, string, string) (service.SuggestionResult, error) {
		return service.SuggestionResult{}, fmt.Errorf("%w: unknown suggestion field %q", domain.ErrValidation, "cabin")
	}}

	rec := serve(newHTTPHandler(deps{sessions: sessions}), http.MethodPost,
		"/sessions/"+uuid.NewString()+"/suggestions", `{"field":"cabin","query":"lag"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- submit ----------------------------------------------------------------

func TestSubmitSession(t *testing.T) {
	ok := uuid.New()
	sessions := &mockSessionServicer{submit: func(_ context.Context, id uuid.UUID) (service.BuildResult, error) {
		if id != ok {
			return service.BuildResult{}, domain.ValidationErrors{"invalid origin", "invalid destination"}
		}
		return service.BuildResult{
			Request:  domain.SearchRequest{Origin: "LOS", Destination: "ABV", DepartureDate: "2026-01-15", Passengers: 1, CabinClass: "economy", Currency: "USD"},
			Warnings: []string{"multi-city searches only include the first segment"},
		}, nil
	}}
	h := newHTTPHandler(deps{sessions: sessions})

	rec := serve(h, http.MethodPost, "/sessions/"+ok.String()+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp handler.BuildResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "LOS", resp.Request.Origin)
	assert.Len(t, resp.Warnings, 1)

	rec = serve(h, http.MethodPost, "/sessions/"+uuid.NewString()+"/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, []string{"invalid origin", "invalid destination"}, e.Details)
	assert.Equal(t, "invalid origin; invalid destination", e.Message)
}
