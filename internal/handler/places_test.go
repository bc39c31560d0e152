package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripsearch/backend/internal/domain"
	"github.com/pkordes/tripsearch/backend/internal/handler"
)

func TestListPlaces_200(t *testing.T) {
	var gotQuery string
	places := &mockResolver{resolve: func(_ context.Context, q string) []domain.Place {
		gotQuery = q
		return []domain.Place{{Code: "LOS", DisplayName: "Murtala Muhammed International Airport", City: "Lagos", Country: "Nigeria", Kind: domain.PlaceAirport}}
	}}

	req := httptest.NewRequest(http.MethodGet, "/places?q=lag", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{places: places}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lag", gotQuery)

	var resp handler.PlacesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "LOS", resp.Data[0].Code)
	assert.Equal(t, "LOS - Lagos, Nigeria", resp.Data[0].Label)
}

func TestListPlaces_EmptyResultIsEmptyArray(t *testing.T) {
	places := &mockResolver{resolve: func(context.Context, string) []domain.Place {
		return []domain.Place{}
	}}

	req := httptest.NewRequest(http.MethodGet, "/places?q=zzzz", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(deps{places: places}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestExtractCode(t *testing.T) {
	cases := []struct {
		text  string
		code  string
		valid bool
	}{
		{"LOS - Lagos, Nigeria", "LOS", true},
		{"Flying to Abuja", "ABV", true},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/codes", nil)
			q := req.URL.Query()
			q.Set("text", tc.text)
			req.URL.RawQuery = q.Encode()
			rec := httptest.NewRecorder()

			newHTTPHandler(deps{}).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var resp handler.CodeResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.valid, resp.Valid)
		})
	}
}
