package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripsearch/backend/internal/catalog"
	"github.com/pkordes/tripsearch/backend/internal/domain"
)

func TestCatalog_TopN(t *testing.T) {
	c := catalog.Default()

	got := c.TopN(8)

	require.Len(t, got, 8)
	assert.Equal(t, "LOS", got[0].Code)
	assert.Equal(t, "ABV", got[1].Code)
}

func TestCatalog_TopN_MoreThanAvailable(t *testing.T) {
	c := catalog.Default()

	assert.Len(t, c.TopN(c.Len()+50), c.Len())
	assert.Empty(t, c.TopN(-1))
}

func TestCatalog_TopN_ReturnsCopy(t *testing.T) {
	c := catalog.Default()

	got := c.TopN(1)
	got[0].Code = "XXX"

	assert.Equal(t, "LOS", c.TopN(1)[0].Code)
}

func TestCatalog_Search_MatchesCodeCityCountryAndName(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		query string
		want  string
	}{
		{"los", "LOS"},
		{"ABUJA", "ABV"},
		{"ghana", "ACC"},
		{"Schiphol", "AMS"},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got := c.Search(tc.query, 0)
			require.NotEmpty(t, got)
			assert.Equal(t, tc.want, got[0].Code)
		})
	}
}

func TestCatalog_Search_CapsResults(t *testing.T) {
	c := catalog.Default()

	// "a" appears in nearly every record.
	assert.Len(t, c.Search("a", 0), catalog.DefaultSearchLimit)
	assert.Len(t, c.Search("a", 3), 3)
}

func TestCatalog_Search_EmptyQuery(t *testing.T) {
	got := catalog.Default().Search("   ", 10)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalog_New_ExtraPlacesOverrideBuiltin(t *testing.T) {
	override := domain.Place{Code: "LOS", DisplayName: "Lagos Intl", City: "lagos", Country: "Nigeria", Kind: domain.PlaceAirport}
	extra := domain.Place{Code: "ENU", DisplayName: "Akanu Ibiam International Airport", City: "Enugu", Country: "Nigeria", Kind: domain.PlaceAirport}

	c := catalog.New(override, extra)

	assert.Equal(t, catalog.Default().Len()+1, c.Len())
	got := c.Search("LOS", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "Lagos Intl", got[0].DisplayName)
}

func TestCatalog_MatchText(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"lagos", "LOS", true},
		{"Heathrow", "LHR", true},
		{"Flying to Nairobi soon", "NBO", true},
		{"atlantis", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := c.MatchText(tc.text)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got.Code)
		})
	}
}
