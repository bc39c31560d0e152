// Package suggest is the HTTP client for the remote Location Suggestion
// Service. It maps the service's loosely shaped records into domain.Place.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/tripsearch/backend/internal/codes"
	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// ErrUnavailable wraps every failure: transport errors, non-2xx statuses,
// unsuccessful envelopes and malformed payloads.
var ErrUnavailable = errors.New("suggestion service unavailable")

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 1 << 20

// Client queries the Location Suggestion Service.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a Client for endpoint. The query is sent as the "q"
// parameter; apiKey, when set, is sent as a bearer token.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the expected response shape. A missing "data" key leaves Data
// nil, which is rejected.
type envelope struct {
	Success bool     `json:"success"`
	Data    []record `json:"data"`
}

// record accepts both spellings the service has used for each field.
type record struct {
	IATACode    string `json:"iata_code"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	CityName    string `json:"city_name"`
	City        string `json:"city"`
	CountryName string `json:"country_name"`
	Country     string `json:"country"`
	Type        string `json:"type"`
}

// Suggest returns the places the service suggests for query, dropping
// records without a usable code or name. The error, if any, wraps ErrUnavailable.
func (c *Client) Suggest(ctx context.Context, query string) ([]domain.Place, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("suggest.Client.Suggest: %w: parse endpoint: %v", ErrUnavailable, err)
	}
	params := u.Query()
	params.Set("q", query)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("suggest.Client.Suggest: %w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest.Client.Suggest: %w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("suggest.Client.Suggest: %w: status %d", ErrUnavailable, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("suggest.Client.Suggest: %w: read body: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("suggest.Client.Suggest: %w: decode: %v", ErrUnavailable, err)
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("suggest.Client.Suggest: %w: unsuccessful response", ErrUnavailable)
	}

	places := make([]domain.Place, 0, len(env.Data))
	for _, r := range env.Data {
		if p, ok := r.toPlace(); ok {
			places = append(places, p)
		}
	}
	return places, nil
}

func (r record) toPlace() (domain.Place, bool) {
	code := strings.ToUpper(strings.TrimSpace(firstNonEmpty(r.IATACode, r.Code)))
	name := strings.TrimSpace(r.Name)
	if !codes.Valid(code) || name == "" {
		return domain.Place{}, false
	}
	kind := domain.PlaceAirport
	if strings.Contains(strings.ToLower(r.Type), "city") {
		kind = domain.PlaceCity
	}
	return domain.Place{
		Code:        code,
		DisplayName: name,
		City:        strings.TrimSpace(firstNonEmpty(r.CityName, r.City)),
		Country:     strings.TrimSpace(firstNonEmpty(r.CountryName, r.Country)),
		Kind:        kind,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
