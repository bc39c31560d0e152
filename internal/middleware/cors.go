// Package middleware provides reusable HTTP middleware for the trip search API.
package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// corsMaxAge is how long browsers may cache a preflight answer.
const corsMaxAge = 5 * time.Minute

// NewCORSHandler returns a middleware that lets the search form, served from
// one of allowedOrigins, call the API. Entries are trimmed and a trailing slash
// is dropped, so "http://localhost:5173/" in CORS_ORIGINS still matches the
// browser's Origin header. An empty list admits no cross-origin caller.
//
// The request ID header may be sent by the client and is readable in
// responses, so the form can quote it in bug reports.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", chimiddleware.RequestIDHeader},
		ExposedHeaders: []string{chimiddleware.RequestIDHeader},
		MaxAge:         int(corsMaxAge.Seconds()),
	}
	origins := normalizeOrigins(allowedOrigins)
	if len(origins) == 0 {
		// rs/cors treats an empty list as "*".
		opts.AllowOriginFunc = func(string) bool { return false }
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts).Handler
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
