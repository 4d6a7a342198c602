// Package router sets up the HTTP routes and middleware chain for the
// modhub edge API.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"modhub/internal/handlers"
	"modhub/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up. allowedOrigins holds exact origins or simple
// wildcard patterns like "*.example.com"; empty means no cross-origin
// access, "*" means any.
func New(api *handlers.API, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return OriginAllowed(allowedOrigins, origin)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/health", api.Health)

	r.Get("/content", api.Content)
	r.Get("/content/{id}", api.ContentItem)
	r.Get("/stats", api.Stats)

	r.Post("/like", api.Like)
	r.Post("/rate", api.Rate)

	r.Get("/download", api.Download)
	r.Post("/download/track", api.TrackDownload)

	r.Post("/submit", api.Submit)

	return r
}

// OriginAllowed reports whether origin matches any configured pattern.
// A pattern is either "*", an exact origin, or "*.suffix" which matches
// any host ending in ".suffix" on any scheme.
func OriginAllowed(patterns []string, origin string) bool {
	for _, p := range patterns {
		if p == "*" {
			return true
		}
		if strings.EqualFold(p, origin) {
			return true
		}
		if suffix, ok := strings.CutPrefix(p, "*."); ok {
			host := origin
			if _, rest, found := strings.Cut(origin, "://"); found {
				host = rest
			}
			if strings.HasSuffix(host, "."+suffix) || host == suffix {
				return true
			}
		}
	}
	return false
}
