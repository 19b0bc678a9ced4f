// Package web serves a small read-only status page: the current digest and
// the full assignment list, rendered from markdown.
package web

import (
	"database/sql"
	"net/http"
	"time"
)

// NewServer creates and configures the HTTP server for the status page.
func NewServer(db *sql.DB, loc *time.Location, version, addr string) *http.Server {
	h := &Handlers{
		db:       db,
		loc:      loc,
		renderer: NewRenderer(version),
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/digest", http.StatusFound)
	})
	mux.HandleFunc("GET /digest", h.HandleDigest)
	mux.HandleFunc("GET /assignments", h.HandleAssignments)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:    addr,
		Handler: securityHeaders(mux),
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
