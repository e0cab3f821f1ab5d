package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/contentops/benchconsole/internal/webapi"
)

var endpoints = []string{
	"GET /api/health",
	"GET /api/summary",
	"GET /api/runs?sort=&order=",
	"GET /api/runs/{id}",
	"GET /api/compare?days=",
}

// registerRoutes sets up the API routes and a root index on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	webapi.RegisterRoutes(mux, cfg.Store, cfg.HistoryDays)
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("/api/", handleUnknownAPI)
}

// handleIndex lists the available endpoints.
func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"service":   "benchconsole",
		"version":   webapi.Version,
		"endpoints": endpoints,
	})
}

// handleUnknownAPI returns 404 for paths under /api/ that no route matches.
func handleUnknownAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(webapi.ErrorResponse{Error: "unknown endpoint", Code: http.StatusNotFound}) //nolint:errcheck
}
