// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/jakedibattista/Scout/internal/app"
	"github.com/jakedibattista/Scout/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Search runs the full pipeline for one scout query.
	Search(ctx context.Context, scoutUsername, query string) (*service.SearchResult, error)

	// Saved search operations.
	SaveSearch(ctx context.Context, scoutUsername, query string, notifyEmail bool) (model.SavedSearch, bool, error)
	ListSavedSearches(ctx context.Context, scoutUsername string) ([]model.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, id string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	searchHandler      *SearchHandler
	savedSearchHandler *SavedSearchHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		searchHandler:      NewSearchHandler(deps),
		savedSearchHandler: NewSavedSearchHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandlePostSearch, "search"))
	mux.HandleFunc("/searches", MetricsMiddleware(s.savedSearchHandler.HandleCollection, "searches"))
	mux.HandleFunc("/searches/", MetricsMiddleware(s.savedSearchHandler.HandleItem, "searches_item"))
}

// errorResponse is the failure envelope. OK is always false and Error
// carries the human-readable cause; Code stays alongside for clients that
// dispatch on a stable identifier.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{OK: false, Error: msg, Code: code})
}
