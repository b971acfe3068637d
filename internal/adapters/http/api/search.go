// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	repository "github.com/jakedibattista/Scout/internal/adapters/repository"
	"github.com/jakedibattista/Scout/internal/domain/model"
)

// searchRequest mirrors the OpenAPI schema for POST /search.
type searchRequest struct {
	ScoutUsername string `json:"scoutUsername"`
	Query         string `json:"query"`
}

func (r searchRequest) validate() error {
	// An empty query is allowed: it runs the default plan with reduced
	// precision rather than failing the request.
	if strings.TrimSpace(r.ScoutUsername) == "" {
		return errors.New("missing scoutUsername")
	}
	return nil
}

// searchResponse mirrors the OpenAPI schema for the search result envelope.
type searchResponse struct {
	OK            bool                   `json:"ok"`
	Plan          model.QueryPlan        `json:"plan"`
	ParsedFilters model.EffectiveFilters `json:"parsedFilters"`
	Results       []model.RankedResult   `json:"results"`
	Considered    int                    `json:"considered"`
	Matched       int                    `json:"matched"`
}

// SearchHandler handles search requests.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandlePostSearch handles POST /search requests.
func (h *SearchHandler) HandlePostSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_search"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Search(r.Context(), req.ScoutUsername, req.Query)
	if err != nil {
		if errors.Is(err, repository.ErrScoutNotFound) {
			writeError(w, http.StatusNotFound, "scout_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		OK:            true,
		Plan:          res.Plan,
		ParsedFilters: res.Filters,
		Results:       res.Results,
		Considered:    res.Considered,
		Matched:       res.Matched,
	})
}
