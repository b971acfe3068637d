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

// savedSearchRequest mirrors the OpenAPI schema for POST /searches.
type savedSearchRequest struct {
	ScoutUsername string `json:"scoutUsername"`
	Query         string `json:"query"`
	NotifyEmail   bool   `json:"notifyEmail"`
}

func (r savedSearchRequest) validate() error {
	switch {
	case strings.TrimSpace(r.ScoutUsername) == "":
		return errors.New("missing scoutUsername")
	case strings.TrimSpace(r.Query) == "":
		return errors.New("missing query")
	}
	return nil
}

// savedSearchResponse wraps one stored search with its dedupe outcome.
type savedSearchResponse struct {
	Saved     model.SavedSearch `json:"saved"`
	Duplicate bool              `json:"duplicate"`
}

// SavedSearchHandler handles saved search requests.
type SavedSearchHandler struct {
	deps Dependencies
}

// NewSavedSearchHandler creates a new saved search handler.
func NewSavedSearchHandler(deps Dependencies) *SavedSearchHandler {
	return &SavedSearchHandler{deps: deps}
}

// HandleCollection handles POST /searches and GET /searches?scoutUsername=.
func (h *SavedSearchHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SavedSearchHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_saved_search"
	var req savedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	saved, duplicate, err := h.deps.SaveSearch(r.Context(), req.ScoutUsername, req.Query, req.NotifyEmail)
	if err != nil {
		if errors.Is(err, repository.ErrScoutNotFound) {
			writeError(w, http.StatusNotFound, "scout_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}

	status := http.StatusCreated
	if duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, savedSearchResponse{Saved: saved, Duplicate: duplicate})
}

func (h *SavedSearchHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_saved_searches"
	username := strings.TrimSpace(r.URL.Query().Get("scoutUsername"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing scoutUsername", op, ErrBadRequest))
		return
	}

	list, err := h.deps.ListSavedSearches(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrScoutNotFound) {
			writeError(w, http.StatusNotFound, "scout_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleItem handles DELETE /searches/{id} requests.
func (h *SavedSearchHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_saved_search"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/searches/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing id", op, ErrBadRequest))
		return
	}

	if err := h.deps.DeleteSavedSearch(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSavedSearchNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
