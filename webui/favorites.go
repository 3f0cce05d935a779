package webui

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"promptwizard/store"
)

// FavoritesStore is the persistence surface for saved prompts. Implemented
// by store.PromptStore.
type FavoritesStore interface {
	List(ctx context.Context, owner string) ([]store.PromptRecord, error)
	Append(ctx context.Context, owner string, record store.PromptRecord) (store.PromptRecord, error)
	DeleteByID(ctx context.Context, owner, id string) error
}

type favoriteRequest struct {
	Category    string `json:"category"`
	Description string `json:"desc"`
	Generation  string `json:"prompt"`
}

// handleFavorites serves the favorites collection: GET lists the caller's
// saved prompts, POST saves a new one. Requires an authenticated session.
func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		records, err := s.favorites.List(r.Context(), username)
		if err != nil {
			s.logger.Error("listing favorites failed", zap.String("username", username), zap.Error(err))
			writeError(w, http.StatusBadGateway, "favorites store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, records)

	case http.MethodPost:
		var req favoriteRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Generation) == "" {
			writeError(w, http.StatusBadRequest, "prompt is required")
			return
		}

		saved, err := s.favorites.Append(r.Context(), username, store.PromptRecord{
			Category:    req.Category,
			Description: req.Description,
			Generation:  req.Generation,
		})
		if err != nil {
			if errors.Is(err, store.ErrTooManyConflicts) {
				writeError(w, http.StatusConflict, "favorites document is busy, try again")
				return
			}
			s.logger.Error("saving favorite failed", zap.String("username", username), zap.Error(err))
			writeError(w, http.StatusBadGateway, "favorites store unavailable")
			return
		}
		writeJSON(w, http.StatusCreated, saved)

	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

// handleFavoriteByID serves DELETE /api/favorites/{id}.
func (s *Server) handleFavoriteByID(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "DELETE required")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/favorites/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "favorite id is required")
		return
	}

	err := s.favorites.DeleteByID(r.Context(), username, id)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "favorite not found")
	case errors.Is(err, store.ErrTooManyConflicts):
		writeError(w, http.StatusConflict, "favorites document is busy, try again")
	case err != nil:
		s.logger.Error("deleting favorite failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusBadGateway, "favorites store unavailable")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
