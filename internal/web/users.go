package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ratifyhq/ratify/internal/apperror"
	"github.com/ratifyhq/ratify/internal/db"
)

// searchLimit caps user search results.
const userSearchLimit = 20

// SearchUsers handles GET /api/users/search?query=: case-insensitive
// substring match on display name, ordered, capped.
func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusOK, map[string][]userJSON{"users": {}})
		return
	}

	users, err := h.users.Search(r.Context(), query, userSearchLimit)
	if err != nil {
		writeError(w, apperror.Store("searching users", err))
		return
	}

	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	writeJSON(w, http.StatusOK, map[string][]userJSON{"users": out})
}

// UserActivity handles GET /api/users/{id}/activity: one user's merged
// song and album ratings, newest first, annotated with their identity.
// Serves walls and the feed fan-out.
func (h *Handlers) UserActivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	entries, err := h.activity.ListForUser(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, apperror.NotFound("user", userID))
		return
	}
	if err != nil {
		writeError(w, apperror.Store("listing activity", err))
		return
	}

	writeJSON(w, http.StatusOK, toActivityListJSON(entries))
}
