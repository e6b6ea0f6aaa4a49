package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ratifyhq/ratify/internal/apperror"
	"github.com/ratifyhq/ratify/internal/db"
)

type addFriendRequest struct {
	FriendID string `json:"friend_id"`
}

type friendMessage struct {
	Message string `json:"message"`
}

// AddFriend handles POST /api/friends. Adding an id already present leaves
// the list unchanged and says so. Friendship is directed: nothing is
// written to the other user's row.
func (h *Handlers) AddFriend(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req addFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation("body", "invalid friend payload"))
		return
	}
	if req.FriendID == "" {
		writeError(w, apperror.Validation("friend_id", "friend id is required"))
		return
	}
	if _, err := uuid.Parse(req.FriendID); err != nil {
		writeError(w, apperror.Validation("friend_id", "friend id must be a valid UUID"))
		return
	}
	if req.FriendID == ident.UserID {
		writeError(w, apperror.Validation("friend_id", "cannot add yourself as a friend"))
		return
	}

	added, err := h.users.AddFriend(r.Context(), ident.UserID, req.FriendID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, apperror.NotFound("user", ident.UserID))
		return
	}
	if err != nil {
		writeError(w, apperror.Store("adding friend", err))
		return
	}

	if !added {
		writeJSON(w, http.StatusOK, friendMessage{Message: "Friend already added"})
		return
	}
	writeJSON(w, http.StatusOK, friendMessage{Message: "Friend added successfully"})
}

// RemoveFriend handles DELETE /api/friends/{id}. Removing an id that is not
// listed reports so without mutating the list.
func (h *Handlers) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	friendID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(friendID); err != nil {
		writeError(w, apperror.Validation("id", "friend id must be a valid UUID"))
		return
	}

	removed, err := h.users.RemoveFriend(r.Context(), ident.UserID, friendID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, apperror.NotFound("user", ident.UserID))
		return
	}
	if err != nil {
		writeError(w, apperror.Store("removing friend", err))
		return
	}

	if !removed {
		writeJSON(w, http.StatusOK, friendMessage{Message: "Friend not in list"})
		return
	}
	writeJSON(w, http.StatusOK, friendMessage{Message: "Friend removed successfully"})
}

// ListFriends handles GET /api/friends, returning the caller's friend ids.
func (h *Handlers) ListFriends(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	friends, err := h.users.Friends(r.Context(), ident.UserID)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, apperror.NotFound("user", ident.UserID))
		return
	}
	if err != nil {
		writeError(w, apperror.Store("listing friends", err))
		return
	}

	if friends == nil {
		friends = []string{}
	}
	writeJSON(w, http.StatusOK, friends)
}
