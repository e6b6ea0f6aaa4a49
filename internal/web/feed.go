package web

import (
	"net/http"

	"github.com/ratifyhq/ratify/internal/apperror"
)

// feedJSON pairs the merged entries with the sidebar friend list.
type feedJSON struct {
	Friends []friendJSON   `json:"friends"`
	Entries []activityJSON `json:"entries"`
}

// Feed handles GET /api/feed: every friend's rating activity merged
// newest-first, plus the friends who contributed at least one entry.
func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	activity, err := h.feed.ForUser(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, apperror.Store("building feed", err))
		return
	}

	writeJSON(w, http.StatusOK, feedJSON{
		Friends: toFriendListJSON(activity.Friends),
		Entries: toActivityListJSON(activity.Entries),
	})
}

// Me handles GET /api/me: the session's identity without a round trip to
// the catalogue.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, apperror.Store("loading user", err))
		return
	}

	writeJSON(w, http.StatusOK, userJSON{
		ID:              user.ID,
		SpotifyID:       user.SpotifyID,
		DisplayName:     user.DisplayName,
		ProfileImageURL: user.ProfileImageURL,
	})
}
