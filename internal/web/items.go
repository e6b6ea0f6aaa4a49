package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ratifyhq/ratify/internal/apperror"
	"github.com/ratifyhq/ratify/internal/db"
)

// songDetailJSON composes everything the track page needs in one response.
type songDetailJSON struct {
	Track    trackJSON    `json:"track"`
	IsLiked  bool         `json:"is_liked"`
	MyReview *reviewJSON  `json:"my_review"`
	Reviews  []reviewJSON `json:"reviews"`
}

// albumDetailJSON mirrors songDetailJSON for albums.
type albumDetailJSON struct {
	Album    albumJSON    `json:"album"`
	IsLiked  bool         `json:"is_liked"`
	MyReview *reviewJSON  `json:"my_review"`
	Reviews  []reviewJSON `json:"reviews"`
}

// SongDetail handles GET /api/songs/{id}: catalogue lookup, like state,
// the caller's own review, and everyone's reviews. The local mirror upsert
// is best-effort; only the catalogue lookup can fail the page.
func (h *Handlers) SongDetail(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "id")
	ctx := r.Context()

	track, err := h.catalogue(ctx, ident.Token).Track(ctx, itemID)
	if err != nil {
		writeError(w, apperror.Upstream("fetching track", err))
		return
	}

	// Mirror the song locally so future like/rating rows can reference it.
	song := &db.Song{
		SpotifyID: track.ID,
		Name:      track.Name,
		Artist:    track.Artist,
		AlbumID:   track.AlbumID,
	}
	if err := h.songs.Ensure(ctx, song); err != nil {
		h.logger.Warn("mirroring song", slog.String("song_id", itemID), slog.String("error", err.Error()))
	}

	detail := songDetailJSON{
		Track:   toTrackJSON(*track),
		Reviews: []reviewJSON{},
	}
	h.fillItemState(r, ident, itemID, h.songLikes, h.songRatings, &detail.IsLiked, &detail.MyReview, &detail.Reviews)
	writeJSON(w, http.StatusOK, detail)
}

// AlbumDetail handles GET /api/albums/{id}.
func (h *Handlers) AlbumDetail(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "id")
	ctx := r.Context()

	album, err := h.catalogue(ctx, ident.Token).Album(ctx, itemID)
	if err != nil {
		writeError(w, apperror.Upstream("fetching album", err))
		return
	}

	row := &db.Album{
		SpotifyID: album.ID,
		Name:      album.Name,
		Artist:    album.Artist,
		ImageURL:  album.ImageURL,
	}
	if err := h.albums.Ensure(ctx, row); err != nil {
		h.logger.Warn("mirroring album", slog.String("album_id", itemID), slog.String("error", err.Error()))
	}

	detail := albumDetailJSON{
		Album:   toAlbumJSON(*album),
		Reviews: []reviewJSON{},
	}
	h.fillItemState(r, ident, itemID, h.albumLikes, h.albumRatings, &detail.IsLiked, &detail.MyReview, &detail.Reviews)
	writeJSON(w, http.StatusOK, detail)
}

// fillItemState loads the like flag, own review, and review list for an
// item. Each read is independent: a failing read is logged and its field
// keeps its zero value, matching the page's section-by-section rendering.
func (h *Handlers) fillItemState(r *http.Request, ident *Identity, itemID string, likes LikeStore, ratings RatingStore, isLiked *bool, myReview **reviewJSON, reviews *[]reviewJSON) {
	ctx := r.Context()

	liked, err := likes.IsLiked(ctx, ident.SpotifyID, itemID)
	if err != nil {
		h.logger.Warn("checking like", slog.String("item_id", itemID), slog.String("error", err.Error()))
	} else {
		*isLiked = liked
	}

	own, err := ratings.Get(ctx, ident.UserID, itemID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		// Unreviewed; leave MyReview null.
	case err != nil:
		h.logger.Warn("loading own review", slog.String("item_id", itemID), slog.String("error", err.Error()))
	default:
		out := toReviewJSON(own)
		*myReview = &out
	}

	rows, err := ratings.ListForItem(ctx, itemID)
	if err != nil {
		h.logger.Warn("listing reviews", slog.String("item_id", itemID), slog.String("error", err.Error()))
		return
	}
	for _, row := range rows {
		*reviews = append(*reviews, toItemReviewJSON(row))
	}
}
