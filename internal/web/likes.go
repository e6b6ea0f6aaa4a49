package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ratifyhq/ratify/internal/apperror"
	"github.com/ratifyhq/ratify/internal/db"
)

// ensureSong mirrors the track into the local songs table so like and
// rating rows have something to reference.
func (h *Handlers) ensureSong(ctx context.Context, cat Catalogue, itemID string) error {
	track, err := cat.Track(ctx, itemID)
	if err != nil {
		return apperror.Upstream("fetching track", err)
	}
	song := &db.Song{
		SpotifyID: track.ID,
		Name:      track.Name,
		Artist:    track.Artist,
		AlbumID:   track.AlbumID,
	}
	if err := h.songs.Ensure(ctx, song); err != nil {
		return apperror.Store("saving song", err)
	}
	return nil
}

// ensureAlbum mirrors the album into the local albums table.
func (h *Handlers) ensureAlbum(ctx context.Context, cat Catalogue, itemID string) error {
	album, err := cat.Album(ctx, itemID)
	if err != nil {
		return apperror.Upstream("fetching album", err)
	}
	row := &db.Album{
		SpotifyID: album.ID,
		Name:      album.Name,
		Artist:    album.Artist,
		ImageURL:  album.ImageURL,
	}
	if err := h.albums.Ensure(ctx, row); err != nil {
		return apperror.Store("saving album", err)
	}
	return nil
}

// like handles POST /api/{kind}/{id}/like. The item is mirrored locally
// before the like row is written; re-liking is a no-op.
func (h *Handlers) like(likes LikeStore, ensure func(context.Context, Catalogue, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := identity(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		itemID := chi.URLParam(r, "id")

		cat := h.catalogue(r.Context(), ident.Token)
		if err := ensure(r.Context(), cat, itemID); err != nil {
			writeError(w, err)
			return
		}

		if err := likes.Like(r.Context(), ident.SpotifyID, itemID); err != nil {
			writeError(w, apperror.Store("adding like", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// unlike handles DELETE /api/{kind}/{id}/like, succeeding silently when the
// item was not liked.
func (h *Handlers) unlike(likes LikeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := identity(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		itemID := chi.URLParam(r, "id")

		if err := likes.Unlike(r.Context(), ident.SpotifyID, itemID); err != nil {
			writeError(w, apperror.Store("removing like", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// checkLike handles GET /api/{kind}/{id}/like. Absence reads as false.
func (h *Handlers) checkLike(likes LikeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := identity(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		itemID := chi.URLParam(r, "id")

		liked, err := likes.IsLiked(r.Context(), ident.SpotifyID, itemID)
		if err != nil {
			writeError(w, apperror.Store("checking like", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"is_liked": liked})
	}
}

// ListLikedSongs handles GET /api/likes/songs: the stored ids are resolved
// against the catalogue in one bulk lookup.
func (h *Handlers) ListLikedSongs(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	ids, err := h.songLikes.ListLiked(r.Context(), ident.SpotifyID)
	if err != nil {
		writeError(w, apperror.Store("listing likes", err))
		return
	}

	tracks, err := h.catalogue(r.Context(), ident.Token).Tracks(r.Context(), ids)
	if err != nil {
		writeError(w, apperror.Upstream("fetching liked tracks", err))
		return
	}

	out := make([]trackJSON, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, toTrackJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListLikedAlbums handles GET /api/likes/albums.
func (h *Handlers) ListLikedAlbums(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	ids, err := h.albumLikes.ListLiked(r.Context(), ident.SpotifyID)
	if err != nil {
		writeError(w, apperror.Store("listing likes", err))
		return
	}

	albums, err := h.catalogue(r.Context(), ident.Token).Albums(r.Context(), ids)
	if err != nil {
		writeError(w, apperror.Upstream("fetching liked albums", err))
		return
	}

	out := make([]albumJSON, 0, len(albums))
	for _, a := range albums {
		out = append(out, toAlbumJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}
