package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ratifyhq/ratify/internal/apperror"
	"github.com/ratifyhq/ratify/internal/catalog"
)

// searchResultsJSON is the wire shape of a catalogue search.
type searchResultsJSON struct {
	Tracks []trackJSON `json:"tracks"`
	Albums []albumJSON `json:"albums"`
}

// playedTrackJSON is a recently played entry.
type playedTrackJSON struct {
	Track    trackJSON `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// SearchCatalogue handles GET /api/catalog/search?q=: track and album
// matches for one query, fetched with the caller's credential.
func (h *Handlers) SearchCatalogue(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, apperror.Validation("q", "search query is required"))
		return
	}

	results, err := h.catalogue(r.Context(), ident.Token).Search(r.Context(), query)
	if err != nil {
		writeError(w, apperror.Upstream("searching catalogue", err))
		return
	}

	out := searchResultsJSON{
		Tracks: make([]trackJSON, 0, len(results.Tracks)),
		Albums: make([]albumJSON, 0, len(results.Albums)),
	}
	for _, t := range results.Tracks {
		out.Tracks = append(out.Tracks, toTrackJSON(t))
	}
	for _, a := range results.Albums {
		out.Albums = append(out.Albums, toAlbumJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// CatalogueTrack handles GET /api/catalog/tracks/{id}.
func (h *Handlers) CatalogueTrack(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	track, err := h.catalogue(r.Context(), ident.Token).Track(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.Upstream("fetching track", err))
		return
	}
	writeJSON(w, http.StatusOK, toTrackJSON(*track))
}

// CatalogueAlbum handles GET /api/catalog/albums/{id}.
func (h *Handlers) CatalogueAlbum(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	album, err := h.catalogue(r.Context(), ident.Token).Album(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.Upstream("fetching album", err))
		return
	}
	writeJSON(w, http.StatusOK, toAlbumJSON(*album))
}

// RecentlyPlayed handles GET /api/catalog/recent: the caller's recent plays
// with timestamps, newest first as the service reports them.
func (h *Handlers) RecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	played, err := h.catalogue(r.Context(), ident.Token).RecentlyPlayed(r.Context())
	if err != nil {
		writeError(w, apperror.Upstream("fetching recent plays", err))
		return
	}

	out := make([]playedTrackJSON, 0, len(played))
	for _, p := range played {
		out = append(out, toPlayedTrackJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func toPlayedTrackJSON(p catalog.PlayedTrack) playedTrackJSON {
	return playedTrackJSON{Track: toTrackJSON(p.Track), PlayedAt: p.PlayedAt}
}
