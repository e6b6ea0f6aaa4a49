package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ratifyhq/ratify/internal/apperror"
	"github.com/ratifyhq/ratify/internal/db"
	"github.com/ratifyhq/ratify/internal/rating"
	"github.com/ratifyhq/ratify/internal/review"
)

// reviewRequest is the submission body. Stars carries the 0.5-5 half-star
// input; out-of-range values are coerced, not rejected.
type reviewRequest struct {
	Stars  float64 `json:"stars"`
	Review string  `json:"review"`
}

// submitReview handles POST /api/{kind}/{id}/reviews: create-or-replace the
// caller's review in one upsert.
func (h *Handlers) submitReview(reviews *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := identity(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		itemID := chi.URLParam(r, "id")

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperror.Validation("body", "invalid review payload"))
			return
		}

		saved, err := reviews.Submit(r.Context(), ident.UserID, itemID, req.Stars, req.Review)
		if err != nil {
			writeError(w, apperror.Store("submitting review", err))
			return
		}
		writeJSON(w, http.StatusOK, toReviewJSON(saved))
	}
}

// updateReview handles PUT /api/{kind}/{id}/reviews: rewrite an existing
// review, 404 when the caller has none.
func (h *Handlers) updateReview(ratings RatingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := identity(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		itemID := chi.URLParam(r, "id")

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperror.Validation("body", "invalid review payload"))
			return
		}

		row := &db.Rating{
			UserID: ident.UserID,
			ItemID: itemID,
			Rating: rating.FromStars(req.Stars),
			Review: strings.TrimSpace(req.Review),
		}
		err = ratings.Update(r.Context(), row)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, apperror.NotFound("review", itemID))
			return
		}
		if err != nil {
			writeError(w, apperror.Store("updating review", err))
			return
		}

		saved, err := ratings.Get(r.Context(), ident.UserID, itemID)
		if err != nil {
			writeError(w, apperror.Store("reloading review", err))
			return
		}
		writeJSON(w, http.StatusOK, toReviewJSON(saved))
	}
}

// listItemReviews handles GET /api/{kind}/{id}/reviews: every review for
// the item joined with the rater's public identity, newest first.
func (h *Handlers) listItemReviews(ratings RatingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "id")

		rows, err := ratings.ListForItem(r.Context(), itemID)
		if err != nil {
			writeError(w, apperror.Store("listing reviews", err))
			return
		}

		out := make([]reviewJSON, 0, len(rows))
		for _, row := range rows {
			out = append(out, toItemReviewJSON(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// reviewFormJSON is the prefilled create/edit form state.
type reviewFormJSON struct {
	Mode     string      `json:"mode"`
	Stars    float64     `json:"stars"`
	Review   string      `json:"review"`
	Existing *reviewJSON `json:"existing"`
}

// reviewForm handles GET /api/{kind}/{id}/reviews/form: the prefilled form
// for the caller, create mode with the neutral default when the item is
// unreviewed.
func (h *Handlers) reviewForm(reviews *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := identity(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		itemID := chi.URLParam(r, "id")

		form, err := reviews.Load(r.Context(), ident.UserID, itemID)
		if err != nil {
			writeError(w, apperror.Store("loading review form", err))
			return
		}

		out := reviewFormJSON{
			Mode:   string(form.Mode),
			Stars:  form.Stars,
			Review: form.Review,
		}
		if form.Existing != nil {
			existing := toReviewJSON(form.Existing)
			out.Existing = &existing
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// myReview handles GET /api/{kind}/{id}/reviews/me: the caller's own review
// or a 404 signal when the item is unreviewed.
func (h *Handlers) myReview(ratings RatingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, err := identity(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		itemID := chi.URLParam(r, "id")

		row, err := ratings.Get(r.Context(), ident.UserID, itemID)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, apperror.NotFound("review", itemID))
			return
		}
		if err != nil {
			writeError(w, apperror.Store("loading review", err))
			return
		}
		writeJSON(w, http.StatusOK, toReviewJSON(row))
	}
}
