// Package review orchestrates review submission: load any existing review,
// prefill, then create-or-update.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ratifyhq/ratify/internal/db"
	"github.com/ratifyhq/ratify/internal/rating"
)

// DefaultStars is the neutral prefill shown when the caller has not yet
// reviewed the item.
const DefaultStars = 2.5

// Mode says whether a submission creates a first review or edits one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Store is the rating persistence the service needs. *db.RatingRepository
// satisfies it.
type Store interface {
	Get(ctx context.Context, userID, itemID string) (*db.Rating, error)
	Upsert(ctx context.Context, row *db.Rating) error
}

// Form is the prefilled state for the review form. Existing is nil in
// create mode; its absence is not an error.
type Form struct {
	Mode     Mode
	Stars    float64
	Review   string
	Existing *db.Rating
}

// Service loads and submits reviews against one rating store.
type Service struct {
	store Store
}

// New creates a review service over the given rating store.
func New(store Store) *Service {
	return &Service{store: store}
}

// Load fetches the caller's existing review for the item and returns the
// prefilled form. A missing review selects create mode; only real store
// failures return an error.
func (s *Service) Load(ctx context.Context, userID, itemID string) (*Form, error) {
	existing, err := s.store.Get(ctx, userID, itemID)
	if errors.Is(err, db.ErrNotFound) {
		return &Form{Mode: ModeCreate, Stars: DefaultStars}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading existing review: %w", err)
	}
	return &Form{
		Mode:     ModeEdit,
		Stars:    rating.ToStars(existing.Rating),
		Review:   existing.Review,
		Existing: existing,
	}, nil
}

// Submit converts the star input to the stored scale and upserts the
// caller's review in one statement, so a stale create-vs-edit mode can
// never produce a duplicate row. Returns the saved row.
func (s *Service) Submit(ctx context.Context, userID, itemID string, stars float64, review string) (*db.Rating, error) {
	row := &db.Rating{
		UserID: userID,
		ItemID: itemID,
		Rating: rating.FromStars(stars),
		Review: strings.TrimSpace(review),
	}
	if err := s.store.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("submitting review: %w", err)
	}
	return row, nil
}
