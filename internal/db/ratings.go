package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ratifyhq/ratify/internal/rating"
)

// RatingRepository handles rating database operations for one item kind.
// The song and album tables share a shape, so the repository is
// parameterized by table and item column (both fixed constants, never
// caller input).
type RatingRepository struct {
	pool       *pgxpool.Pool
	table      string
	itemColumn string
}

// Upsert creates or replaces the caller's rating for an item in a single
// statement keyed by (user, item). This is the only write path for new
// rows; there is no separate check-then-insert window.
func (r *RatingRepository) Upsert(ctx context.Context, row *Rating) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.Rating = rating.Clamp(row.Rating)
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, %s, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, %s) DO UPDATE SET
			rating = EXCLUDED.rating,
			review = EXCLUDED.review
		RETURNING id, created_at
	`, r.table, r.itemColumn, r.itemColumn)
	err := r.pool.QueryRow(ctx, query,
		row.ID,
		row.UserID,
		row.ItemID,
		row.Rating,
		row.Review,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting rating: %w", err)
	}
	return nil
}

// Update rewrites an existing rating matched by (item, user).
// Returns ErrNotFound when no row matches.
func (r *RatingRepository) Update(ctx context.Context, row *Rating) error {
	row.Rating = rating.Clamp(row.Rating)
	query := fmt.Sprintf(`
		UPDATE %s
		SET rating = $3, review = $4
		WHERE %s = $1 AND user_id = $2
	`, r.table, r.itemColumn)
	result, err := r.pool.Exec(ctx, query, row.ItemID, row.UserID, row.Rating, row.Review)
	if err != nil {
		return fmt.Errorf("updating rating: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the caller's rating for an item, or ErrNotFound. Absence is a
// normal state for unreviewed items; callers distinguish it from failure
// with errors.Is.
func (r *RatingRepository) Get(ctx context.Context, userID, itemID string) (*Rating, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, %s, rating, review, created_at
		FROM %s
		WHERE user_id = $1 AND %s = $2
	`, r.itemColumn, r.table, r.itemColumn)
	var row Rating
	err := r.pool.QueryRow(ctx, query, userID, itemID).Scan(
		&row.ID,
		&row.UserID,
		&row.ItemID,
		&row.Rating,
		&row.Review,
		&row.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying rating: %w", err)
	}
	return &row, nil
}

// ListForItem returns all ratings for an item joined with each rater's
// public identity, most recent first.
func (r *RatingRepository) ListForItem(ctx context.Context, itemID string) ([]ItemRating, error) {
	query := fmt.Sprintf(`
		SELECT rt.id, rt.user_id, rt.%s, rt.rating, rt.review, rt.created_at,
		       u.display_name, u.profile_image_url
		FROM %s rt
		JOIN users u ON u.id = rt.user_id
		WHERE rt.%s = $1
		ORDER BY rt.created_at DESC
	`, r.itemColumn, r.table, r.itemColumn)
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying item ratings: %w", err)
	}
	defer rows.Close()

	var ratings []ItemRating
	for rows.Next() {
		var ir ItemRating
		if err := rows.Scan(
			&ir.ID,
			&ir.UserID,
			&ir.ItemID,
			&ir.Rating.Rating,
			&ir.Review,
			&ir.CreatedAt,
			&ir.DisplayName,
			&ir.ProfileImageURL,
		); err != nil {
			return nil, fmt.Errorf("scanning item rating: %w", err)
		}
		ratings = append(ratings, ir)
	}
	return ratings, rows.Err()
}

// ActivityRepository reads a user's combined song and album ratings
// annotated with item display data, for walls and the friend feed.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// ListForUser returns all of a user's ratings across songs and albums,
// most recent first. Returns ErrNotFound when the user does not exist.
func (r *ActivityRepository) ListForUser(ctx context.Context, userID string) ([]ActivityEntry, error) {
	var displayName, profileImageURL string
	err := r.pool.QueryRow(ctx,
		`SELECT display_name, profile_image_url FROM users WHERE id = $1`, userID,
	).Scan(&displayName, &profileImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	query := `
		SELECT 'song' AS type, rt.song_id, rt.rating, rt.review, rt.created_at,
		       COALESCE(s.name, ''), COALESCE(s.artist, ''), '' AS image_url
		FROM song_ratings rt
		LEFT JOIN songs s ON s.spotify_id = rt.song_id
		WHERE rt.user_id = $1
		UNION ALL
		SELECT 'album' AS type, rt.album_id, rt.rating, rt.review, rt.created_at,
		       COALESCE(a.name, ''), COALESCE(a.artist, ''), COALESCE(a.image_url, '')
		FROM album_ratings rt
		LEFT JOIN albums a ON a.spotify_id = rt.album_id
		WHERE rt.user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying user activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		entry := ActivityEntry{
			UserID:          userID,
			DisplayName:     displayName,
			ProfileImageURL: profileImageURL,
		}
		if err := rows.Scan(
			&entry.Type,
			&entry.ItemID,
			&entry.Rating,
			&entry.Review,
			&entry.CreatedAt,
			&entry.Name,
			&entry.Artist,
			&entry.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
