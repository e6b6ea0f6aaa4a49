package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository handles like database operations for one item kind.
// Likes are keyed by (Spotify user id, item id); row existence is the liked
// state. The unique key on the pair keeps repeated likes from accumulating
// duplicate rows.
type LikeRepository struct {
	pool       *pgxpool.Pool
	table      string
	itemColumn string
}

// Like marks the item as liked. Re-liking an already liked item is a no-op.
func (r *LikeRepository) Like(ctx context.Context, spotifyID, itemID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (spotify_id, %s, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (spotify_id, %s) DO NOTHING
	`, r.table, r.itemColumn, r.itemColumn)
	_, err := r.pool.Exec(ctx, query, spotifyID, itemID)
	if err != nil {
		return fmt.Errorf("inserting like: %w", err)
	}
	return nil
}

// Unlike removes the like by exact match, succeeding silently when the item
// is not currently liked.
func (r *LikeRepository) Unlike(ctx context.Context, spotifyID, itemID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE spotify_id = $1 AND %s = $2
	`, r.table, r.itemColumn)
	_, err := r.pool.Exec(ctx, query, spotifyID, itemID)
	if err != nil {
		return fmt.Errorf("deleting like: %w", err)
	}
	return nil
}

// IsLiked reports whether the item is liked. Absence is false, not an error.
func (r *LikeRepository) IsLiked(ctx context.Context, spotifyID, itemID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE spotify_id = $1 AND %s = $2)
	`, r.table, r.itemColumn)
	var liked bool
	if err := r.pool.QueryRow(ctx, query, spotifyID, itemID).Scan(&liked); err != nil {
		return false, fmt.Errorf("checking like: %w", err)
	}
	return liked, nil
}

// ListLiked returns the ids of all items the user has liked, most recent
// first. Callers resolve display data against the catalogue separately.
func (r *LikeRepository) ListLiked(ctx context.Context, spotifyID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE spotify_id = $1 ORDER BY created_at DESC
	`, r.itemColumn, r.table)
	rows, err := r.pool.Query(ctx, query, spotifyID)
	if err != nil {
		return nil, fmt.Errorf("querying likes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning like: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
