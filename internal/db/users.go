package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles user database operations.
type UserRepository struct {
	pool *pgxpool.Pool
}

// Upsert creates a user on first login or refreshes display name and avatar
// on subsequent logins, keyed by the Spotify identity.
func (r *UserRepository) Upsert(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, spotify_id, display_name, profile_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (spotify_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = NOW()
		RETURNING id, friends, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.SpotifyID,
		user.DisplayName,
		user.ProfileImageURL,
	).Scan(&user.ID, &user.Friends, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

// Get retrieves a user by internal ID.
func (r *UserRepository) Get(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, spotify_id, display_name, profile_image_url, friends, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetBySpotifyID retrieves a user by Spotify ID.
func (r *UserRepository) GetBySpotifyID(ctx context.Context, spotifyID string) (*User, error) {
	query := `
		SELECT id, spotify_id, display_name, profile_image_url, friends, created_at, updated_at
		FROM users
		WHERE spotify_id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, spotifyID))
}

func (r *UserRepository) scanOne(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.SpotifyID,
		&user.DisplayName,
		&user.ProfileImageURL,
		&user.Friends,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

// Search finds users whose display name contains the query, case-insensitive,
// ordered by display name and capped.
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]PublicUser, error) {
	sql := `
		SELECT id, spotify_id, display_name, profile_image_url
		FROM users
		WHERE display_name ILIKE '%' || $1 || '%'
		ORDER BY display_name
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var users []PublicUser
	for rows.Next() {
		var u PublicUser
		if err := rows.Scan(&u.ID, &u.SpotifyID, &u.DisplayName, &u.ProfileImageURL); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddFriend appends friendID to the user's friend list if absent.
// The append is a single conditional UPDATE, so concurrent adds of the same
// id cannot produce duplicates. Returns false when the id was already listed.
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) (bool, error) {
	if _, err := r.Get(ctx, userID); err != nil {
		return false, err
	}
	query := `
		UPDATE users
		SET friends = array_append(friends, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(friends))
	`
	result, err := r.pool.Exec(ctx, query, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("adding friend: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// RemoveFriend filters friendID out of the user's friend list.
// Returns false without mutating when the id was not listed.
func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID string) (bool, error) {
	if _, err := r.Get(ctx, userID); err != nil {
		return false, err
	}
	query := `
		UPDATE users
		SET friends = array_remove(friends, $2), updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(friends)
	`
	result, err := r.pool.Exec(ctx, query, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("removing friend: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Friends returns the user's friend-id list.
func (r *UserRepository) Friends(ctx context.Context, userID string) ([]string, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Friends, nil
}
