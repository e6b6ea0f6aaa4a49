package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AlbumRepository handles album database operations, mirroring the lazy
// idempotent creation pattern of SongRepository.
type AlbumRepository struct {
	pool *pgxpool.Pool
}

// Ensure inserts the album if absent and loads the stored row either way.
func (r *AlbumRepository) Ensure(ctx context.Context, album *Album) error {
	query := `
		INSERT INTO albums (spotify_id, name, artist, image_url, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (spotify_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, album.SpotifyID, album.Name, album.Artist, album.ImageURL)
	if err != nil {
		return fmt.Errorf("inserting album: %w", err)
	}

	stored, err := r.Get(ctx, album.SpotifyID)
	if err != nil {
		return err
	}
	*album = *stored
	return nil
}

// Get retrieves an album by Spotify ID.
func (r *AlbumRepository) Get(ctx context.Context, spotifyID string) (*Album, error) {
	query := `
		SELECT spotify_id, name, artist, image_url, created_at
		FROM albums
		WHERE spotify_id = $1
	`
	var album Album
	err := r.pool.QueryRow(ctx, query, spotifyID).Scan(
		&album.SpotifyID,
		&album.Name,
		&album.Artist,
		&album.ImageURL,
		&album.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying album: %w", err)
	}
	return &album, nil
}
