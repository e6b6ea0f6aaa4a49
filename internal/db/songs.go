package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SongRepository handles song database operations.
//
// Songs are created lazily the first time a track is liked or reviewed.
// Creation is idempotent on the Spotify identity: a concurrent duplicate
// insert loses the conflict and the existing row is re-read.
type SongRepository struct {
	pool *pgxpool.Pool
}

// Ensure inserts the song if absent and loads the stored row either way.
func (r *SongRepository) Ensure(ctx context.Context, song *Song) error {
	query := `
		INSERT INTO songs (spotify_id, name, artist, album_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (spotify_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, song.SpotifyID, song.Name, song.Artist, song.AlbumID)
	if err != nil {
		return fmt.Errorf("inserting song: %w", err)
	}

	stored, err := r.Get(ctx, song.SpotifyID)
	if err != nil {
		return err
	}
	*song = *stored
	return nil
}

// Get retrieves a song by Spotify ID.
func (r *SongRepository) Get(ctx context.Context, spotifyID string) (*Song, error) {
	query := `
		SELECT spotify_id, name, artist, album_id, created_at
		FROM songs
		WHERE spotify_id = $1
	`
	var song Song
	err := r.pool.QueryRow(ctx, query, spotifyID).Scan(
		&song.SpotifyID,
		&song.Name,
		&song.Artist,
		&song.AlbumID,
		&song.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying song: %w", err)
	}
	return &song, nil
}
