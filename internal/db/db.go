// Package db provides PostgreSQL database access for Ratify.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Users returns a UserRepository.
func (db *DB) Users() *UserRepository {
	return &UserRepository{pool: db.pool}
}

// Sessions returns a SessionRepository.
func (db *DB) Sessions() *SessionRepository {
	return &SessionRepository{pool: db.pool}
}

// Songs returns a SongRepository.
func (db *DB) Songs() *SongRepository {
	return &SongRepository{pool: db.pool}
}

// Albums returns an AlbumRepository.
func (db *DB) Albums() *AlbumRepository {
	return &AlbumRepository{pool: db.pool}
}

// SongRatings returns a RatingRepository over song ratings.
func (db *DB) SongRatings() *RatingRepository {
	return &RatingRepository{pool: db.pool, table: "song_ratings", itemColumn: "song_id"}
}

// AlbumRatings returns a RatingRepository over album ratings.
func (db *DB) AlbumRatings() *RatingRepository {
	return &RatingRepository{pool: db.pool, table: "album_ratings", itemColumn: "album_id"}
}

// Activity returns an ActivityRepository.
func (db *DB) Activity() *ActivityRepository {
	return &ActivityRepository{pool: db.pool}
}

// SongLikes returns a LikeRepository over song likes.
func (db *DB) SongLikes() *LikeRepository {
	return &LikeRepository{pool: db.pool, table: "song_likes", itemColumn: "song_id"}
}

// AlbumLikes returns a LikeRepository over album likes.
func (db *DB) AlbumLikes() *LikeRepository {
	return &LikeRepository{pool: db.pool, table: "album_likes", itemColumn: "album_id"}
}
