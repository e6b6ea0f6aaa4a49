package web

import (
	"context"
	"log/slog"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/ratifyhq/ratify/internal/catalog"
	"github.com/ratifyhq/ratify/internal/db"
	"github.com/ratifyhq/ratify/internal/feed"
	"github.com/ratifyhq/ratify/internal/review"
)

// UserStore is the user persistence the handlers need.
// *db.UserRepository satisfies it.
type UserStore interface {
	Get(ctx context.Context, id string) (*db.User, error)
	Upsert(ctx context.Context, user *db.User) error
	Search(ctx context.Context, query string, limit int) ([]db.PublicUser, error)
	AddFriend(ctx context.Context, userID, friendID string) (bool, error)
	RemoveFriend(ctx context.Context, userID, friendID string) (bool, error)
	Friends(ctx context.Context, userID string) ([]string, error)
}

// RatingStore is the rating persistence for one item kind.
// *db.RatingRepository satisfies it.
type RatingStore interface {
	Update(ctx context.Context, row *db.Rating) error
	Get(ctx context.Context, userID, itemID string) (*db.Rating, error)
	ListForItem(ctx context.Context, itemID string) ([]db.ItemRating, error)
}

// LikeStore is the like persistence for one item kind.
// *db.LikeRepository satisfies it.
type LikeStore interface {
	Like(ctx context.Context, spotifyID, itemID string) error
	Unlike(ctx context.Context, spotifyID, itemID string) error
	IsLiked(ctx context.Context, spotifyID, itemID string) (bool, error)
	ListLiked(ctx context.Context, spotifyID string) ([]string, error)
}

// SongStore mirrors catalogue tracks into the local songs table.
// *db.SongRepository satisfies it.
type SongStore interface {
	Ensure(ctx context.Context, song *db.Song) error
}

// AlbumStore mirrors catalogue albums into the local albums table.
// *db.AlbumRepository satisfies it.
type AlbumStore interface {
	Ensure(ctx context.Context, album *db.Album) error
}

// ActivitySource lists one user's merged ratings.
// *db.ActivityRepository satisfies it.
type ActivitySource interface {
	ListForUser(ctx context.Context, userID string) ([]db.ActivityEntry, error)
}

// FeedBuilder builds the friend activity feed. *feed.Service satisfies it.
type FeedBuilder interface {
	ForUser(ctx context.Context, userID string) (*feed.Activity, error)
}

// Catalogue is the external music API surface the handlers consume.
// *catalog.Client satisfies it.
type Catalogue interface {
	CurrentUser(ctx context.Context) (*catalog.Profile, error)
	Track(ctx context.Context, id string) (*catalog.Track, error)
	Tracks(ctx context.Context, ids []string) ([]catalog.Track, error)
	Album(ctx context.Context, id string) (*catalog.Album, error)
	Albums(ctx context.Context, ids []string) ([]catalog.Album, error)
	Search(ctx context.Context, query string) (*catalog.SearchResults, error)
	RecentlyPlayed(ctx context.Context) ([]catalog.PlayedTrack, error)
}

// CatalogueFactory builds a catalogue client bound to a caller's credential.
type CatalogueFactory func(ctx context.Context, token *oauth2.Token) Catalogue

// SpotifyCatalogue returns the production factory backed by the Spotify
// Web API.
func SpotifyCatalogue(auth *spotifyauth.Authenticator) CatalogueFactory {
	return func(ctx context.Context, token *oauth2.Token) Catalogue {
		return catalog.New(spotify.New(auth.Client(ctx, token)))
	}
}

// Handlers contains the HTTP handlers for the JSON API.
type Handlers struct {
	auth      *spotifyauth.Authenticator
	sessions  SessionManager
	users     UserStore
	songs     SongStore
	albums    AlbumStore
	feed      FeedBuilder
	activity  ActivitySource
	catalogue CatalogueFactory
	logger    *slog.Logger

	songRatings  RatingStore
	albumRatings RatingStore
	songReviews  *review.Service
	albumReviews *review.Service
	songLikes    LikeStore
	albumLikes   LikeStore
}

// HandlersConfig wires the handler dependencies.
type HandlersConfig struct {
	Auth         *spotifyauth.Authenticator
	Sessions     SessionManager
	Users        UserStore
	Songs        SongStore
	Albums       AlbumStore
	SongRatings  RatingStore
	AlbumRatings RatingStore
	SongReviews  *review.Service
	AlbumReviews *review.Service
	SongLikes    LikeStore
	AlbumLikes   LikeStore
	Feed         FeedBuilder
	Activity     ActivitySource
	Catalogue    CatalogueFactory
	Logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg HandlersConfig) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		auth:         cfg.Auth,
		sessions:     cfg.Sessions,
		users:        cfg.Users,
		songs:        cfg.Songs,
		albums:       cfg.Albums,
		songRatings:  cfg.SongRatings,
		albumRatings: cfg.AlbumRatings,
		songReviews:  cfg.SongReviews,
		albumReviews: cfg.AlbumReviews,
		songLikes:    cfg.SongLikes,
		albumLikes:   cfg.AlbumLikes,
		feed:         cfg.Feed,
		activity:     cfg.Activity,
		catalogue:    cfg.Catalogue,
		logger:       logger,
	}
}
