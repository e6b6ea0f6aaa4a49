package db

import "time"

// User represents a Ratify user backed by a Spotify identity.
// Friends holds a directed list of other users' internal ids; no reciprocal
// relationship is implied or enforced.
type User struct {
	ID              string
	SpotifyID       string
	DisplayName     string
	ProfileImageURL string
	Friends         []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Session represents an authenticated web session.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Song is a locally mirrored track, created lazily the first time it is
// liked or reviewed. Artist is flattened to the track's primary artist.
type Song struct {
	SpotifyID string
	Name      string
	Artist    string
	AlbumID   string
	CreatedAt time.Time
}

// Album is a locally mirrored album, created lazily like Song.
type Album struct {
	SpotifyID string
	Name      string
	Artist    string
	ImageURL  string
	CreatedAt time.Time
}

// Rating is a user's review of a song or album: a 1-10 integer rating and
// optional free text. At most one row exists per (user, item).
type Rating struct {
	ID        string
	UserID    string
	ItemID    string
	Rating    int
	Review    string
	CreatedAt time.Time
}

// ItemRating is a rating joined with the rater's public identity, for
// item detail pages.
type ItemRating struct {
	Rating
	DisplayName     string
	ProfileImageURL string
}

// ActivityEntry is a rating annotated with the reviewed item's display data
// and the reviewer's public identity, for activity feeds and walls.
type ActivityEntry struct {
	Type            string // "song" or "album"
	ItemID          string
	Rating          int
	Review          string
	CreatedAt       time.Time
	Name            string
	Artist          string
	ImageURL        string
	UserID          string
	DisplayName     string
	ProfileImageURL string
}

// PublicUser is the subset of User returned by user search.
type PublicUser struct {
	ID              string
	SpotifyID       string
	DisplayName     string
	ProfileImageURL string
}
