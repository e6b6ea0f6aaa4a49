package web

import (
	"time"

	"github.com/ratifyhq/ratify/internal/catalog"
	"github.com/ratifyhq/ratify/internal/db"
	"github.com/ratifyhq/ratify/internal/feed"
	"github.com/ratifyhq/ratify/internal/rating"
)

// reviewJSON is the wire shape of a rating. Rating carries the stored 1-10
// integer; Stars carries the 0.5-5 display value derived from it.
type reviewJSON struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ItemID          string    `json:"item_id"`
	Rating          int       `json:"rating"`
	Stars           float64   `json:"stars"`
	Review          string    `json:"review"`
	CreatedAt       time.Time `json:"created_at"`
	DisplayName     string    `json:"display_name,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
}

func toReviewJSON(row *db.Rating) reviewJSON {
	return reviewJSON{
		ID:        row.ID,
		UserID:    row.UserID,
		ItemID:    row.ItemID,
		Rating:    row.Rating,
		Stars:     rating.ToStars(row.Rating),
		Review:    row.Review,
		CreatedAt: row.CreatedAt,
	}
}

func toItemReviewJSON(ir db.ItemRating) reviewJSON {
	out := toReviewJSON(&ir.Rating)
	out.DisplayName = ir.DisplayName
	out.ProfileImageURL = ir.ProfileImageURL
	return out
}

// trackJSON is the wire shape of a catalogue track.
type trackJSON struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artist     string   `json:"artist"`
	Artists    []string `json:"artists"`
	AlbumID    string   `json:"album_id"`
	AlbumName  string   `json:"album_name"`
	ImageURL   string   `json:"image_url"`
	DurationMs int      `json:"duration_ms"`
}

func toTrackJSON(t catalog.Track) trackJSON {
	return trackJSON{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     t.Artist,
		Artists:    t.Artists,
		AlbumID:    t.AlbumID,
		AlbumName:  t.AlbumName,
		ImageURL:   t.ImageURL,
		DurationMs: t.DurationMs,
	}
}

// albumJSON is the wire shape of a catalogue album.
type albumJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	ImageURL string `json:"image_url"`
}

func toAlbumJSON(a catalog.Album) albumJSON {
	return albumJSON{ID: a.ID, Name: a.Name, Artist: a.Artist, ImageURL: a.ImageURL}
}

// activityJSON is the wire shape of a feed or wall entry.
type activityJSON struct {
	Type            string    `json:"type"`
	ItemID          string    `json:"item_id"`
	Rating          int       `json:"rating"`
	Stars           float64   `json:"stars"`
	Review          string    `json:"review,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Name            string    `json:"name"`
	Artist          string    `json:"artist"`
	ImageURL        string    `json:"image_url,omitempty"`
	UserID          string    `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	ProfileImageURL string    `json:"profile_image_url"`
}

func toActivityJSON(e db.ActivityEntry) activityJSON {
	return activityJSON{
		Type:            e.Type,
		ItemID:          e.ItemID,
		Rating:          e.Rating,
		Stars:           rating.ToStars(e.Rating),
		Review:          e.Review,
		CreatedAt:       e.CreatedAt,
		Name:            e.Name,
		Artist:          e.Artist,
		ImageURL:        e.ImageURL,
		UserID:          e.UserID,
		DisplayName:     e.DisplayName,
		ProfileImageURL: e.ProfileImageURL,
	}
}

func toActivityListJSON(entries []db.ActivityEntry) []activityJSON {
	out := make([]activityJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toActivityJSON(e))
	}
	return out
}

// friendJSON is a feed sidebar entry.
type friendJSON struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

func toFriendListJSON(friends []feed.Friend) []friendJSON {
	out := make([]friendJSON, 0, len(friends))
	for _, f := range friends {
		out = append(out, friendJSON(f))
	}
	return out
}

// userJSON is the wire shape of a user search result.
type userJSON struct {
	ID              string `json:"id"`
	SpotifyID       string `json:"spotify_id"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
}
