package catalog

import "time"

// Profile is the current user's public identity on the streaming service.
type Profile struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// Track is a catalogue track parsed at the boundary. Artist holds the
// primary (first) artist; Artists keeps the full credit list for display.
type Track struct {
	ID         string
	Name       string
	Artist     string
	Artists    []string
	AlbumID    string
	AlbumName  string
	ImageURL   string
	DurationMs int
}

// Album is a catalogue album parsed at the boundary.
type Album struct {
	ID       string
	Name     string
	Artist   string
	ImageURL string
}

// SearchResults holds track and album matches for one query.
type SearchResults struct {
	Tracks []Track
	Albums []Album
}

// PlayedTrack is a recently played track with its play timestamp.
type PlayedTrack struct {
	Track
	PlayedAt time.Time
}
