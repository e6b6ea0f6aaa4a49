package catalog

import "github.com/zmb3/spotify/v2"

// convertFullTrack parses a Spotify FullTrack into a catalog Track.
func convertFullTrack(ft spotify.FullTrack) Track {
	track := convertSimpleTrack(ft.SimpleTrack)
	track.AlbumID = string(ft.Album.ID)
	track.AlbumName = ft.Album.Name
	if len(ft.Album.Images) > 0 {
		track.ImageURL = ft.Album.Images[0].URL
	}
	return track
}

// convertSimpleTrack parses a Spotify SimpleTrack into a catalog Track.
// The primary artist is the first credit; the full list is kept for display.
func convertSimpleTrack(st spotify.SimpleTrack) Track {
	artists := make([]string, len(st.Artists))
	for i, a := range st.Artists {
		artists[i] = a.Name
	}
	track := Track{
		ID:         string(st.ID),
		Name:       st.Name,
		Artists:    artists,
		AlbumID:    string(st.Album.ID),
		AlbumName:  st.Album.Name,
		DurationMs: int(st.Duration),
	}
	if len(artists) > 0 {
		track.Artist = artists[0]
	}
	if len(st.Album.Images) > 0 {
		track.ImageURL = st.Album.Images[0].URL
	}
	return track
}

// convertSimpleAlbum parses a Spotify SimpleAlbum into a catalog Album.
func convertSimpleAlbum(sa spotify.SimpleAlbum) Album {
	album := Album{
		ID:   string(sa.ID),
		Name: sa.Name,
	}
	if len(sa.Artists) > 0 {
		album.Artist = sa.Artists[0].Name
	}
	if len(sa.Images) > 0 {
		album.ImageURL = sa.Images[0].URL
	}
	return album
}
