// Package catalog wraps the Spotify Web API behind explicit boundary types.
//
// Every response is parsed into a catalog type before leaving the package;
// callers never see the raw API shapes.
package catalog

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

const (
	searchLimit = 10
	recentLimit = 50
)

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new catalogue client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*Profile, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}
	profile := &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
	}
	if len(user.Images) > 0 {
		profile.AvatarURL = user.Images[0].URL
	}
	return profile, nil
}

// Track looks up a single track by id.
func (c *Client) Track(ctx context.Context, id string) (*Track, error) {
	full, err := c.api.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("getting track %s: %w", id, err)
	}
	track := convertFullTrack(*full)
	return &track, nil
}

// Tracks looks up multiple tracks by id in one request.
func (c *Client) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	spotifyIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		spotifyIDs[i] = spotify.ID(id)
	}
	full, err := c.api.GetTracks(ctx, spotifyIDs)
	if err != nil {
		return nil, fmt.Errorf("getting tracks: %w", err)
	}
	tracks := make([]Track, 0, len(full))
	for _, ft := range full {
		if ft == nil {
			continue
		}
		tracks = append(tracks, convertFullTrack(*ft))
	}
	return tracks, nil
}

// Album looks up a single album by id.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	full, err := c.api.GetAlbum(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("getting album %s: %w", id, err)
	}
	album := convertSimpleAlbum(full.SimpleAlbum)
	return &album, nil
}

// Albums looks up multiple albums by id in one request.
func (c *Client) Albums(ctx context.Context, ids []string) ([]Album, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	spotifyIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		spotifyIDs[i] = spotify.ID(id)
	}
	full, err := c.api.GetAlbums(ctx, spotifyIDs)
	if err != nil {
		return nil, fmt.Errorf("getting albums: %w", err)
	}
	albums := make([]Album, 0, len(full))
	for _, fa := range full {
		if fa == nil {
			continue
		}
		albums = append(albums, convertSimpleAlbum(fa.SimpleAlbum))
	}
	return albums, nil
}

// Search returns track and album matches for the query.
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	result, err := c.api.Search(ctx, query,
		spotify.SearchTypeTrack|spotify.SearchTypeAlbum,
		spotify.Limit(searchLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	results := &SearchResults{}
	if result.Tracks != nil {
		for _, ft := range result.Tracks.Tracks {
			results.Tracks = append(results.Tracks, convertFullTrack(ft))
		}
	}
	if result.Albums != nil {
		for _, sa := range result.Albums.Albums {
			results.Albums = append(results.Albums, convertSimpleAlbum(sa))
		}
	}
	return results, nil
}

// RecentlyPlayed returns the user's recently played tracks, newest first.
func (c *Client) RecentlyPlayed(ctx context.Context) ([]PlayedTrack, error) {
	items, err := c.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{
		Limit: recentLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("getting recently played: %w", err)
	}
	played := make([]PlayedTrack, 0, len(items))
	for _, item := range items {
		played = append(played, PlayedTrack{
			Track:    convertSimpleTrack(item.Track),
			PlayedAt: item.PlayedAt,
		})
	}
	return played, nil
}
