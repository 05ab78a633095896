package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// MyPlaylists lists one page of the current user's playlists.
func (c *Client) MyPlaylists(ctx context.Context, limit, offset int) (*Page[SimplePlaylist], error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page Page[SimplePlaylist]
	if err := c.get(ctx, "/me/playlists", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPlaylist fetches the full playlist object including its first track page.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	var playlist Playlist
	if err := c.get(ctx, "/playlists/"+playlistID, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistTracks fetches one page of a playlist's tracks.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*Page[PlaylistTrack], error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page Page[PlaylistTrack]
	if err := c.get(ctx, "/playlists/"+playlistID+"/tracks", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePlaylist creates a playlist owned by the given Spotify user.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist Playlist
	if err := c.send(ctx, http.MethodPost, "/users/"+userID+"/playlists", nil, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ChangePlaylistDetails updates name, description and optionally visibility.
func (c *Client) ChangePlaylistDetails(ctx context.Context, playlistID, name, description string, public *bool) error {
	body := map[string]any{}
	if name != "" {
		body["name"] = name
	}
	if description != "" {
		body["description"] = description
	}
	if public != nil {
		body["public"] = *public
	}
	if len(body) == 0 {
		return nil
	}

	return c.send(ctx, http.MethodPut, "/playlists/"+playlistID, nil, body, nil)
}

// AddTracks appends tracks to a playlist in one batched call and returns the
// new snapshot ID.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	if len(uris) == 0 {
		return "", fmt.Errorf("no track uris to add")
	}

	var result struct {
		SnapshotID string `json:"snapshot_id"`
	}
	body := map[string]any{"uris": uris}
	if err := c.send(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", nil, body, &result); err != nil {
		return "", err
	}
	return result.SnapshotID, nil
}

// RemoveTracks deletes the given track URIs from a playlist.
func (c *Client) RemoveTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return fmt.Errorf("no track uris to remove")
	}

	tracks := make([]map[string]string, 0, len(uris))
	for _, uri := range uris {
		tracks = append(tracks, map[string]string{"uri": uri})
	}
	body := map[string]any{"tracks": tracks}

	return c.send(ctx, http.MethodDelete, "/playlists/"+playlistID+"/tracks", nil, body, nil)
}

// FollowPlaylist makes the current user follow a playlist.
func (c *Client) FollowPlaylist(ctx context.Context, playlistID string, public bool) error {
	body := map[string]any{"public": public}
	return c.send(ctx, http.MethodPut, "/playlists/"+playlistID+"/followers", nil, body, nil)
}

// UnfollowPlaylist makes the current user unfollow a playlist. Unfollowing
// an own playlist is Spotify's way of deleting it.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	return c.send(ctx, http.MethodDelete, "/playlists/"+playlistID+"/followers", nil, nil, nil)
}
