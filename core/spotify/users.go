package spotify

import (
	"context"
	"net/http"
)

// CurrentUser fetches the authenticated user's own profile.
func (c *Client) CurrentUser(ctx context.Context) (*PrivateUser, error) {
	var user PrivateUser
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserProfile fetches another user's public profile by Spotify ID.
func (c *Client) UserProfile(ctx context.Context, userID string) (*PublicUser, error) {
	var user PublicUser
	if err := c.get(ctx, "/users/"+userID, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// StartPlayback starts playback of the given context (e.g. a playlist URI)
// on the user's active device.
func (c *Client) StartPlayback(ctx context.Context, contextURI string) error {
	var body map[string]any
	if contextURI != "" {
		body = map[string]any{"context_uri": contextURI}
	}
	return c.send(ctx, http.MethodPut, "/me/player/play", nil, body, nil)
}
