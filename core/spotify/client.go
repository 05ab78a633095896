package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"teamtune/logger"
)

const (
	// AuthURL and TokenURL are Spotify's account endpoints.
	AuthURL  = "https://accounts.spotify.com/authorize"
	TokenURL = "https://accounts.spotify.com/api/token"

	defaultBaseURL = "https://api.spotify.com/v1"

	// Page sizes the remote API serves per collection type.
	PlaylistPageSize = 20
	TrackPageSize    = 100

	// MaxRecommendations is the remote per-call recommendation cap.
	MaxRecommendations = 100

	// SearchLimit is the number of raw search results requested.
	SearchLimit = 20
)

// API is the set of remote operations the rest of the system consumes.
// Satisfied by *Client and by test fakes.
type API interface {
	CurrentUser(ctx context.Context) (*PrivateUser, error)
	UserProfile(ctx context.Context, userID string) (*PublicUser, error)

	MyPlaylists(ctx context.Context, limit, offset int) (*Page[SimplePlaylist], error)
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*Page[PlaylistTrack], error)
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*Playlist, error)
	ChangePlaylistDetails(ctx context.Context, playlistID, name, description string, public *bool) error
	AddTracks(ctx context.Context, playlistID string, uris []string) (string, error)
	RemoveTracks(ctx context.Context, playlistID string, uris []string) error
	FollowPlaylist(ctx context.Context, playlistID string, public bool) error
	UnfollowPlaylist(ctx context.Context, playlistID string) error

	SearchTracks(ctx context.Context, query string, limit int) (*Page[Track], error)
	AudioFeatures(ctx context.Context, ids []string) ([]AudioFeatures, error)
	Recommendations(ctx context.Context, seedTracks []string, targetPopularity, limit int, market string) (*Recommendations, error)

	StartPlayback(ctx context.Context, contextURI string) error
}

// Factory builds an API bound to one user's access token. Injected so tests
// can substitute fakes.
type Factory func(accessToken string) API

// Client is an HTTP client for the Spotify Web API, bound to a single
// access token.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

var _ API = (*Client)(nil)

// NewClient creates a client using the given bearer token.
func NewClient(accessToken string) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify: %d %s", e.Status, e.Message)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("spotify request failed",
			logger.String("method", method),
			logger.String("path", path),
			logger.ErrorField(err))
		return fmt.Errorf("spotify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode spotify response: %w", err)
		}
	}
	return nil
}

// apiError extracts Spotify's error envelope {"error":{"status","message"}}.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

	var envelope struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	}

	logger.Warn("spotify API error",
		logger.Int("status", apiErr.Status),
		logger.String("message", apiErr.Message))
	return apiErr
}
