package tunes

import (
	"context"
	"time"

	"teamtune/logger"
	"teamtune/model"
	"teamtune/repository"

	"golang.org/x/oauth2"
)

const (
	// RefreshLookahead is how close to the refresh-due timestamp a stored
	// access token is still considered fresh.
	RefreshLookahead = 30 * time.Minute

	// TokenLifetime is how long a freshly refreshed access token is
	// trusted before the next proactive refresh.
	TokenLifetime = time.Hour
)

// Manager keeps a user's Spotify token pair usable. Fresh is the synchronous
// precondition every remote call path runs first.
type Manager struct {
	users repository.UserRepository
	oauth *oauth2.Config
	now   func() time.Time
}

// NewManager creates a token manager. now may be nil, defaulting to time.Now.
func NewManager(users repository.UserRepository, oauth *oauth2.Config, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{users: users, oauth: oauth, now: now}
}

// Fresh returns the user with a usable access token, refreshing and
// persisting the token pair when the refresh-due timestamp is within the
// lookahead window. A user without stored credentials short-circuits with
// ErrNoCredentials.
//
// A failed refresh is deliberately not an error: it is logged and the stale
// credential returned with a nil error, so callers cannot tell a fresh
// credential from a stale one here. Login must stay possible while Spotify
// is unreachable; if the stale token really is expired the next remote call
// surfaces the upstream 401.
func (m *Manager) Fresh(ctx context.Context, user *model.User) (*model.User, error) {
	if !user.HasSpotifyCredentials() {
		return nil, model.ErrNoCredentials
	}

	now := m.now()
	if now.Before(user.TokenRefreshDate.Add(-RefreshLookahead)) {
		return user, nil
	}

	src := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: user.RefreshToken})
	token, err := src.Token()
	if err != nil {
		logger.Warn("could not refresh spotify access token",
			logger.Int64("user_id", user.ID),
			logger.ErrorField(err))
		return user, nil
	}

	user.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		user.RefreshToken = token.RefreshToken
	}
	user.TokenRefreshDate = now.Add(TokenLifetime)

	if err := m.users.UpdateSpotifyTokens(user.ID, user.AccessToken, user.RefreshToken, user.TokenRefreshDate); err != nil {
		return nil, err
	}

	logger.Info("spotify access token refreshed", logger.Int64("user_id", user.ID))
	return user, nil
}
