package tunes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamtune/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeTokenEndpoint serves the OAuth token endpoint and counts refreshes.
func fakeTokenEndpoint(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func oauthFor(srv *httptest.Server) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			TokenURL: srv.URL + "/api/token",
			// Pin the auth style so oauth2 does not probe with a second
			// request, keeping the endpoint hit counts exact.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func TestFreshWithoutCredentials(t *testing.T) {
	users := newMemUserRepo()
	m := NewManager(users, nil, nil)

	_, err := m.Fresh(context.Background(), &model.User{ID: 1})
	assert.ErrorIs(t, err, model.ErrNoCredentials)
}

func TestFreshOutsideLookaheadSkipsRefresh(t *testing.T) {
	srv, hits := fakeTokenEndpoint(t, http.StatusOK, `{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`)

	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return due.Add(-31 * time.Minute) }

	users := newMemUserRepo()
	user := &model.User{
		Username:         "alice",
		AccessToken:      "old-access",
		RefreshToken:     "old-refresh",
		TokenRefreshDate: due,
	}
	require.NoError(t, users.Create(user))

	m := NewManager(users, oauthFor(srv), now)
	got, err := m.Fresh(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, "old-access", got.AccessToken)
	assert.Equal(t, 0, *hits)
}

func TestFreshInsideLookaheadRefreshesAndPersists(t *testing.T) {
	srv, hits := fakeTokenEndpoint(t, http.StatusOK,
		`{"access_token":"new-access","token_type":"Bearer","refresh_token":"new-refresh","expires_in":3600}`)

	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return due.Add(-29 * time.Minute) }

	users := newMemUserRepo()
	user := &model.User{
		Username:         "alice",
		AccessToken:      "old-access",
		RefreshToken:     "old-refresh",
		TokenRefreshDate: due,
	}
	require.NoError(t, users.Create(user))

	m := NewManager(users, oauthFor(srv), now)
	got, err := m.Fresh(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, 1, *hits)
	assert.Equal(t, "new-access", got.AccessToken)
	assert.Equal(t, "new-refresh", got.RefreshToken)
	assert.Equal(t, now().Add(TokenLifetime), got.TokenRefreshDate)

	stored, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-access", stored.AccessToken)
	assert.Equal(t, "new-refresh", stored.RefreshToken)
	assert.Equal(t, now().Add(TokenLifetime), stored.TokenRefreshDate)
}

func TestFreshKeepsRefreshTokenWhenOmitted(t *testing.T) {
	srv, _ := fakeTokenEndpoint(t, http.StatusOK,
		`{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`)

	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return due }

	users := newMemUserRepo()
	user := &model.User{
		Username:         "alice",
		AccessToken:      "old-access",
		RefreshToken:     "old-refresh",
		TokenRefreshDate: due,
	}
	require.NoError(t, users.Create(user))

	m := NewManager(users, oauthFor(srv), now)
	got, err := m.Fresh(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, "new-access", got.AccessToken)
	assert.Equal(t, "old-refresh", got.RefreshToken)
}

func TestFreshFailedRefreshReturnsStaleCredential(t *testing.T) {
	srv, hits := fakeTokenEndpoint(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)

	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return due.Add(time.Minute) }

	users := newMemUserRepo()
	user := &model.User{
		Username:         "alice",
		AccessToken:      "old-access",
		RefreshToken:     "old-refresh",
		TokenRefreshDate: due,
	}
	require.NoError(t, users.Create(user))

	m := NewManager(users, oauthFor(srv), now)
	got, err := m.Fresh(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, 1, *hits)
	assert.Equal(t, "old-access", got.AccessToken)
	assert.Equal(t, due, got.TokenRefreshDate)

	// Nothing was persisted, the stored credential stays as it was.
	stored, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "old-access", stored.AccessToken)
	assert.Equal(t, due, stored.TokenRefreshDate)
}
