package tunes

import (
	"context"
	"fmt"
	"testing"

	"teamtune/core/spotify"
	"teamtune/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlaylistLinksRemote(t *testing.T) {
	env := newTestEnv()
	user := freshUser(env.users)

	env.api.createPlaylist = func(ctx context.Context, userID, name, description string, public bool) (*spotify.Playlist, error) {
		assert.Equal(t, user.SpotifyID, userID)
		assert.Equal(t, "Friday Mix", name)
		assert.True(t, public)
		return &spotify.Playlist{ID: "remote-new", Name: name}, nil
	}

	p, err := env.svc.CreatePlaylist(context.Background(), user, PlaylistInput{
		Title:          "Friday Mix",
		Description:    "Office playlist",
		Publicity:      true,
		DurationTarget: 3_600_000,
	})
	require.NoError(t, err)

	assert.Equal(t, "remote-new", p.SpotifyID)
	assert.True(t, p.IsTeamTunePlaylist)
	assert.True(t, p.IsOwnPlaylist)
	assert.Equal(t, int64(3_600_000), p.MusicInfo.DurationTarget)
	assert.Equal(t, model.PublicIDFor(p.ID), p.PublicID)

	stored, err := env.playlists.FindByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, user.ID, stored.OwnerID)
}

func TestUpdatePlaylistRequiresOwnership(t *testing.T) {
	env := newTestEnv()
	owner := freshUser(env.users)
	intruder := &model.User{
		Username: "mallory", SpotifyID: "spotify-mallory",
		AccessToken: "a", RefreshToken: "r",
		TokenRefreshDate: owner.TokenRefreshDate,
	}
	require.NoError(t, env.users.Create(intruder))

	p := model.Playlist{ID: "local-a", OwnerID: owner.ID, Title: "Mine"}
	require.NoError(t, env.playlists.Create(&p))

	_, err := env.svc.UpdatePlaylist(context.Background(), intruder, "local-a", PlaylistInput{Title: "Yours"})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestDeletePlaylistUnfollowsRemoteAndDropsInvites(t *testing.T) {
	env := newTestEnv()
	user := freshUser(env.users)

	p := model.Playlist{ID: "local-a", OwnerID: user.ID, SpotifyID: "remote-x", Title: "Mine"}
	require.NoError(t, env.playlists.Create(&p))
	require.NoError(t, env.invites.Create(&model.InvitedUser{Username: "bob", PlaylistID: "local-a", HostID: user.ID}))

	unfollowed := ""
	env.api.unfollowPlaylist = func(ctx context.Context, playlistID string) error {
		unfollowed = playlistID
		return nil
	}

	require.NoError(t, env.svc.DeletePlaylist(context.Background(), user, "local-a"))

	assert.Equal(t, "remote-x", unfollowed)
	gone, err := env.playlists.FindByID("local-a")
	require.NoError(t, err)
	assert.Nil(t, gone)

	left, err := env.invites.FindByPlaylist("local-a")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCopyPlaylistChunksSourceTracks(t *testing.T) {
	env := newTestEnv()
	user := freshUser(env.users)

	src := model.Playlist{
		ID: "local-src", OwnerID: user.ID, SpotifyID: "remote-src",
		Title: "Road Trip", MusicInfo: model.MusicInfo{DurationTarget: 7_200_000},
	}
	require.NoError(t, env.playlists.Create(&src))

	items := make([]spotify.PlaylistTrack, 0, 130)
	for i := 0; i < 130; i++ {
		items = append(items, spotify.PlaylistTrack{
			Track: spotify.Track{ID: fmt.Sprintf("t%d", i), DurationMs: 60_000},
		})
	}
	env.api.getPlaylist = func(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
		return &spotify.Playlist{
			ID: "remote-src", Name: "Road Trip",
			Tracks: spotify.Page[spotify.PlaylistTrack]{Items: items, Total: len(items)},
		}, nil
	}
	env.api.createPlaylist = func(ctx context.Context, userID, name, description string, public bool) (*spotify.Playlist, error) {
		return &spotify.Playlist{ID: "remote-copy", Name: name}, nil
	}

	var batches [][]string
	env.api.addTracks = func(ctx context.Context, playlistID string, uris []string) (string, error) {
		assert.Equal(t, "remote-copy", playlistID)
		batches = append(batches, uris)
		return "snapshot", nil
	}

	copied, err := env.svc.CopyPlaylist(context.Background(), user, "local-src")
	require.NoError(t, err)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 30)
	assert.Equal(t, "spotify:track:t0", batches[0][0])

	assert.NotEqual(t, src.ID, copied.ID)
	assert.Equal(t, "remote-copy", copied.SpotifyID)
	assert.Equal(t, model.PublicIDFor(copied.ID), copied.PublicID)
	assert.Equal(t, 130, copied.TrackCount)
	assert.True(t, copied.IsTeamTunePlaylist)
	assert.Equal(t, int64(7_200_000), copied.MusicInfo.DurationTarget)
}

func TestInviteUserIsIdempotent(t *testing.T) {
	env := newTestEnv()
	host := freshUser(env.users)

	p := model.Playlist{ID: "local-a", OwnerID: host.ID, Title: "Shared"}
	require.NoError(t, env.playlists.Create(&p))

	first, err := env.svc.InviteUser(context.Background(), host, "local-a", "bob")
	require.NoError(t, err)

	second, err := env.svc.InviteUser(context.Background(), host, "local-a", "bob")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, err := env.invites.FindByPlaylist("local-a")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAttachInvitesFollowsAndConsumes(t *testing.T) {
	env := newTestEnv()
	host := freshUser(env.users)

	linked := model.Playlist{ID: "pl-linked", OwnerID: host.ID, SpotifyID: "remote-1", Title: "Shared", Publicity: true}
	require.NoError(t, env.playlists.Create(&linked))
	require.NoError(t, env.invites.Create(&model.InvitedUser{Username: "bob", PlaylistID: "pl-linked", HostID: host.ID}))
	// A stale invite to a playlist that no longer exists.
	require.NoError(t, env.invites.Create(&model.InvitedUser{Username: "bob", PlaylistID: "pl-gone", HostID: host.ID}))

	bob := &model.User{
		Username: "bob", SpotifyID: "spotify-bob",
		AccessToken: "a", RefreshToken: "r",
		TokenRefreshDate: host.TokenRefreshDate,
	}
	require.NoError(t, env.users.Create(bob))

	followed := []string{}
	env.api.followPlaylist = func(ctx context.Context, playlistID string, public bool) error {
		followed = append(followed, playlistID)
		return nil
	}

	joined, err := env.svc.AttachInvites(context.Background(), bob)
	require.NoError(t, err)

	require.Len(t, joined, 1)
	assert.Equal(t, "pl-linked", joined[0].ID)
	assert.Equal(t, []string{"remote-1"}, followed)

	left, err := env.invites.FindByUsername("bob")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPublicPlaylistUsesOwnerCredential(t *testing.T) {
	env := newTestEnv()
	owner := freshUser(env.users)

	p := model.Playlist{
		ID: "local-a", OwnerID: owner.ID, SpotifyID: "remote-x",
		Title: "Shared", Publicity: true,
	}
	p.PublicID = model.PublicIDFor(p.ID)
	require.NoError(t, env.playlists.Create(&p))

	env.api.getPlaylist = func(ctx context.Context, playlistID string) (*spotify.Playlist, error) {
		return &spotify.Playlist{
			ID: "remote-x", Name: "Shared",
			Tracks: spotify.Page[spotify.PlaylistTrack]{
				Items: []spotify.PlaylistTrack{{Track: spotify.Track{ID: "t1", DurationMs: 120_000}}},
				Total: 1,
			},
		}, nil
	}

	got, err := env.svc.PublicPlaylist(context.Background(), p.PublicID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.MusicInfo.Songs, 1)
}

func TestPublicPlaylistHiddenWhenPrivate(t *testing.T) {
	env := newTestEnv()
	owner := freshUser(env.users)

	p := model.Playlist{ID: "local-a", OwnerID: owner.ID, Title: "Private", Publicity: false}
	p.PublicID = model.PublicIDFor(p.ID)
	require.NoError(t, env.playlists.Create(&p))

	got, err := env.svc.PublicPlaylist(context.Background(), p.PublicID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStartPlaybackUsesPlaylistURI(t *testing.T) {
	env := newTestEnv()
	user := freshUser(env.users)

	p := model.Playlist{ID: "local-a", OwnerID: user.ID, SpotifyID: "remote-x", Title: "Mine"}
	require.NoError(t, env.playlists.Create(&p))

	var uri string
	env.api.startPlayback = func(ctx context.Context, contextURI string) error {
		uri = contextURI
		return nil
	}

	require.NoError(t, env.svc.StartPlayback(context.Background(), user, "local-a"))
	assert.Equal(t, "spotify:playlist:remote-x", uri)
}
