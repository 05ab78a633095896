package tunes

import (
	"context"
	"math/rand"
	"time"

	"teamtune/cache"
	"teamtune/core/spotify"
	"teamtune/model"
	"teamtune/repository"
)

// Service implements the playlist synchronization and recommendation core
// on top of the repositories and the Spotify client.
type Service struct {
	users     repository.UserRepository
	playlists repository.PlaylistRepository
	invites   repository.InvitedUserRepository
	tokens    *Manager
	names     *cache.NameCache
	newClient spotify.Factory
	market    string
	rng       *rand.Rand
}

// NewService wires the core. newClient lets tests inject a fake API.
func NewService(
	users repository.UserRepository,
	playlists repository.PlaylistRepository,
	invites repository.InvitedUserRepository,
	tokens *Manager,
	names *cache.NameCache,
	newClient spotify.Factory,
	market string,
) *Service {
	return &Service{
		users:     users,
		playlists: playlists,
		invites:   invites,
		tokens:    tokens,
		names:     names,
		newClient: newClient,
		market:    market,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// clientFor ensures the user's credential is fresh and binds a client to it.
func (s *Service) clientFor(ctx context.Context, user *model.User) (spotify.API, *model.User, error) {
	fresh, err := s.tokens.Fresh(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return s.newClient(fresh.AccessToken), fresh, nil
}

// songFromTrack projects a remote track into the local song shape.
func songFromTrack(t spotify.Track, addedBy string) model.Song {
	interpret := make([]model.Interpret, 0, len(t.Artists))
	for _, a := range t.Artists {
		interpret = append(interpret, model.Interpret{SpotifyID: a.ID, Name: a.Name})
	}
	return model.Song{
		SpotifyID:  t.ID,
		Name:       t.Name,
		Interpret:  interpret,
		Album:      t.Album.Name,
		DurationMs: t.DurationMs,
		Popularity: t.Popularity,
		AddedBy:    addedBy,
	}
}
