package tunes

import (
	"context"
	"fmt"

	"teamtune/core/spotify"
	"teamtune/logger"
	"teamtune/model"

	"github.com/google/uuid"
)

// PlaylistInput carries the caller-editable playlist fields.
type PlaylistInput struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Publicity      bool                  `json:"publicity"`
	DurationTarget int64                 `json:"duration_target"`
	Filters        *model.FeatureFilters `json:"filters,omitempty"`
}

// CreatePlaylist creates the playlist remotely under the user's Spotify
// account and stores the linked local record.
func (s *Service) CreatePlaylist(ctx context.Context, user *model.User, in PlaylistInput) (*model.Playlist, error) {
	client, user, err := s.clientFor(ctx, user)
	if err != nil {
		return nil, err
	}

	remote, err := client.CreatePlaylist(ctx, user.SpotifyID, in.Title, in.Description, in.Publicity)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote playlist: %w", err)
	}

	p := model.Playlist{
		ID:                 uuid.NewString(),
		OwnerID:            user.ID,
		SpotifyID:          remote.ID,
		Publicity:          in.Publicity,
		Title:              in.Title,
		Description:        in.Description,
		IsOwnPlaylist:      true,
		IsTeamTunePlaylist: true,
		MusicInfo: model.MusicInfo{
			DurationTarget: in.DurationTarget,
			Filters:        in.Filters,
		},
	}
	p.PublicID = model.PublicIDFor(p.ID)

	if err := s.playlists.Create(&p); err != nil {
		return nil, err
	}

	logger.Info("playlist created",
		logger.Int64("user_id", user.ID),
		logger.String("playlist_id", p.ID),
		logger.String("spotify_id", p.SpotifyID))
	return &p, nil
}

// UpdatePlaylist changes the editable fields locally and pushes the name,
// description and publicity change to the linked remote playlist.
func (s *Service) UpdatePlaylist(ctx context.Context, user *model.User, id string, in PlaylistInput) (*model.Playlist, error) {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("playlist %s not found", id)
	}
	if p.OwnerID != user.ID {
		return nil, model.ErrForbidden
	}

	if p.SpotifyID != "" {
		client, _, err := s.clientFor(ctx, user)
		if err != nil {
			return nil, err
		}
		public := in.Publicity
		if err := client.ChangePlaylistDetails(ctx, p.SpotifyID, in.Title, in.Description, &public); err != nil {
			return nil, fmt.Errorf("failed to update remote playlist: %w", err)
		}
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Publicity = in.Publicity
	p.MusicInfo.DurationTarget = in.DurationTarget
	p.MusicInfo.Filters = in.Filters
	if err := s.playlists.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePlaylist removes the local record and, for linked playlists, drops
// the remote playlist from the user's library. Spotify has no hard delete,
// unfollowing is its deletion semantics.
func (s *Service) DeletePlaylist(ctx context.Context, user *model.User, id string) error {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if p.OwnerID != user.ID {
		return model.ErrForbidden
	}

	if p.SpotifyID != "" {
		client, _, err := s.clientFor(ctx, user)
		if err != nil {
			return err
		}
		if err := client.UnfollowPlaylist(ctx, p.SpotifyID); err != nil {
			return fmt.Errorf("failed to unfollow remote playlist: %w", err)
		}
	}

	invites, err := s.invites.FindByPlaylist(p.ID)
	if err != nil {
		return err
	}
	for _, inv := range invites {
		if err := s.invites.Delete(inv.ID); err != nil {
			return err
		}
	}

	return s.playlists.Delete(p.ID)
}

// CopyPlaylist duplicates a linked playlist into a fresh one owned by the
// user: a new remote playlist is created and the source's complete track
// list is appended to it in chunks.
func (s *Service) CopyPlaylist(ctx context.Context, user *model.User, id string) (*model.Playlist, error) {
	src, err := s.playlists.FindByID(id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("playlist %s not found", id)
	}
	if src.SpotifyID == "" {
		return nil, model.ErrNotLinked
	}

	client, user, err := s.clientFor(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.overlayRemoteTracks(ctx, client, src); err != nil {
		return nil, err
	}

	remote, err := client.CreatePlaylist(ctx, user.SpotifyID, src.Title, src.Description, src.Publicity)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote playlist: %w", err)
	}

	uris := make([]string, 0, len(src.MusicInfo.Songs))
	for _, song := range src.MusicInfo.Songs {
		uris = append(uris, "spotify:track:"+song.SpotifyID)
	}
	for start := 0; start < len(uris); start += spotify.MaxRecommendations {
		end := start + spotify.MaxRecommendations
		if end > len(uris) {
			end = len(uris)
		}
		if _, err := client.AddTracks(ctx, remote.ID, uris[start:end]); err != nil {
			return nil, fmt.Errorf("failed to copy tracks: %w", err)
		}
	}

	p := model.Playlist{
		ID:                 uuid.NewString(),
		OwnerID:            user.ID,
		SpotifyID:          remote.ID,
		Publicity:          src.Publicity,
		Title:              src.Title,
		Description:        src.Description,
		IsOwnPlaylist:      true,
		IsTeamTunePlaylist: true,
		TrackCount:         len(uris),
		MusicInfo: model.MusicInfo{
			DurationTarget: src.MusicInfo.DurationTarget,
			DurationsMs:    src.MusicInfo.DurationsMs,
			Filters:        src.MusicInfo.Filters,
		},
	}
	p.PublicID = model.PublicIDFor(p.ID)

	if err := s.playlists.Create(&p); err != nil {
		return nil, err
	}

	logger.Info("playlist copied",
		logger.String("source_id", src.ID),
		logger.String("playlist_id", p.ID),
		logger.Int("tracks", len(uris)))
	return &p, nil
}

// AddTrack appends one track to a linked playlist.
func (s *Service) AddTrack(ctx context.Context, user *model.User, id, trackID string) error {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("playlist %s not found", id)
	}
	if p.SpotifyID == "" {
		return model.ErrNotLinked
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return err
	}
	if _, err := client.AddTracks(ctx, p.SpotifyID, []string{"spotify:track:" + trackID}); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	return nil
}

// RemoveTrack removes all occurrences of one track from a linked playlist.
func (s *Service) RemoveTrack(ctx context.Context, user *model.User, id, trackID string) error {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("playlist %s not found", id)
	}
	if p.SpotifyID == "" {
		return model.ErrNotLinked
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return err
	}
	if err := client.RemoveTracks(ctx, p.SpotifyID, []string{"spotify:track:" + trackID}); err != nil {
		return fmt.Errorf("failed to remove track: %w", err)
	}
	return nil
}

// FollowPlaylist adds a linked playlist to the user's Spotify library.
func (s *Service) FollowPlaylist(ctx context.Context, user *model.User, id string) error {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("playlist %s not found", id)
	}
	if p.SpotifyID == "" {
		return model.ErrNotLinked
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return err
	}
	return client.FollowPlaylist(ctx, p.SpotifyID, p.Publicity)
}

// UnfollowPlaylist drops a linked playlist from the user's Spotify library
// without touching the local record.
func (s *Service) UnfollowPlaylist(ctx context.Context, user *model.User, id string) error {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("playlist %s not found", id)
	}
	if p.SpotifyID == "" {
		return model.ErrNotLinked
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return err
	}
	return client.UnfollowPlaylist(ctx, p.SpotifyID)
}

// PublicPlaylist resolves a shared playlist by its public identifier. The
// owner's credential drives the remote overlay, so unauthenticated readers
// still see the live track list.
func (s *Service) PublicPlaylist(ctx context.Context, publicID string) (*model.Playlist, error) {
	p, err := s.playlists.FindByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Publicity {
		return nil, nil
	}
	if p.SpotifyID == "" {
		return p, nil
	}

	owner, err := s.users.FindByID(p.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("owner of playlist %s not found", p.ID)
	}

	client, _, err := s.clientFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.overlayRemoteTracks(ctx, client, p); err != nil {
		return nil, err
	}
	return p, nil
}

// InviteUser records an invitation of a username to a playlist. The invite
// is redeemed when that username registers.
func (s *Service) InviteUser(ctx context.Context, host *model.User, id, username string) (*model.InvitedUser, error) {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("playlist %s not found", id)
	}
	if p.OwnerID != host.ID {
		return nil, model.ErrForbidden
	}

	pending, err := s.invites.FindByPlaylist(p.ID)
	if err != nil {
		return nil, err
	}
	for _, inv := range pending {
		if inv.Username == username {
			return &inv, nil
		}
	}

	inv := model.InvitedUser{
		Username:   username,
		PlaylistID: p.ID,
		HostID:     host.ID,
	}
	if err := s.invites.Create(&inv); err != nil {
		return nil, err
	}

	logger.Info("user invited",
		logger.String("playlist_id", p.ID),
		logger.String("username", username),
		logger.Int64("host_id", host.ID))
	return &inv, nil
}

// AttachInvites redeems every pending invitation for a freshly registered
// user: each invited playlist is followed on the user's Spotify account and
// the consumed invite records are dropped. Redeeming is best effort per
// playlist, one broken invite does not block the rest.
func (s *Service) AttachInvites(ctx context.Context, user *model.User) ([]model.Playlist, error) {
	pending, err := s.invites.FindByUsername(user.Username)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return nil, err
	}

	joined := make([]model.Playlist, 0, len(pending))
	for _, inv := range pending {
		p, err := s.playlists.FindByID(inv.PlaylistID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			if err := s.invites.Delete(inv.ID); err != nil {
				return nil, err
			}
			continue
		}

		if p.SpotifyID != "" {
			if err := client.FollowPlaylist(ctx, p.SpotifyID, p.Publicity); err != nil {
				logger.Warn("failed to follow invited playlist",
					logger.String("playlist_id", p.ID),
					logger.Int64("user_id", user.ID),
					logger.ErrorField(err))
				continue
			}
		}

		if err := s.invites.Delete(inv.ID); err != nil {
			return nil, err
		}
		joined = append(joined, *p)
	}

	return joined, nil
}

// StartPlayback starts playing a linked playlist on the user's active
// Spotify device.
func (s *Service) StartPlayback(ctx context.Context, user *model.User, id string) error {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("playlist %s not found", id)
	}
	if p.SpotifyID == "" {
		return model.ErrNotLinked
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return err
	}
	return client.StartPlayback(ctx, "spotify:playlist:"+p.SpotifyID)
}
