package tunes

import (
	"context"
	"fmt"

	"teamtune/core/spotify"
	"teamtune/logger"
	"teamtune/model"

	"github.com/google/uuid"
)

// SyncPlaylists reconciles the user's complete remote playlist collection
// against the locally stored records. Remote playlists already linked by
// Spotify ID get their projected fields updated, unknown ones become new
// local records marked as not created in this system. Local playlists
// without a remote match are left untouched. Any remote failure aborts the
// whole reconciliation.
func (s *Service) SyncPlaylists(ctx context.Context, user *model.User) ([]model.Playlist, error) {
	client, user, err := s.clientFor(ctx, user)
	if err != nil {
		return nil, err
	}

	first, err := client.MyPlaylists(ctx, spotify.PlaylistPageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist collection: %w", err)
	}
	remote, err := spotify.AllPages(first, spotify.PlaylistPageSize, func(offset int) (*spotify.Page[spotify.SimplePlaylist], error) {
		return client.MyPlaylists(ctx, spotify.PlaylistPageSize, offset)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist collection: %w", err)
	}

	locals, err := s.playlists.FindByOwner(user.ID)
	if err != nil {
		return nil, err
	}

	// Membership is keyed solely by remote identifier equality.
	linked := make(map[string]*model.Playlist, len(locals))
	for i := range locals {
		if locals[i].SpotifyID != "" {
			linked[locals[i].SpotifyID] = &locals[i]
		}
	}

	created, updated := 0, 0
	for _, rp := range remote {
		if lp, ok := linked[rp.ID]; ok {
			lp.Title = rp.Name
			lp.Description = rp.Description
			lp.TrackCount = rp.Tracks.Total
			lp.ImageURL = spotify.FirstImageURL(rp.Images)
			lp.Publicity = rp.Public
			if err := s.playlists.Save(lp); err != nil {
				return nil, err
			}
			updated++
			continue
		}

		p := model.Playlist{
			ID:                 uuid.NewString(),
			OwnerID:            user.ID,
			SpotifyID:          rp.ID,
			Publicity:          rp.Public,
			Title:              rp.Name,
			Description:        rp.Description,
			TrackCount:         rp.Tracks.Total,
			ImageURL:           spotify.FirstImageURL(rp.Images),
			IsOwnPlaylist:      rp.Owner.ID == user.SpotifyID,
			IsTeamTunePlaylist: false,
		}
		p.PublicID = model.PublicIDFor(p.ID)
		if err := s.playlists.Create(&p); err != nil {
			return nil, err
		}
		created++
	}

	logger.Info("playlist sync finished",
		logger.Int64("user_id", user.ID),
		logger.Int("remote", len(remote)),
		logger.Int("created", created),
		logger.Int("updated", updated))

	return s.playlists.FindByOwner(user.ID)
}

// GetPlaylist loads a local playlist and, when it is linked, overlays the
// complete remote track list onto its music_info for this response. The
// overlay is not persisted, the remote listing stays the truth.
func (s *Service) GetPlaylist(ctx context.Context, user *model.User, id string) (*model.Playlist, error) {
	p, err := s.playlists.FindByID(id)
	if err != nil || p == nil {
		return p, err
	}
	if p.SpotifyID == "" {
		return p, nil
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.overlayRemoteTracks(ctx, client, p); err != nil {
		return nil, err
	}
	return p, nil
}

// overlayRemoteTracks replaces p.MusicInfo.Songs and the duration counter
// with the remote playlist's full track list.
func (s *Service) overlayRemoteTracks(ctx context.Context, client spotify.API, p *model.Playlist) error {
	full, err := client.GetPlaylist(ctx, p.SpotifyID)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist %s: %w", p.SpotifyID, err)
	}

	items, err := spotify.AllPages(&full.Tracks, spotify.TrackPageSize, func(offset int) (*spotify.Page[spotify.PlaylistTrack], error) {
		return client.PlaylistTracks(ctx, p.SpotifyID, spotify.TrackPageSize, offset)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	names, err := s.resolveAddedBy(ctx, client, items)
	if err != nil {
		return err
	}

	songs := make([]model.Song, 0, len(items))
	var total int64
	for _, item := range items {
		songs = append(songs, songFromTrack(item.Track, names[item.AddedBy.ID]))
		total += item.Track.DurationMs
	}

	p.MusicInfo.Songs = songs
	p.MusicInfo.DurationsMs = total
	p.TrackCount = len(songs)
	p.Title = full.Name
	p.Description = full.Description
	p.ImageURL = spotify.FirstImageURL(full.Images)
	return nil
}

// resolveAddedBy maps the distinct "added by" Spotify user IDs to display
// names. IDs are deduplicated through a set and served from the Redis cache
// before the profile endpoint is asked.
func (s *Service) resolveAddedBy(ctx context.Context, client spotify.API, items []spotify.PlaylistTrack) (map[string]string, error) {
	ids := make(map[string]struct{})
	for _, item := range items {
		if item.AddedBy.ID != "" {
			ids[item.AddedBy.ID] = struct{}{}
		}
	}

	names := make(map[string]string, len(ids))
	for id := range ids {
		if name, ok := s.names.Get(ctx, id); ok {
			names[id] = name
			continue
		}
		profile, err := client.UserProfile(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user %s: %w", id, err)
		}
		names[id] = profile.DisplayName
		s.names.Put(ctx, id, profile.DisplayName)
	}
	return names, nil
}
