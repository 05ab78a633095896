package tunes

import (
	"context"
	"fmt"
	"math/rand"

	"teamtune/core/spotify"
	"teamtune/logger"
	"teamtune/model"
)

// maxSeedTracks is the number of seeds the recommendation endpoint accepts.
const maxSeedTracks = 5

// fallbackTrackDurationMs stands in for the average track duration when the
// playlist's own tracks report none.
const fallbackTrackDurationMs = 210_000

// FillReport describes one filler run.
type FillReport struct {
	Requested   int          `json:"requested"`
	Added       []model.Song `json:"added"`
	DurationsMs int64        `json:"durations_ms"`
	TrackCount  int          `json:"track_count"`
}

// FillPlaylist grows a linked playlist's remote track list toward its
// duration target using catalog recommendations. Candidates already present
// anywhere in the playlist are rejected, as are candidates that would push
// the accumulated duration past the target. Recommendation chunks of at most
// 100 are processed serially and the accumulated duration is re-derived
// after every accepted batch, so the target is never overshot.
func (s *Service) FillPlaylist(ctx context.Context, user *model.User, id string) (*FillReport, error) {
	p, err := s.playlists.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("playlist %s not found", id)
	}
	if p.SpotifyID == "" {
		return nil, model.ErrNotLinked
	}

	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return nil, err
	}

	// Work from the remote truth, not from whatever was stored locally.
	if err := s.overlayRemoteTracks(ctx, client, p); err != nil {
		return nil, err
	}

	target := p.MusicInfo.DurationTarget
	current := p.MusicInfo.DurationsMs
	if current >= target {
		return nil, model.ErrDurationLimitReached
	}

	songs := p.MusicInfo.Songs
	if len(songs) == 0 {
		return nil, model.ErrNoSeedTracks
	}

	have := make(map[string]struct{}, len(songs))
	pool := make([]string, 0, len(songs))
	var popularitySum int64
	for _, song := range songs {
		have[song.SpotifyID] = struct{}{}
		pool = append(pool, song.SpotifyID)
		popularitySum += int64(song.Popularity)
	}
	avgPopularity := int(popularitySum / int64(len(songs)))

	avgDuration := current / int64(len(songs))
	if avgDuration <= 0 {
		avgDuration = fallbackTrackDurationMs
	}

	remaining := target - current
	budget := int((remaining + avgDuration - 1) / avgDuration)
	requested := budget

	seeds := seedTracks(pool, s.rng)

	report := &FillReport{Requested: requested, Added: []model.Song{}}
	for budget > 0 && current < target {
		limit := budget
		if limit > spotify.MaxRecommendations {
			limit = spotify.MaxRecommendations
		}

		recs, err := client.Recommendations(ctx, seeds, avgPopularity, limit, s.market)
		if err != nil {
			return nil, fmt.Errorf("recommendation request failed: %w", err)
		}
		if len(recs.Tracks) == 0 {
			break
		}

		accepted := make([]spotify.Track, 0, len(recs.Tracks))
		for _, t := range recs.Tracks {
			if _, dup := have[t.ID]; dup {
				continue
			}
			if current+t.DurationMs > target {
				continue
			}
			have[t.ID] = struct{}{}
			current += t.DurationMs
			accepted = append(accepted, t)
		}

		if len(accepted) > 0 {
			uris := make([]string, 0, len(accepted))
			for _, t := range accepted {
				uris = append(uris, t.URI)
			}
			if _, err := client.AddTracks(ctx, p.SpotifyID, uris); err != nil {
				return nil, fmt.Errorf("failed to append recommendations: %w", err)
			}
			for _, t := range accepted {
				report.Added = append(report.Added, songFromTrack(t, ""))
			}
		}

		budget -= limit
	}

	report.DurationsMs = current
	report.TrackCount = len(have)

	// Persist the counters; the track list itself stays remote-sourced.
	p.MusicInfo.DurationsMs = current
	p.MusicInfo.Songs = nil
	p.TrackCount = report.TrackCount
	if err := s.playlists.Save(p); err != nil {
		return nil, err
	}

	logger.Info("playlist filled",
		logger.String("playlist_id", p.ID),
		logger.Int("requested", requested),
		logger.Int("added", len(report.Added)),
		logger.Int64("durations_ms", current),
		logger.Int64("duration_target", target))

	return report, nil
}

// seedTracks picks the recommendation seeds from the playlist's track pool:
// the whole pool when it holds fewer than 6 tracks, otherwise 5 drawn by
// uniform index sampling without replacement.
func seedTracks(pool []string, rng *rand.Rand) []string {
	if len(pool) < 6 {
		return pool
	}

	picked := make(map[int]struct{}, maxSeedTracks)
	seeds := make([]string, 0, maxSeedTracks)
	for len(seeds) < maxSeedTracks {
		i := rng.Intn(len(pool))
		if _, ok := picked[i]; ok {
			continue
		}
		picked[i] = struct{}{}
		seeds = append(seeds, pool[i])
	}
	return seeds
}
