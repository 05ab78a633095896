package tunes

import (
	"context"
	"fmt"

	"teamtune/core/spotify"
	"teamtune/model"
)

// SearchTracks searches the remote catalog by free text and enriches the
// matches with their audio features. Non-track search results are dropped,
// the feature lookup happens in exactly one batched call, and the output
// keeps the filtered search order. A track without a feature record simply
// stays unenriched.
func (s *Service) SearchTracks(ctx context.Context, user *model.User, query string) ([]model.Song, error) {
	client, _, err := s.clientFor(ctx, user)
	if err != nil {
		return nil, err
	}

	page, err := client.SearchTracks(ctx, query, spotify.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("track search failed: %w", err)
	}

	tracks := make([]spotify.Track, 0, len(page.Items))
	ids := make([]string, 0, len(page.Items))
	for _, t := range page.Items {
		if t.Type != "track" {
			continue
		}
		tracks = append(tracks, t)
		ids = append(ids, t.ID)
	}
	if len(tracks) == 0 {
		return []model.Song{}, nil
	}

	features, err := client.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("audio feature lookup failed: %w", err)
	}
	byID := make(map[string]spotify.AudioFeatures, len(features))
	for _, f := range features {
		byID[f.ID] = f
	}

	songs := make([]model.Song, 0, len(tracks))
	for _, t := range tracks {
		song := songFromTrack(t, "")
		if f, ok := byID[t.ID]; ok {
			song.Features = &model.AudioFeatures{
				Acousticness:     f.Acousticness,
				Danceability:     f.Danceability,
				Energy:           f.Energy,
				Instrumentalness: f.Instrumentalness,
				Liveness:         f.Liveness,
				Loudness:         f.Loudness,
				Speechiness:      f.Speechiness,
				Tempo:            f.Tempo,
				Valence:          f.Valence,
			}
		}
		songs = append(songs, song)
	}
	return songs, nil
}
