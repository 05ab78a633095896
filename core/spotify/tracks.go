package spotify

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// SearchTracks runs a free-text track search and returns the raw result
// page. Items may carry non-track types, callers filter on Track.Type.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) (*Page[Track], error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))

	var result struct {
		Tracks Page[Track] `json:"tracks"`
	}
	if err := c.get(ctx, "/search", q, &result); err != nil {
		return nil, err
	}
	return &result.Tracks, nil
}

// AudioFeatures fetches the feature vectors for up to 100 track IDs in a
// single batched call. Tracks without features come back as null and are
// omitted from the result.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]AudioFeatures, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))

	var result struct {
		AudioFeatures []*AudioFeatures `json:"audio_features"`
	}
	if err := c.get(ctx, "/audio-features", q, &result); err != nil {
		return nil, err
	}

	features := make([]AudioFeatures, 0, len(result.AudioFeatures))
	for _, f := range result.AudioFeatures {
		if f != nil {
			features = append(features, *f)
		}
	}
	return features, nil
}

// Recommendations asks the engine for candidate tracks biased by the given
// seed tracks and target popularity. limit is capped remotely at 100.
func (c *Client) Recommendations(ctx context.Context, seedTracks []string, targetPopularity, limit int, market string) (*Recommendations, error) {
	q := url.Values{}
	q.Set("seed_tracks", strings.Join(seedTracks, ","))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("target_popularity", strconv.Itoa(targetPopularity))
	if market != "" {
		q.Set("market", market)
	}

	var recs Recommendations
	if err := c.get(ctx, "/recommendations", q, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}
