package model

// Interpret is an artist id/name pair as Spotify reports it.
type Interpret struct {
	SpotifyID string `json:"spotify_id"`
	Name      string `json:"name"`
}

// AudioFeatures is the numeric feature vector Spotify computes per track.
type AudioFeatures struct {
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
}

// Song is one enriched track inside a playlist's music_info block.
// Songs are never cached long-term, the remote listing is the truth and
// gets overlaid on every read.
type Song struct {
	SpotifyID  string         `json:"spotify_id"`
	Name       string         `json:"name"`
	Interpret  []Interpret    `json:"interpret"`
	Album      string         `json:"album,omitempty"`
	DurationMs int64          `json:"duration_ms"`
	Popularity int            `json:"popularity"`
	AddedBy    string         `json:"added_by,omitempty"`
	Features   *AudioFeatures `json:"features,omitempty"`
}
