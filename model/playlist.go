package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FeatureFilters holds optional per-feature ranges a playlist can restrict
// its recommendations to.
type FeatureFilters struct {
	AllowExplicit *bool `json:"allow_explicit,omitempty"`

	MinAcousticness     *float64 `json:"min_acousticness,omitempty"`
	MaxAcousticness     *float64 `json:"max_acousticness,omitempty"`
	MinDanceability     *float64 `json:"min_danceability,omitempty"`
	MaxDanceability     *float64 `json:"max_danceability,omitempty"`
	MinEnergy           *float64 `json:"min_energy,omitempty"`
	MaxEnergy           *float64 `json:"max_energy,omitempty"`
	MinInstrumentalness *float64 `json:"min_instrumentalness,omitempty"`
	MaxInstrumentalness *float64 `json:"max_instrumentalness,omitempty"`
	MinLiveness         *float64 `json:"min_liveness,omitempty"`
	MaxLiveness         *float64 `json:"max_liveness,omitempty"`
	MinLoudness         *float64 `json:"min_loudness,omitempty"`
	MaxLoudness         *float64 `json:"max_loudness,omitempty"`
	MinSpeechiness      *float64 `json:"min_speechiness,omitempty"`
	MaxSpeechiness      *float64 `json:"max_speechiness,omitempty"`
	MinValence          *float64 `json:"min_valence,omitempty"`
	MaxValence          *float64 `json:"max_valence,omitempty"`
}

// MusicInfo is the nested duration/track block of a playlist. DurationsMs and
// Songs mirror the remote playlist at read time, DurationTarget is local.
type MusicInfo struct {
	DurationTarget int64           `json:"duration_target"`
	DurationsMs    int64           `json:"durations_ms"`
	Songs          []Song          `json:"songs"`
	Filters        *FeatureFilters `json:"filters,omitempty"`
}

// Playlist is a locally stored playlist record. SpotifyID stays empty until
// the playlist has been created (or discovered) remotely and linked.
type Playlist struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID  int64  `gorm:"index;not null" json:"owner"`
	PublicID string `gorm:"size:64;uniqueIndex" json:"public_id"`

	SpotifyID string `gorm:"size:64;index" json:"spotify_id,omitempty"`
	Publicity bool   `json:"publicity"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"size:1024" json:"description"`

	// IsTeamTunePlaylist marks playlists created inside this system, as
	// opposed to ones discovered while reconciling against Spotify.
	IsOwnPlaylist      bool `json:"is_own_playlist"`
	IsTeamTunePlaylist bool `json:"is_teamtune_playlist"`

	TrackCount int    `json:"track_count"`
	ImageURL   string `gorm:"size:512" json:"image_url"`

	MusicInfo MusicInfo `gorm:"serializer:json" json:"music_info"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicIDFor derives the shareable identifier from a playlist's local ID.
// One-way, so the internal ID cannot be recovered from a shared link.
func PublicIDFor(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}
