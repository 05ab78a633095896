package spotify

// Response shapes of the Spotify Web API, limited to the fields this
// system consumes. https://developer.spotify.com/documentation/web-api

// Page is Spotify's paging envelope. Next is empty on the last page.
type Page[T any] struct {
	Items    []T    `json:"items"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Total    int    `json:"total"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a (simplified) artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album represents a simplified album.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track represents a track. Search results may carry non-track types here,
// callers filter on Type.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	Type       string   `json:"type"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMs int64    `json:"duration_ms"`
	Explicit   bool     `json:"explicit"`
	Popularity int      `json:"popularity"`
}

// PublicUser is another user's public profile.
type PublicUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PrivateUser is the authenticated user's own profile.
type PrivateUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}

// PlaylistTrack is a track in playlist context.
type PlaylistTrack struct {
	AddedAt string     `json:"added_at"`
	AddedBy PublicUser `json:"added_by"`
	Track   Track      `json:"track"`
}

// SimplePlaylist is the playlist shape returned by collection listings.
type SimplePlaylist struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Public        bool       `json:"public"`
	Collaborative bool       `json:"collaborative"`
	Images        []Image    `json:"images"`
	Owner         PublicUser `json:"owner"`
	SnapshotID    string     `json:"snapshot_id"`
	Tracks        struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// Playlist is the full playlist object, including the first track page.
type Playlist struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Public        bool                `json:"public"`
	Collaborative bool                `json:"collaborative"`
	Images        []Image             `json:"images"`
	Owner         PublicUser          `json:"owner"`
	SnapshotID    string              `json:"snapshot_id"`
	Tracks        Page[PlaylistTrack] `json:"tracks"`
}

// AudioFeatures is the per-track feature vector.
type AudioFeatures struct {
	ID               string  `json:"id"`
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
	DurationMs       int64   `json:"duration_ms"`
}

// RecommendationSeed describes one seed the engine used.
type RecommendationSeed struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Recommendations is the recommendation engine's response.
type Recommendations struct {
	Seeds  []RecommendationSeed `json:"seeds"`
	Tracks []Track              `json:"tracks"`
}

// FirstImageURL returns the URL of the first image, or "".
func FirstImageURL(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
