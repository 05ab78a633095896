package model

import "time"

// Roles a user can hold. Admins may delete foreign accounts.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a local account. The Spotify token pair is managed by
// tunes.Manager and persisted whenever it gets refreshed.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:100;not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:member" json:"role"`

	SpotifyID        string    `gorm:"size:64;index" json:"spotify_id,omitempty"`
	AccessToken      string    `gorm:"size:512" json:"-"`
	RefreshToken     string    `gorm:"size:512" json:"-"`
	TokenRefreshDate time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasSpotifyCredentials reports whether the user carries a usable token pair.
func (u *User) HasSpotifyCredentials() bool {
	return u != nil && u.AccessToken != "" && u.RefreshToken != ""
}
