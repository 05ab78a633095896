package model

import "time"

// InvitedUser records an invitation of a username to a playlist. It carries
// no behavior, registration picks pending invites up by username.
type InvitedUser struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string `gorm:"size:100;not null;index" json:"username"`
	PlaylistID string `gorm:"size:36;not null;index" json:"playlist_id"`
	HostID     int64  `gorm:"not null" json:"host_id"`

	CreatedAt time.Time `json:"created_at"`
}
