package repository

import (
	"fmt"

	"teamtune/model"

	"gorm.io/gorm"
)

// InvitedUserRepository defines the interface for invitation records.
type InvitedUserRepository interface {
	Create(inv *model.InvitedUser) error
	FindByUsername(username string) ([]model.InvitedUser, error)
	FindByPlaylist(playlistID string) ([]model.InvitedUser, error)
	Delete(id int64) error
}

type invitedUserRepository struct {
	db *gorm.DB
}

// NewInvitedUserRepository creates a GORM-backed InvitedUserRepository.
func NewInvitedUserRepository(db *gorm.DB) InvitedUserRepository {
	return &invitedUserRepository{db: db}
}

func (r *invitedUserRepository) Create(inv *model.InvitedUser) error {
	if err := r.db.Create(inv).Error; err != nil {
		return fmt.Errorf("failed to create invite for %s: %w", inv.Username, err)
	}
	return nil
}

func (r *invitedUserRepository) FindByUsername(username string) ([]model.InvitedUser, error) {
	var invites []model.InvitedUser
	if err := r.db.Where("username = ?", username).Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("failed to list invites for %s: %w", username, err)
	}
	return invites, nil
}

func (r *invitedUserRepository) FindByPlaylist(playlistID string) ([]model.InvitedUser, error) {
	var invites []model.InvitedUser
	if err := r.db.Where("playlist_id = ?", playlistID).Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("failed to list invites for playlist %s: %w", playlistID, err)
	}
	return invites, nil
}

func (r *invitedUserRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.InvitedUser{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete invite %d: %w", id, err)
	}
	return nil
}
