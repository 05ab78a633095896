package repository

import (
	"errors"
	"fmt"

	"teamtune/model"

	"gorm.io/gorm"
)

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	Create(p *model.Playlist) error
	Save(p *model.Playlist) error
	FindByID(id string) (*model.Playlist, error)
	FindByPublicID(publicID string) (*model.Playlist, error)
	FindByOwner(ownerID int64) ([]model.Playlist, error)
	Delete(id string) error
}

type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a GORM-backed PlaylistRepository.
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(p *model.Playlist) error {
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create playlist %s: %w", p.Title, err)
	}
	return nil
}

func (r *playlistRepository) Save(p *model.Playlist) error {
	if err := r.db.Save(p).Error; err != nil {
		return fmt.Errorf("failed to save playlist %s: %w", p.ID, err)
	}
	return nil
}

func (r *playlistRepository) FindByID(id string) (*model.Playlist, error) {
	var p model.Playlist
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load playlist %s: %w", id, err)
	}
	return &p, nil
}

func (r *playlistRepository) FindByPublicID(publicID string) (*model.Playlist, error) {
	var p model.Playlist
	if err := r.db.First(&p, "public_id = ?", publicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load playlist by public id: %w", err)
	}
	return &p, nil
}

func (r *playlistRepository) FindByOwner(ownerID int64) ([]model.Playlist, error) {
	var playlists []model.Playlist
	if err := r.db.Where("owner_id = ?", ownerID).Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %d: %w", ownerID, err)
	}
	return playlists, nil
}

func (r *playlistRepository) Delete(id string) error {
	if err := r.db.Delete(&model.Playlist{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", id, err)
	}
	return nil
}
