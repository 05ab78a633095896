package repository

import (
	"errors"
	"fmt"
	"time"

	"teamtune/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int64) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	UpdateSpotifyTokens(userID int64, access, refresh string, refreshDate time.Time) error
	Delete(id int64) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a GORM-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return nil
}

func (r *userRepository) FindByID(id int64) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}
	return &user, nil
}

func (r *userRepository) UpdateSpotifyTokens(userID int64, access, refresh string, refreshDate time.Time) error {
	err := r.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]any{
		"access_token":       access,
		"refresh_token":      refresh,
		"token_refresh_date": refreshDate,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update tokens for user %d: %w", userID, err)
	}
	return nil
}

func (r *userRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
