// Package settings provides database operations for per-user settings.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	library, err := repo.GetLibrary(userID)
package settings

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opdserve/opdserve/internal/entities"
)

// DefaultLibrary is the library path used when a user has not configured
// one.
const DefaultLibrary = "Books"

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by user and key, or fallback when unset.
func (r *Repository) GetSetting(userID uint, key, fallback string) (string, error) {
	var setting entities.Setting
	err := r.db.Where("user_id = ? AND key = ?", userID, key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// SetSetting creates or updates a setting for a user.
func (r *Repository) SetSetting(userID uint, key, value string) error {
	var setting entities.Setting
	result := r.db.Where("user_id = ? AND key = ?", userID, key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = entities.Setting{
			UserID: userID,
			Key:    key,
			Value:  value,
		}
		return r.db.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}

// GetLibrary returns the user's configured library path.
func (r *Repository) GetLibrary(userID uint) (string, error) {
	return r.GetSetting(userID, entities.SettingKeyLibrary, DefaultLibrary)
}

// SetLibrary updates the user's configured library path.
func (r *Repository) SetLibrary(userID uint, library string) error {
	return r.SetSetting(userID, entities.SettingKeyLibrary, library)
}
