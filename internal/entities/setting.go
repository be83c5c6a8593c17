package entities

import "time"

// SettingKeyLibrary holds a user's library root path, relative to the
// configured libraries base directory.
const SettingKeyLibrary = "library"

// Setting is a per-user key/value configuration entry.
type Setting struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex:idx_settings_user_key" json:"user_id"`
	Key    string `gorm:"uniqueIndex:idx_settings_user_key;size:100;not null" json:"key"`
	Value  string `gorm:"type:text" json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
