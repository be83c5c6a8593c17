package entities

import "time"

// User is an account allowed to browse the catalog. Passwords are stored
// as bcrypt hashes.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
