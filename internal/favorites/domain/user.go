package domain

import "github.com/google/uuid"

// Column limits mirrored by every backend.
const (
	MaxUsernameLength    = 350
	MaxProductNameLength = 50
)

// User represents a store customer
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username string    `json:"username" gorm:"size:350;not null"`
	Password string    `json:"-" gorm:"size:255;not null"` // bcrypt digest, never exposed
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
