package domain

import "github.com/google/uuid"

// Favorite marks that a user has favorited a product. The (UserID, ProductID)
// pair is unique.
type Favorite struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}
