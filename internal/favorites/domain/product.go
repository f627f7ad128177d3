package domain

import "github.com/google/uuid"

// Product represents a catalog item users can favorite
type Product struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"size:50;not null"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}
