package kafka

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteEvent is published whenever a favorite is created or deleted
type FavoriteEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	FavoriteID uuid.UUID `json:"favorite_id"`
	UserID     uuid.UUID `json:"user_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeFavoriteCreated = "favorite.created"
	EventTypeFavoriteDeleted = "favorite.deleted"
)

// DefaultTopic carries all favorite events
const DefaultTopic = "favorite-events"
