package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the contract for store data access.
//
// Every method is a single atomic operation against the backing store and
// returns a *Error carrying one of the error kinds on failure.
type Repository interface {
	// InitializeSchema drops and recreates all tables. Existing data is lost.
	InitializeSchema(ctx context.Context) error

	CreateUser(ctx context.Context, username, password string) (*User, error)
	CreateProduct(ctx context.Context, name string) (*Product, error)
	CreateFavorite(ctx context.Context, userID, productID uuid.UUID) (*Favorite, error)

	// ListUsers returns ids and usernames only.
	ListUsers(ctx context.Context) ([]User, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListFavoritesForUser(ctx context.Context, userID uuid.UUID) ([]Favorite, error)

	// DeleteFavorite removes the favorite only when both ids match. A missing
	// row is not an error; removed reports whether a row was deleted.
	DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (removed bool, err error)
}

// Pinger is implemented by repositories that can check store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FavoriteRemover is implemented by repositories that can return the row a
// delete removed. RemoveFavorite returns nil when nothing matched.
type FavoriteRemover interface {
	RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (*Favorite, error)
}

// EventPublisher receives favorite lifecycle events after they are committed.
type EventPublisher interface {
	PublishFavoriteCreated(ctx context.Context, favorite Favorite) error
	PublishFavoriteDeleted(ctx context.Context, favorite Favorite) error
}
