package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/logger"
)

// EventingRepository publishes favorite events after successful writes.
// Publish failures are logged; the write has already committed.
type EventingRepository struct {
	domain.Repository
	publisher domain.EventPublisher
}

// NewEventingRepository creates a new event-publishing repository
func NewEventingRepository(next domain.Repository, publisher domain.EventPublisher) *EventingRepository {
	return &EventingRepository{Repository: next, publisher: publisher}
}

// CreateFavorite publishes favorite.created on success
func (r *EventingRepository) CreateFavorite(ctx context.Context, userID, productID uuid.UUID) (*domain.Favorite, error) {
	favorite, err := r.Repository.CreateFavorite(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if err := r.publisher.PublishFavoriteCreated(ctx, *favorite); err != nil {
		logger.Error(ctx).Err(err).
			Str("favorite_id", favorite.ID.String()).
			Msg("Failed to publish favorite created event")
	}
	return favorite, nil
}

// DeleteFavorite publishes favorite.deleted when a row was removed. The event
// carries the product id when the wrapped repository can return the row.
func (r *EventingRepository) DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (bool, error) {
	favorite, err := r.removeFavorite(ctx, userID, favoriteID)
	if err != nil || favorite == nil {
		return false, err
	}

	if err := r.publisher.PublishFavoriteDeleted(ctx, *favorite); err != nil {
		logger.Error(ctx).Err(err).
			Str("favorite_id", favoriteID.String()).
			Msg("Failed to publish favorite deleted event")
	}
	return true, nil
}

func (r *EventingRepository) removeFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (*domain.Favorite, error) {
	if remover, ok := r.Repository.(domain.FavoriteRemover); ok {
		return remover.RemoveFavorite(ctx, userID, favoriteID)
	}

	removed, err := r.Repository.DeleteFavorite(ctx, userID, favoriteID)
	if err != nil || !removed {
		return nil, err
	}
	return &domain.Favorite{ID: favoriteID, UserID: userID}, nil
}

// Ping forwards to the wrapped repository
func (r *EventingRepository) Ping(ctx context.Context) error {
	return ping(ctx, r.Repository)
}
