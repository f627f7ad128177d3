package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/acme-store/internal/favorites/domain"
)

type recordingPublisher struct {
	created []domain.Favorite
	deleted []domain.Favorite
	err     error
}

func (p *recordingPublisher) PublishFavoriteCreated(ctx context.Context, favorite domain.Favorite) error {
	p.created = append(p.created, favorite)
	return p.err
}

func (p *recordingPublisher) PublishFavoriteDeleted(ctx context.Context, favorite domain.Favorite) error {
	p.deleted = append(p.deleted, favorite)
	return p.err
}

// deleteOnlyRepository hides RemoveFavorite from the eventing layer.
type deleteOnlyRepository struct {
	domain.Repository
}

func seedFavorite(t *testing.T, repo domain.Repository) (*domain.User, *domain.Product) {
	t.Helper()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "moe", "m_pw")
	require.NoError(t, err)
	product, err := repo.CreateProduct(ctx, "foo")
	require.NoError(t, err)
	return user, product
}

func TestEventingRepositoryPublishesOnlyRealChanges(t *testing.T) {
	publisher := &recordingPublisher{}
	repo := NewEventingRepository(NewMemoryRepository(testHasher()), publisher)
	ctx := context.Background()
	user, product := seedFavorite(t, repo)

	favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)
	require.Len(t, publisher.created, 1)
	assert.Equal(t, *favorite, publisher.created[0])

	_, err = repo.CreateFavorite(ctx, user.ID, product.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, publisher.created, 1)

	removed, err := repo.DeleteFavorite(ctx, user.ID, favorite.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteFavorite(ctx, user.ID, favorite.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []domain.Favorite{*favorite}, publisher.deleted)
}

func TestEventingRepositoryDeleteEventCarriesProduct(t *testing.T) {
	publisher := &recordingPublisher{}
	repo := NewEventingRepository(NewMemoryRepository(testHasher()), publisher)
	ctx := context.Background()
	user, product := seedFavorite(t, repo)

	favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)

	removed, err := repo.DeleteFavorite(ctx, user.ID, favorite.ID)
	require.NoError(t, err)
	require.True(t, removed)
	require.Len(t, publisher.deleted, 1)
	assert.Equal(t, product.ID, publisher.deleted[0].ProductID)
	assert.Equal(t, user.ID, publisher.deleted[0].UserID)
}

func TestEventingRepositoryDeleteWithoutRemover(t *testing.T) {
	publisher := &recordingPublisher{}
	inner := deleteOnlyRepository{Repository: NewMemoryRepository(testHasher())}
	repo := NewEventingRepository(inner, publisher)
	ctx := context.Background()
	user, product := seedFavorite(t, repo)

	favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)

	removed, err := repo.DeleteFavorite(ctx, uuid.New(), favorite.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, publisher.deleted)

	removed, err = repo.DeleteFavorite(ctx, user.ID, favorite.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []domain.Favorite{{ID: favorite.ID, UserID: user.ID}}, publisher.deleted)
}

func TestEventingRepositoryIgnoresPublishFailure(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	repo := NewEventingRepository(NewMemoryRepository(testHasher()), publisher)
	ctx := context.Background()
	user, product := seedFavorite(t, repo)

	favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)

	removed, err := repo.DeleteFavorite(ctx, user.ID, favorite.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestTracingRepositoryDelegates(t *testing.T) {
	repo := NewTracingRepository(NewMemoryRepository(testHasher()))
	ctx := context.Background()
	user, product := seedFavorite(t, repo)

	favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)

	favorites, err := repo.ListFavoritesForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Favorite{*favorite}, favorites)

	_, err = repo.CreateUser(ctx, "moe", "again")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, repo.Ping(ctx))
}
