package favorites

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/internal/favorites/repository"
	"github.com/tair/acme-store/pkg/auth"
)

type countingPublisher struct {
	created, deleted int
}

func (p *countingPublisher) PublishFavoriteCreated(ctx context.Context, favorite domain.Favorite) error {
	p.created++
	return nil
}

func (p *countingPublisher) PublishFavoriteDeleted(ctx context.Context, favorite domain.Favorite) error {
	p.deleted++
	return nil
}

func newBackend() repository.Backend {
	return repository.NewMemoryRepository(auth.NewBcryptHasher(bcrypt.MinCost))
}

func TestProvideRepositoryLayers(t *testing.T) {
	repo := ProvideRepository(newBackend(), nil, nil)
	tracing, ok := repo.(*repository.TracingRepository)
	require.True(t, ok)
	assert.NoError(t, tracing.Ping(context.Background()))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	repo = ProvideRepository(newBackend(), &countingPublisher{}, &CacheConfig{Client: client})
	_, ok = repo.(*repository.TracingRepository)
	assert.True(t, ok)
}

func TestInitializeAppPublishesThroughHandler(t *testing.T) {
	publisher := &countingPublisher{}
	app, err := InitializeApp(newBackend(), publisher, nil, prometheus.NewRegistry())
	require.NoError(t, err)

	ctx := context.Background()
	user, err := app.Repository.CreateUser(ctx, "moe", "m_pw")
	require.NoError(t, err)
	product, err := app.Repository.CreateProduct(ctx, "foo")
	require.NoError(t, err)
	favorite, err := app.Repository.CreateFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)

	router := mux.NewRouter()
	app.Handler.RegisterRoutes(router)

	path := "/api/users/" + user.ID.String() + "/favorites/" + favorite.ID.String()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, 1, publisher.created)
	assert.Equal(t, 1, publisher.deleted)
}

func TestSeederPublishesNoEvents(t *testing.T) {
	publisher := &countingPublisher{}
	app, err := InitializeApp(newBackend(), publisher, nil, prometheus.NewRegistry())
	require.NoError(t, err)

	ctx := context.Background()
	user, err := app.Seeder.CreateUser(ctx, "moe", "m_pw")
	require.NoError(t, err)
	product, err := app.Seeder.CreateProduct(ctx, "foo")
	require.NoError(t, err)
	_, err = app.Seeder.CreateFavorite(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, publisher.created)

	favorites, err := app.Repository.ListFavoritesForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	_, ok := app.Seeder.(*repository.TracingRepository)
	assert.True(t, ok)
}
