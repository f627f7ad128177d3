// Package favorites assembles the store decorators and HTTP handler for the
// users, products and favorites API.
package favorites

import (
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/tair/acme-store/internal/favorites/delivery/http"
	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/internal/favorites/repository"
)

// CacheConfig enables the product listing cache
type CacheConfig struct {
	Client *redis.Client
	TTL    time.Duration
}

// SeedRepository is the repository handed to bootstrap. It shares the
// backend and cache with the API but publishes no favorite events.
type SeedRepository domain.Repository

// App holds the assembled repositories and HTTP handler
type App struct {
	Repository domain.Repository
	Seeder     SeedRepository
	Handler    *http.FavoritesHandler
}

// ProvideRepository wraps the backend with the optional event publisher and
// product cache, then tracing. A nil publisher or cache skips that layer.
func ProvideRepository(backend repository.Backend, publisher domain.EventPublisher, cache *CacheConfig) domain.Repository {
	return decorate(backend, publisher, cache)
}

// ProvideSeedRepository wraps the backend like ProvideRepository without the
// event publisher.
func ProvideSeedRepository(backend repository.Backend, cache *CacheConfig) SeedRepository {
	return decorate(backend, nil, cache)
}

func decorate(backend repository.Backend, publisher domain.EventPublisher, cache *CacheConfig) domain.Repository {
	var repo domain.Repository = backend

	if publisher != nil {
		repo = repository.NewEventingRepository(repo, publisher)
	}
	if cache != nil && cache.Client != nil {
		repo = repository.NewCachedRepository(repo, cache.Client, cache.TTL)
	}

	return repository.NewTracingRepository(repo)
}

// ProviderSet is the wire provider set for the favorites service
var ProviderSet = wire.NewSet(
	ProvideRepository,
	ProvideSeedRepository,
	http.NewFavoritesHandler,
	wire.Struct(new(App), "*"),
)
