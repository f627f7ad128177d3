package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/logger"
)

const (
	productsCacheKey       = "acme-store:products"
	productsGenerationKey  = "acme-store:products:gen"
	DefaultProductCacheTTL = 5 * time.Minute
)

// errStaleListing aborts a refill when the listing changed after it was read.
var errStaleListing = errors.New("product listing changed during refill")

// CachedRepository caches the product listing in Redis. Redis failures are
// logged and the call goes to the wrapped repository.
//
// Every write bumps a generation counter. A refill only lands when the
// generation it read before querying the store is still current, so a slow
// reader cannot overwrite a newer invalidation.
type CachedRepository struct {
	domain.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository creates a new product-caching repository
func NewCachedRepository(next domain.Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultProductCacheTTL
	}
	return &CachedRepository{Repository: next, client: client, ttl: ttl}
}

// ListProducts reads through the cache
func (r *CachedRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	cached, err := r.client.Get(ctx, productsCacheKey).Bytes()
	switch {
	case err == nil:
		var products []domain.Product
		if jsonErr := json.Unmarshal(cached, &products); jsonErr == nil && products != nil {
			return products, nil
		}
		logger.Warn(ctx).Str("key", productsCacheKey).Msg("Discarding unreadable product cache entry")
	case err != redis.Nil:
		logger.Warn(ctx).Err(err).Msg("Product cache read failed")
	}

	generation, genErr := generationOf(r.client.Get(ctx, productsGenerationKey))

	products, err := r.Repository.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		logger.Warn(ctx).Err(genErr).Msg("Product cache generation read failed, skipping refill")
		return products, nil
	}
	r.refill(ctx, generation, products)
	return products, nil
}

// refill stores products unless the generation moved past seen
func (r *CachedRepository) refill(ctx context.Context, seen int64, products []domain.Product) {
	payload, err := json.Marshal(products)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to encode product cache entry")
		return
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generationOf(tx.Get(ctx, productsGenerationKey))
		if err != nil {
			return err
		}
		if current != seen {
			return errStaleListing
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productsCacheKey, payload, r.ttl)
			return nil
		})
		return err
	}, productsGenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleListing), errors.Is(err, redis.TxFailedErr):
		logger.Debug(ctx).Msg("Product listing changed during refill, not caching")
	default:
		logger.Warn(ctx).Err(err).Msg("Product cache write failed")
	}
}

func generationOf(cmd *redis.StringCmd) (int64, error) {
	generation, err := cmd.Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return generation, err
}

// CreateProduct invalidates the cached listing after a successful insert
func (r *CachedRepository) CreateProduct(ctx context.Context, name string) (*domain.Product, error) {
	product, err := r.Repository.CreateProduct(ctx, name)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return product, nil
}

// InitializeSchema invalidates the cached listing after the reset
func (r *CachedRepository) InitializeSchema(ctx context.Context) error {
	if err := r.Repository.InitializeSchema(ctx); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Ping forwards to the wrapped repository
func (r *CachedRepository) Ping(ctx context.Context) error {
	return ping(ctx, r.Repository)
}

// invalidate bumps the generation and drops the listing in one transaction
func (r *CachedRepository) invalidate(ctx context.Context) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, productsGenerationKey)
		pipe.Del(ctx, productsCacheKey)
		return nil
	})
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Product cache invalidation failed")
	}
}
