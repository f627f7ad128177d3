package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/acme-store/internal/favorites/domain"
)

func TestMemoryRepositoryContract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) domain.Repository {
		return NewMemoryRepository(testHasher())
	})
}

func TestMemoryRepositoryStoresDigest(t *testing.T) {
	hasher := testHasher()
	repo := NewMemoryRepository(hasher)

	_, err := repo.CreateUser(context.Background(), "moe", "m_pw")
	require.NoError(t, err)

	digest, ok := repo.HashOf("moe")
	require.True(t, ok)
	assert.NotEqual(t, "m_pw", digest)
	assert.True(t, hasher.Check("m_pw", digest))
}

func TestMemoryRepositoryConcurrentDuplicateUsernames(t *testing.T) {
	repo := NewMemoryRepository(testHasher())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateUser(ctx, "moe", "m_pw")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestMemoryRepositoryCanceledContext(t *testing.T) {
	repo := NewMemoryRepository(testHasher())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListProducts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
