package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/auth"
)

func testHasher() auth.PasswordHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

// runRepositoryContract exercises behaviour every backend must share. newRepo
// must return a repository with a freshly initialized schema.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) domain.Repository) {
	t.Run("CreateUserIsListedWithoutPassword", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "moe", user.Username)

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, user.ID, users[0].ID)
		assert.Equal(t, "moe", users[0].Username)
		assert.Empty(t, users[0].Password)

		body, err := json.Marshal(users)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "password")
		assert.NotContains(t, string(body), "m_pw")
	})

	t.Run("EmptyPasswordIsRejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.CreateUser(ctx, "moe", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("InvalidUsernameIsRejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.CreateUser(ctx, "", "pw")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = repo.CreateUser(ctx, strings.Repeat("u", domain.MaxUsernameLength+1), "pw")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = repo.CreateUser(ctx, "moe", strings.Repeat("p", 73))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("DuplicateUsernameConflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)

		_, err = repo.CreateUser(ctx, "moe", "other")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, "username already exists", domain.MessageOf(err))

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("ProductValidationAndConflict", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		product, err := repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)
		assert.Equal(t, "foo", product.Name)

		_, err = repo.CreateProduct(ctx, "foo")
		assert.ErrorIs(t, err, domain.ErrConflict)

		_, err = repo.CreateProduct(ctx, "")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = repo.CreateProduct(ctx, strings.Repeat("n", domain.MaxProductNameLength+1))
		assert.ErrorIs(t, err, domain.ErrValidation)

		products, err := repo.ListProducts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Product{*product}, products)
	})

	t.Run("DuplicateFavoriteConflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		product, err := repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)

		_, err = repo.CreateFavorite(ctx, user.ID, product.ID)
		require.NoError(t, err)

		_, err = repo.CreateFavorite(ctx, user.ID, product.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConflict)

		favorites, err := repo.ListFavoritesForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, favorites, 1)
	})

	t.Run("FavoriteReferencesMustExist", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		product, err := repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)

		_, err = repo.CreateFavorite(ctx, user.ID, uuid.New())
		assert.ErrorIs(t, err, domain.ErrReference)
		assert.Equal(t, "product does not exist", domain.MessageOf(err))

		_, err = repo.CreateFavorite(ctx, uuid.New(), product.ID)
		assert.ErrorIs(t, err, domain.ErrReference)
		assert.Equal(t, "user does not exist", domain.MessageOf(err))

		favorites, err := repo.ListFavoritesForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, favorites)
	})

	t.Run("DeleteFavoriteRequiresOwner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		other, err := repo.CreateUser(ctx, "lucy", "l_pw")
		require.NoError(t, err)
		product, err := repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)
		favorite, err := repo.CreateFavorite(ctx, owner.ID, product.ID)
		require.NoError(t, err)

		removed, err := repo.DeleteFavorite(ctx, other.ID, favorite.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		favorites, err := repo.ListFavoritesForUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, favorites, 1)
	})

	t.Run("RemoveFavoriteReturnsRow", func(t *testing.T) {
		repo := newRepo(t)
		remover, ok := repo.(domain.FavoriteRemover)
		require.True(t, ok)
		ctx := context.Background()

		user, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		product, err := repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)
		favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
		require.NoError(t, err)

		removed, err := remover.RemoveFavorite(ctx, user.ID, favorite.ID)
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, *favorite, *removed)

		removed, err = remover.RemoveFavorite(ctx, user.ID, favorite.ID)
		require.NoError(t, err)
		assert.Nil(t, removed)
	})

	t.Run("DeleteFavoriteTwice", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		product, err := repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)
		favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
		require.NoError(t, err)

		removed, err := repo.DeleteFavorite(ctx, user.ID, favorite.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.DeleteFavorite(ctx, user.ID, favorite.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		favorites, err := repo.ListFavoritesForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, favorites)
	})

	t.Run("EmptyListingsAreNotNil", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		assert.NotNil(t, users)

		products, err := repo.ListProducts(ctx)
		require.NoError(t, err)
		assert.NotNil(t, products)

		favorites, err := repo.ListFavoritesForUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, favorites)
	})

	t.Run("InitializeSchemaDiscardsData", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		_, err = repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)

		require.NoError(t, repo.InitializeSchema(ctx))

		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
		products, err := repo.ListProducts(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("MoeAndLucyScenario", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		moe, err := repo.CreateUser(ctx, "moe", "m_pw")
		require.NoError(t, err)
		lucy, err := repo.CreateUser(ctx, "lucy", "l_pw")
		require.NoError(t, err)
		foo, err := repo.CreateProduct(ctx, "foo")
		require.NoError(t, err)
		bar, err := repo.CreateProduct(ctx, "bar")
		require.NoError(t, err)

		moeBar, err := repo.CreateFavorite(ctx, moe.ID, bar.ID)
		require.NoError(t, err)
		moeFoo, err := repo.CreateFavorite(ctx, moe.ID, foo.ID)
		require.NoError(t, err)

		favorites, err := repo.ListFavoritesForUser(ctx, moe.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.Favorite{*moeBar, *moeFoo}, favorites)

		favorites, err = repo.ListFavoritesForUser(ctx, lucy.ID)
		require.NoError(t, err)
		assert.Empty(t, favorites)

		removed, err := repo.DeleteFavorite(ctx, moe.ID, moeBar.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		favorites, err = repo.ListFavoritesForUser(ctx, moe.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Favorite{*moeFoo}, favorites)
	})
}
