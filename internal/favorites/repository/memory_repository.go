package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/auth"
)

// MemoryRepository keeps everything in process memory. It enforces the same
// uniqueness and reference rules as the SQL schema.
type MemoryRepository struct {
	mu        sync.RWMutex
	hasher    auth.PasswordHasher
	users     map[uuid.UUID]domain.User
	products  map[uuid.UUID]domain.Product
	favorites map[uuid.UUID]domain.Favorite
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository(hasher auth.PasswordHasher) *MemoryRepository {
	r := &MemoryRepository{hasher: hasher}
	r.reset()
	return r
}

func (r *MemoryRepository) reset() {
	r.users = make(map[uuid.UUID]domain.User)
	r.products = make(map[uuid.UUID]domain.Product)
	r.favorites = make(map[uuid.UUID]domain.Favorite)
}

// InitializeSchema discards all data
func (r *MemoryRepository) InitializeSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return classify("InitializeSchema", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
	return nil
}

// CreateUser hashes the password and stores a new user
func (r *MemoryRepository) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := newUser("CreateUser", r.hasher, username, password)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, classify("CreateUser", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, domain.Conflict("CreateUser", conflictMessages[constraintUsername], nil)
		}
	}
	r.users[user.ID] = *user
	return user, nil
}

// CreateProduct stores a new product
func (r *MemoryRepository) CreateProduct(ctx context.Context, name string) (*domain.Product, error) {
	product, err := newProduct("CreateProduct", name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, classify("CreateProduct", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.Name == product.Name {
			return nil, domain.Conflict("CreateProduct", conflictMessages[constraintProductName], nil)
		}
	}
	r.products[product.ID] = *product
	return product, nil
}

// CreateFavorite links an existing user to an existing product
func (r *MemoryRepository) CreateFavorite(ctx context.Context, userID, productID uuid.UUID) (*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify("CreateFavorite", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return nil, domain.Reference("CreateFavorite", referenceMessages[constraintFavoriteUser], nil)
	}
	if _, ok := r.products[productID]; !ok {
		return nil, domain.Reference("CreateFavorite", referenceMessages[constraintFavoriteProduct], nil)
	}
	for _, existing := range r.favorites {
		if existing.UserID == userID && existing.ProductID == productID {
			return nil, domain.Conflict("CreateFavorite", conflictMessages[constraintFavoritePair], nil)
		}
	}

	favorite := newFavorite(userID, productID)
	r.favorites[favorite.ID] = *favorite
	return favorite, nil
}

// ListUsers returns every user without password digests
func (r *MemoryRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify("ListUsers", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, domain.User{ID: user.ID, Username: user.Username})
	}
	return users, nil
}

// ListProducts returns every product
func (r *MemoryRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify("ListProducts", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	return products, nil
}

// ListFavoritesForUser returns the favorites owned by userID
func (r *MemoryRepository) ListFavoritesForUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify("ListFavoritesForUser", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	favorites := []domain.Favorite{}
	for _, favorite := range r.favorites {
		if favorite.UserID == userID {
			favorites = append(favorites, favorite)
		}
	}
	return favorites, nil
}

// DeleteFavorite removes a favorite only when it belongs to userID
func (r *MemoryRepository) DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (bool, error) {
	favorite, err := r.RemoveFavorite(ctx, userID, favoriteID)
	return favorite != nil, err
}

// RemoveFavorite deletes a favorite owned by userID and returns the deleted row
func (r *MemoryRepository) RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify("DeleteFavorite", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	favorite, ok := r.favorites[favoriteID]
	if !ok || favorite.UserID != userID {
		return nil, nil
	}
	delete(r.favorites, favoriteID)
	return &favorite, nil
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// HashOf returns the stored password digest for username. Used by tests to
// verify hashing without exposing digests through the listing API.
func (r *MemoryRepository) HashOf(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return user.Password, true
		}
	}
	return "", false
}
