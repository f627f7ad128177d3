package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/auth"
)

// GormRepository implements domain.Repository using GORM
type GormRepository struct {
	db     *gorm.DB
	hasher auth.PasswordHasher
}

// NewGormRepository creates a new GORM repository
func NewGormRepository(db *gorm.DB, hasher auth.PasswordHasher) *GormRepository {
	return &GormRepository{db: db, hasher: hasher}
}

// InitializeSchema drops and recreates all tables
func (r *GormRepository) InitializeSchema(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range schemaStatements {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return classify("InitializeSchema", err)
}

// CreateUser hashes the password and inserts a new user
func (r *GormRepository) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := newUser("CreateUser", r.hasher, username, password)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, classify("CreateUser", err)
	}
	return user, nil
}

// CreateProduct inserts a new product
func (r *GormRepository) CreateProduct(ctx context.Context, name string) (*domain.Product, error) {
	product, err := newProduct("CreateProduct", name)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, classify("CreateProduct", err)
	}
	return product, nil
}

// CreateFavorite links a user to a product
func (r *GormRepository) CreateFavorite(ctx context.Context, userID, productID uuid.UUID) (*domain.Favorite, error) {
	favorite := newFavorite(userID, productID)
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, classify("CreateFavorite", err)
	}
	return favorite, nil
}

// ListUsers returns every user without password digests
func (r *GormRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.WithContext(ctx).Select("id", "username").Find(&users).Error; err != nil {
		return nil, classify("ListUsers", err)
	}
	return users, nil
}

// ListProducts returns every product
func (r *GormRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, classify("ListProducts", err)
	}
	return products, nil
}

// ListFavoritesForUser returns the favorites owned by userID
func (r *GormRepository) ListFavoritesForUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	favorites := []domain.Favorite{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return nil, classify("ListFavoritesForUser", err)
	}
	return favorites, nil
}

// DeleteFavorite removes a favorite only when it belongs to userID
func (r *GormRepository) DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (bool, error) {
	favorite, err := r.RemoveFavorite(ctx, userID, favoriteID)
	return favorite != nil, err
}

// RemoveFavorite deletes a favorite owned by userID and returns the deleted row
func (r *GormRepository) RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (*domain.Favorite, error) {
	var favorite domain.Favorite
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", favoriteID, userID).
		Delete(&favorite)
	if result.Error != nil {
		return nil, classify("DeleteFavorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &favorite, nil
}

// Ping checks the underlying connection pool
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return classify("Ping", err)
	}
	return classify("Ping", sqlDB.PingContext(ctx))
}
