package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/auth"
)

// PostgresRepository implements domain.Repository with plain SQL over lib/pq
type PostgresRepository struct {
	db     *sql.DB
	hasher auth.PasswordHasher
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB, hasher auth.PasswordHasher) *PostgresRepository {
	return &PostgresRepository{db: db, hasher: hasher}
}

// InitializeSchema drops and recreates all tables
func (r *PostgresRepository) InitializeSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("InitializeSchema", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return classify("InitializeSchema", err)
		}
	}

	return classify("InitializeSchema", tx.Commit())
}

// CreateUser hashes the password and inserts a new user
func (r *PostgresRepository) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := newUser("CreateUser", r.hasher, username, password)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (id, username, password) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Password); err != nil {
		return nil, classify("CreateUser", err)
	}
	return user, nil
}

// CreateProduct inserts a new product
func (r *PostgresRepository) CreateProduct(ctx context.Context, name string) (*domain.Product, error) {
	product, err := newProduct("CreateProduct", name)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO products (id, name) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, product.ID, product.Name); err != nil {
		return nil, classify("CreateProduct", err)
	}
	return product, nil
}

// CreateFavorite links a user to a product
func (r *PostgresRepository) CreateFavorite(ctx context.Context, userID, productID uuid.UUID) (*domain.Favorite, error) {
	favorite := newFavorite(userID, productID)

	query := `INSERT INTO favorites (id, user_id, product_id) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, favorite.ID, favorite.UserID, favorite.ProductID); err != nil {
		return nil, classify("CreateFavorite", err)
	}
	return favorite, nil
}

// ListUsers returns every user without password digests
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username FROM users`)
	if err != nil {
		return nil, classify("ListUsers", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, classify("ListUsers", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("ListUsers", err)
	}
	return users, nil
}

// ListProducts returns every product
func (r *PostgresRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM products`)
	if err != nil {
		return nil, classify("ListProducts", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name); err != nil {
			return nil, classify("ListProducts", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("ListProducts", err)
	}
	return products, nil
}

// ListFavoritesForUser returns the favorites owned by userID
func (r *PostgresRepository) ListFavoritesForUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	query := `SELECT id, user_id, product_id FROM favorites WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, classify("ListFavoritesForUser", err)
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var favorite domain.Favorite
		if err := rows.Scan(&favorite.ID, &favorite.UserID, &favorite.ProductID); err != nil {
			return nil, classify("ListFavoritesForUser", err)
		}
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("ListFavoritesForUser", err)
	}
	return favorites, nil
}

// DeleteFavorite removes a favorite only when it belongs to userID
func (r *PostgresRepository) DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (bool, error) {
	favorite, err := r.RemoveFavorite(ctx, userID, favoriteID)
	return favorite != nil, err
}

// RemoveFavorite deletes a favorite owned by userID and returns the deleted row
func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (*domain.Favorite, error) {
	query := `DELETE FROM favorites WHERE id = $1 AND user_id = $2 RETURNING id, user_id, product_id`

	var favorite domain.Favorite
	err := r.db.QueryRowContext(ctx, query, favoriteID, userID).
		Scan(&favorite.ID, &favorite.UserID, &favorite.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("DeleteFavorite", err)
	}
	return &favorite, nil
}

// Ping checks the connection pool
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return classify("Ping", r.db.PingContext(ctx))
}
