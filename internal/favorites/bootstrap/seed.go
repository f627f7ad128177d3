// Package bootstrap resets the store and loads a fixed development data set.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/logger"
)

// SeedUser is a username and its plaintext password
type SeedUser struct {
	Username string
	Password string
}

// SeedFavorite links a seeded user to a seeded product by name
type SeedFavorite struct {
	Username string
	Product  string
}

// Data is a complete seed set
type Data struct {
	Users     []SeedUser
	Products  []string
	Favorites []SeedFavorite
}

// DefaultData is the development data set
var DefaultData = Data{
	Users: []SeedUser{
		{Username: "moe", Password: "m_pw"},
		{Username: "lucy", Password: "l_pw"},
		{Username: "ethyl", Password: "e_pw"},
		{Username: "curly", Password: "c_pw"},
	},
	Products: []string{"foo", "bar", "bazz", "quq", "fip"},
	Favorites: []SeedFavorite{
		{Username: "moe", Product: "bar"},
		{Username: "moe", Product: "foo"},
		{Username: "ethyl", Product: "quq"},
		{Username: "ethyl", Product: "fip"},
	},
}

// Result holds the records created by Run
type Result struct {
	Users     map[string]domain.User
	Products  map[string]domain.Product
	Favorites []domain.Favorite
}

// Run recreates the schema and inserts data. Any existing rows are lost.
func Run(ctx context.Context, repo domain.Repository, data Data) (*Result, error) {
	if err := repo.InitializeSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	result := &Result{
		Users:    make(map[string]domain.User, len(data.Users)),
		Products: make(map[string]domain.Product, len(data.Products)),
	}

	for _, u := range data.Users {
		user, err := repo.CreateUser(ctx, u.Username, u.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %q: %w", u.Username, err)
		}
		result.Users[u.Username] = *user
	}

	for _, name := range data.Products {
		product, err := repo.CreateProduct(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to seed product %q: %w", name, err)
		}
		result.Products[name] = *product
	}

	for _, f := range data.Favorites {
		user, ok := result.Users[f.Username]
		if !ok {
			return nil, fmt.Errorf("seed favorite references unknown user %q", f.Username)
		}
		product, ok := result.Products[f.Product]
		if !ok {
			return nil, fmt.Errorf("seed favorite references unknown product %q", f.Product)
		}

		favorite, err := repo.CreateFavorite(ctx, user.ID, product.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to seed favorite %s/%s: %w", f.Username, f.Product, err)
		}
		result.Favorites = append(result.Favorites, *favorite)
	}

	logger.Info(ctx).
		Int("users", len(result.Users)).
		Int("products", len(result.Products)).
		Int("favorites", len(result.Favorites)).
		Msg("Store bootstrapped")

	return result, nil
}

// UserID returns the id of a seeded user, or uuid.Nil
func (r *Result) UserID(username string) uuid.UUID {
	return r.Users[username].ID
}
