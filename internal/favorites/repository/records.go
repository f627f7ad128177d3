package repository

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/auth"
)

// newUser validates input and hashes the password. No store access happens
// here, so a validation failure never leaves a partial write.
func newUser(op string, hasher auth.PasswordHasher, username, password string) (*domain.User, error) {
	if password == "" {
		return nil, domain.Validation(op, "password is required")
	}
	if strings.TrimSpace(username) == "" {
		return nil, domain.Validation(op, "username is required")
	}
	if utf8.RuneCountInString(username) > domain.MaxUsernameLength {
		return nil, domain.Validation(op, "username is too long")
	}

	digest, err := hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, domain.Validation(op, err.Error())
	}
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindUnknown, Op: op, Err: err}
	}

	return &domain.User{
		ID:       uuid.New(),
		Username: username,
		Password: digest,
	}, nil
}

func newProduct(op, name string) (*domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Validation(op, "product name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxProductNameLength {
		return nil, domain.Validation(op, "product name is too long")
	}

	return &domain.Product{ID: uuid.New(), Name: name}, nil
}

func newFavorite(userID, productID uuid.UUID) *domain.Favorite {
	return &domain.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
}
