package repository

import (
	"context"

	"github.com/tair/acme-store/internal/favorites/domain"
)

// Backend is a concrete store implementation: a domain.Repository that can
// also report its own health.
type Backend interface {
	domain.Repository
	domain.Pinger
}

// ping forwards a health check to next when it supports one.
func ping(ctx context.Context, next domain.Repository) error {
	if p, ok := next.(domain.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
