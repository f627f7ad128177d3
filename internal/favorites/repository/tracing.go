package repository

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/acme-store/internal/favorites/domain"
)

var tracer = otel.Tracer("acme-store-repository")

// TracingRepository wraps a repository with one span per operation
type TracingRepository struct {
	next domain.Repository
}

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.Repository) *TracingRepository {
	return &TracingRepository{next: next}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", domain.KindOf(err).String()))
	}
	span.End()
}

// InitializeSchema with tracing
func (r *TracingRepository) InitializeSchema(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "repository.InitializeSchema")
	defer func() { endSpan(span, err) }()

	return r.next.InitializeSchema(ctx)
}

// CreateUser with tracing
func (r *TracingRepository) CreateUser(ctx context.Context, username, password string) (user *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "repository.CreateUser",
		trace.WithAttributes(attribute.String("user.username", username)),
	)
	defer func() { endSpan(span, err) }()

	user, err = r.next.CreateUser(ctx, username, password)
	if err == nil {
		span.SetAttributes(attribute.String("user.id", user.ID.String()))
	}
	return user, err
}

// CreateProduct with tracing
func (r *TracingRepository) CreateProduct(ctx context.Context, name string) (product *domain.Product, err error) {
	ctx, span := tracer.Start(ctx, "repository.CreateProduct",
		trace.WithAttributes(attribute.String("product.name", name)),
	)
	defer func() { endSpan(span, err) }()

	product, err = r.next.CreateProduct(ctx, name)
	if err == nil {
		span.SetAttributes(attribute.String("product.id", product.ID.String()))
	}
	return product, err
}

// CreateFavorite with tracing
func (r *TracingRepository) CreateFavorite(ctx context.Context, userID, productID uuid.UUID) (favorite *domain.Favorite, err error) {
	ctx, span := tracer.Start(ctx, "repository.CreateFavorite",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("product.id", productID.String()),
		),
	)
	defer func() { endSpan(span, err) }()

	favorite, err = r.next.CreateFavorite(ctx, userID, productID)
	if err == nil {
		span.SetAttributes(attribute.String("favorite.id", favorite.ID.String()))
	}
	return favorite, err
}

// ListUsers with tracing
func (r *TracingRepository) ListUsers(ctx context.Context) (users []domain.User, err error) {
	ctx, span := tracer.Start(ctx, "repository.ListUsers")
	defer func() { endSpan(span, err) }()

	users, err = r.next.ListUsers(ctx)
	span.SetAttributes(attribute.Int("users.count", len(users)))
	return users, err
}

// ListProducts with tracing
func (r *TracingRepository) ListProducts(ctx context.Context) (products []domain.Product, err error) {
	ctx, span := tracer.Start(ctx, "repository.ListProducts")
	defer func() { endSpan(span, err) }()

	products, err = r.next.ListProducts(ctx)
	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, err
}

// ListFavoritesForUser with tracing
func (r *TracingRepository) ListFavoritesForUser(ctx context.Context, userID uuid.UUID) (favorites []domain.Favorite, err error) {
	ctx, span := tracer.Start(ctx, "repository.ListFavoritesForUser",
		trace.WithAttributes(attribute.String("user.id", userID.String())),
	)
	defer func() { endSpan(span, err) }()

	favorites, err = r.next.ListFavoritesForUser(ctx, userID)
	span.SetAttributes(attribute.Int("favorites.count", len(favorites)))
	return favorites, err
}

// DeleteFavorite with tracing
func (r *TracingRepository) DeleteFavorite(ctx context.Context, userID, favoriteID uuid.UUID) (removed bool, err error) {
	ctx, span := tracer.Start(ctx, "repository.DeleteFavorite",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("favorite.id", favoriteID.String()),
		),
	)
	defer func() { endSpan(span, err) }()

	removed, err = r.next.DeleteFavorite(ctx, userID, favoriteID)
	span.SetAttributes(attribute.Bool("favorite.removed", removed))
	return removed, err
}

// Ping with tracing
func (r *TracingRepository) Ping(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Ping")
	defer func() { endSpan(span, err) }()

	return ping(ctx, r.next)
}
