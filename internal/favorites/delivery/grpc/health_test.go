package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/internal/favorites/repository"
	"github.com/tair/acme-store/pkg/auth"
)

// downRepository fails every ping.
type downRepository struct {
	domain.Repository
}

func (downRepository) Ping(ctx context.Context) error {
	return domain.Unavailable("Ping", errors.New("connection refused"))
}

func newHealthClient(t *testing.T, repo domain.Repository) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv := NewServer(repo, "acme-store")
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func memoryRepository() domain.Repository {
	return repository.NewMemoryRepository(auth.NewBcryptHasher(bcrypt.MinCost))
}

func TestHealthCheckServing(t *testing.T) {
	client := newHealthClient(t, memoryRepository())

	for _, service := range []string{"", "acme-store"} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}

func TestHealthCheckNotServingWhenStoreIsDown(t *testing.T) {
	client := newHealthClient(t, downRepository{Repository: memoryRepository()})

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealthCheckUnknownService(t *testing.T) {
	client := newHealthClient(t, memoryRepository())

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "billing"})
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
