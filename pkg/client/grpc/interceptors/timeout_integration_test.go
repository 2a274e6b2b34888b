package interceptors

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	catalogv1 "github.com/abgdnv/catalog/pkg/api/catalog/v1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// slowCatalogService answers GetProduct after a fixed delay.
type slowCatalogService struct {
	catalogv1.UnimplementedCatalogServiceServer
	delay time.Duration
}

func (s *slowCatalogService) GetProduct(ctx context.Context, req *catalogv1.GetProductRequest) (*catalogv1.GetProductResponse, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &catalogv1.GetProductResponse{Product: &catalogv1.Product{ID: req.ID}}, nil
}

// skipIntegrationTests is an environment variable that can be set to skip integration tests
const skipIntegrationTests = "CATALOG_SKIP_INTEGRATION_TESTS"

func Test_GRPCClient_TimeoutInterceptor(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	// given
	const serviceDelay = 200 * time.Millisecond
	const clientTimeout = 100 * time.Millisecond

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer()
	catalogv1.RegisterCatalogServiceServer(grpcServer, &slowCatalogService{delay: serviceDelay})

	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(func() { grpcServer.Stop() })

	conn, err := grpc.NewClient(
		lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryClientTimeoutInterceptor(clientTimeout)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := catalogv1.NewCatalogServiceClient(conn)

	// when
	_, err = client.GetProduct(context.Background(), &catalogv1.GetProductRequest{ID: "any"})

	// then
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "Error should be a gRPC status error")
	require.Equal(t, codes.DeadlineExceeded, st.Code())
}
