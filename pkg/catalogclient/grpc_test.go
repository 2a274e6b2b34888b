package catalogclient

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	catalogv1 "github.com/abgdnv/catalog/pkg/api/catalog/v1"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubCatalogServer struct {
	catalogv1.UnimplementedCatalogServiceServer
}

func (stubCatalogServer) ListProducts(context.Context, *catalogv1.ListProductsRequest) (*catalogv1.ListProductsResponse, error) {
	return &catalogv1.ListProductsResponse{Products: []*catalogv1.Product{{ID: "1", Name: "Lamp"}}}, nil
}

func (stubCatalogServer) CreateProduct(_ context.Context, req *catalogv1.CreateProductRequest) (*catalogv1.CreateProductResponse, error) {
	return &catalogv1.CreateProductResponse{Product: &catalogv1.Product{ID: "2", Name: req.Product.Name}}, nil
}

func (stubCatalogServer) UpdateProduct(_ context.Context, req *catalogv1.UpdateProductRequest) (*catalogv1.UpdateProductResponse, error) {
	return nil, status.Error(codes.NotFound, "Product not found")
}

func (stubCatalogServer) DeleteProduct(_ context.Context, req *catalogv1.DeleteProductRequest) (*catalogv1.DeleteProductResponse, error) {
	return nil, status.Error(codes.InvalidArgument, "Invalid product ID")
}

func newBufconnClient(t *testing.T) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	catalogv1.RegisterCatalogServiceServer(s, stubCatalogServer{})
	go func() { _ = s.Serve(lis) }()

	client, err := NewGRPCClient(
		config.GrpcClientConfig{Addr: "passthrough://bufnet", Timeout: 2 * time.Second},
		config.CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 50, OpenTimeout: time.Second},
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
		s.Stop()
	})
	return client
}

func TestGRPCClient(t *testing.T) {
	client := newBufconnClient(t)
	ctx := context.Background()

	products, err := client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Product{{ID: "1", Name: "Lamp"}}, products)

	created, err := client.Create(ctx, validCandidate())
	require.NoError(t, err)
	assert.Equal(t, "2", created.ID)

	_, err = client.Update(ctx, "1", Patch{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", UserMessage(err))

	err = client.Delete(ctx, "x")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestGRPCClient_DrivesCache(t *testing.T) {
	cache := NewCache(newBufconnClient(t), discardLogger)

	require.NoError(t, cache.FetchAll(context.Background()))
	_, err := cache.Create(context.Background(), validCandidate())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, ids(cache.Products()))
}
