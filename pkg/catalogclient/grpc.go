package catalogclient

import (
	"context"
	"fmt"

	catalogv1 "github.com/abgdnv/catalog/pkg/api/catalog/v1"
	"github.com/abgdnv/catalog/pkg/client/grpc/interceptors"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/web"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// GRPCClient calls the catalog gRPC service. Calls are bounded by a timeout and guarded by a circuit breaker.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client catalogv1.CatalogServiceClient
}

// NewGRPCClient connects lazily; extra dial options are appended after the defaults.
func NewGRPCClient(cfg config.GrpcClientConfig, breaker config.CircuitBreakerConfig, opts ...grpc.DialOption) (*GRPCClient, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
			interceptors.NewCircuitBreaker("catalog-service", breaker),
		),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)

	conn, err := grpc.NewClient(cfg.Addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client connection: %w", err)
	}
	return &GRPCClient{conn: conn, client: catalogv1.NewCatalogServiceClient(conn)}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) List(ctx context.Context) ([]Product, error) {
	res, err := c.client.ListProducts(ctx, &catalogv1.ListProductsRequest{})
	if err != nil {
		return nil, fromStatus(err)
	}
	products := make([]Product, 0, len(res.Products))
	for _, p := range res.Products {
		if p != nil {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (c *GRPCClient) Create(ctx context.Context, candidate Candidate) (*Product, error) {
	res, err := c.client.CreateProduct(ctx, &catalogv1.CreateProductRequest{Product: candidate})
	if err != nil {
		return nil, fromStatus(err)
	}
	return res.Product, nil
}

func (c *GRPCClient) Update(ctx context.Context, id string, patch Patch) (*Product, error) {
	res, err := c.client.UpdateProduct(ctx, &catalogv1.UpdateProductRequest{ID: id, Patch: patch})
	if err != nil {
		return nil, fromStatus(err)
	}
	return res.Product, nil
}

func (c *GRPCClient) Delete(ctx context.Context, id string) error {
	if _, err := c.client.DeleteProduct(ctx, &catalogv1.DeleteProductRequest{ID: id}); err != nil {
		return fromStatus(err)
	}
	return nil
}

// fromStatus turns a gRPC status into an *APIError. Errors without a status, such as an open breaker, pass through.
func fromStatus(err error) error {
	if _, ok := status.FromError(err); !ok {
		return err
	}
	code, msg := web.MapGrpcToHttpStatus(err)
	return &APIError{StatusCode: code, Message: msg}
}
