// Package grpc exposes the product service over gRPC.
package grpc

import (
	"context"
	"errors"
	"log/slog"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	catalogv1 "github.com/abgdnv/catalog/pkg/api/catalog/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	catalogv1.UnimplementedCatalogServiceServer
	service service.ProductService
	logger  *slog.Logger
}

func NewServer(service service.ProductService, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) ListProducts(ctx context.Context, _ *catalogv1.ListProductsRequest) (*catalogv1.ListProductsResponse, error) {
	list, err := s.service.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	products := make([]*catalogv1.Product, len(list))
	for i := range list {
		products[i] = toProto(&list[i])
	}
	return &catalogv1.ListProductsResponse{Products: products}, nil
}

func (s *Server) GetProduct(ctx context.Context, req *catalogv1.GetProductRequest) (*catalogv1.GetProductResponse, error) {
	found, err := s.service.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &catalogv1.GetProductResponse{Product: toProto(found)}, nil
}

func (s *Server) CreateProduct(ctx context.Context, req *catalogv1.CreateProductRequest) (*catalogv1.CreateProductResponse, error) {
	in := req.Product
	created, err := s.service.Create(ctx, service.ProductCreateDto{
		Name:              in.Name,
		Price:             in.Price,
		Image:             in.Image,
		ProductDetailsDto: fromProtoDetails(in.ProductDetails),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.InfoContext(ctx, "Product created", "ID", created.ID)
	return &catalogv1.CreateProductResponse{Product: toProto(created)}, nil
}

func (s *Server) UpdateProduct(ctx context.Context, req *catalogv1.UpdateProductRequest) (*catalogv1.UpdateProductResponse, error) {
	p := req.Patch
	updated, err := s.service.Update(ctx, req.ID, service.ProductUpdateDto{
		Name:              p.Name,
		Price:             p.Price,
		Image:             p.Image,
		ProductDetailsDto: fromProtoDetails(p.ProductDetails),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.InfoContext(ctx, "Product updated", "ID", updated.ID)
	return &catalogv1.UpdateProductResponse{Product: toProto(updated)}, nil
}

func (s *Server) DeleteProduct(ctx context.Context, req *catalogv1.DeleteProductRequest) (*catalogv1.DeleteProductResponse, error) {
	if err := s.service.Delete(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.InfoContext(ctx, "Product deleted", "ID", req.ID)
	return &catalogv1.DeleteProductResponse{Message: "Product deleted successfully"}, nil
}

// toStatus maps the service error taxonomy onto gRPC codes.
func (s *Server) toStatus(ctx context.Context, err error) error {
	var vErr *perrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		return status.Error(codes.InvalidArgument, "Please fill all fields")
	case errors.Is(err, perrors.ErrInvalidIdentifier):
		return status.Error(codes.InvalidArgument, "Invalid product ID")
	case errors.Is(err, perrors.ErrProductNotFound):
		return status.Error(codes.NotFound, "Product not found")
	default:
		s.logger.ErrorContext(ctx, "Product service call failed", "error", err)
		return status.Error(codes.Internal, "Server error")
	}
}

func toProto(p *service.ProductDto) *catalogv1.Product {
	d := p.ProductDetailsDto
	return &catalogv1.Product{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		ProductDetails: catalogv1.ProductDetails{
			Category:      d.Category,
			Description:   d.Description,
			Rating:        d.Rating,
			ReviewCount:   d.ReviewCount,
			OriginalPrice: d.OriginalPrice,
			InStock:       d.InStock,
			Inventory:     d.Inventory,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func fromProtoDetails(d catalogv1.ProductDetails) service.ProductDetailsDto {
	return service.ProductDetailsDto{
		Category:      d.Category,
		Description:   d.Description,
		Rating:        d.Rating,
		ReviewCount:   d.ReviewCount,
		OriginalPrice: d.OriginalPrice,
		InStock:       d.InStock,
		Inventory:     d.Inventory,
	}
}
