// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the catalog operations.
// Identifiers arrive as raw strings; a malformed one yields ErrInvalidIdentifier.
type ProductService interface {
	// List returns every product. Returns an empty slice if none exist.
	List(ctx context.Context) ([]ProductDto, error)

	// Get returns one product or ErrProductNotFound.
	Get(ctx context.Context, rawID string) (*ProductDto, error)

	// Create validates and stores a new product.
	// Returns a *ValidationError without touching the store when the input is invalid.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update merges the present fields into the product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, rawID string, product ProductUpdateDto) (*ProductDto, error)

	// Delete removes a product. Deleting an absent product returns ErrProductNotFound.
	Delete(ctx context.Context, rawID string) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	validator  *validator.Validate
	logger     *slog.Logger

	createdCounter metric.Int64Counter
	updatedCounter metric.Int64Counter
	deletedCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository and event publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	meter := otel.Meter("catalog-service")
	return &Service{
		repository:     repo,
		publisher:      publisher,
		validator:      NewValidator(),
		logger:         logger.With("component", "service"),
		createdCounter: mustCounter(meter, "catalog_products_created", "Total number of created products"),
		updatedCounter: mustCounter(meter, "catalog_products_updated", "Total number of updated products"),
		deletedCounter: mustCounter(meter, "catalog_products_deleted", "Total number of deleted products"),
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// parseID turns a raw identifier into a uuid or ErrInvalidIdentifier.
func parseID(rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", perrors.ErrInvalidIdentifier, rawID)
	}
	return id, nil
}

// storeError keeps ErrProductNotFound visible and classifies every other store failure as ErrStoreUnavailable.
func storeError(op string, err error) error {
	if errors.Is(err, perrors.ErrProductNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, perrors.ErrStoreUnavailable, err)
}

func (s *Service) List(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, storeError("failed to fetch products", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i := range products {
		productDTOs[i] = *toDto(&products[i])
	}
	return productDTOs, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*ProductDto, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to fetch product by ID %s", id), err)
	}
	return toDto(product), nil
}

func (s *Service) Create(ctx context.Context, dto ProductCreateDto) (*ProductDto, error) {
	if err := s.validate(dto); err != nil {
		return nil, err
	}
	created, err := s.repository.Create(ctx, store.NewProduct{
		Name:    dto.Name,
		Price:   *dto.Price,
		Image:   dto.Image,
		Details: dto.toDetails(),
	})
	if err != nil {
		return nil, storeError("failed to create product", err)
	}

	s.publish(ctx, events.ProductCreatedEvent{
		Carrier:   traceCarrier(ctx),
		ProductID: created.ID,
		Name:      created.Name,
		Price:     created.Price,
		CreatedAt: created.CreatedAt,
	})
	s.createdCounter.Add(ctx, 1)

	return toDto(created), nil
}

func (s *Service) Update(ctx context.Context, rawID string, dto ProductUpdateDto) (*ProductDto, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(dto); err != nil {
		return nil, err
	}
	updated, err := s.repository.Update(ctx, id, store.ProductPatch{
		Name:    dto.Name,
		Price:   dto.Price,
		Image:   dto.Image,
		Details: dto.toDetails(),
	})
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to update product with ID %s", id), err)
	}

	s.publish(ctx, events.ProductUpdatedEvent{
		Carrier:   traceCarrier(ctx),
		ProductID: updated.ID,
		Name:      updated.Name,
		Price:     updated.Price,
		UpdatedAt: updated.UpdatedAt,
	})
	s.updatedCounter.Add(ctx, 1)

	return toDto(updated), nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return storeError(fmt.Sprintf("failed to delete product with ID %s", id), err)
	}

	s.publish(ctx, events.ProductDeletedEvent{
		Carrier:   traceCarrier(ctx),
		ProductID: id,
		DeletedAt: time.Now().UTC(),
	})
	s.deletedCounter.Add(ctx, 1)

	return nil
}

// publish sends the event; a failure is logged and never fails the mutation that produced it.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

func traceCarrier(ctx context.Context) propagation.MapCarrier {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		return nil
	}
	return carrier
}
