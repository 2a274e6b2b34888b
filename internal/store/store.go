// Package store provides the product persistence layer and its implementations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Details holds the optional descriptive fields of a product. A nil field is unset.
type Details struct {
	Category      *string
	Description   *string
	Rating        *float64
	ReviewCount   *int32
	OriginalPrice *float64
	InStock       *bool
	Inventory     *int32
}

// Merge returns d with every field that is set in patch replaced.
func (d Details) Merge(patch Details) Details {
	if patch.Category != nil {
		d.Category = patch.Category
	}
	if patch.Description != nil {
		d.Description = patch.Description
	}
	if patch.Rating != nil {
		d.Rating = patch.Rating
	}
	if patch.ReviewCount != nil {
		d.ReviewCount = patch.ReviewCount
	}
	if patch.OriginalPrice != nil {
		d.OriginalPrice = patch.OriginalPrice
	}
	if patch.InStock != nil {
		d.InStock = patch.InStock
	}
	if patch.Inventory != nil {
		d.Inventory = patch.Inventory
	}
	return d
}

// Product is a stored catalog item. ID and both timestamps are assigned by the store.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     float64
	Image     string
	Details   Details
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct is a validated creation input.
type NewProduct struct {
	Name    string
	Price   float64
	Image   string
	Details Details
}

// ProductPatch is a merge update; nil fields are left untouched.
type ProductPatch struct {
	Name    *string
	Price   *float64
	Image   *string
	Details Details
}

// apply merges the patch into p and returns the result.
func (pp ProductPatch) apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	p.Details = p.Details.Merge(pp.Details)
	return p
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (postgres, sqlite, in-memory).
type ProductStore interface {
	// FindAll returns every product ordered by creation time.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Create stores a new product and returns it with its assigned ID and timestamps.
	Create(ctx context.Context, product NewProduct) (*Product, error)

	// Update merges patch into the product and bumps UpdatedAt.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*Product, error)

	// DeleteByID removes a product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
