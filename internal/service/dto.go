package service

import (
	"time"

	"github.com/abgdnv/catalog/internal/store"
)

// ProductDetailsDto carries the optional descriptive fields. Unset fields are omitted from JSON.
type ProductDetailsDto struct {
	Category      *string  `json:"category,omitempty"      validate:"omitnil,max=50"`
	Description   *string  `json:"description,omitempty"   validate:"omitnil,max=2000"`
	Rating        *float64 `json:"rating,omitempty"        validate:"omitnil,gte=0,lte=5"`
	ReviewCount   *int32   `json:"reviewCount,omitempty"   validate:"omitnil,gte=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" validate:"omitnil,gte=0"`
	InStock       *bool    `json:"inStock,omitempty"`
	Inventory     *int32   `json:"inventory,omitempty"     validate:"omitnil,gte=0"`
}

// ProductDto represents a stored product as returned to callers.
type ProductDto struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	ProductDetailsDto
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Price is a pointer so a missing price fails "required" while zero is accepted.
type ProductCreateDto struct {
	Name  string   `json:"name"  validate:"required,notblank,max=100"`
	Price *float64 `json:"price" validate:"required,gte=0"`
	Image string   `json:"image" validate:"required,url"`
	ProductDetailsDto
}

// ProductUpdateDto is a merge update; nil fields are left untouched.
type ProductUpdateDto struct {
	Name  *string  `json:"name,omitempty"  validate:"omitnil,notblank,max=100"`
	Price *float64 `json:"price,omitempty" validate:"omitnil,gte=0"`
	Image *string  `json:"image,omitempty" validate:"omitnil,url"`
	ProductDetailsDto
}

func (d ProductDetailsDto) toDetails() store.Details {
	return store.Details{
		Category:      d.Category,
		Description:   d.Description,
		Rating:        d.Rating,
		ReviewCount:   d.ReviewCount,
		OriginalPrice: d.OriginalPrice,
		InStock:       d.InStock,
		Inventory:     d.Inventory,
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(p *store.Product) *ProductDto {
	return &ProductDto{
		ID:    p.ID.String(),
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		ProductDetailsDto: ProductDetailsDto{
			Category:      p.Details.Category,
			Description:   p.Details.Description,
			Rating:        p.Details.Rating,
			ReviewCount:   p.Details.ReviewCount,
			OriginalPrice: p.Details.OriginalPrice,
			InStock:       p.Details.InStock,
			Inventory:     p.Details.Inventory,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
