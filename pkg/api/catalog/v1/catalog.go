// Package catalogv1 holds the catalog wire messages shared by the gRPC service, its clients and the REST client.
// Messages travel as JSON: over gRPC through the "json" codec, over HTTP as request and response bodies.
package catalogv1

import "time"

// ProductDetails is the closed set of optional descriptive fields a product may carry.
type ProductDetails struct {
	Category      *string  `json:"category,omitempty"      validate:"omitnil,max=50"`
	Description   *string  `json:"description,omitempty"   validate:"omitnil,max=2000"`
	Rating        *float64 `json:"rating,omitempty"        validate:"omitnil,gte=0,lte=5"`
	ReviewCount   *int32   `json:"reviewCount,omitempty"   validate:"omitnil,gte=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" validate:"omitnil,gte=0"`
	InStock       *bool    `json:"inStock,omitempty"`
	Inventory     *int32   `json:"inventory,omitempty"     validate:"omitnil,gte=0"`
}

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	ProductDetails
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductInput is a creation candidate. Price is a pointer so that a missing price is told apart from zero.
type ProductInput struct {
	Name  string   `json:"name"  validate:"required,notblank,max=100"`
	Price *float64 `json:"price" validate:"required,gte=0"`
	Image string   `json:"image" validate:"required,url"`
	ProductDetails
}

// ProductPatch is a merge update: nil fields are left untouched.
type ProductPatch struct {
	Name  *string  `json:"name,omitempty"  validate:"omitnil,notblank,max=100"`
	Price *float64 `json:"price,omitempty" validate:"omitnil,gte=0"`
	Image *string  `json:"image,omitempty" validate:"omitnil,url"`
	ProductDetails
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

type CreateProductRequest struct {
	Product ProductInput `json:"product"`
}

type CreateProductResponse struct {
	Product *Product `json:"product"`
}

type UpdateProductRequest struct {
	ID    string       `json:"id"`
	Patch ProductPatch `json:"patch"`
}

type UpdateProductResponse struct {
	Product *Product `json:"product"`
}

type DeleteProductRequest struct {
	ID string `json:"id"`
}

type DeleteProductResponse struct {
	Message string `json:"message"`
}
