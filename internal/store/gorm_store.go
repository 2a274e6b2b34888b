package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productRecord is the gorm model of the products table.
type productRecord struct {
	ID            uuid.UUID `gorm:"type:text;primaryKey"`
	Name          string    `gorm:"size:100;not null"`
	Price         float64   `gorm:"not null"`
	Image         string    `gorm:"not null"`
	Category      *string
	Description   *string
	Rating        *float64
	ReviewCount   *int32
	OriginalPrice *float64
	InStock       *bool
	Inventory     *int32
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (productRecord) TableName() string {
	return "products"
}

func (r productRecord) toProduct() Product {
	return Product{
		ID:    r.ID,
		Name:  r.Name,
		Price: r.Price,
		Image: r.Image,
		Details: Details{
			Category:      r.Category,
			Description:   r.Description,
			Rating:        r.Rating,
			ReviewCount:   r.ReviewCount,
			OriginalPrice: r.OriginalPrice,
			InStock:       r.InStock,
			Inventory:     r.Inventory,
		},
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// GormStore implements ProductStore on top of gorm, used with the sqlite and postgres drivers.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the products table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) FindAll(ctx context.Context) ([]Product, error) {
	var records []productRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products := make([]Product, len(records))
	for i, r := range records {
		products[i] = r.toProduct()
	}
	return products, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var r productRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	p := r.toProduct()
	return &p, nil
}

func (s *GormStore) Create(ctx context.Context, np NewProduct) (*Product, error) {
	now := time.Now().UTC()
	r := productRecord{
		ID:            uuid.New(),
		Name:          np.Name,
		Price:         np.Price,
		Image:         np.Image,
		Category:      np.Details.Category,
		Description:   np.Details.Description,
		Rating:        np.Details.Rating,
		ReviewCount:   np.Details.ReviewCount,
		OriginalPrice: np.Details.OriginalPrice,
		InStock:       np.Details.InStock,
		Inventory:     np.Details.Inventory,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	p := r.toProduct()
	return &p, nil
}

// patchColumns lists the columns set in patch plus updated_at.
func patchColumns(patch ProductPatch, now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.Price != nil {
		cols["price"] = *patch.Price
	}
	if patch.Image != nil {
		cols["image"] = *patch.Image
	}
	d := patch.Details
	if d.Category != nil {
		cols["category"] = *d.Category
	}
	if d.Description != nil {
		cols["description"] = *d.Description
	}
	if d.Rating != nil {
		cols["rating"] = *d.Rating
	}
	if d.ReviewCount != nil {
		cols["review_count"] = *d.ReviewCount
	}
	if d.OriginalPrice != nil {
		cols["original_price"] = *d.OriginalPrice
	}
	if d.InStock != nil {
		cols["in_stock"] = *d.InStock
	}
	if d.Inventory != nil {
		cols["inventory"] = *d.Inventory
	}
	return cols
}

func (s *GormStore) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*Product, error) {
	var r productRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&productRecord{}).Where("id = ?", id).Updates(patchColumns(patch, time.Now().UTC()))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return perrors.ErrProductNotFound
		}
		return tx.Where("id = ?", id).Take(&r).Error
	})
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	p := r.toProduct()
	return &p, nil
}

func (s *GormStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&productRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product by ID: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}
