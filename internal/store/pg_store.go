package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, price, image, category, description, rating, review_count,
	original_price, in_stock, inventory, created_at, updated_at`

const (
	findAllQuery = `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`

	findByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	createQuery = `INSERT INTO products (name, price, image, category, description, rating, review_count,
	original_price, in_stock, inventory)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + productColumns

	updateQuery = `UPDATE products SET
	name           = COALESCE($2::varchar, name),
	price          = COALESCE($3::double precision, price),
	image          = COALESCE($4::text, image),
	category       = COALESCE($5::text, category),
	description    = COALESCE($6::text, description),
	rating         = COALESCE($7::double precision, rating),
	review_count   = COALESCE($8::integer, review_count),
	original_price = COALESCE($9::double precision, original_price),
	in_stock       = COALESCE($10::boolean, in_stock),
	inventory      = COALESCE($11::integer, inventory),
	updated_at     = now()
WHERE id = $1
RETURNING ` + productColumns

	deleteQuery = `DELETE FROM products WHERE id = $1`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Image,
		&p.Details.Category, &p.Details.Description, &p.Details.Rating, &p.Details.ReviewCount,
		&p.Details.OriginalPrice, &p.Details.InStock, &p.Details.Inventory,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// FindAll retrieves all products ordered by creation time.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		product, err := scanProduct(row)
		if err != nil {
			return Product{}, err
		}
		return *product, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := scanProduct(p.db.QueryRow(ctx, findByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// Create inserts a product; the database assigns its id and timestamps.
func (p *PgStore) Create(ctx context.Context, np NewProduct) (*Product, error) {
	d := np.Details
	product, err := scanProduct(p.db.QueryRow(ctx, createQuery,
		np.Name, np.Price, np.Image,
		d.Category, d.Description, d.Rating, d.ReviewCount, d.OriginalPrice, d.InStock, d.Inventory,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update merges the patch in a single statement.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*Product, error) {
	d := patch.Details
	product, err := scanProduct(p.db.QueryRow(ctx, updateQuery, id,
		patch.Name, patch.Price, patch.Image,
		d.Category, d.Description, d.Rating, d.ReviewCount, d.OriginalPrice, d.InStock, d.Inventory,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no row was removed.
func (p *PgStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}
