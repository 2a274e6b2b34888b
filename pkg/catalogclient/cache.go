package catalogclient

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Cache mirrors the server's product list. Mutations are applied locally only after the server confirms them.
type Cache struct {
	api      ProductAPI
	logger   *slog.Logger
	validate *validator.Validate

	mu       sync.RWMutex
	products []Product
	loading  int
	fetchSeq uint64
	applied  uint64
	closed   bool
}

func NewCache(api ProductAPI, logger *slog.Logger) *Cache {
	return &Cache{
		api:      api,
		logger:   logger.With("component", "catalogclient"),
		validate: newValidator(),
		products: []Product{},
	}
}

// Products returns a copy of the current list.
func (c *Cache) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Loading reports whether a FetchAll is in flight.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading > 0
}

// Close detaches the cache. Responses that arrive afterwards are dropped and their calls return ErrClosed.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// FetchAll replaces the local list with the server's. On failure the previous list is kept.
// A response is dropped when a later fetch or a confirmed mutation has already been applied.
func (c *Cache) FetchAll(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loading++
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	products, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to fetch products", "error", err)
		return err
	}
	if c.closed {
		return ErrClosed
	}
	if seq < c.applied {
		return nil
	}
	c.applied = seq
	c.products = dedupe(products)
	return nil
}

// Create pre-checks the candidate, then appends the server's record.
func (c *Cache) Create(ctx context.Context, candidate Candidate) (*Product, error) {
	if err := c.check(candidate); err != nil {
		return nil, err
	}
	if c.isClosed() {
		return nil, ErrClosed
	}

	created, err := c.api.Create(ctx, candidate)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to create product", "error", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	c.advance()
	c.upsert(*created)
	return created, nil
}

// Update applies patch on the server and replaces the local entry with the result.
func (c *Cache) Update(ctx context.Context, id string, patch Patch) (*Product, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}

	updated, err := c.api.Update(ctx, id, patch)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to update product", "ID", id, "error", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	c.advance()
	c.upsert(*updated)
	return updated, nil
}

// Delete removes the entry once the server has confirmed the deletion.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if c.isClosed() {
		return ErrClosed
	}

	if err := c.api.Delete(ctx, id); err != nil {
		c.logger.WarnContext(ctx, "Failed to delete product", "ID", id, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.advance()
	kept := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.products = kept
	return nil
}

func (c *Cache) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Cache) check(candidate Candidate) error {
	err := c.validate.Struct(candidate)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range vErrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return &ValidationError{Fields: fields}
}

// advance marks a confirmed mutation so that fetches issued before it are dropped. Callers hold mu.
func (c *Cache) advance() {
	c.fetchSeq++
	c.applied = c.fetchSeq
}

// upsert replaces the entry with the same id or appends. Callers hold mu.
func (c *Cache) upsert(p Product) {
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			return
		}
	}
	c.products = append(c.products, p)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func dedupe(products []Product) []Product {
	seen := make(map[string]int, len(products))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if i, ok := seen[p.ID]; ok {
			out[i] = p
			continue
		}
		seen[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
