package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
)

// InMemoryStore implements ProductStore using an in-memory map.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
	now      func() time.Time
}

// NewInMemoryStore creates an empty in-memory product store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[uuid.UUID]Product),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *InMemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID.String() < list[j].ID.String()
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) Create(_ context.Context, np NewProduct) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	for _, taken := s.products[id]; taken; _, taken = s.products[id] {
		id = uuid.New()
	}
	now := s.now()
	p := Product{
		ID:        id,
		Name:      np.Name,
		Price:     np.Price,
		Image:     np.Image,
		Details:   np.Details,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.products[id] = p
	return &p, nil
}

func (s *InMemoryStore) Update(_ context.Context, id uuid.UUID, patch ProductPatch) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[id]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	updated := patch.apply(current)
	updated.UpdatedAt = s.now()
	s.products[id] = updated
	return &updated, nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return errors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
