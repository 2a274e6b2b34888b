package store

import (
	"context"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func ptr[T any](v T) *T { return &v }

// productStoreSuite holds the behaviour every ProductStore implementation must share.
// Implementations embed it and provide newStore, which must return an empty store.
type productStoreSuite struct {
	suite.Suite
	ctx      context.Context
	newStore func() ProductStore
	store    ProductStore
}

func (s *productStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *productStoreSuite) create(name string, price float64) *Product {
	s.T().Helper()
	p, err := s.store.Create(s.ctx, NewProduct{Name: name, Price: price, Image: "https://img.example.com/" + name + ".png"})
	s.Require().NoError(err, "create helper failed")
	return p
}

func (s *productStoreSuite) TestCreateAndFindByID() {
	// given
	toCreate := NewProduct{
		Name:  "Desk Lamp",
		Price: 39.99,
		Image: "https://img.example.com/lamp.png",
		Details: Details{
			Category:    ptr("home"),
			Rating:      ptr(4.5),
			ReviewCount: ptr(int32(12)),
			InStock:     ptr(false),
		},
	}

	// when
	created, err := s.store.Create(s.ctx, toCreate)

	// then
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)
	s.Equal(toCreate.Name, created.Name)
	s.Equal(toCreate.Price, created.Price)
	s.Equal(toCreate.Image, created.Image)
	s.Equal(toCreate.Details, created.Details)
	s.False(created.CreatedAt.IsZero())
	s.WithinDuration(created.CreatedAt, created.UpdatedAt, time.Millisecond)

	fetched, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, fetched.ID)
	s.Equal(created.Name, fetched.Name)
	s.Equal(created.Details, fetched.Details)
	s.Nil(fetched.Details.Description)
	s.WithinDuration(created.CreatedAt, fetched.CreatedAt, time.Millisecond)
}

func (s *productStoreSuite) TestCreate_ZeroPrice() {
	created := s.create("Sticker", 0)

	fetched, err := s.store.FindByID(s.ctx, created.ID)

	s.Require().NoError(err)
	s.Zero(fetched.Price)
}

func (s *productStoreSuite) TestCreate_DistinctIDs() {
	seen := make(map[uuid.UUID]struct{})
	for range 20 {
		p := s.create("Same Name", 1)
		_, dup := seen[p.ID]
		s.False(dup, "ids must never repeat")
		seen[p.ID] = struct{}{}
	}
}

func (s *productStoreSuite) TestFindByID_NotFound() {
	_, err := s.store.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, perrors.ErrProductNotFound)
}

func (s *productStoreSuite) TestFindAll_Empty() {
	products, err := s.store.FindAll(s.ctx)

	s.Require().NoError(err)
	s.NotNil(products)
	s.Empty(products)
}

func (s *productStoreSuite) TestFindAll_OrderedByCreation() {
	a := s.create("Product A", 1)
	time.Sleep(2 * time.Millisecond)
	b := s.create("Product B", 2)

	products, err := s.store.FindAll(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.Equal(a.ID, products[0].ID)
	s.Equal(b.ID, products[1].ID)
}

func (s *productStoreSuite) TestUpdate_MergesPresentFields() {
	// given
	created, err := s.store.Create(s.ctx, NewProduct{
		Name:    "Chair",
		Price:   80,
		Image:   "https://img.example.com/chair.png",
		Details: Details{Category: ptr("home"), Inventory: ptr(int32(3))},
	})
	s.Require().NoError(err)
	time.Sleep(2 * time.Millisecond)

	// when
	updated, err := s.store.Update(s.ctx, created.ID, ProductPatch{
		Price:   ptr(75.5),
		Details: Details{Description: ptr("Oak chair"), Inventory: ptr(int32(0))},
	})

	// then
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal("Chair", updated.Name)
	s.Equal(75.5, updated.Price)
	s.Equal(created.Image, updated.Image)
	s.Equal(ptr("home"), updated.Details.Category)
	s.Equal(ptr("Oak chair"), updated.Details.Description)
	s.Equal(ptr(int32(0)), updated.Details.Inventory)
	s.WithinDuration(created.CreatedAt, updated.CreatedAt, time.Millisecond)
	s.True(updated.UpdatedAt.After(created.UpdatedAt), "UpdatedAt must move forward")

	fetched, err := s.store.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(75.5, fetched.Price)
	s.Equal(ptr("Oak chair"), fetched.Details.Description)
}

func (s *productStoreSuite) TestUpdate_EmptyPatchKeepsFields() {
	created := s.create("Mug", 9)

	updated, err := s.store.Update(s.ctx, created.ID, ProductPatch{})

	s.Require().NoError(err)
	s.Equal(created.Name, updated.Name)
	s.Equal(created.Price, updated.Price)
	s.Equal(created.Image, updated.Image)
}

func (s *productStoreSuite) TestUpdate_NotFound() {
	_, err := s.store.Update(s.ctx, uuid.New(), ProductPatch{Name: ptr("Ghost")})
	s.ErrorIs(err, perrors.ErrProductNotFound)
}

func (s *productStoreSuite) TestDeleteByID() {
	// given
	keep := s.create("Keep", 1)
	gone := s.create("Gone", 2)

	// when
	err := s.store.DeleteByID(s.ctx, gone.ID)

	// then
	s.Require().NoError(err)
	_, err = s.store.FindByID(s.ctx, gone.ID)
	s.ErrorIs(err, perrors.ErrProductNotFound)

	products, err := s.store.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal(keep.ID, products[0].ID)

	s.ErrorIs(s.store.DeleteByID(s.ctx, gone.ID), perrors.ErrProductNotFound, "second delete reports not found")
}

func (s *productStoreSuite) TestDeleteByID_NotFound() {
	s.ErrorIs(s.store.DeleteByID(s.ctx, uuid.New()), perrors.ErrProductNotFound)
}
