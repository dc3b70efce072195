package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items  map[string]*Item
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*Item)}
}

func (f *fakeRepo) Create(ctx context.Context, item *Item) error {
	for _, existing := range f.items {
		if existing.Name == item.Name {
			return ErrNameTaken
		}
	}
	f.nextID++
	item.ID = fmt.Sprintf("item-%d", f.nextID)
	item.CreatedAt = time.Now().UTC()
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Item, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRepo) AdjustReserved(ctx context.Context, tx pgx.Tx, id string, delta int) error {
	item, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	next := item.Reserved + delta
	if next < 0 || next > item.Quantity {
		return ErrReservedBounds
	}
	item.Reserved = next
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter Filter) ([]*Item, int, error) {
	var out []*Item
	for _, item := range f.items {
		cp := *item
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, item *Item) error {
	if _, ok := f.items[item.ID]; !ok {
		return ErrNotFound
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) SetPhoto(ctx context.Context, id, fileID string) error {
	item, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	item.PhotoID = &fileID
	return nil
}

func TestCreateItem(t *testing.T) {
	svc := NewService(newFakeRepo())

	item, err := svc.Create(context.Background(), CreateRequest{
		Name:     "Snorkel Gear",
		Category: "excursion",
		Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "available", item.Status)
	assert.Equal(t, 0, item.Reserved)
	assert.Equal(t, 3, item.Available())
}

func TestCreateItemValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "  ", Quantity: 1})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Create(ctx, CreateRequest{Name: "Kayak", Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(ctx, CreateRequest{Name: "Kayak", Category: "excursion", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "Kayak", Category: "excursion", Quantity: 5})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestUpdateRejectsCapacityBelowReserved(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateRequest{Name: "Snorkel Gear", Category: "excursion", Quantity: 3})
	require.NoError(t, err)

	// Two units held by live reservations.
	repo.items[item.ID].Reserved = 2

	one := 1
	_, err = svc.Update(ctx, item.ID, UpdateRequest{Quantity: &one})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	five := 5
	got, err := svc.Update(ctx, item.ID, UpdateRequest{Quantity: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 3, got.Available())
}
