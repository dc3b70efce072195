package announcement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notices map[string]*Announcement
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{notices: make(map[string]*Announcement)}
}

func (f *fakeRepo) Create(ctx context.Context, a *Announcement) error {
	f.nextID++
	a.ID = fmt.Sprintf("notice-%d", f.nextID)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.notices[a.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Announcement, error) {
	a, ok := f.notices[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	var out []*Announcement
	for _, a := range f.notices {
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, a *Announcement) error {
	if _, ok := f.notices[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	f.notices[a.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.notices[id]; !ok {
		return ErrNotFound
	}
	delete(f.notices, id)
	return nil
}

func TestCreateNotice(t *testing.T) {
	svc := NewService(newFakeRepo())

	a, err := svc.Create(context.Background(), CreateRequest{
		Title:   "Muster drill",
		Content: "All guests report to deck 5 at 16:00.",
	})
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, a.Priority)
	assert.NotEmpty(t, a.ID)
}

func TestCreateNoticeValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Content: "body"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(ctx, CreateRequest{Title: "title"})
	assert.ErrorIs(t, err, ErrContentRequired)

	_, err = svc.Create(ctx, CreateRequest{Title: "title", Content: "body", Priority: "shouty"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestUpdateNotice(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateRequest{Title: "Port change", Content: "Now calling at Nassau."})
	require.NoError(t, err)

	urgent := PriorityUrgent
	got, err := svc.Update(ctx, a.ID, UpdateRequest{Priority: &urgent})
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, got.Priority)

	empty := " "
	_, err = svc.Update(ctx, a.ID, UpdateRequest{Title: &empty})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Update(ctx, "missing", UpdateRequest{Priority: &urgent})
	assert.ErrorIs(t, err, ErrNotFound)
}
