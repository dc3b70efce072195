package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now().UTC()
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &t
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	var out []*User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, u *User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return ErrNotFound
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

// plainHasher keeps passwords readable in test assertions.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return ErrInvalidCredentials
	}
	return nil
}

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, plainHasher{}), repo
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "  Alice.Waters@Example.COM ",
		Password:  "seaworthy1",
		FirstName: "Alice",
		LastName:  "Waters",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice.waters@example.com", u.Email)
	assert.Equal(t, "hashed:seaworthy1", u.PasswordHash)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsSystemAdmin)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	req := RegisterRequest{
		Email:     "guest@example.com",
		Password:  "seaworthy1",
		FirstName: "Gus",
		LastName:  "Tavo",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	// Same address with different casing is still a duplicate.
	req.Email = "Guest@Example.com"
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Password: "seaworthy1", FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "short", FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: string(long), FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "seaworthy1"})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{
		Email:     "guest@example.com",
		Password:  "seaworthy1",
		FirstName: "Gus",
		LastName:  "Tavo",
	})
	require.NoError(t, err)

	got, err := svc.Login(ctx, "Guest@example.com", "seaworthy1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotNil(t, repo.byID[u.ID].LastLoginAt)

	_, err = svc.Login(ctx, "guest@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "seaworthy1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.byID[u.ID].IsActive = false
	_, err = svc.Login(ctx, "guest@example.com", "seaworthy1")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{
		Email:     "guest@example.com",
		Password:  "seaworthy1",
		FirstName: "Gus",
		LastName:  "Tavo",
	})
	require.NoError(t, err)

	name := "Gustavo"
	active := false
	got, err := svc.Update(ctx, u.ID, UpdateRequest{FirstName: &name, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "Gustavo", got.FirstName)
	assert.False(t, got.IsActive)

	empty := "  "
	_, err = svc.Update(ctx, u.ID, UpdateRequest{LastName: &empty})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Update(ctx, "missing", UpdateRequest{FirstName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
