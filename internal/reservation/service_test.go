package reservation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlane/cruise-reservation-backend/internal/cabin"
	"github.com/harborlane/cruise-reservation-backend/internal/inventory"
	"github.com/harborlane/cruise-reservation-backend/internal/staff"
)

// fakeTx satisfies pgx.Tx for the service under test. Only Commit and
// Rollback are ever called; both release whatever row locks the transaction
// acquired.
type fakeTx struct {
	pgx.Tx
	once    sync.Once
	release []func()
}

func (t *fakeTx) addRelease(fn func()) {
	t.release = append(t.release, fn)
}

func (t *fakeTx) done() {
	t.once.Do(func() {
		for i := len(t.release) - 1; i >= 0; i-- {
			t.release[i]()
		}
	})
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.done()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.done()
	return nil
}

type fakeDB struct{}

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

// fakeStore is an in-memory stand-in for the reservation repository and the
// three subject stores. GetByIDForUpdate takes a per-row mutex that is held
// until the transaction commits or rolls back, mirroring the blocking
// behavior of SELECT ... FOR UPDATE.
type fakeStore struct {
	mu     sync.Mutex
	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	cabins       map[string]*cabin.Cabin
	items        map[string]*inventory.Item
	staff        map[string]*staff.Member
	reservations map[string]*Reservation
	nextID       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		locks:        make(map[string]*sync.Mutex),
		cabins:       make(map[string]*cabin.Cabin),
		items:        make(map[string]*inventory.Item),
		staff:        make(map[string]*staff.Member),
		reservations: make(map[string]*Reservation),
	}
}

func (f *fakeStore) rowLock(id string) *sync.Mutex {
	f.lockMu.Lock()
	defer f.lockMu.Unlock()
	m, ok := f.locks[id]
	if !ok {
		m = &sync.Mutex{}
		f.locks[id] = m
	}
	return m
}

func (f *fakeStore) lockRow(tx pgx.Tx, id string) {
	m := f.rowLock(id)
	m.Lock()
	tx.(*fakeTx).addRelease(m.Unlock)
}

func (f *fakeStore) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Reservation, error) {
	f.lockRow(tx, "reservation:"+id)
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) Create(ctx context.Context, tx pgx.Tx, r *Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = fmt.Sprintf("res-%d", f.nextID)
	r.CreatedAt = time.Now().UTC()
	cp := *r
	f.reservations[r.ID] = &cp
	return nil
}

func (f *fakeStore) HasOverlap(ctx context.Context, tx pgx.Tx, subjectColumn, subjectID string, start, end time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.Status == StatusCancelled {
			continue
		}
		var ref *string
		switch subjectColumn {
		case SubjectCabin:
			ref = r.CabinID
		case SubjectStaff:
			ref = r.StaffID
		}
		if ref == nil || *ref != subjectID {
			continue
		}
		if start.Before(r.EndTime) && end.After(r.StartTime) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) SumOverlappingQuantity(ctx context.Context, tx pgx.Tx, itemID string, start, end time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0
	for _, r := range f.reservations {
		if r.Status == StatusCancelled || r.ItemID == nil || *r.ItemID != itemID {
			continue
		}
		if start.Before(r.EndTime) && end.After(r.StartTime) {
			sum += r.Quantity
		}
	}
	return sum, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, tx pgx.Tx, id string, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Reservation
	for _, r := range f.reservations {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	return nil
}

// Subject-store views of the fake.

type fakeCabins struct{ *fakeStore }

func (f fakeCabins) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*cabin.Cabin, error) {
	f.lockRow(tx, "cabin:"+id)
	f.mu.Lock()
	defer f.mu.Unlock()
	cb, ok := f.cabins[id]
	if !ok {
		return nil, cabin.ErrNotFound
	}
	cp := *cb
	return &cp, nil
}

type fakeStaff struct{ *fakeStore }

func (f fakeStaff) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*staff.Member, error) {
	f.lockRow(tx, "staff:"+id)
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.staff[id]
	if !ok {
		return nil, staff.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

type fakeItems struct{ *fakeStore }

func (f fakeItems) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*inventory.Item, error) {
	f.lockRow(tx, "item:"+id)
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (f fakeItems) AdjustReserved(ctx context.Context, tx pgx.Tx, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return inventory.ErrNotFound
	}
	next := it.Reserved + delta
	if next < 0 || next > it.Quantity {
		return inventory.ErrReservedBounds
	}
	it.Reserved = next
	return nil
}

func newTestService(store *fakeStore) Service {
	return NewService(fakeDB{}, store, fakeCabins{store}, fakeItems{store}, fakeStaff{store})
}

func strPtr(s string) *string { return &s }

func window(startHour, endHour int) (time.Time, time.Time) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}

func seedStore() *fakeStore {
	store := newFakeStore()
	store.cabins["cabin-1"] = &cabin.Cabin{ID: "cabin-1", CabinNumber: "B-204", Deck: 7, Type: "balcony", Capacity: 2, Status: "available"}
	store.items["gear-1"] = &inventory.Item{ID: "gear-1", Name: "Snorkel Gear", Category: "excursion", Quantity: 3, Status: "available"}
	store.staff["staff-1"] = &staff.Member{ID: "staff-1", Name: "Mara Ellis", Role: "masseuse", Shift: "day"}
	return store
}

func TestCreateCabinReservation(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(10, 12)

	r, err := svc.Create(context.Background(), CreateRequest{
		UserID:    "user-1",
		CabinID:   strPtr("cabin-1"),
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, 1, r.Quantity)
	assert.NotEmpty(t, r.ID)
}

func TestCreateRejectsInvalidWindow(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(12, 10)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("cabin-1"), StartTime: start, EndTime: end,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	// Zero-length windows are rejected too.
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("cabin-1"), StartTime: start, EndTime: start,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateRequiresExactlyOneSubject(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(10, 12)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", StartTime: start, EndTime: end,
	})
	assert.ErrorIs(t, err, ErrInvalidSubject)

	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("cabin-1"), StaffID: strPtr("staff-1"),
		StartTime: start, EndTime: end,
	})
	assert.ErrorIs(t, err, ErrInvalidSubject)
}

func TestCreateUnknownSubjects(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(10, 12)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("ghost"), StartTime: start, EndTime: end,
	})
	assert.ErrorIs(t, err, ErrCabinNotFound)

	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", ItemID: strPtr("ghost"), StartTime: start, EndTime: end,
	})
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", StaffID: strPtr("ghost"), StartTime: start, EndTime: end,
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestCreateCabinConflict(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(10, 12)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("cabin-1"), StartTime: start, EndTime: end,
	})
	require.NoError(t, err)

	// Any intersection with the held window is refused.
	s2, e2 := window(11, 13)
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-2", CabinID: strPtr("cabin-1"), StartTime: s2, EndTime: e2,
	})
	assert.ErrorIs(t, err, ErrTimeConflict)

	// Back-to-back windows share an endpoint and do not conflict.
	s3, e3 := window(12, 14)
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-2", CabinID: strPtr("cabin-1"), StartTime: s3, EndTime: e3,
	})
	assert.NoError(t, err)
}

func TestCreateStaffConflict(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(14, 15)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", StaffID: strPtr("staff-1"), StartTime: start, EndTime: end,
	})
	require.NoError(t, err)

	s2, e2 := window(14, 16)
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-2", StaffID: strPtr("staff-1"), StartTime: s2, EndTime: e2,
	})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestCreateRejectsQuantityOnSingletonSubjects(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(10, 12)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("cabin-1"), StartTime: start, EndTime: end, Quantity: 2,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", StaffID: strPtr("staff-1"), StartTime: start, EndTime: end, Quantity: 3,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestItemQuantityArbitration(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)
	start, end := window(9, 11)

	// Two of three sets held for the morning window.
	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", ItemID: strPtr("gear-1"), StartTime: start, EndTime: end, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.items["gear-1"].Reserved)

	// Two more would exceed the three-set capacity.
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-2", ItemID: strPtr("gear-1"), StartTime: start, EndTime: end, Quantity: 2,
	})
	assert.ErrorIs(t, err, ErrInsufficientQuantity)

	// The last remaining set is still bookable.
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-2", ItemID: strPtr("gear-1"), StartTime: start, EndTime: end, Quantity: 1,
	})
	assert.NoError(t, err)

	// A disjoint afternoon window competes with nothing.
	s2, e2 := window(13, 15)
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-3", ItemID: strPtr("gear-1"), StartTime: s2, EndTime: e2, Quantity: 3,
	})
	assert.NoError(t, err)
}

func TestCancelRestoresQuantity(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)
	start, end := window(9, 11)

	r, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", ItemID: strPtr("gear-1"), StartTime: start, EndTime: end, Quantity: 2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), r.ID, "user-1", false))
	assert.Equal(t, 0, store.items["gear-1"].Reserved)

	got, err := svc.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	// The released units are bookable again in the same window.
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-2", ItemID: strPtr("gear-1"), StartTime: start, EndTime: end, Quantity: 3,
	})
	assert.NoError(t, err)
}

func TestCancelIsIdempotent(t *testing.T) {
	store := seedStore()
	svc := newTestService(store)
	start, end := window(9, 11)

	r, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", ItemID: strPtr("gear-1"), StartTime: start, EndTime: end, Quantity: 2,
	})
	require.NoError(t, err)

	// Take the third unit so a double restore would be observable as a
	// negative reserved count or an over-release.
	_, err = svc.Create(context.Background(), CreateRequest{
		UserID: "user-2", ItemID: strPtr("gear-1"), StartTime: start, EndTime: end, Quantity: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), r.ID, "user-1", false))
	assert.Equal(t, 1, store.items["gear-1"].Reserved)

	require.NoError(t, svc.Cancel(context.Background(), r.ID, "user-1", false))
	assert.Equal(t, 1, store.items["gear-1"].Reserved)
}

func TestCancelPermissions(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(10, 12)

	r, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("cabin-1"), StartTime: start, EndTime: end,
	})
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), r.ID, "user-2", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admins may cancel on a guest's behalf.
	assert.NoError(t, svc.Cancel(context.Background(), r.ID, "user-2", true))
}

func TestCancelMissingReservation(t *testing.T) {
	svc := newTestService(seedStore())
	err := svc.Cancel(context.Background(), "nope", "user-1", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService(seedStore())
	start, end := window(10, 12)

	r, err := svc.Create(context.Background(), CreateRequest{
		UserID: "user-1", CabinID: strPtr("cabin-1"), StartTime: start, EndTime: end,
	})
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), r.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	_, err = svc.UpdateStatus(context.Background(), r.ID, Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, svc.Cancel(context.Background(), r.ID, "user-1", false))
	_, err = svc.UpdateStatus(context.Background(), r.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrCancelledTerminal)
}

func TestConcurrentSingleWinner(t *testing.T) {
	store := seedStore()
	store.items["gear-2"] = &inventory.Item{ID: "gear-2", Name: "Tandem Kayak", Category: "excursion", Quantity: 1, Status: "available"}
	svc := newTestService(store)
	start, end := window(8, 10)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), CreateRequest{
				UserID:    fmt.Sprintf("user-%d", i),
				ItemID:    strPtr("gear-2"),
				StartTime: start,
				EndTime:   end,
				Quantity:  1,
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientQuantity)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, store.items["gear-2"].Reserved)
}
