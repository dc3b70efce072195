package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/harborlane/cruise-reservation-backend/internal/cabin"
	"github.com/harborlane/cruise-reservation-backend/internal/db"
	"github.com/harborlane/cruise-reservation-backend/internal/inventory"
	"github.com/harborlane/cruise-reservation-backend/internal/staff"
)

// CabinStore is the subset of the cabin repository the booking engine uses
// inside its transaction.
type CabinStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*cabin.Cabin, error)
}

// StaffStore is the subset of the staff repository the booking engine uses
// inside its transaction.
type StaffStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*staff.Member, error)
}

// ItemStore is the subset of the inventory repository the booking engine
// uses inside its transaction.
type ItemStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*inventory.Item, error)
	AdjustReserved(ctx context.Context, tx pgx.Tx, id string, delta int) error
}

// CreateRequest describes one booking attempt. Exactly one of CabinID,
// ItemID and StaffID must be set. Quantity defaults to 1 and may only be
// greater than 1 for inventory items.
type CreateRequest struct {
	UserID    string
	CabinID   *string
	ItemID    *string
	StaffID   *string
	StartTime time.Time
	EndTime   time.Time
	Quantity  int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	Cancel(ctx context.Context, id, callerUserID string, isSysAdmin bool) error
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
}

type service struct {
	db     db.Beginner
	repo   Repository
	cabins CabinStore
	items  ItemStore
	staff  StaffStore
}

func NewService(database db.Beginner, repo Repository, cabins CabinStore, items ItemStore, staffStore StaffStore) Service {
	return &service{
		db:     database,
		repo:   repo,
		cabins: cabins,
		items:  items,
		staff:  staffStore,
	}
}

// Create admits and commits a booking as one transaction.
//
// The subject row (cabin, inventory item or staff member) is read with a
// row-level lock before any conflict check, so two concurrent requests for
// the same subject are forced into sequence: the second blocks on the lock,
// then re-evaluates against the first one's committed state. Locking the
// already-existing reservation rows would not be enough, because it cannot
// stop a concurrent transaction from inserting a fresh overlapping row.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	if subjects := countSubjects(req); subjects != 1 {
		return nil, ErrInvalidSubject
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	// Cabins and staff are singleton-capacity subjects.
	if qty > 1 && req.ItemID == nil {
		return nil, ErrInvalidQuantity
	}

	res := &Reservation{
		UserID:    req.UserID,
		CabinID:   req.CabinID,
		ItemID:    req.ItemID,
		StaffID:   req.StaffID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    StatusPending,
		Quantity:  qty,
	}

	err := db.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		switch {
		case req.CabinID != nil:
			return s.admitCabin(ctx, tx, res)
		case req.StaffID != nil:
			return s.admitStaff(ctx, tx, res)
		default:
			return s.admitItem(ctx, tx, res)
		}
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (s *service) admitCabin(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	if _, err := s.cabins.GetByIDForUpdate(ctx, tx, *res.CabinID); err != nil {
		if errors.Is(err, cabin.ErrNotFound) {
			return ErrCabinNotFound
		}
		return err
	}

	conflict, err := s.repo.HasOverlap(ctx, tx, SubjectCabin, *res.CabinID, res.StartTime, res.EndTime)
	if err != nil {
		return err
	}
	if conflict {
		return ErrTimeConflict
	}

	return s.repo.Create(ctx, tx, res)
}

func (s *service) admitStaff(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	if _, err := s.staff.GetByIDForUpdate(ctx, tx, *res.StaffID); err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			return ErrStaffNotFound
		}
		return err
	}

	conflict, err := s.repo.HasOverlap(ctx, tx, SubjectStaff, *res.StaffID, res.StartTime, res.EndTime)
	if err != nil {
		return err
	}
	if conflict {
		return ErrTimeConflict
	}

	return s.repo.Create(ctx, tx, res)
}

func (s *service) admitItem(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	item, err := s.items.GetByIDForUpdate(ctx, tx, *res.ItemID)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	// Admission compares against the item's total capacity, counting only
	// reservations that intersect the requested window. Disjoint windows
	// never compete for the same units.
	held, err := s.repo.SumOverlappingQuantity(ctx, tx, *res.ItemID, res.StartTime, res.EndTime)
	if err != nil {
		return err
	}
	if held+res.Quantity > item.Quantity {
		return ErrInsufficientQuantity
	}

	if err := s.repo.Create(ctx, tx, res); err != nil {
		return err
	}

	return s.items.AdjustReserved(ctx, tx, *res.ItemID, res.Quantity)
}

// Cancel marks a reservation cancelled and, for inventory items, releases
// the held units in the same transaction. Cancelling an already-cancelled
// reservation is a no-op so a retried cancel never releases units twice.
func (s *service) Cancel(ctx context.Context, id, callerUserID string, isSysAdmin bool) error {
	return db.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		res, err := s.repo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !isSysAdmin && res.UserID != callerUserID {
			return ErrPermissionDenied
		}

		if res.Status == StatusCancelled {
			return nil
		}

		if res.ItemID != nil {
			if err := s.items.AdjustReserved(ctx, tx, *res.ItemID, -res.Quantity); err != nil {
				return err
			}
		}

		return s.repo.SetStatus(ctx, tx, id, StatusCancelled)
	})
}

// UpdateStatus handles the pending -> confirmed transition. It is a plain
// update: confirmation changes no capacity, so it stays off the locking
// path. Cancellation must go through Cancel.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	if status != StatusPending && status != StatusConfirmed {
		return nil, ErrInvalidStatus
	}

	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.Status == StatusCancelled {
		return nil, ErrCancelledTerminal
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	res.Status = status
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func countSubjects(req CreateRequest) int {
	n := 0
	if req.CabinID != nil {
		n++
	}
	if req.ItemID != nil {
		n++
	}
	if req.StaffID != nil {
		n++
	}
	return n
}
