package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts the reservation inside the caller's transaction so the
	// row commits together with the inventory adjustment.
	Create(ctx context.Context, tx pgx.Tx, r *Reservation) error

	// HasOverlap reports whether any non-cancelled reservation for the given
	// subject column intersects [start, end). Half-open semantics: windows
	// that merely touch do not conflict. Must run inside the transaction
	// that holds the subject row lock.
	HasOverlap(ctx context.Context, tx pgx.Tx, subjectColumn, subjectID string, start, end time.Time) (bool, error)

	// SumOverlappingQuantity returns the total quantity held by non-cancelled
	// reservations of the item that intersect [start, end). Must run inside
	// the transaction that holds the item row lock.
	SumOverlappingQuantity(ctx context.Context, tx pgx.Tx, itemID string, start, end time.Time) (int, error)

	// GetByIDForUpdate locks the reservation row for cancellation.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Reservation, error)

	// SetStatus updates the status inside the caller's transaction.
	SetStatus(ctx context.Context, tx pgx.Tx, id string, status Status) error

	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Valid subject columns for HasOverlap. Kept as constants so call sites
// cannot inject arbitrary SQL identifiers.
const (
	SubjectCabin = "cabin_id"
	SubjectStaff = "staff_id"
)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, tx pgx.Tx, res *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("user_id", "cabin_id", "item_id", "staff_id", "start_time", "end_time", "status", "quantity").
		Values(res.UserID, res.CabinID, res.ItemID, res.StaffID, res.StartTime, res.EndTime, res.Status, res.Quantity).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, tx pgx.Tx, subjectColumn, subjectID string, start, end time.Time) (bool, error) {
	if subjectColumn != SubjectCabin && subjectColumn != SubjectStaff {
		return false, fmt.Errorf("invalid subject column %q", subjectColumn)
	}

	// Overlap test for half-open windows:
	// new.start < existing.end AND new.end > existing.start
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{subjectColumn: subjectID}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Gt{"end_time": start}).
		Where(squirrel.Lt{"start_time": end})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := tx.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) SumOverlappingQuantity(ctx context.Context, tx pgx.Tx, itemID string, start, end time.Time) (int, error) {
	const query = `
		SELECT COALESCE(SUM(quantity), 0)
		FROM public.reservations
		WHERE item_id = $1
		  AND status <> 'cancelled'
		  AND end_time > $2
		  AND start_time < $3
	`

	var total int
	if err := tx.QueryRow(ctx, query, itemID, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum overlapping quantity failed: %w", err)
	}
	return total, nil
}

const reservationJoinColumns = `
	r.id, r.user_id, (u.first_name || ' ' || u.last_name),
	r.cabin_id, COALESCE(c.cabin_number, ''),
	r.item_id, COALESCE(i.name, ''),
	r.staff_id, COALESCE(s.name, ''),
	r.start_time, r.end_time, r.status, r.quantity, r.created_at
`

const reservationJoins = `
	FROM public.reservations r
	JOIN public.users u ON r.user_id = u.id
	LEFT JOIN public.cabins c ON r.cabin_id = c.id
	LEFT JOIN public.inventory_items i ON r.item_id = i.id
	LEFT JOIN public.staff s ON r.staff_id = s.id
`

func scanReservation(row pgx.Row, res *Reservation, extra ...any) error {
	dest := []any{
		&res.ID, &res.UserID, &res.UserName,
		&res.CabinID, &res.CabinNumber,
		&res.ItemID, &res.ItemName,
		&res.StaffID, &res.StaffName,
		&res.StartTime, &res.EndTime, &res.Status, &res.Quantity, &res.CreatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query := `SELECT ` + reservationJoinColumns + reservationJoins + ` WHERE r.id = $1`

	var res Reservation
	if err := scanReservation(r.pool.QueryRow(ctx, query, id), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Reservation, error) {
	// Locks only the reservation row itself; joined names are not needed
	// on the cancellation path.
	const query = `
		SELECT id, user_id, cabin_id, item_id, staff_id, start_time, end_time, status, quantity, created_at
		FROM public.reservations
		WHERE id = $1
		FOR UPDATE
	`

	var res Reservation
	if err := tx.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.UserID, &res.CabinID, &res.ItemID, &res.StaffID,
		&res.StartTime, &res.EndTime, &res.Status, &res.Quantity, &res.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock reservation failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) SetStatus(ctx context.Context, tx pgx.Tx, id string, status Status) error {
	const query = `UPDATE public.reservations SET status = $1 WHERE id = $2`

	ct, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	const query = `UPDATE public.reservations SET status = $1 WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.user_id", "(u.first_name || ' ' || u.last_name)",
		"r.cabin_id", "COALESCE(c.cabin_number, '')",
		"r.item_id", "COALESCE(i.name, '')",
		"r.staff_id", "COALESCE(s.name, '')",
		"r.start_time", "r.end_time", "r.status", "r.quantity", "r.created_at",
		"count(*) OVER() as total_count",
	).
		From("public.reservations r").
		Join("public.users u ON r.user_id = u.id").
		LeftJoin("public.cabins c ON r.cabin_id = c.id").
		LeftJoin("public.inventory_items i ON r.item_id = i.id").
		LeftJoin("public.staff s ON r.staff_id = s.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"r.user_id": filter.UserID})
	}
	if filter.CabinID != "" {
		query = query.Where(squirrel.Eq{"r.cabin_id": filter.CabinID})
	}
	if filter.ItemID != "" {
		query = query.Where(squirrel.Eq{"r.item_id": filter.ItemID})
	}
	if filter.StaffID != "" {
		query = query.Where(squirrel.Eq{"r.staff_id": filter.StaffID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}

	query = query.OrderBy("r.start_time DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var res Reservation
		if err := scanReservation(rows, &res, &total); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, total, nil
}
