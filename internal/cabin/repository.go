package cabin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Cabin) error
	GetByID(ctx context.Context, id string) (*Cabin, error)
	List(ctx context.Context, filter Filter) ([]*Cabin, int, error)
	Update(ctx context.Context, c *Cabin) error
	Delete(ctx context.Context, id string) error

	// GetByIDForUpdate reads the cabin row with a row-level lock inside tx.
	// The booking engine uses it to serialize admission checks per cabin.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Cabin, error)

	// SetPhoto points the cabin at an uploaded file.
	SetPhoto(ctx context.Context, id, fileID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, c *Cabin) error {
	const query = `
		INSERT INTO public.cabins (cabin_number, deck, type, capacity, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, c.CabinNumber, c.Deck, c.Type, c.Capacity, c.Status).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrNumberTaken
		}
		return fmt.Errorf("create cabin failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Cabin, error) {
	const query = `
		SELECT id, cabin_number, deck, type, capacity, status, photo_id, created_at
		FROM public.cabins
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var c Cabin
	if err := row.Scan(&c.ID, &c.CabinNumber, &c.Deck, &c.Type, &c.Capacity, &c.Status, &c.PhotoID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cabin failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Cabin, error) {
	const query = `
		SELECT id, cabin_number, deck, type, capacity, status, photo_id, created_at
		FROM public.cabins
		WHERE id = $1
		FOR UPDATE
	`
	row := tx.QueryRow(ctx, query, id)

	var c Cabin
	if err := row.Scan(&c.ID, &c.CabinNumber, &c.Deck, &c.Type, &c.Capacity, &c.Status, &c.PhotoID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock cabin failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Cabin, int, error) {
	var args []interface{}
	queryBase := `
		SELECT id, cabin_number, deck, type, capacity, status, photo_id, created_at, count(*) OVER() as total_count
		FROM public.cabins
		WHERE 1=1
	`
	paramIndex := 1

	if filter.Deck > 0 {
		queryBase += fmt.Sprintf(" AND deck = $%d", paramIndex)
		args = append(args, filter.Deck)
		paramIndex++
	}
	if filter.Type != "" {
		queryBase += fmt.Sprintf(" AND type = $%d", paramIndex)
		args = append(args, filter.Type)
		paramIndex++
	}
	if filter.Status != "" {
		queryBase += fmt.Sprintf(" AND status = $%d", paramIndex)
		args = append(args, filter.Status)
		paramIndex++
	}

	queryBase += " ORDER BY deck, cabin_number"

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	queryBase += fmt.Sprintf(" LIMIT $%d OFFSET $%d", paramIndex, paramIndex+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.pool.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cabins failed: %w", err)
	}
	defer rows.Close()

	var result []*Cabin
	var total int

	for rows.Next() {
		var c Cabin
		if err := rows.Scan(
			&c.ID, &c.CabinNumber, &c.Deck, &c.Type, &c.Capacity, &c.Status, &c.PhotoID, &c.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan cabin failed: %w", err)
		}
		result = append(result, &c)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Cabin) error {
	const query = `
		UPDATE public.cabins
		SET cabin_number = $1, deck = $2, type = $3, capacity = $4, status = $5
		WHERE id = $6
	`
	ct, err := r.pool.Exec(ctx, query, c.CabinNumber, c.Deck, c.Type, c.Capacity, c.Status, c.ID)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrNumberTaken
		}
		return fmt.Errorf("update cabin failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.cabins WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete cabin failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetPhoto(ctx context.Context, id, fileID string) error {
	const query = `UPDATE public.cabins SET photo_id = $1 WHERE id = $2`
	ct, err := r.pool.Exec(ctx, query, fileID, id)
	if err != nil {
		return fmt.Errorf("set cabin photo failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
