package staff

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
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	List(ctx context.Context, filter Filter) ([]*Member, int, error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id string) error

	// GetByIDForUpdate reads the staff row with a row-level lock inside tx.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Member, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, m *Member) error {
	const query = `
		INSERT INTO public.staff (name, role, email, shift)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, m.Name, m.Role, m.Email, m.Shift).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("create staff member failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Member, error) {
	const query = `
		SELECT id, name, role, email, shift, created_at
		FROM public.staff
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var m Member
	if err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Email, &m.Shift, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get staff member failed: %w", err)
	}
	return &m, nil
}

func (r *pgxRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Member, error) {
	const query = `
		SELECT id, name, role, email, shift, created_at
		FROM public.staff
		WHERE id = $1
		FOR UPDATE
	`
	row := tx.QueryRow(ctx, query, id)

	var m Member
	if err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Email, &m.Shift, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock staff member failed: %w", err)
	}
	return &m, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Member, int, error) {
	var args []interface{}
	queryBase := `
		SELECT id, name, role, email, shift, created_at, count(*) OVER() as total_count
		FROM public.staff
		WHERE 1=1
	`
	paramIndex := 1

	if filter.Role != "" {
		queryBase += fmt.Sprintf(" AND role = $%d", paramIndex)
		args = append(args, filter.Role)
		paramIndex++
	}
	if filter.Shift != "" {
		queryBase += fmt.Sprintf(" AND shift = $%d", paramIndex)
		args = append(args, filter.Shift)
		paramIndex++
	}
	if filter.Name != "" {
		queryBase += fmt.Sprintf(" AND name ILIKE $%d", paramIndex)
		args = append(args, "%"+filter.Name+"%")
		paramIndex++
	}

	queryBase += " ORDER BY name"

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
		return nil, 0, fmt.Errorf("list staff failed: %w", err)
	}
	defer rows.Close()

	var result []*Member
	var total int

	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Email, &m.Shift, &m.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan staff member failed: %w", err)
		}
		result = append(result, &m)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, m *Member) error {
	const query = `
		UPDATE public.staff
		SET name = $1, role = $2, email = $3, shift = $4
		WHERE id = $5
	`
	ct, err := r.pool.Exec(ctx, query, m.Name, m.Role, m.Email, m.Shift, m.ID)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("update staff member failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.staff WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete staff member failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
