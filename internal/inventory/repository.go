package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, int, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error

	// GetByIDForUpdate reads the item row with a row-level lock inside tx.
	// Locking the item row serializes all admission checks for it.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Item, error)

	// AdjustReserved moves the live reserved counter by delta inside tx.
	// It fails with ErrReservedBounds instead of letting the counter go
	// negative or exceed the item's total quantity.
	AdjustReserved(ctx context.Context, tx pgx.Tx, id string, delta int) error

	// SetPhoto points the item at an uploaded file.
	SetPhoto(ctx context.Context, id, fileID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const itemColumns = "id, name, category, quantity, reserved, status, photo_id, created_at"

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	if err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Quantity, &i.Reserved, &i.Status, &i.PhotoID, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *pgxRepository) Create(ctx context.Context, item *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.inventory_items").
		Columns("name", "category", "quantity", "status").
		Values(item.Name, item.Category, item.Quantity, item.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&item.ID, &item.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	query := "SELECT " + itemColumns + " FROM public.inventory_items WHERE id = $1"

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return item, nil
}

func (r *pgxRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Item, error) {
	query := "SELECT " + itemColumns + " FROM public.inventory_items WHERE id = $1 FOR UPDATE"

	item, err := scanItem(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock item failed: %w", err)
	}
	return item, nil
}

func (r *pgxRepository) AdjustReserved(ctx context.Context, tx pgx.Tx, id string, delta int) error {
	const query = `
		UPDATE public.inventory_items
		SET reserved = reserved + $1
		WHERE id = $2 AND reserved + $1 >= 0 AND reserved + $1 <= quantity
	`
	ct, err := tx.Exec(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("adjust reserved failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrReservedBounds
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Item, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "category", "quantity", "reserved", "status", "photo_id", "created_at",
		"count(*) OVER() as total_count",
	).From("public.inventory_items")

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}

	query = query.OrderBy("name")

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
		return nil, 0, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	var total int

	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Category, &i.Quantity, &i.Reserved, &i.Status, &i.PhotoID, &i.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &i)
	}

	return items, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, item *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.inventory_items").
		Set("name", item.Name).
		Set("category", item.Category).
		Set("quantity", item.Quantity).
		Set("status", item.Status).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.inventory_items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetPhoto(ctx context.Context, id, fileID string) error {
	const query = `UPDATE public.inventory_items SET photo_id = $1 WHERE id = $2`
	ct, err := r.pool.Exec(ctx, query, fileID, id)
	if err != nil {
		return fmt.Errorf("set item photo failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
