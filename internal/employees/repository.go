package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elektra-pos/elektra-pos/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, e Employee) (int64, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	LockQueue(ctx context.Context, id int64, reason string) error
	UnlockQueue(ctx context.Context, id int64) error
	AdjustWorkload(ctx context.Context, id int64, delta int) error
	SetWorkload(ctx context.Context, id int64, workload int) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const employeeColumns = `id, name, phone, email, status, is_available,
	is_queue_locked, queue_lock_reason, current_workload, max_workload,
	created_at, updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Phone, &e.Email, &e.Status, &e.IsAvailable,
		&e.IsQueueLocked, &e.QueueLockReason, &e.CurrentWorkload, &e.MaxWorkload,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *pgRepository) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+employeeColumns+" FROM employees ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	items := make([]Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Employee, error) {
	e, err := scanEmployee(r.pool.QueryRow(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("employee %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (r *pgRepository) Create(ctx context.Context, e Employee) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO employees (name, phone, email, status, is_available, max_workload)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.Name, e.Phone, e.Email, e.Status, e.IsAvailable, e.MaxWorkload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert employee: %w", err)
	}
	return id, nil
}

func (r *pgRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	return r.exec(ctx, id, `
		UPDATE employees SET is_available = $2, updated_at = now() WHERE id = $1`,
		available)
}

func (r *pgRepository) LockQueue(ctx context.Context, id int64, reason string) error {
	return r.exec(ctx, id, `
		UPDATE employees
		SET is_queue_locked = true, queue_lock_reason = NULLIF($2, ''), updated_at = now()
		WHERE id = $1`,
		reason)
}

func (r *pgRepository) UnlockQueue(ctx context.Context, id int64) error {
	return r.exec(ctx, id, `
		UPDATE employees
		SET is_queue_locked = false, queue_lock_reason = NULL, updated_at = now()
		WHERE id = $1`)
}

// AdjustWorkload applies the delta atomically and never lets the counter
// go below zero.
func (r *pgRepository) AdjustWorkload(ctx context.Context, id int64, delta int) error {
	return r.exec(ctx, id, `
		UPDATE employees
		SET current_workload = GREATEST(current_workload + $2, 0), updated_at = now()
		WHERE id = $1`,
		delta)
}

func (r *pgRepository) SetWorkload(ctx context.Context, id int64, workload int) error {
	return r.exec(ctx, id, `
		UPDATE employees
		SET current_workload = GREATEST($2, 0), updated_at = now()
		WHERE id = $1`,
		workload)
}

func (r *pgRepository) exec(ctx context.Context, id int64, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %d: %w", id, shared.ErrNotFound)
	}
	return nil
}
