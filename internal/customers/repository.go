package customers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elektra-pos/elektra-pos/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, c Customer) (string, error)
	Update(ctx context.Context, id string, c Customer) error
	Delete(ctx context.Context, id string) error
}

type ListFilters struct {
	Search   string
	Category Category
	Limit    int
	Offset   int
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const customerColumns = "id, name, phone, address, email, category, created_at, updated_at"

func (r *pgRepository) List(ctx context.Context, filters ListFilters) ([]Customer, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where += " AND (name ILIKE $" + n + " OR phone ILIKE $" + n + ")"
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		where += " AND category = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM customers"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	args = append(args, shared.ClampLimit(filters.Limit))
	query := "SELECT " + customerColumns + " FROM customers" + where +
		" ORDER BY name ASC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, shared.ClampOffset(filters.Offset))
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	items := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email, &c.Category, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email, &c.Category, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *pgRepository) Create(ctx context.Context, c Customer) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, address, email, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Name, c.Phone, c.Address, c.Email, c.Category,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert customer: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Update(ctx context.Context, id string, c Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers
		SET name = $2, phone = $3, address = $4, email = $5, category = $6, updated_at = now()
		WHERE id = $1`,
		id, c.Name, c.Phone, c.Address, c.Email, c.Category,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, shared.ErrNotFound)
	}
	return nil
}
