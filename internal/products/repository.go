package products

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elektra-pos/elektra-pos/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, product Product) (*Product, error)
	Update(ctx context.Context, id int64, product Product) error
	Deactivate(ctx context.Context, id int64) error
	// DecrementStock is a guarded atomic decrement; it fails with
	// ErrInsufficientStock instead of driving stock negative.
	DecrementStock(ctx context.Context, id int64, quantity int) error
	IncrementStock(ctx context.Context, id int64, quantity int) error
	CountLowStock(ctx context.Context) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, category_id, unit, cost_price, sell_price, stock, min_stock, serial_number, description, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CategoryID != nil {
		argCount++
		where += ` AND category_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CategoryID)
	}
	if filters.IsActive != nil {
		argCount++
		where += ` AND is_active = $` + strconv.Itoa(argCount)
		args = append(args, *filters.IsActive)
	}
	if filters.LowStock {
		where += ` AND stock <= min_stock`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (*Product, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (name, category_id, unit, cost_price, sell_price, stock, min_stock, serial_number, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		p.Name, p.CategoryID, p.Unit, p.CostPrice, p.SellPrice, p.Stock, p.MinStock, p.SerialNumber, p.Description, p.IsActive)
	created, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, category_id = $3, unit = $4, cost_price = $5, sell_price = $6,
		    stock = $7, min_stock = $8, serial_number = $9, description = $10,
		    is_active = $11, updated_at = NOW()
		WHERE id = $1`,
		id, p.Name, p.CategoryID, p.Unit, p.CostPrice, p.SellPrice, p.Stock, p.MinStock, p.SerialNumber, p.Description, p.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *repository) IncrementStock(ctx context.Context, id int64, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CountLowStock(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active AND stock <= min_stock`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Unit, &p.CostPrice, &p.SellPrice,
		&p.Stock, &p.MinStock, &p.SerialNumber, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
