package transactions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elektra-pos/elektra-pos/internal/platform/db"
	"github.com/elektra-pos/elektra-pos/internal/pos"
	"github.com/elektra-pos/elektra-pos/internal/shared"
)

type ListFilters struct {
	From       *time.Time
	To         *time.Time
	Status     pos.PaymentStatus
	CustomerID string
	Limit      int
	Offset     int
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Transaction, int, error)
	Get(ctx context.Context, id string) (*Transaction, error)
	ListPayments(ctx context.Context, transactionID string) ([]Payment, error)
	ListTempoDue(ctx context.Context) ([]Transaction, error)
	RevenueOn(ctx context.Context, day time.Time) (int64, error)
	CountOn(ctx context.Context, day time.Time) (int, error)
	OutstandingTotal(ctx context.Context) (int64, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository holds the writes behind AddPayment: the payment row and the
// recomputed paid amount and status land together.
type TxRepository interface {
	GetForUpdate(ctx context.Context, id string) (*Transaction, error)
	InsertPayment(ctx context.Context, transactionID string, p Payment) error
	UpdatePaymentState(ctx context.Context, id string, paid int64, status pos.PaymentStatus) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const transactionColumns = `t.id, t.customer_id, COALESCE(c.name, 'Umum'), t.date,
	t.total_amount, t.paid_amount, t.payment_status, t.payment_method, t.notes,
	t.project_name, t.is_tempo, t.tempo_due_date, t.created_by, t.created_at`

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.CustomerID, &t.CustomerName, &t.Date,
		&t.TotalAmount, &t.PaidAmount, &t.PaymentStatus, &t.PaymentMethod, &t.Notes,
		&t.ProjectName, &t.IsTempo, &t.TempoDueDate, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const fromClause = " FROM transactions t LEFT JOIN customers c ON c.id = t.customer_id"

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Transaction, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filters.From != nil {
		args = append(args, *filters.From)
		where += " AND t.date >= $" + strconv.Itoa(len(args))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		where += " AND t.date <= $" + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += " AND t.payment_status = $" + strconv.Itoa(len(args))
	}
	if filters.CustomerID != "" {
		args = append(args, filters.CustomerID)
		where += " AND t.customer_id = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+fromClause+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	args = append(args, shared.ClampLimit(filters.Limit))
	query := "SELECT " + transactionColumns + fromClause + where +
		" ORDER BY t.created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, shared.ClampOffset(filters.Offset))
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, *t)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (*Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx,
		"SELECT "+transactionColumns+fromClause+" WHERE t.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT id, transaction_detail_id, product_id, product_name, cost_price, sell_price, quantity, subtotal
		FROM sale_items WHERE transaction_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it SaleItem
		if err := itemRows.Scan(&it.ID, &it.DetailID, &it.ProductID, &it.ProductName,
			&it.CostPrice, &it.SellPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		t.Items = append(t.Items, it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	detailRows, err := r.db.Query(ctx, `
		SELECT id, location_name, description, subtotal
		FROM transaction_details WHERE transaction_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list transaction details: %w", err)
	}
	defer detailRows.Close()
	for detailRows.Next() {
		var d Detail
		if err := detailRows.Scan(&d.ID, &d.LocationName, &d.Description, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan transaction detail: %w", err)
		}
		t.Details = append(t.Details, d)
	}
	return t, detailRows.Err()
}

func (r *repository) ListPayments(ctx context.Context, transactionID string) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, date, method, notes, created_by, created_at
		FROM payments
		WHERE reference_type = 'transaction' AND reference_id = $1
		ORDER BY created_at`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]Payment, 0)
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.Date, &p.Method, &p.Notes, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListTempoDue returns deferred-payment transactions that still owe money,
// soonest due first.
func (r *repository) ListTempoDue(ctx context.Context) ([]Transaction, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+transactionColumns+fromClause+`
		WHERE t.is_tempo = true AND t.payment_status IN ('unpaid', 'partial')
		ORDER BY t.tempo_due_date ASC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("list tempo due: %w", err)
	}
	defer rows.Close()

	items := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tempo transaction: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (r *repository) RevenueOn(ctx context.Context, day time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM transactions WHERE date = $1::date", day).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("revenue on %s: %w", day.Format("2006-01-02"), err)
	}
	return total, nil
}

func (r *repository) CountOn(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM transactions WHERE date = $1::date", day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count on %s: %w", day.Format("2006-01-02"), err)
	}
	return n, nil
}

func (r *repository) OutstandingTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount - paid_amount), 0)
		FROM transactions
		WHERE payment_status IN ('unpaid', 'partial')`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("outstanding total: %w", err)
	}
	return total, nil
}

func (r *repository) GetForUpdate(ctx context.Context, id string) (*Transaction, error) {
	var t Transaction
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, date, total_amount, paid_amount, payment_status, payment_method,
		       notes, project_name, is_tempo, tempo_due_date, created_by, created_at
		FROM transactions WHERE id = $1 FOR UPDATE`, id,
	).Scan(&t.ID, &t.CustomerID, &t.Date, &t.TotalAmount, &t.PaidAmount, &t.PaymentStatus,
		&t.PaymentMethod, &t.Notes, &t.ProjectName, &t.IsTempo, &t.TempoDueDate, &t.CreatedBy, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock transaction: %w", err)
	}
	return &t, nil
}

func (r *repository) InsertPayment(ctx context.Context, transactionID string, p Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (reference_type, reference_id, amount, date, method, notes, created_by)
		VALUES ('transaction', $1, $2, CURRENT_DATE, $3, $4, $5)`,
		transactionID, p.Amount, p.Method, p.Notes, p.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *repository) UpdatePaymentState(ctx context.Context, id string, paid int64, status pos.PaymentStatus) error {
	_, err := r.db.Exec(ctx, `
		UPDATE transactions SET paid_amount = $2, payment_status = $3 WHERE id = $1`,
		id, paid, status)
	if err != nil {
		return fmt.Errorf("update payment state: %w", err)
	}
	return nil
}
