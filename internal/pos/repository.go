package pos

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elektra-pos/elektra-pos/internal/platform/db"
	"github.com/elektra-pos/elektra-pos/internal/products"
)

// TransactionRecord is the persisted shape of a submitted draft.
type TransactionRecord struct {
	ID            string
	CustomerID    *string
	TotalAmount   int64
	PaidAmount    int64
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	Notes         string
	ProjectName   string
	IsTempo       bool
	TempoDueDate  *time.Time
	CreatedBy     string
}

// DetailRecord is one location breakdown row on a project transaction.
type DetailRecord struct {
	TransactionID string
	LocationName  string
	Description   string
	Subtotal      int64
}

// SaleItemRecord is one persisted retail line.
type SaleItemRecord struct {
	TransactionID string
	DetailID      *string
	ProductID     int64
	ProductName   string
	CostPrice     int64
	SellPrice     int64
	Quantity      int
	Subtotal      int64
}

// PaymentRecord captures money collected at submission time.
type PaymentRecord struct {
	ReferenceType string
	ReferenceID   string
	CustomerName  string
	Amount        int64
	Method        PaymentMethod
	Notes         string
	CreatedBy     string
}

// ServiceOrderRecord is the parent repair order created from draft services.
type ServiceOrderRecord struct {
	TransactionID string
	CustomerID    *string
	Status        string
	Description   string
	CreatedBy     string
}

// ServiceItemRecord is one persisted repair line. A requested technician is
// never written here; it travels through a pending assignment and lands on
// the item at approval time.
type ServiceItemRecord struct {
	OrderID      string
	DeviceName   string
	DeviceSerial string
	Description  string
	LaborCost    int64
	SLACategory  string
	SLADeadline  *time.Time
	QRCode       string
	Status       string
}

// ServiceAssignmentRecord is a technician assignment awaiting approval.
type ServiceAssignmentRecord struct {
	ServiceItemID string
	TechnicianID  int64
	AssignedBy    string
	Status        string
}

// ServicePartRecord is one consumed part under a service item.
type ServicePartRecord struct {
	ServiceItemID string
	ProductID     int64
	ProductName   string
	Price         int64
	Quantity      int
	Subtotal      int64
}

// Repository opens the submission unit of work.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository groups every write a submission performs. All of them run
// inside one database transaction; there is no partial-apply.
type TxRepository interface {
	InsertTransaction(ctx context.Context, rec TransactionRecord) (string, error)
	InsertDetail(ctx context.Context, rec DetailRecord) (string, error)
	InsertSaleItem(ctx context.Context, rec SaleItemRecord) error
	InsertPayment(ctx context.Context, rec PaymentRecord) error
	InsertServiceOrder(ctx context.Context, rec ServiceOrderRecord) (string, error)
	InsertServiceItem(ctx context.Context, rec ServiceItemRecord) (string, error)
	InsertServiceAssignment(ctx context.Context, rec ServiceAssignmentRecord) error
	InsertServicePart(ctx context.Context, rec ServicePartRecord) error
	DecrementStock(ctx context.Context, productID int64, quantity int) error
	GetSLATargetHours(ctx context.Context, category string) (int, error)
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

// NewRepository builds the pgx-backed submission repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) InsertTransaction(ctx context.Context, rec TransactionRecord) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO transactions (customer_id, date, total_amount, paid_amount, payment_status, payment_method, notes, project_name, is_tempo, tempo_due_date, created_by)
		VALUES ($1, CURRENT_DATE, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, NULLIF($10, ''))
		RETURNING id
	`, rec.CustomerID, rec.TotalAmount, rec.PaidAmount, rec.PaymentStatus, rec.PaymentMethod,
		rec.Notes, rec.ProjectName, rec.IsTempo, rec.TempoDueDate, rec.CreatedBy).Scan(&id)
	return id, err
}

func (r *repository) InsertDetail(ctx context.Context, rec DetailRecord) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO transaction_details (transaction_id, location_name, description, subtotal)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id
	`, rec.TransactionID, rec.LocationName, rec.Description, rec.Subtotal).Scan(&id)
	return id, err
}

func (r *repository) InsertSaleItem(ctx context.Context, rec SaleItemRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sale_items (transaction_id, transaction_detail_id, product_id, product_name, cost_price, sell_price, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.TransactionID, rec.DetailID, rec.ProductID, rec.ProductName, rec.CostPrice, rec.SellPrice, rec.Quantity, rec.Subtotal)
	return err
}

func (r *repository) InsertPayment(ctx context.Context, rec PaymentRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (reference_type, reference_id, customer_name, amount, date, method, notes, created_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, CURRENT_DATE, $5, NULLIF($6, ''), NULLIF($7, ''))
	`, rec.ReferenceType, rec.ReferenceID, rec.CustomerName, rec.Amount, rec.Method, rec.Notes, rec.CreatedBy)
	return err
}

func (r *repository) InsertServiceOrder(ctx context.Context, rec ServiceOrderRecord) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_orders (transaction_id, customer_id, date, status, description, created_by)
		VALUES ($1, $2, CURRENT_DATE, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id
	`, rec.TransactionID, rec.CustomerID, rec.Status, rec.Description, rec.CreatedBy).Scan(&id)
	return id, err
}

func (r *repository) InsertServiceItem(ctx context.Context, rec ServiceItemRecord) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_items (service_order_id, device_name, device_serial_number, description, labor_cost, sla_category, sla_deadline, qr_code, status)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9)
		RETURNING id
	`, rec.OrderID, rec.DeviceName, rec.DeviceSerial, rec.Description,
		rec.LaborCost, rec.SLACategory, rec.SLADeadline, rec.QRCode, rec.Status).Scan(&id)
	return id, err
}

func (r *repository) InsertServiceAssignment(ctx context.Context, rec ServiceAssignmentRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO service_assignments (service_item_id, technician_id, assigned_by, status)
		VALUES ($1, $2, NULLIF($3, ''), $4)
	`, rec.ServiceItemID, rec.TechnicianID, rec.AssignedBy, rec.Status)
	return err
}

func (r *repository) InsertServicePart(ctx context.Context, rec ServicePartRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO service_parts (service_item_id, product_id, product_name, price, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ServiceItemID, rec.ProductID, rec.ProductName, rec.Price, rec.Quantity, rec.Subtotal)
	return err
}

// DecrementStock guards the decrement in the UPDATE itself so two concurrent
// submissions cannot oversell; zero affected rows means not enough stock.
func (r *repository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return products.ErrInsufficientStock
	}
	return nil
}

func (r *repository) GetSLATargetHours(ctx context.Context, category string) (int, error) {
	var hours int
	err := r.db.QueryRow(ctx, `SELECT target_hours FROM sla_configs WHERE category = $1`, category).Scan(&hours)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrSLAConfigNotFound
		}
		return 0, err
	}
	return hours, nil
}

// ErrSLAConfigNotFound indicates no SLA target is configured for a category.
var ErrSLAConfigNotFound = errors.New("pos: sla config not found")
