package serviceorders

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
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/shared"
)

var ErrSLAConfigNotFound = errors.New("serviceorders: sla config not found")

type ListFilters struct {
	Status       ServiceStatus
	CustomerID   string
	TechnicianID *int64
	Limit        int
	Offset       int
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]ServiceOrder, int, error)
	GetOrder(ctx context.Context, id string) (*ServiceOrder, error)
	GetItem(ctx context.Context, itemID string) (*ServiceItem, error)
	ListOverdueItems(ctx context.Context, now time.Time) ([]ServiceItem, error)
	CountActiveByTechnician(ctx context.Context) (map[int64]int, error)
	CountPendingOrders(ctx context.Context) (int, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository groups the writes that must land together: status flips,
// parent recompute, workload adjustments, stock movements.
type TxRepository interface {
	InsertOrder(ctx context.Context, o ServiceOrder) (string, error)
	InsertItem(ctx context.Context, item ServiceItem) (string, error)
	InsertPart(ctx context.Context, part ServicePart) error
	InsertAssignment(ctx context.Context, a Assignment) (string, error)
	GetItemForUpdate(ctx context.Context, itemID string) (*ServiceItem, error)
	ListItemsByOrder(ctx context.Context, orderID string) ([]ServiceItem, error)
	UpdateItemStatus(ctx context.Context, itemID string, status ServiceStatus, completedAt *time.Time, slaBreached bool) error
	UpdateItemDiagnosis(ctx context.Context, itemID string, diagnosis string) error
	SetItemTechnician(ctx context.Context, itemID string, technicianID int64) error
	UpdateOrderStatus(ctx context.Context, orderID string, status ServiceStatus) error
	GetAssignment(ctx context.Context, id string) (*Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id string, status AssignmentStatus, reason string) error
	AdjustTechnicianWorkload(ctx context.Context, technicianID int64, delta int) error
	MarkSLABreached(ctx context.Context, itemID string) error
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

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const orderColumns = `o.id, o.customer_id, COALESCE(c.name, 'Umum'), o.date, o.status,
	o.description, COALESCE(o.created_by, ''), o.created_at, o.updated_at`

const itemColumns = `id, service_order_id, device_name, device_serial_number,
	description, diagnosis, technician_id, labor_cost, status, sla_category,
	sla_deadline, completed_at, is_sla_breached, qr_code`

func scanOrder(row pgx.Row) (*ServiceOrder, error) {
	var o ServiceOrder
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.Date, &o.Status,
		&o.Description, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanItem(row pgx.Row) (*ServiceItem, error) {
	var it ServiceItem
	err := row.Scan(&it.ID, &it.OrderID, &it.DeviceName, &it.DeviceSerial,
		&it.Description, &it.Diagnosis, &it.TechnicianID, &it.LaborCost, &it.Status,
		&it.SLACategory, &it.SLADeadline, &it.CompletedAt, &it.IsSLABreached, &it.QRCode)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]ServiceOrder, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += " AND o.status = $" + strconv.Itoa(len(args))
	}
	if filters.CustomerID != "" {
		args = append(args, filters.CustomerID)
		where += " AND o.customer_id = $" + strconv.Itoa(len(args))
	}
	if filters.TechnicianID != nil {
		args = append(args, *filters.TechnicianID)
		where += " AND EXISTS (SELECT 1 FROM service_items si WHERE si.service_order_id = o.id AND si.technician_id = $" + strconv.Itoa(len(args)) + ")"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM service_orders o LEFT JOIN customers c ON c.id = o.customer_id" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count service orders: %w", err)
	}

	args = append(args, shared.ClampLimit(filters.Limit))
	query := "SELECT " + orderColumns + " FROM service_orders o LEFT JOIN customers c ON c.id = o.customer_id" +
		where + " ORDER BY o.created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, shared.ClampOffset(filters.Offset))
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list service orders: %w", err)
	}
	defer rows.Close()

	orders := make([]ServiceOrder, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *repository) GetOrder(ctx context.Context, id string) (*ServiceOrder, error) {
	o, err := scanOrder(r.db.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM service_orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE o.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("service order %s: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get service order: %w", err)
	}

	items, err := r.ListItemsByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range items {
		parts, err := r.listParts(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Parts = parts
	}
	o.Items = items
	return o, nil
}

func (r *repository) GetItem(ctx context.Context, itemID string) (*ServiceItem, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM service_items WHERE id = $1", itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("service item %s: %w", itemID, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get service item: %w", err)
	}
	parts, err := r.listParts(ctx, itemID)
	if err != nil {
		return nil, err
	}
	it.Parts = parts
	return it, nil
}

func (r *repository) listParts(ctx context.Context, itemID string) ([]ServicePart, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, service_item_id, product_id, product_name, quantity, price, subtotal
		FROM service_parts WHERE service_item_id = $1 ORDER BY id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list service parts: %w", err)
	}
	defer rows.Close()

	parts := make([]ServicePart, 0)
	for rows.Next() {
		var p ServicePart
		if err := rows.Scan(&p.ID, &p.ServiceItemID, &p.ProductID, &p.ProductName, &p.Quantity, &p.UnitPrice, &p.Subtotal); err != nil {
			return nil, fmt.Errorf("scan service part: %w", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *repository) ListOverdueItems(ctx context.Context, now time.Time) ([]ServiceItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+` FROM service_items
		WHERE status IN ('pending', 'in_progress')
		  AND is_sla_breached = false
		  AND sla_deadline IS NOT NULL
		  AND sla_deadline < $1`, now)
	if err != nil {
		return nil, fmt.Errorf("list overdue items: %w", err)
	}
	defer rows.Close()

	items := make([]ServiceItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan overdue item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// CountActiveByTechnician recomputes each technician's live workload from
// assigned non-terminal items.
func (r *repository) CountActiveByTechnician(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT technician_id, COUNT(*) FROM service_items
		WHERE technician_id IS NOT NULL AND status IN ('pending', 'in_progress')
		GROUP BY technician_id`)
	if err != nil {
		return nil, fmt.Errorf("count active items: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan workload count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (r *repository) CountPendingOrders(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM service_orders WHERE status IN ('pending', 'in_progress')").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending orders: %w", err)
	}
	return n, nil
}

func (r *repository) InsertOrder(ctx context.Context, o ServiceOrder) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_orders (customer_id, date, status, description, created_by)
		VALUES ($1, CURRENT_DATE, $2, $3, NULLIF($4, ''))
		RETURNING id`,
		o.CustomerID, o.Status, o.Description, o.CreatedBy).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert service order: %w", err)
	}
	return id, nil
}

func (r *repository) InsertItem(ctx context.Context, item ServiceItem) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_items (service_order_id, device_name, device_serial_number, description, technician_id, labor_cost, status, sla_category, sla_deadline, qr_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		item.OrderID, item.DeviceName, item.DeviceSerial, item.Description,
		item.TechnicianID, item.LaborCost, item.Status, item.SLACategory,
		item.SLADeadline, item.QRCode).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert service item: %w", err)
	}
	return id, nil
}

func (r *repository) InsertPart(ctx context.Context, part ServicePart) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO service_parts (service_item_id, product_id, product_name, quantity, price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		part.ServiceItemID, part.ProductID, part.ProductName, part.Quantity, part.UnitPrice, part.Subtotal)
	if err != nil {
		return fmt.Errorf("insert service part: %w", err)
	}
	return nil
}

func (r *repository) InsertAssignment(ctx context.Context, a Assignment) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_assignments (service_item_id, technician_id, assigned_by, status, reason)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING id`,
		a.ServiceItemID, a.TechnicianID, a.AssignedBy, a.Status, a.Reason).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert assignment: %w", err)
	}
	return id, nil
}

func (r *repository) GetItemForUpdate(ctx context.Context, itemID string) (*ServiceItem, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM service_items WHERE id = $1 FOR UPDATE", itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("service item %s: %w", itemID, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock service item: %w", err)
	}
	return it, nil
}

func (r *repository) ListItemsByOrder(ctx context.Context, orderID string) ([]ServiceItem, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+itemColumns+" FROM service_items WHERE service_order_id = $1 ORDER BY created_at, id", orderID)
	if err != nil {
		return nil, fmt.Errorf("list service items: %w", err)
	}
	defer rows.Close()

	items := make([]ServiceItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *repository) UpdateItemStatus(ctx context.Context, itemID string, status ServiceStatus, completedAt *time.Time, slaBreached bool) error {
	_, err := r.db.Exec(ctx, `
		UPDATE service_items
		SET status = $2, completed_at = $3,
		    is_sla_breached = is_sla_breached OR $4,
		    updated_at = now()
		WHERE id = $1`,
		itemID, status, completedAt, slaBreached)
	if err != nil {
		return fmt.Errorf("update item status: %w", err)
	}
	return nil
}

func (r *repository) UpdateItemDiagnosis(ctx context.Context, itemID string, diagnosis string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE service_items SET diagnosis = NULLIF($2, ''), updated_at = now() WHERE id = $1`,
		itemID, diagnosis)
	if err != nil {
		return fmt.Errorf("update diagnosis: %w", err)
	}
	return nil
}

func (r *repository) SetItemTechnician(ctx context.Context, itemID string, technicianID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE service_items SET technician_id = $2, updated_at = now() WHERE id = $1`,
		itemID, technicianID)
	if err != nil {
		return fmt.Errorf("set item technician: %w", err)
	}
	return nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID string, status ServiceStatus) error {
	_, err := r.db.Exec(ctx, `
		UPDATE service_orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (r *repository) GetAssignment(ctx context.Context, id string) (*Assignment, error) {
	var a Assignment
	err := r.db.QueryRow(ctx, `
		SELECT id, service_item_id, technician_id, COALESCE(assigned_by, ''), status, reason, created_at, updated_at
		FROM service_assignments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&a.ID, &a.ServiceItemID, &a.TechnicianID, &a.AssignedBy, &a.Status, &a.Reason, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("assignment %s: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &a, nil
}

func (r *repository) UpdateAssignmentStatus(ctx context.Context, id string, status AssignmentStatus, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE service_assignments
		SET status = $2, reason = NULLIF($3, ''), updated_at = now()
		WHERE id = $1`,
		id, status, reason)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

func (r *repository) AdjustTechnicianWorkload(ctx context.Context, technicianID int64, delta int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE employees
		SET current_workload = GREATEST(current_workload + $2, 0), updated_at = now()
		WHERE id = $1`,
		technicianID, delta)
	if err != nil {
		return fmt.Errorf("adjust workload: %w", err)
	}
	return nil
}

// MarkSLABreached sets the breach flag; it is one-way and never cleared.
func (r *repository) MarkSLABreached(ctx context.Context, itemID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE service_items SET is_sla_breached = true, updated_at = now()
		WHERE id = $1 AND is_sla_breached = false`,
		itemID)
	if err != nil {
		return fmt.Errorf("mark sla breached: %w", err)
	}
	return nil
}

func (r *repository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`,
		productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return products.ErrInsufficientStock
	}
	return nil
}

func (r *repository) GetSLATargetHours(ctx context.Context, category string) (int, error) {
	var hours int
	err := r.db.QueryRow(ctx,
		"SELECT target_hours FROM sla_configs WHERE category = $1", category).Scan(&hours)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrSLAConfigNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get sla target: %w", err)
	}
	return hours, nil
}
