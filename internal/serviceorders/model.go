package serviceorders

import "time"

// ServiceStatus is used both for individual service items and for the
// parent order, which is derived from its items.
type ServiceStatus string

const (
	StatusPending    ServiceStatus = "pending"
	StatusInProgress ServiceStatus = "in_progress"
	StatusCompleted  ServiceStatus = "completed"
	StatusCancelled  ServiceStatus = "cancelled"
)

func (s ServiceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s ServiceStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "pending_approval"
	AssignmentApproved AssignmentStatus = "approved"
	AssignmentRejected AssignmentStatus = "rejected"
)

type ServiceOrder struct {
	ID           string        `json:"id" db:"id"`
	CustomerID   *string       `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName string        `json:"customer_name" db:"customer_name"`
	Date         time.Time     `json:"date" db:"date"`
	Status       ServiceStatus `json:"status" db:"status"`
	Description  *string       `json:"description,omitempty" db:"description"`
	CreatedBy    string        `json:"created_by" db:"created_by"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
	Items        []ServiceItem `json:"items,omitempty" db:"-"`
}

type ServiceItem struct {
	ID            string        `json:"id" db:"id"`
	OrderID       string        `json:"order_id" db:"order_id"`
	DeviceName    string        `json:"device_name" db:"device_name"`
	DeviceSerial  *string       `json:"device_serial,omitempty" db:"device_serial"`
	Description   *string       `json:"description,omitempty" db:"description"`
	Diagnosis     *string       `json:"diagnosis,omitempty" db:"diagnosis"`
	TechnicianID  *int64        `json:"technician_id,omitempty" db:"technician_id"`
	LaborCost     int64         `json:"labor_cost" db:"labor_cost"`
	Status        ServiceStatus `json:"status" db:"status"`
	SLACategory   *string       `json:"sla_category,omitempty" db:"sla_category"`
	SLADeadline   *time.Time    `json:"sla_deadline,omitempty" db:"sla_deadline"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	IsSLABreached bool          `json:"is_sla_breached" db:"is_sla_breached"`
	QRCode        string        `json:"qr_code" db:"qr_code"`
	Parts         []ServicePart `json:"parts,omitempty" db:"-"`
}

type ServicePart struct {
	ID            string `json:"id" db:"id"`
	ServiceItemID string `json:"service_item_id" db:"service_item_id"`
	ProductID     int64  `json:"product_id" db:"product_id"`
	ProductName   string `json:"product_name" db:"product_name"`
	Quantity      int    `json:"quantity" db:"quantity"`
	UnitPrice     int64  `json:"unit_price" db:"unit_price"`
	Subtotal      int64  `json:"subtotal" db:"subtotal"`
}

type Assignment struct {
	ID            string           `json:"id" db:"id"`
	ServiceItemID string           `json:"service_item_id" db:"service_item_id"`
	TechnicianID  int64            `json:"technician_id" db:"technician_id"`
	AssignedBy    string           `json:"assigned_by" db:"assigned_by"`
	Status        AssignmentStatus `json:"status" db:"status"`
	Reason        *string          `json:"reason,omitempty" db:"reason"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

type SLAConfig struct {
	Category    string `json:"category" db:"category"`
	TargetHours int    `json:"target_hours" db:"target_hours"`
}
