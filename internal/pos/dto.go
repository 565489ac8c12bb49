package pos

import "time"

type AddItemRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid4"`
	ProductID  int64  `json:"product_id" validate:"required,gt=0"`
	Quantity   int    `json:"quantity" validate:"required,gte=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type AddServicePartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

type AddServiceRequest struct {
	LocationID     string                  `json:"location_id" validate:"required,uuid4"`
	DeviceName     string                  `json:"device_name" validate:"required,max=200"`
	DeviceSerial   string                  `json:"device_serial,omitempty" validate:"max=100"`
	Description    string                  `json:"description,omitempty"`
	TechnicianID   *int64                  `json:"technician_id,omitempty" validate:"omitempty,gt=0"`
	TechnicianName string                  `json:"technician_name,omitempty"`
	LaborCost      int64                   `json:"labor_cost" validate:"gte=0"`
	SLACategory    string                  `json:"sla_category,omitempty" validate:"max=50"`
	Parts          []AddServicePartRequest `json:"parts,omitempty" validate:"dive"`
}

type AddLocationRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

type SetCustomerRequest struct {
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid4"`
}

type UpdateDraftRequest struct {
	Type          *TransactionType `json:"transaction_type,omitempty" validate:"omitempty,oneof=retail project"`
	Notes         *string          `json:"notes,omitempty"`
	ProjectName   *string          `json:"project_name,omitempty"`
	PaymentMethod *PaymentMethod   `json:"payment_method,omitempty" validate:"omitempty,oneof=cash qris transfer"`
	PaidAmount    *int64           `json:"paid_amount,omitempty" validate:"omitempty,gte=0"`
	IsTempo       *bool            `json:"is_tempo,omitempty"`
	TempoDueDate  *time.Time       `json:"tempo_due_date,omitempty"`
}

// DraftResponse pairs the draft with its derived payment summary so the UI
// never computes totals itself.
type DraftResponse struct {
	Draft   *TransactionDraft `json:"draft"`
	Summary PaymentSummary    `json:"summary"`
}

type SubmitResponse struct {
	TransactionID string `json:"transaction_id"`
}
