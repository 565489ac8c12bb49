package serviceorders

type CreateItemRequest struct {
	DeviceName   string `json:"device_name" validate:"required"`
	DeviceSerial string `json:"device_serial,omitempty"`
	Description  string `json:"description,omitempty"`
	LaborCost    int64  `json:"labor_cost" validate:"min=0"`
	SLACategory  string `json:"sla_category,omitempty"`
	TechnicianID *int64 `json:"technician_id,omitempty"`
}

type CreateRequest struct {
	CustomerID  *string             `json:"customer_id,omitempty" validate:"omitempty,uuid4"`
	Description string              `json:"description,omitempty"`
	Items       []CreateItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateResponse struct {
	OrderID string `json:"order_id"`
}

type UpdateItemStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
	Diagnosis string `json:"diagnosis,omitempty"`
}

type AssignTechnicianRequest struct {
	TechnicianID int64 `json:"technician_id" validate:"required"`
}

type AssignResponse struct {
	AssignmentID string `json:"assignment_id"`
}

type RejectAssignmentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type AddPartRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type ListResponse struct {
	Orders []ServiceOrder `json:"orders"`
	Total  int            `json:"total"`
}
