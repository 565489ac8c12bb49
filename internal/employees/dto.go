package employees

type CreateEmployeeRequest struct {
	Name        string  `json:"name" validate:"required"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	MaxWorkload int     `json:"max_workload" validate:"required,min=1"`
}

type SetAvailabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

type LockQueueRequest struct {
	Reason string `json:"reason"`
}

type AdjustWorkloadRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type ListResponse struct {
	Employees []Employee `json:"employees"`
}
