package customers

type UpsertCustomerRequest struct {
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Category string  `json:"category" validate:"omitempty,oneof=retail institution project"`
}

type ListResponse struct {
	Customers []Customer `json:"customers"`
	Total     int        `json:"total"`
}
