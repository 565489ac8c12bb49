package products

type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	CategoryID   *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Unit         string  `json:"unit" validate:"required,max=20"`
	CostPrice    int64   `json:"cost_price" validate:"gte=0"`
	SellPrice    int64   `json:"sell_price" validate:"gte=0"`
	Stock        int     `json:"stock" validate:"gte=0"`
	MinStock     int     `json:"min_stock" validate:"gte=0"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Description  *string `json:"description,omitempty"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type ListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
