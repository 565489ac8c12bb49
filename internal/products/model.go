package products

import (
	"errors"
	"time"
)

// ErrInsufficientStock indicates a requested quantity exceeds current stock.
var ErrInsufficientStock = errors.New("products: insufficient stock")

// Product represents a sellable item or spare part.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CategoryID   *int64    `json:"category_id,omitempty"`
	Unit         string    `json:"unit"`
	CostPrice    int64     `json:"cost_price"`
	SellPrice    int64     `json:"sell_price"`
	Stock        int       `json:"stock"`
	MinStock     int       `json:"min_stock"`
	SerialNumber *string   `json:"serial_number,omitempty"`
	Description  *string   `json:"description,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LowStock reports whether the product is at or below its reorder point.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search     string
	CategoryID *int64
	IsActive   *bool
	LowStock   bool
	Limit      int
	Offset     int
}
