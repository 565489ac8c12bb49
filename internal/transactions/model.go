package transactions

import (
	"time"

	"github.com/elektra-pos/elektra-pos/internal/pos"
)

type Transaction struct {
	ID            string            `json:"id" db:"id"`
	CustomerID    *string           `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName  string            `json:"customer_name" db:"customer_name"`
	Date          time.Time         `json:"date" db:"date"`
	TotalAmount   int64             `json:"total_amount" db:"total_amount"`
	PaidAmount    int64             `json:"paid_amount" db:"paid_amount"`
	PaymentStatus pos.PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod pos.PaymentMethod `json:"payment_method" db:"payment_method"`
	Notes         *string           `json:"notes,omitempty" db:"notes"`
	ProjectName   *string           `json:"project_name,omitempty" db:"project_name"`
	IsTempo       bool              `json:"is_tempo" db:"is_tempo"`
	TempoDueDate  *time.Time        `json:"tempo_due_date,omitempty" db:"tempo_due_date"`
	CreatedBy     *string           `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	Items         []SaleItem        `json:"items,omitempty" db:"-"`
	Details       []Detail          `json:"details,omitempty" db:"-"`
}

// Outstanding is the amount still owed on the transaction.
func (t Transaction) Outstanding() int64 {
	if t.PaidAmount >= t.TotalAmount {
		return 0
	}
	return t.TotalAmount - t.PaidAmount
}

type SaleItem struct {
	ID          string  `json:"id" db:"id"`
	DetailID    *string `json:"transaction_detail_id,omitempty" db:"transaction_detail_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	CostPrice   int64   `json:"cost_price" db:"cost_price"`
	SellPrice   int64   `json:"sell_price" db:"sell_price"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Subtotal    int64   `json:"subtotal" db:"subtotal"`
}

// Detail is one location breakdown row on a project transaction.
type Detail struct {
	ID           string  `json:"id" db:"id"`
	LocationName string  `json:"location_name" db:"location_name"`
	Description  *string `json:"description,omitempty" db:"description"`
	Subtotal     int64   `json:"subtotal" db:"subtotal"`
}

type Payment struct {
	ID        string            `json:"id" db:"id"`
	Amount    int64             `json:"amount" db:"amount"`
	Date      time.Time         `json:"date" db:"date"`
	Method    pos.PaymentMethod `json:"method" db:"method"`
	Notes     *string           `json:"notes,omitempty" db:"notes"`
	CreatedBy *string           `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
