package transactions

type AddPaymentRequest struct {
	Amount int64  `json:"amount" validate:"required,min=1"`
	Method string `json:"method" validate:"required,oneof=cash qris transfer"`
	Notes  string `json:"notes,omitempty"`
}

// TransactionView decorates a transaction with formatted Rupiah strings for
// receipts and listings.
type TransactionView struct {
	Transaction
	TotalDisplay       string `json:"total_display"`
	PaidDisplay        string `json:"paid_display"`
	OutstandingDisplay string `json:"outstanding_display"`
}

func NewTransactionView(t Transaction) TransactionView {
	return TransactionView{
		Transaction:        t,
		TotalDisplay:       FormatAmount(t.TotalAmount),
		PaidDisplay:        FormatAmount(t.PaidAmount),
		OutstandingDisplay: FormatAmount(t.Outstanding()),
	}
}

func newTransactionViews(items []Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(items))
	for _, t := range items {
		views = append(views, NewTransactionView(t))
	}
	return views
}

type ListResponse struct {
	Transactions []TransactionView `json:"transactions"`
	Total        int               `json:"total"`
}

type PaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

type TempoDueResponse struct {
	Transactions []TransactionView `json:"transactions"`
}
