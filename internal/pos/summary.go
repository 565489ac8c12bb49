package pos

// PaymentStatus is derived from paid-vs-total amounts, never stored on the
// draft itself.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

// PaymentSummary is a fully derived view of a draft. Remaining may be
// negative, meaning change is due back to the customer.
type PaymentSummary struct {
	ProductsTotal int64         `json:"products_total"`
	ServicesTotal int64         `json:"services_total"`
	GrandTotal    int64         `json:"grand_total"`
	PaidAmount    int64         `json:"paid_amount"`
	Remaining     int64         `json:"remaining"`
	Status        PaymentStatus `json:"status"`
}

// ResolveStatus maps (total, paid) to a payment status. A zero-total draft
// resolves to unpaid even when nothing is owed; an empty cart must never be
// presentable as paid.
func ResolveStatus(grandTotal, paidAmount int64) PaymentStatus {
	switch {
	case grandTotal > 0 && paidAmount >= grandTotal:
		return StatusPaid
	case paidAmount > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Summary walks every location and sums retail lines into ProductsTotal and
// labor+parts into ServicesTotal. It recomputes from the raw collections
// rather than trusting the locations' cached subtotals.
func Summary(draft *TransactionDraft) PaymentSummary {
	var productsTotal, servicesTotal int64
	for _, loc := range draft.Locations {
		for _, item := range loc.Items {
			productsTotal += item.Subtotal
		}
		for _, svc := range loc.Services {
			servicesTotal += ServiceTotal(svc.LaborCost, svc.Parts)
		}
	}

	grandTotal := productsTotal + servicesTotal
	return PaymentSummary{
		ProductsTotal: productsTotal,
		ServicesTotal: servicesTotal,
		GrandTotal:    grandTotal,
		PaidAmount:    draft.PaidAmount,
		Remaining:     grandTotal - draft.PaidAmount,
		Status:        ResolveStatus(grandTotal, draft.PaidAmount),
	}
}
