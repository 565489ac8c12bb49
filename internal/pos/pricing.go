package pos

import "errors"

var (
	// ErrInvalidQuantity rejects quantities below one.
	ErrInvalidQuantity = errors.New("pos: quantity must be at least 1")
	// ErrNegativePrice rejects negative unit prices.
	ErrNegativePrice = errors.New("pos: unit price must not be negative")
)

// ItemSubtotal multiplies a unit price by a quantity. Prices are whole
// Rupiah, so the arithmetic is exact integer multiplication.
func ItemSubtotal(unitPrice int64, quantity int) (int64, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return 0, ErrNegativePrice
	}
	return unitPrice * int64(quantity), nil
}

// ServiceTotal sums labor cost and the subtotals of consumed parts.
// The parts list may be empty, in which case the total is the labor cost.
func ServiceTotal(laborCost int64, parts []CartItem) int64 {
	total := laborCost
	for _, part := range parts {
		total += part.Subtotal
	}
	return total
}

// LocationSubtotal recomputes a location's subtotal from its current items
// and services. It is pure: every mutation path calls it in full rather than
// patching the stored value, so the cached subtotal can never drift.
func LocationSubtotal(loc LocationDetail) int64 {
	var total int64
	for _, item := range loc.Items {
		total += item.Subtotal
	}
	for _, svc := range loc.Services {
		total += ServiceTotal(svc.LaborCost, svc.Parts)
	}
	return total
}
