package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// All monetary values in the system are whole Rupiah stored as int64;
// formatting is the only place a locale gets involved.
var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount with Indonesian digit grouping,
// e.g. 1500000 -> "Rp 1.500.000".
func FormatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp %d", amount)
}
