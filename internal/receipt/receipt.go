// Package receipt renders a confirmed order as a downloadable document.
// Both formats carry the same field set; nothing here holds state.
package receipt

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/ManojM86/GroceryStore-MS/internal/checkout"
)

// PaymentNote appears on every receipt; the store takes no online payment.
const PaymentNote = "Payment in-store only"

// Filename names the download after the order id, e.g.
// ORD-20250102-170000-AB12CD34_receipt.csv.
func Filename(o *checkout.Order, ext string) string {
	return o.ID + "_receipt." + ext
}

// Money renders a decimal amount as $#,###.## .
func Money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return "$" + humanize.FormatFloat("#,###.##", f)
}

func itoa(n int) string { return strconv.Itoa(n) }
