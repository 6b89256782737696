package receipt

import (
	"encoding/csv"
	"io"

	"github.com/ManojM86/GroceryStore-MS/internal/checkout"
)

// WriteCSV writes the order confirmation as a delimited text document: a
// Field/Value header block, then the itemized table, then the grand total.
func WriteCSV(w io.Writer, o *checkout.Order) error {
	cw := csv.NewWriter(w)

	header := [][]string{
		{"Field", "Value"},
		{"Order ID", o.ID},
		{"Name", o.CustomerName},
		{"Phone", o.Phone},
		{"Pickup Date", o.Pickup.Format("2006-01-02")},
		{"Pickup Time", o.Pickup.Format("15:04")},
		{"Payment", PaymentNote},
		{},
	}
	for _, rec := range header {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{"Item Category", "Item Name", "Qty", "Unit Price", "Line Total"}); err != nil {
		return err
	}
	for _, ln := range o.Lines {
		rec := []string{ln.Category, ln.Name, itoa(ln.Qty), Money(ln.UnitPrice), Money(ln.LineTotal)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "", "", "Total", Money(o.Total)}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
