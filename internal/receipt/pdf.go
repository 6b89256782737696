package receipt

import (
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/ManojM86/GroceryStore-MS/internal/checkout"
)

// WritePDF writes the order confirmation as a printable A4 document with
// the same field set as the CSV receipt.
func WritePDF(w io.Writer, o *checkout.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Order "+o.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Grocery Pickup - Order Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	fields := [][2]string{
		{"Order ID", o.ID},
		{"Name", o.CustomerName},
		{"Phone", o.Phone},
		{"Pickup Date", o.Pickup.Format("2006-01-02")},
		{"Pickup Time", o.Pickup.Format("15:04")},
		{"Payment", PaymentNote},
	}
	for _, f := range fields {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(35, 7, f[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, f[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{40, 60, 18, 35, 35}
	cols := []string{"Item Category", "Item Name", "Qty", "Unit Price", "Line Total"}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 8, c, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, ln := range o.Lines {
		cells := []string{ln.Category, ln.Name, itoa(ln.Qty), Money(ln.UnitPrice), Money(ln.LineTotal)}
		for i, c := range cells {
			align := "L"
			if i >= 2 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(widths[3], 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 8, Money(o.Total), "1", 1, "R", false, 0, "")

	return pdf.Output(w)
}
