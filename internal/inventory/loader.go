package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// RequiredColumns are the headers every inventory sheet must carry.
var RequiredColumns = []string{
	"S.No",
	"Item Category",
	"Item Name",
	"Quantity available in stock",
	"Price",
}

type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// ReadFile loads the inventory from a CSV file on disk.
func ReadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadUpload dispatches on the uploaded filename's extension: .xlsx and
// .xls go through the spreadsheet reader, everything else is treated as
// delimited text.
func ReadUpload(filename string, r io.Reader) ([]Item, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return ReadXLSX(r)
	default:
		return ReadCSV(r)
	}
}

func ReadCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return normalize(records)
}

func ReadXLSX(r io.Reader) ([]Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return normalize(rows)
}

// normalize validates the header row and coerces the cells. Unparseable
// quantities and prices become zero; rows without a name are dropped.
func normalize(records [][]string) ([]Item, error) {
	if len(records) == 0 {
		return nil, &MissingColumnsError{Columns: RequiredColumns}
	}

	idx := map[string]int{}
	for i, h := range records[0] {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	items := make([]Item, 0, len(records)-1)
	for _, rec := range records[1:] {
		name := strings.TrimSpace(cell(rec, idx["Item Name"]))
		if name == "" {
			continue
		}
		it := Item{
			Category: strings.TrimSpace(cell(rec, idx["Item Category"])),
			Name:     name,
			Stock:    parseStock(cell(rec, idx["Quantity available in stock"])),
			Price:    parsePrice(cell(rec, idx["Price"])),
		}
		if id, err := strconv.ParseInt(strings.TrimSpace(cell(rec, idx["S.No"])), 10, 64); err == nil {
			it.ID = &id
		}
		items = append(items, it)
	}
	return items, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseStock(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
