package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is one row of the loaded inventory. Immutable after load; the
// snapshot is the source of truth for every stock check in the session.
type Item struct {
	ID       *int64
	Category string
	Name     string
	Stock    int
	Price    decimal.Decimal
}

// Key returns the cart identity for the item: the sheet's row number when
// present, otherwise the item name.
func (it Item) Key() string {
	if it.ID != nil {
		return fmt.Sprintf("id:%d", *it.ID)
	}
	return "name:" + it.Name
}
