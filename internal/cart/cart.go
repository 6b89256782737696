// Package cart holds the per-session cart: one aggregated line per
// distinct item, priced at the moment the item was first added.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrOutOfStock      = errors.New("item is out of stock")
)

// InsufficientStockError reports the first line that cannot be covered by
// current stock, either at add time or at checkout.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// Line is one aggregated cart entry. UnitPrice is the snapshot taken when
// the item first entered the cart; LineTotal is always Qty x UnitPrice
// rounded to 2 decimal places.
type Line struct {
	Key       string
	ID        *int64
	Category  string
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Cart is an insertion-ordered mapping of item identity to Line. Not safe
// for concurrent use; each session owns exactly one.
type Cart struct {
	lines map[string]*Line
	order []string
}

func New() *Cart {
	return &Cart{lines: map[string]*Line{}}
}

// Add puts qty units of item into the cart. Re-adding the same identity
// increments the existing line and recomputes its total from the price
// recorded at first add. The quantity is checked against the item's stock
// counting what the cart already holds.
func (c *Cart) Add(item inventory.Item, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if item.Stock <= 0 {
		return ErrOutOfStock
	}

	key := item.Key()
	held := 0
	if ln, ok := c.lines[key]; ok {
		held = ln.Qty
	}
	if held+qty > item.Stock {
		return &InsufficientStockError{Name: item.Name, Requested: held + qty, Available: item.Stock}
	}

	if ln, ok := c.lines[key]; ok {
		ln.Qty += qty
		ln.LineTotal = lineTotal(ln.UnitPrice, ln.Qty)
		return nil
	}
	c.lines[key] = &Line{
		Key:       key,
		ID:        item.ID,
		Category:  item.Category,
		Name:      item.Name,
		Qty:       qty,
		UnitPrice: item.Price,
		LineTotal: lineTotal(item.Price, qty),
	}
	c.order = append(c.order, key)
	return nil
}

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.lines[k])
	}
	return out
}

// Total is the sum of line totals rounded to currency precision.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, k := range c.order {
		sum = sum.Add(c.lines[k].LineTotal)
	}
	return sum.Round(2)
}

func (c *Cart) Len() int    { return len(c.order) }
func (c *Cart) Empty() bool { return len(c.order) == 0 }

// Clear empties the cart. There is no per-line removal; the only way out
// is the full clear, used after a placed order or on explicit request.
func (c *Cart) Clear() {
	c.lines = map[string]*Line{}
	c.order = nil
}

func lineTotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
