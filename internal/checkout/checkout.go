// Package checkout re-validates the cart against the current inventory
// snapshot and turns it into an immutable order.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ManojM86/GroceryStore-MS/internal/cart"
	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrMissingCustomerFields = errors.New("name and phone are required")
	ErrPolicyNotAcknowledged = errors.New("in-store payment policy must be acknowledged")
)

// Customer carries the checkout form fields. Acknowledged is the
// no-online-payment checkbox; orders are only placed once it is ticked.
type Customer struct {
	Name         string
	Phone        string
	Pickup       time.Time
	Acknowledged bool
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		return ErrMissingCustomerFields
	}
	if !c.Acknowledged {
		return ErrPolicyNotAcknowledged
	}
	return nil
}

// Order is created only at successful checkout and never mutated after.
type Order struct {
	ID           string
	CustomerName string
	Phone        string
	Pickup       time.Time
	PlacedAt     time.Time
	Lines        []cart.Line
	Total        decimal.Decimal
}

// ValidateStock checks every cart line against current stock, in cart
// order, stopping at the first line that cannot be covered. Items missing
// from the snapshot count as zero stock. The cart is never modified here.
func ValidateStock(ctx context.Context, store *inventory.Store, c *cart.Cart) error {
	lines := c.Lines()
	names := make([]string, 0, len(lines))
	for _, ln := range lines {
		names = append(names, ln.Name)
	}
	avail, err := store.Availability(ctx, names)
	if err != nil {
		return err
	}
	for _, ln := range lines {
		if have := avail[ln.Name]; have < ln.Qty {
			return &cart.InsufficientStockError{Name: ln.Name, Requested: ln.Qty, Available: have}
		}
	}
	return nil
}

// PlaceOrder validates the customer and the stock, then snapshots the
// cart into an Order and clears the cart. On any failure the cart is left
// exactly as it was.
func PlaceOrder(ctx context.Context, store *inventory.Store, c *cart.Cart, cust Customer) (*Order, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}
	if err := cust.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateStock(ctx, store, c); err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Order{
		ID:           NewOrderID(now),
		CustomerName: strings.TrimSpace(cust.Name),
		Phone:        strings.TrimSpace(cust.Phone),
		Pickup:       cust.Pickup,
		PlacedAt:     now,
		Lines:        c.Lines(),
		Total:        c.Total(),
	}
	c.Clear()
	return o, nil
}

// NewOrderID builds a human-readable id that sorts by creation time:
// ORD-<yyyymmdd>-<hhmmss>-<8 hex chars>. The random suffix keeps ids
// unique within the same second.
func NewOrderID(t time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return "ORD-" + t.Format("20060102-150405") + "-" + suffix
}
