package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManojM86/GroceryStore-MS/internal/inventory"
)

func item(id int64, category, name string, stock int, price string) inventory.Item {
	return inventory.Item{
		ID:       &id,
		Category: category,
		Name:     name,
		Stock:    stock,
		Price:    decimal.RequireFromString(price),
	}
}

func TestAddMergesSameItem(t *testing.T) {
	c := New()
	apple := item(1, "Fruits", "Apple", 10, "0.50")

	require.NoError(t, c.Add(apple, 3))
	require.NoError(t, c.Add(apple, 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Qty)
	assert.Equal(t, "3.00", lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "3.00", c.Total().StringFixed(2))
}

func TestAddSnapshotsPriceAtFirstAdd(t *testing.T) {
	c := New()
	apple := item(1, "Fruits", "Apple", 10, "0.50")
	require.NoError(t, c.Add(apple, 2))

	// sheet price changes between adds; the cart keeps the first snapshot
	repriced := apple
	repriced.Price = decimal.RequireFromString("9.99")
	require.NoError(t, c.Add(repriced, 1))

	lines := c.Lines()
	assert.Equal(t, "0.50", lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "1.50", lines[0].LineTotal.StringFixed(2))
}

func TestAddRejectsBadQuantity(t *testing.T) {
	c := New()
	apple := item(1, "Fruits", "Apple", 10, "0.50")

	assert.ErrorIs(t, c.Add(apple, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(apple, -2), ErrInvalidQuantity)
	assert.True(t, c.Empty())
}

func TestAddRejectsOutOfStock(t *testing.T) {
	c := New()
	bagels := item(8, "Bakery", "Bagels", 0, "3.50")

	assert.ErrorIs(t, c.Add(bagels, 1), ErrOutOfStock)
	assert.True(t, c.Empty())
}

func TestAddRejectsBeyondStock(t *testing.T) {
	c := New()
	milk := item(5, "Dairy", "Milk", 3, "2.49")

	err := c.Add(milk, 4)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Milk", insufficient.Name)
	assert.Equal(t, 4, insufficient.Requested)
	assert.Equal(t, 3, insufficient.Available)

	// counting what the cart already holds
	require.NoError(t, c.Add(milk, 2))
	err = c.Add(milk, 2)
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Requested)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Qty, "failed add leaves the cart unchanged")
}

func TestTotalRounding(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "Pantry", "Rice", 100, "0.333"), 3))
	require.NoError(t, c.Add(item(2, "Pantry", "Beans", 100, "0.125"), 2))

	// 0.333*3 = 0.999 -> 1.00 ; 0.125*2 = 0.25
	assert.Equal(t, "1.25", c.Total().StringFixed(2))

	sum := decimal.Zero
	for _, ln := range c.Lines() {
		sum = sum.Add(ln.LineTotal)
	}
	assert.True(t, c.Total().Equal(sum.Round(2)), "total equals sum of line totals")
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(3, "Dairy", "Milk", 10, "2.49"), 1))
	require.NoError(t, c.Add(item(1, "Fruits", "Apple", 10, "0.50"), 1))
	require.NoError(t, c.Add(item(2, "Fruits", "Banana", 10, "0.25"), 1))

	var names []string
	for _, ln := range c.Lines() {
		names = append(names, ln.Name)
	}
	assert.Equal(t, []string{"Milk", "Apple", "Banana"}, names)
}

func TestKeyFallsBackToName(t *testing.T) {
	c := New()
	noID := inventory.Item{Category: "Misc", Name: "Loose Leaf Tea", Stock: 5,
		Price: decimal.RequireFromString("4.00")}

	require.NoError(t, c.Add(noID, 1))
	require.NoError(t, c.Add(noID, 2))
	lines := c.Lines()
	require.Len(t, lines, 1, "id-less rows still merge by name")
	assert.Equal(t, 3, lines[0].Qty)
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(1, "Fruits", "Apple", 10, "0.50"), 2))
	require.Equal(t, 1, c.Len())

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, "0.00", c.Total().StringFixed(2))

	// cart remains usable after clear
	require.NoError(t, c.Add(item(1, "Fruits", "Apple", 10, "0.50"), 1))
	assert.Equal(t, 1, c.Len())
}
