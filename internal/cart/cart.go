package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidItem is returned when an add refers to a menu item that does not
// exist or is not currently available.
var ErrInvalidItem = errors.New("unknown or unavailable menu item")

// Per-request quantity window for Add. The clamp applies to each add request
// on its own; an existing line may accumulate past the ceiling through
// repeated adds, and ChangeQuantity applies no ceiling at all.
const (
	minAddQty = 1
	maxAddQty = 10
)

type Line struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart holds a customer's selected lines in insertion order. It is a plain
// value type; Store serializes access per session.
type Cart struct {
	lines []Line
}

// Add merges qty (clamped to [1,10]) into an existing line for the item, or
// appends a new line. Merging does not re-clamp the accumulated quantity.
func (c *Cart) Add(itemID, name string, unitPrice decimal.Decimal, qty int) {
	if qty < minAddQty {
		qty = minAddQty
	}
	if qty > maxAddQty {
		qty = maxAddQty
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity += qty
			return
		}
	}
	c.lines = append(c.lines, Line{ItemID: itemID, Name: name, UnitPrice: unitPrice, Quantity: qty})
}

// ChangeQuantity adjusts an existing line by delta. A result of zero or less
// removes the line. No upper bound is applied here.
func (c *Cart) ChangeQuantity(itemID string, delta int) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity += delta
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return
		}
	}
}

// Remove deletes the line for itemID; absent lines are a no-op.
func (c *Cart) Remove(itemID string) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) Clear() { c.lines = nil }

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}
