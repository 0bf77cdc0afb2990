package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestAddMergesWithoutRecap(t *testing.T) {
	var c Cart
	c.Add("margherita", "Margherita", price("12.50"), 10)
	c.Add("margherita", "Margherita", price("12.50"), 5)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("want 1 merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 15 {
		t.Fatalf("merged quantity should accumulate past the per-add cap: want 15, got %d", lines[0].Quantity)
	}
}

func TestAddClampsSingleRequest(t *testing.T) {
	var c Cart
	c.Add("tiramisu", "Tiramisu", price("6.00"), 15)
	if got := c.Lines()[0].Quantity; got != 10 {
		t.Fatalf("single add should clamp to 10, got %d", got)
	}

	c.Add("espresso", "Espresso", price("2.50"), 0)
	if got := c.Lines()[1].Quantity; got != 1 {
		t.Fatalf("non-positive add should clamp to 1, got %d", got)
	}
}

func TestChangeQuantityRemovesAtZeroOrBelow(t *testing.T) {
	var c Cart
	c.Add("carbonara", "Carbonara", price("14.00"), 3)
	c.ChangeQuantity("carbonara", -100)

	if !c.Empty() {
		t.Fatalf("line should be removed when quantity falls to zero or below: %+v", c.Lines())
	}
}

func TestChangeQuantityHasNoUpperClamp(t *testing.T) {
	var c Cart
	c.Add("bruschetta", "Bruschetta", price("5.00"), 2)
	c.ChangeQuantity("bruschetta", 20)
	if got := c.Lines()[0].Quantity; got != 22 {
		t.Fatalf("delta adjust must not clamp upward: want 22, got %d", got)
	}
}

func TestChangeQuantityMissingLineIsNoop(t *testing.T) {
	var c Cart
	c.Add("bruschetta", "Bruschetta", price("5.00"), 2)
	c.ChangeQuantity("nope", 1)
	if got := c.ItemCount(); got != 2 {
		t.Fatalf("missing line adjust changed the cart: count=%d", got)
	}
}

func TestTotalExact(t *testing.T) {
	var c Cart
	c.Add("a", "A", price("10.00"), 2)
	c.Add("b", "B", price("5.50"), 1)

	want := price("25.50")
	if !c.Total().Equal(want) {
		t.Fatalf("want total %s, got %s", want, c.Total())
	}
	if c.ItemCount() != 3 {
		t.Fatalf("want item count 3, got %d", c.ItemCount())
	}
}

func TestRemoveAndClear(t *testing.T) {
	var c Cart
	c.Add("a", "A", price("10.00"), 2)
	c.Add("b", "B", price("5.50"), 1)

	c.Remove("a")
	if len(c.Lines()) != 1 || c.Lines()[0].ItemID != "b" {
		t.Fatalf("remove left wrong lines: %+v", c.Lines())
	}
	// removing an absent line is not an error
	c.Remove("a")

	c.Clear()
	if !c.Empty() || c.ItemCount() != 0 {
		t.Fatal("clear should empty the cart")
	}
}

func TestOrderPreservedForDisplay(t *testing.T) {
	var c Cart
	c.Add("b", "B", price("1.00"), 1)
	c.Add("a", "A", price("1.00"), 1)
	c.Add("b", "B", price("1.00"), 1)

	lines := c.Lines()
	if lines[0].ItemID != "b" || lines[1].ItemID != "a" {
		t.Fatalf("insertion order not preserved: %+v", lines)
	}
}

func TestStoreIsolatesSessions(t *testing.T) {
	s := NewStore()
	_ = s.Do("sid-1", func(c *Cart) error {
		c.Add("a", "A", price("3.00"), 1)
		return nil
	})
	_ = s.Do("sid-2", func(c *Cart) error {
		if !c.Empty() {
			t.Fatal("second session should start with an empty cart")
		}
		return nil
	})

	s.Drop("sid-1")
	_ = s.Do("sid-1", func(c *Cart) error {
		if !c.Empty() {
			t.Fatal("dropped session cart should be gone")
		}
		return nil
	})
}
