package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(code string, toppings ...ToppingOption) Product {
	return Product{
		Code:            code,
		Name:            "Product " + code,
		PriceComponents: PriceComponents{Price: 10000},
		Available:       true,
		Toppings:        toppings,
	}
}

// slotCountMatchesQuantity asserts the core cart invariant on every line.
func slotCountMatchesQuantity(t *testing.T, c *Cart) {
	t.Helper()
	for _, line := range c.Lines() {
		assert.Equal(t, line.Quantity, len(line.Slots),
			"line %s: slot count must equal quantity", line.Product.Code)
	}
}

func TestAddLine_NewAndMerge(t *testing.T) {
	c := NewCart()
	p := testProduct("P1")

	c.AddLine(p, 1, []ToppingSlot{{"T1"}})
	c.AddLine(p, 2, []ToppingSlot{{"T2"}, {}})

	require.Equal(t, 1, c.Len())
	line, ok := c.Line("P1")
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	// existing slots stay first, incoming slots append after
	assert.Equal(t, []ToppingSlot{{"T1"}, {"T2"}, {}}, line.Slots)
	slotCountMatchesQuantity(t, c)
}

func TestAddLine_PadsMissingSlots(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 3, []ToppingSlot{{"T1"}})

	line, _ := c.Line("P1")
	require.Len(t, line.Slots, 3)
	assert.Equal(t, ToppingSlot{"T1"}, line.Slots[0])
	assert.Empty(t, line.Slots[1])
	assert.Empty(t, line.Slots[2])
}

func TestAddLine_ZeroQuantityIsNoop(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 0, nil)
	assert.True(t, c.IsEmpty())
}

func TestRemoveLine(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 1, nil)
	c.AddLine(testProduct("P2"), 1, nil)

	c.RemoveLine("P1")
	assert.Equal(t, 1, c.Len())
	_, ok := c.Line("P1")
	assert.False(t, ok)

	// removing an absent line is not an error
	c.RemoveLine("P1")
	assert.Equal(t, 1, c.Len())
}

func TestAdjustQuantity_IncrementAppendsEmptySlot(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 1, []ToppingSlot{{"T1"}})

	c.AdjustQuantity("P1", 2)

	line, _ := c.Line("P1")
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, []ToppingSlot{{"T1"}, {}, {}}, line.Slots)
	slotCountMatchesQuantity(t, c)
}

func TestAdjustQuantity_DecrementDropsTrailingSlots(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 3, []ToppingSlot{{"T1"}, {"T2"}, {"T3"}})

	// quantity 3 -> 2: slot index 2 is discarded, slots 0-1 preserved
	c.AdjustQuantity("P1", -1)

	line, _ := c.Line("P1")
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, []ToppingSlot{{"T1"}, {"T2"}}, line.Slots)
	slotCountMatchesQuantity(t, c)
}

func TestAdjustQuantity_ZeroRemovesLine(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 2, nil)

	c.AdjustQuantity("P1", -2)
	assert.True(t, c.IsEmpty())

	// over-decrement clamps at zero, still just removes the line
	c.AddLine(testProduct("P1"), 1, nil)
	c.AdjustQuantity("P1", -5)
	assert.True(t, c.IsEmpty())
}

func TestReaddingProductResetsSlots(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 2, []ToppingSlot{{"T1"}, {"T2"}})
	c.RemoveLine("P1")
	c.AddLine(testProduct("P1"), 1, nil)

	line, _ := c.Line("P1")
	assert.Equal(t, 1, line.Quantity)
	// no topping leakage from the removed line
	assert.Equal(t, []ToppingSlot{{}}, line.Slots)
}

func TestSetSlotToppings(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 2, nil)

	ok := c.SetSlotToppings("P1", 1, []string{"T1", "T2"})
	require.True(t, ok)

	line, _ := c.Line("P1")
	assert.Equal(t, ToppingSlot{"T1", "T2"}, line.Slots[1])
	assert.Empty(t, line.Slots[0])
}

func TestSetSlotToppings_BadTargetsAreSilentNoops(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 1, nil)

	assert.False(t, c.SetSlotToppings("MISSING", 0, []string{"T1"}))
	assert.False(t, c.SetSlotToppings("P1", 1, []string{"T1"}))
	assert.False(t, c.SetSlotToppings("P1", -1, []string{"T1"}))

	line, _ := c.Line("P1")
	assert.Empty(t, line.Slots[0])
}

func TestInvariantHoldsAcrossMutationSequence(t *testing.T) {
	c := NewCart()
	p1 := testProduct("P1")
	p2 := testProduct("P2")

	c.AddLine(p1, 2, []ToppingSlot{{"T1"}, {}})
	slotCountMatchesQuantity(t, c)
	c.AddLine(p2, 1, nil)
	slotCountMatchesQuantity(t, c)
	c.AdjustQuantity("P1", 3)
	slotCountMatchesQuantity(t, c)
	c.SetSlotToppings("P1", 4, []string{"T2"})
	slotCountMatchesQuantity(t, c)
	c.AdjustQuantity("P1", -4)
	slotCountMatchesQuantity(t, c)
	c.AddLine(p1, 2, []ToppingSlot{{"T3"}, {"T3"}})
	slotCountMatchesQuantity(t, c)
	c.AdjustQuantity("P2", -1)
	slotCountMatchesQuantity(t, c)

	assert.Equal(t, 3, c.TotalQuantity())
}

func TestLinesReturnsCopies(t *testing.T) {
	c := NewCart()
	c.AddLine(testProduct("P1"), 1, []ToppingSlot{{"T1"}})

	lines := c.Lines()
	lines[0].Slots[0][0] = "MUTATED"

	line, _ := c.Line("P1")
	assert.Equal(t, "T1", line.Slots[0][0])
}

func TestToppingCounts(t *testing.T) {
	p := testProduct("P1",
		ToppingOption{Code: "T1", Name: "Cheese"},
		ToppingOption{Code: "T2", Name: "Boba"},
	)
	c := NewCart()
	c.AddLine(p, 3, []ToppingSlot{{"T1"}, {"T1", "T2"}, {NoToppingCode}})

	line, _ := c.Line("P1")
	counts := line.ToppingCounts()
	require.Len(t, counts, 2)
	assert.Equal(t, ToppingCount{Code: "T1", Name: "Cheese", Count: 2}, counts[0])
	assert.Equal(t, ToppingCount{Code: "T2", Name: "Boba", Count: 1}, counts[1])
}
