package domain

// ToppingSlot holds the topping codes chosen for one physical unit of a line.
type ToppingSlot []string

// CartLine is one product in the cart with a per-unit topping assignment.
// Invariant: len(Slots) == Quantity after every cart operation.
type CartLine struct {
	Product  Product      `json:"product"`
	Quantity int          `json:"quantity"`
	Slots    []ToppingSlot `json:"topping_slots"`
}

// ToppingCount is a grouped view of one line's selections, used for receipts
// and the cart panel. The per-unit Slots stay authoritative for pricing.
type ToppingCount struct {
	Code  string `json:"topping_cd"`
	Name  string `json:"topping_nm"`
	Count int    `json:"count"`
}

// ToppingCounts aggregates the line's selections by topping code, preserving
// first-seen order. Sentinel and unknown codes are skipped.
func (l *CartLine) ToppingCounts() []ToppingCount {
	var counts []ToppingCount
	index := make(map[string]int)
	for _, slot := range l.Slots {
		for _, code := range slot {
			if IsNoTopping(code) {
				continue
			}
			t, ok := l.Product.Topping(code)
			if !ok {
				continue
			}
			if i, seen := index[code]; seen {
				counts[i].Count++
				continue
			}
			index[code] = len(counts)
			counts = append(counts, ToppingCount{Code: t.Code, Name: t.Name, Count: 1})
		}
	}
	return counts
}

// Cart is an ordered set of lines, unique by product code. It is owned by a
// single checkout context and mutated only through its methods; there is no
// internal locking because one cashier drives one cart at a time.
type Cart struct {
	lines []*CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalQuantity is the number of physical units across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Lines returns value copies of the cart lines in insertion order. Mutating
// the returned slice does not touch the cart.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = CartLine{
			Product:  l.Product,
			Quantity: l.Quantity,
			Slots:    copySlots(l.Slots),
		}
	}
	return out
}

// Line returns a copy of the line for the given product code.
func (c *Cart) Line(productCode string) (CartLine, bool) {
	l := c.find(productCode)
	if l == nil {
		return CartLine{}, false
	}
	return CartLine{Product: l.Product, Quantity: l.Quantity, Slots: copySlots(l.Slots)}, true
}

// AddLine adds qty units of product with the given per-unit topping slots.
// If a line for the product already exists its quantity grows and the
// incoming slots are appended after the existing ones. The slot list is
// padded or truncated so that the slot count always equals the quantity.
func (c *Cart) AddLine(product Product, qty int, slots []ToppingSlot) {
	if qty <= 0 {
		return
	}
	slots = normalizeSlots(slots, qty)

	if l := c.find(product.Code); l != nil {
		l.Quantity += qty
		l.Slots = append(l.Slots, slots...)
		return
	}

	c.lines = append(c.lines, &CartLine{
		Product:  product,
		Quantity: qty,
		Slots:    slots,
	})
}

// RemoveLine deletes the line if present. Removing an absent line is a no-op.
func (c *Cart) RemoveLine(productCode string) {
	for i, l := range c.lines {
		if l.Product.Code == productCode {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// AdjustQuantity changes a line's quantity by delta, clamped at zero. Each
// increment appends an empty topping slot; decrements drop trailing slots, so
// the most recently added units lose their assignment first. A line reaching
// zero is removed. Adjusting an absent line is a no-op.
func (c *Cart) AdjustQuantity(productCode string, delta int) {
	l := c.find(productCode)
	if l == nil {
		return
	}

	newQty := l.Quantity + delta
	if newQty <= 0 {
		c.RemoveLine(productCode)
		return
	}

	for i := l.Quantity; i < newQty; i++ {
		l.Slots = append(l.Slots, ToppingSlot{})
	}
	if newQty < len(l.Slots) {
		l.Slots = l.Slots[:newQty]
	}
	l.Quantity = newQty
}

// SetSlotToppings replaces the selection for exactly one unit. It reports
// false when the line or slot index does not exist so the caller can log the
// programming-error signal; it never fails loudly.
func (c *Cart) SetSlotToppings(productCode string, slotIndex int, toppingCodes []string) bool {
	l := c.find(productCode)
	if l == nil {
		return false
	}
	if slotIndex < 0 || slotIndex >= len(l.Slots) {
		return false
	}
	slot := make(ToppingSlot, len(toppingCodes))
	copy(slot, toppingCodes)
	l.Slots[slotIndex] = slot
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) find(productCode string) *CartLine {
	for _, l := range c.lines {
		if l.Product.Code == productCode {
			return l
		}
	}
	return nil
}

func normalizeSlots(slots []ToppingSlot, qty int) []ToppingSlot {
	out := make([]ToppingSlot, 0, qty)
	for i := 0; i < qty && i < len(slots); i++ {
		slot := make(ToppingSlot, len(slots[i]))
		copy(slot, slots[i])
		out = append(out, slot)
	}
	for len(out) < qty {
		out = append(out, ToppingSlot{})
	}
	return out
}

func copySlots(slots []ToppingSlot) []ToppingSlot {
	out := make([]ToppingSlot, len(slots))
	for i, s := range slots {
		out[i] = make(ToppingSlot, len(s))
		copy(out[i], s)
	}
	return out
}
