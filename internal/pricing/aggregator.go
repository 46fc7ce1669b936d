// Package pricing derives price breakdowns from a cart. It is pure: no I/O,
// no state, and the same inputs always produce the same breakdown.
package pricing

import "github.com/luthfiadilal/pos/internal/domain"

// DefaultPointValue is the rupiah value of one loyalty point.
const DefaultPointValue = 1000.0

// ComputeBreakdown walks every line and every topping slot of the cart and
// accumulates subtotal, PB1, PPN and service independently. Non-free topping
// selections contribute their own components once per occurrence. The points
// discount applies only to the grand total and is clamped so the grand total
// never goes negative. An empty cart yields an all-zero breakdown.
func ComputeBreakdown(cart *domain.Cart, discountPoints int, pointValue float64) domain.PriceBreakdown {
	var b domain.PriceBreakdown
	if cart == nil {
		return b
	}

	for _, line := range cart.Lines() {
		qty := float64(line.Quantity)
		b.Subtotal += line.Product.Price * qty
		b.TaxPB1 += line.Product.PB1 * qty
		b.TaxPPN += line.Product.PPN * qty
		b.Service += line.Product.Service * qty

		for _, slot := range line.Slots {
			for _, code := range slot {
				if domain.IsNoTopping(code) {
					continue
				}
				topping, ok := line.Product.Topping(code)
				if !ok || topping.Free {
					continue
				}
				b.Subtotal += topping.Price
				b.TaxPB1 += topping.PB1
				b.TaxPPN += topping.PPN
				b.Service += topping.Service
			}
		}
	}

	total := b.Subtotal + b.TaxPB1 + b.TaxPPN + b.Service

	discount := float64(discountPoints) * pointValue
	if discount < 0 {
		discount = 0
	}
	if discount > total {
		discount = total
	}

	b.Discount = discount
	b.GrandTotal = total - discount
	return b
}
