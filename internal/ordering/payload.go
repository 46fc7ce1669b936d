package ordering

import (
	"sort"
	"strings"

	"github.com/luthfiadilal/pos/internal/domain"
)

// OrderTopping is one deduplicated topping inside an order unit. Quantity is
// how many times the topping appears on a single unit.
type OrderTopping struct {
	ToppingCode string `json:"topping_cd"`
	Quantity    int    `json:"qty"`
}

// OrderUnit is the grouped wire form of cart content: one entry per distinct
// product + topping-set combination, with a quantity. This is the canonical
// representation for every service mode.
type OrderUnit struct {
	ProductCode string         `json:"product_cd"`
	Toppings    []OrderTopping `json:"toppings"`
	Quantity    int            `json:"quantity"`
}

// BuildOrderUnits flattens a cart into grouped order units. Sentinel ("no
// topping") selections and codes the product is not eligible for are dropped.
// Units of the same product whose topping multisets match collapse into one
// entry; the cart itself keeps per-unit fidelity for pricing.
func BuildOrderUnits(cart *domain.Cart) []OrderUnit {
	if cart == nil {
		return nil
	}

	units := make([]OrderUnit, 0, cart.Len())
	index := make(map[string]int)

	for _, line := range cart.Lines() {
		for _, slot := range line.Slots {
			codes := resolveSlot(&line.Product, slot)
			key := unitKey(line.Product.Code, codes)

			if i, seen := index[key]; seen {
				units[i].Quantity++
				continue
			}

			index[key] = len(units)
			units = append(units, OrderUnit{
				ProductCode: line.Product.Code,
				Toppings:    groupToppings(codes),
				Quantity:    1,
			})
		}
	}

	return units
}

// resolveSlot filters one slot down to the topping codes the product is
// actually eligible for.
func resolveSlot(p *domain.Product, slot domain.ToppingSlot) []string {
	var codes []string
	for _, code := range slot {
		if domain.IsNoTopping(code) {
			continue
		}
		if _, ok := p.Topping(code); !ok {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// groupToppings deduplicates repeated selections, carrying a count and
// preserving first-seen order.
func groupToppings(codes []string) []OrderTopping {
	toppings := make([]OrderTopping, 0, len(codes))
	index := make(map[string]int)
	for _, code := range codes {
		if i, seen := index[code]; seen {
			toppings[i].Quantity++
			continue
		}
		index[code] = len(toppings)
		toppings = append(toppings, OrderTopping{ToppingCode: code, Quantity: 1})
	}
	return toppings
}

// unitKey is the grouping signature: product code plus the sorted topping
// multiset, so slot ordering does not split otherwise identical units.
func unitKey(productCode string, codes []string) string {
	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Strings(sorted)
	return productCode + "|" + strings.Join(sorted, "+")
}
