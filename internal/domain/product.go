package domain

// NoToppingCode is the sentinel the UI sends when a slot explicitly selects
// "no topping". It is equivalent to no selection: never charged, never an error.
const NoToppingCode = "TANPA_TOPPING"

// IsNoTopping reports whether a raw topping selection means "nothing chosen".
func IsNoTopping(code string) bool {
	return code == "" || code == NoToppingCode
}

// PriceComponents is the per-unit price of a sellable item together with its
// tax and service surcharge amounts. All values come from the catalog as
// absolute amounts per unit; nothing is derived from tax rules here.
type PriceComponents struct {
	Price   float64 `json:"price"`
	PB1     float64 `json:"pb1"`
	PPN     float64 `json:"ppn"`
	Service float64 `json:"service"`
}

// ToppingOption is one topping a product is eligible for.
type ToppingOption struct {
	Code string `json:"topping_cd"`
	Name string `json:"topping_nm"`
	PriceComponents
	// Free toppings never contribute to the breakdown regardless of their
	// listed price components.
	Free bool `json:"is_free"`
}

// Product is a read-only catalog entry. The cart stores a snapshot of it so
// pricing stays stable for the lifetime of a checkout even if the catalog
// changes underneath.
type Product struct {
	Code string `json:"product_cd"`
	Name string `json:"product_nm"`
	PriceComponents
	Available bool            `json:"available"`
	Toppings  []ToppingOption `json:"toppings,omitempty"`
}

// Topping resolves a topping code against the product's eligible toppings.
func (p *Product) Topping(code string) (ToppingOption, bool) {
	for _, t := range p.Toppings {
		if t.Code == code {
			return t, true
		}
	}
	return ToppingOption{}, false
}

func (p *Product) HasToppings() bool {
	return len(p.Toppings) > 0
}
