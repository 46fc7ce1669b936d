package domain

// PriceBreakdown is the derived price of a cart. It has no lifecycle of its
// own: it is recomputed from the cart on every read, never patched in place.
type PriceBreakdown struct {
	Subtotal   float64 `json:"subtotal"`
	TaxPB1     float64 `json:"tax_pb1"`
	TaxPPN     float64 `json:"tax_ppn"`
	Service    float64 `json:"service"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grand_total"`
}
