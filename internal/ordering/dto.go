package ordering

import "github.com/luthfiadilal/pos/internal/domain"

// orderDetailsResponse mirrors the order service's detail endpoint. The cart
// comes back with full product snapshots and per-unit topping slots so a
// dine-in order can be re-priced when payment resumes from the table view.
type orderDetailsResponse struct {
	Data orderDetailsData `json:"data"`
}

type orderDetailsData struct {
	PosOrderNo string         `json:"pos_order_no"`
	Table      *tableDTO      `json:"table"`
	Guests     guestsDTO      `json:"guests"`
	Cart       []orderLineDTO `json:"cart"`
}

type tableDTO struct {
	TableCode string `json:"tbl_cd"`
	FloorCode string `json:"floor_cd"`
}

type guestsDTO struct {
	Name  string `json:"name"`
	Men   int    `json:"men"`
	Women int    `json:"women"`
	Total int    `json:"total"`
}

type orderLineDTO struct {
	ProductCode  string                `json:"product_cd"`
	ProductName  string                `json:"product_nm"`
	Price        float64               `json:"price"`
	PB1          float64               `json:"pb1"`
	PPN          float64               `json:"ppn"`
	Service      float64               `json:"service"`
	Quantity     int                   `json:"qty"`
	ToppingSlots [][]string            `json:"selected_toppings"`
	Toppings     []orderLineToppingDTO `json:"toppings"`
}

type orderLineToppingDTO struct {
	ToppingCode string  `json:"topping_cd"`
	ToppingName string  `json:"topping_nm"`
	Price       float64 `json:"price"`
	PB1         float64 `json:"pb1"`
	PPN         float64 `json:"ppn"`
	Service     float64 `json:"service"`
	IsFree      int     `json:"is_free"`
}

func (d orderDetailsData) toDomain() *OrderDetails {
	details := &OrderDetails{
		RemoteOrderID: d.PosOrderNo,
		Guests: domain.GuestInfo{
			Name:  d.Guests.Name,
			Men:   d.Guests.Men,
			Women: d.Guests.Women,
			Total: d.Guests.Total,
		},
		Cart: domain.NewCart(),
	}
	if d.Table != nil {
		details.Table = &domain.TableRef{
			TableCode: d.Table.TableCode,
			FloorCode: d.Table.FloorCode,
		}
	}

	for _, line := range d.Cart {
		toppings := make([]domain.ToppingOption, 0, len(line.Toppings))
		for _, t := range line.Toppings {
			toppings = append(toppings, domain.ToppingOption{
				Code: t.ToppingCode,
				Name: t.ToppingName,
				PriceComponents: domain.PriceComponents{
					Price:   t.Price,
					PB1:     t.PB1,
					PPN:     t.PPN,
					Service: t.Service,
				},
				Free: t.IsFree == 1,
			})
		}

		slots := make([]domain.ToppingSlot, 0, len(line.ToppingSlots))
		for _, s := range line.ToppingSlots {
			slots = append(slots, domain.ToppingSlot(s))
		}

		details.Cart.AddLine(domain.Product{
			Code: line.ProductCode,
			Name: line.ProductName,
			PriceComponents: domain.PriceComponents{
				Price:   line.Price,
				PB1:     line.PB1,
				PPN:     line.PPN,
				Service: line.Service,
			},
			Available: true,
			Toppings:  toppings,
		}, line.Quantity, slots)
	}

	return details
}
