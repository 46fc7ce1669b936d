// Package catalog reads the product catalog from the external catalog
// service and maps it into the domain model the cart prices against.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/luthfiadilal/pos/internal/domain"
)

// CatalogClient fetches the raw catalog for one outlet.
type CatalogClient interface {
	FetchCatalog(ctx context.Context, outlet domain.OutletRef) ([]domain.Product, error)
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchCatalog(ctx context.Context, outlet domain.OutletRef) ([]domain.Product, error) {
	query := url.Values{
		"unit_cd":    {outlet.UnitCode},
		"company_cd": {outlet.CompanyCode},
		"branch_cd":  {outlet.BranchCode},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/pos/products?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: catalog api responded %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	var raw []productDTO
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("fetch catalog: decode response: %w", err)
	}

	products := make([]domain.Product, 0, len(raw))
	for _, dto := range raw {
		products = append(products, dto.toDomain())
	}
	return products, nil
}

// productDTO mirrors the catalog API response. Prices arrive as rows ordered
// by effective date; the first row is the one in force.
type productDTO struct {
	ProductCode    string       `json:"product_cd"`
	ProductName    string       `json:"product_nm"`
	IsSoldOut      int          `json:"is_sold_out"`
	IsProductStock int          `json:"is_product_stock"`
	Stock          *stockDTO    `json:"stock"`
	Prices         []priceDTO   `json:"prices"`
	Toppings       []toppingDTO `json:"toppings"`
}

type stockDTO struct {
	EndingQty float64 `json:"ending_qty"`
}

type priceDTO struct {
	SalesPrice float64 `json:"sales_price"`
	PB1Amount  float64 `json:"pb1_amnt"`
	PPNAmount  float64 `json:"ppn_amnt"`
	ServiceAmt float64 `json:"service_amnt"`
}

type toppingDTO struct {
	ToppingCode string     `json:"topping_cd"`
	ToppingName string     `json:"topping_nm"`
	IsFree      int        `json:"is_free"`
	Prices      []priceDTO `json:"toppingPrices"`
}

func (d productDTO) toDomain() domain.Product {
	soldOut := d.IsSoldOut == 1 ||
		d.IsProductStock == 0 ||
		(d.Stock != nil && d.Stock.EndingQty <= 0)

	toppings := make([]domain.ToppingOption, 0, len(d.Toppings))
	for _, t := range d.Toppings {
		toppings = append(toppings, domain.ToppingOption{
			Code:            t.ToppingCode,
			Name:            t.ToppingName,
			PriceComponents: firstPrice(t.Prices),
			Free:            t.IsFree == 1,
		})
	}

	return domain.Product{
		Code:            d.ProductCode,
		Name:            d.ProductName,
		PriceComponents: firstPrice(d.Prices),
		Available:       !soldOut,
		Toppings:        toppings,
	}
}

func firstPrice(prices []priceDTO) domain.PriceComponents {
	if len(prices) == 0 {
		return domain.PriceComponents{}
	}
	p := prices[0]
	return domain.PriceComponents{
		Price:   p.SalesPrice,
		PB1:     p.PB1Amount,
		PPN:     p.PPNAmount,
		Service: p.ServiceAmt,
	}
}
