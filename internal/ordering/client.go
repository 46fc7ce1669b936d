package ordering

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/luthfiadilal/pos/internal/domain"
)

// Client is the HTTP implementation of OrderGateway. All calls share one
// circuit breaker: a flapping order API should fail fast at the till instead
// of hanging every checkout behind timeouts.
type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "order-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

func (c *Client) CreateOrder(ctx context.Context, payload *CreateOrderPayload) (*CreateOrderResult, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/pos/orders", payload)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var result CreateOrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("create order: decode response: %w", err)
	}
	return &result, nil
}

func (c *Client) GetOrderDetails(ctx context.Context, remoteOrderID string, outlet domain.OutletRef) (*OrderDetails, error) {
	query := url.Values{
		"unit_cd":    {outlet.UnitCode},
		"company_cd": {outlet.CompanyCode},
		"branch_cd":  {outlet.BranchCode},
	}
	path := "/pos/orders/" + url.PathEscape(remoteOrderID) + "?" + query.Encode()

	body, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get order details: %w", err)
	}

	var resp orderDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get order details: decode response: %w", err)
	}
	return resp.Data.toDomain(), nil
}

// paymentEndpoints routes a payment payload by its method: cash settles at the
// till endpoint, debit and digital both go through the gateway endpoint.
var paymentEndpoints = map[domain.PaymentMethod]string{
	domain.PaymentMethodCash:    "/pos/payments/cash",
	domain.PaymentMethodDebit:   "/pos/payments/gateway",
	domain.PaymentMethodDigital: "/pos/payments/gateway",
}

func (c *Client) submitPayment(ctx context.Context, payload PaymentPayload) ([]byte, error) {
	return c.doJSON(ctx, http.MethodPost, paymentEndpoints[payload.Method()], payload)
}

func (c *Client) SubmitCashPayment(ctx context.Context, payload *CashPayload) error {
	if _, err := c.submitPayment(ctx, payload); err != nil {
		return fmt.Errorf("submit cash payment: %w", err)
	}
	return nil
}

func (c *Client) SubmitGatewayPayment(ctx context.Context, payload *DigitalPayload) (*GatewayResult, error) {
	body, err := c.submitPayment(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("submit gateway payment: %w", err)
	}

	var result GatewayResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("submit gateway payment: decode response: %w", err)
	}
	return &result, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, apiError(resp.StatusCode, body)
		}
		return body, nil
	})
}

func apiError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("order api responded %d: %s", status, payload.Message)
	}
	return fmt.Errorf("order api responded %d", status)
}
