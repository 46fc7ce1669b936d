package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthfiadilal/pos/internal/catalog"
	"github.com/luthfiadilal/pos/internal/checkout"
	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/internal/ordering"
	"github.com/luthfiadilal/pos/internal/session"
	"github.com/luthfiadilal/pos/pkg/logger"
)

type stubCatalogClient struct {
	products []domain.Product
	err      error
}

func (c stubCatalogClient) FetchCatalog(_ context.Context, _ domain.OutletRef) ([]domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.products, nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, domain.OutletRef) ([]domain.Product, error) {
	return nil, catalog.ErrCacheMiss
}
func (noopCache) Set(context.Context, domain.OutletRef, []domain.Product) error { return nil }
func (noopCache) Delete(context.Context, domain.OutletRef) error                { return nil }

type stubGateway struct {
	createResult  *ordering.CreateOrderResult
	createErr     error
	details       *ordering.OrderDetails
	cashErr       error
	gatewayResult *ordering.GatewayResult
	gatewayErr    error
}

func (g *stubGateway) CreateOrder(context.Context, *ordering.CreateOrderPayload) (*ordering.CreateOrderResult, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	if g.createResult != nil {
		return g.createResult, nil
	}
	return &ordering.CreateOrderResult{RemoteOrderID: "ORD-0001"}, nil
}

func (g *stubGateway) GetOrderDetails(context.Context, string, domain.OutletRef) (*ordering.OrderDetails, error) {
	return g.details, nil
}

func (g *stubGateway) SubmitCashPayment(context.Context, *ordering.CashPayload) error {
	return g.cashErr
}

func (g *stubGateway) SubmitGatewayPayment(context.Context, *ordering.DigitalPayload) (*ordering.GatewayResult, error) {
	if g.gatewayErr != nil {
		return nil, g.gatewayErr
	}
	if g.gatewayResult != nil {
		return g.gatewayResult, nil
	}
	return &ordering.GatewayResult{}, nil
}

var testOutlet = domain.OutletRef{UnitCode: "U001", CompanyCode: "C01", BranchCode: "B01"}

func kopiSusu() domain.Product {
	return domain.Product{
		Code:            "KOPI-001",
		Name:            "Kopi Susu",
		PriceComponents: domain.PriceComponents{Price: 10000, PB1: 200, PPN: 1100},
		Available:       true,
	}
}

func newTestServer(t *testing.T, gw ordering.OrderGateway) (*Server, *session.Bridge) {
	t.Helper()
	log := logger.New("http-test")

	bridge, err := session.NewBridge(context.Background(), session.NewMemoryStore(), log)
	require.NoError(t, err)

	catalogSvc := catalog.NewService(stubCatalogClient{products: []domain.Product{kopiSusu()}}, noopCache{}, log)

	cfg := checkout.Config{
		Outlet:       testOutlet,
		User:         domain.UserRef{UserID: "cashier-1", UserName: "Dewi"},
		TellerCode:   "T1",
		PointValue:   1000,
		CounterTable: domain.TableRef{TableCode: "101", FloorCode: "101"},
	}
	orchestrator := checkout.NewOrchestrator(gw, bridge, cfg, log)

	return NewServer(catalogSvc, orchestrator, bridge, testOutlet, 30*time.Second, log), bridge
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListProducts(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "KOPI-001", products[0].Code)
}

func TestAddItemAndBreakdown(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		ProductCode: "KOPI-001",
		Quantity:    2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.InDelta(t, 22600, resp.Breakdown.GrandTotal, 0.001)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		ProductCode: "NOPE",
		Quantity:    1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCounterCheckoutOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductCode: "KOPI-001", Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/checkout", BeginCheckoutRequestDTO{Mode: "counter"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var co CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &co))
	assert.Equal(t, "ORDER_SUBMITTING", co.State)

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/checkout/order", SubmitOrderRequestDTO{Guests: domain.GuestInfo{Total: 1}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/checkout/payment-method", PaymentMethodRequestDTO{Method: "cash"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/checkout/cash", CashTenderRequestDTO{Tendered: 25000})
	require.Equal(t, http.StatusOK, rec.Code)

	var cash CashResultDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cash))
	assert.InDelta(t, 2400, cash.Change, 0.001)
	assert.Equal(t, "SETTLED", cash.State)
}

func TestCashTenderBelowTotalIs422(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	doJSON(t, routes, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductCode: "KOPI-001", Quantity: 2})
	doJSON(t, routes, http.MethodPost, "/api/v1/checkout", BeginCheckoutRequestDTO{Mode: "counter"})
	doJSON(t, routes, http.MethodPost, "/api/v1/checkout/order", SubmitOrderRequestDTO{Guests: domain.GuestInfo{Total: 1}})
	doJSON(t, routes, http.MethodPost, "/api/v1/checkout/payment-method", PaymentMethodRequestDTO{Method: "cash"})

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/checkout/cash", CashTenderRequestDTO{Tendered: 20000})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBeginCheckoutEmptyCartIs400(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/checkout", BeginCheckoutRequestDTO{Mode: "counter"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoteOrderFailureIs502(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{createErr: assert.AnError})
	routes := srv.Routes()

	doJSON(t, routes, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductCode: "KOPI-001", Quantity: 1})
	doJSON(t, routes, http.MethodPost, "/api/v1/checkout", BeginCheckoutRequestDTO{Mode: "counter"})

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/checkout/order", SubmitOrderRequestDTO{Guests: domain.GuestInfo{Total: 1}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTableDraftLifecycle(t *testing.T) {
	srv, bridge := newTestServer(t, &stubGateway{createResult: &ordering.CreateOrderResult{RemoteOrderID: "ORD-5555"}})
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodPost, "/api/v1/tables/draft", StartDraftRequestDTO{
		TableCode: "T05",
		FloorCode: "F1",
		Guests:    domain.GuestInfo{Name: "Sari", Men: 1, Women: 2, Total: 3},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	doJSON(t, routes, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductCode: "KOPI-001", Quantity: 1})
	doJSON(t, routes, http.MethodPost, "/api/v1/checkout", BeginCheckoutRequestDTO{Mode: "dine-in"})

	rec = doJSON(t, routes, http.MethodPost, "/api/v1/checkout/order", SubmitOrderRequestDTO{
		Guests: domain.GuestInfo{Name: "Sari", Men: 1, Women: 2, Total: 3},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, routes, http.MethodGet, "/api/v1/tables/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []domain.ActiveTableSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "ORD-5555", sessions[0].RemoteOrderID)

	// occupied table rejects a second draft
	rec = doJSON(t, routes, http.MethodPost, "/api/v1/tables/draft", StartDraftRequestDTO{
		TableCode: "T05",
		Guests:    domain.GuestInfo{Total: 2},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, routes, http.MethodDelete, "/api/v1/tables/sessions", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, bridge.ActiveSessions())
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &stubGateway{})
	routes := srv.Routes()

	rec := doJSON(t, routes, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
