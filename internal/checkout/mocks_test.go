package checkout

import (
	"context"
	"sync"

	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/internal/ordering"
)

type mockGateway struct {
	mu sync.Mutex

	// when set, a call signals createEntered and then blocks until
	// createRelease closes; same pair for cash submissions
	createEntered chan struct{}
	createRelease chan struct{}
	cashEntered   chan struct{}
	cashRelease   chan struct{}

	createResult *ordering.CreateOrderResult
	createErr    error
	createCalls  int
	lastCreate   *ordering.CreateOrderPayload

	details    *ordering.OrderDetails
	detailsErr error

	cashErr   error
	cashCalls int
	lastCash  *ordering.CashPayload

	gatewayResult *ordering.GatewayResult
	gatewayErr    error
	lastDigital   *ordering.DigitalPayload
}

func (m *mockGateway) CreateOrder(_ context.Context, payload *ordering.CreateOrderPayload) (*ordering.CreateOrderResult, error) {
	if m.createEntered != nil {
		m.createEntered <- struct{}{}
		<-m.createRelease
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.lastCreate = payload
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.createResult != nil {
		return m.createResult, nil
	}
	return &ordering.CreateOrderResult{RemoteOrderID: "ORD-0001"}, nil
}

func (m *mockGateway) GetOrderDetails(_ context.Context, _ string, _ domain.OutletRef) (*ordering.OrderDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return m.details, nil
}

func (m *mockGateway) SubmitCashPayment(_ context.Context, payload *ordering.CashPayload) error {
	if m.cashEntered != nil {
		m.cashEntered <- struct{}{}
		<-m.cashRelease
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cashCalls++
	m.lastCash = payload
	return m.cashErr
}

func (m *mockGateway) SubmitGatewayPayment(_ context.Context, payload *ordering.DigitalPayload) (*ordering.GatewayResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDigital = payload
	if m.gatewayErr != nil {
		return nil, m.gatewayErr
	}
	if m.gatewayResult != nil {
		return m.gatewayResult, nil
	}
	return &ordering.GatewayResult{}, nil
}
