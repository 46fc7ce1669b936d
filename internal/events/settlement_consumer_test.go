package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luthfiadilal/pos/pkg/logger"
)

type recordedSettlement struct {
	transactionID string
	succeeded     bool
}

type mockHandler struct {
	calls []recordedSettlement
	err   error
}

func (m *mockHandler) HandleGatewaySettlement(_ context.Context, transactionID string, succeeded bool) error {
	m.calls = append(m.calls, recordedSettlement{transactionID, succeeded})
	return m.err
}

func newTestConsumer(handler SettlementHandler) *Consumer {
	return &Consumer{handler: handler, log: logger.New("events-test")}
}

func TestHandleMessage_Success(t *testing.T) {
	handler := &mockHandler{}
	c := newTestConsumer(handler)

	c.handleMessage(context.Background(), []byte(`{"trans_no":"ORD-0001","status":"success"}`))

	assert.Len(t, handler.calls, 1)
	assert.Equal(t, "ORD-0001", handler.calls[0].transactionID)
	assert.True(t, handler.calls[0].succeeded)
}

func TestHandleMessage_Failure(t *testing.T) {
	handler := &mockHandler{}
	c := newTestConsumer(handler)

	c.handleMessage(context.Background(), []byte(`{"trans_no":"ORD-0002","status":"failed","reason":"insufficient funds"}`))

	assert.Len(t, handler.calls, 1)
	assert.False(t, handler.calls[0].succeeded)
}

func TestHandleMessage_MalformedJSON(t *testing.T) {
	handler := &mockHandler{}
	c := newTestConsumer(handler)

	c.handleMessage(context.Background(), []byte(`{not json`))

	assert.Empty(t, handler.calls)
}

func TestHandleMessage_MissingTransactionID(t *testing.T) {
	handler := &mockHandler{}
	c := newTestConsumer(handler)

	c.handleMessage(context.Background(), []byte(`{"status":"success"}`))

	assert.Empty(t, handler.calls)
}

func TestHandleMessage_HandlerErrorLoggedNotFatal(t *testing.T) {
	handler := &mockHandler{err: assert.AnError}
	c := newTestConsumer(handler)

	c.handleMessage(context.Background(), []byte(`{"trans_no":"ORD-0003","status":"success"}`))

	assert.Len(t, handler.calls, 1)
}
