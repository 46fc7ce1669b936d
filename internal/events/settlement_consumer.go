// Package events consumes asynchronous payment-gateway events. Redirect-based
// payments settle outside the process; the gateway publishes the outcome to
// kafka and this consumer feeds it back into the checkout flow.
package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/luthfiadilal/pos/pkg/logger"
)

const settlementTopic = "payment-settlements"

type SettlementEvent struct {
	TransactionID string `json:"trans_no"`
	Status        string `json:"status"` // "success" or "failed"
	Reason        string `json:"reason,omitempty"`
}

// SettlementHandler receives gateway settlement outcomes.
type SettlementHandler interface {
	HandleGatewaySettlement(ctx context.Context, transactionID string, succeeded bool) error
}

type Consumer struct {
	handler SettlementHandler
	reader  *kafka.Reader
	log     *logger.Logger
}

func NewConsumer(handler SettlementHandler, log *logger.Logger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    settlementTopic,
		GroupID:  "pos-terminal",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{handler: handler, reader: reader, log: log}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Error("kafka_close_failed", "error closing kafka reader", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.Error("kafka_read_failed", "error reading settlement message", err)
		return
	}
	c.handleMessage(ctx, m.Value)
}

func (c *Consumer) handleMessage(ctx context.Context, value []byte) {
	var event SettlementEvent
	if err := json.Unmarshal(value, &event); err != nil {
		c.log.Error("settlement_parse_failed", "malformed settlement event", err)
		return
	}

	if event.TransactionID == "" {
		c.log.Warn("settlement_skipped", "settlement event without a transaction id")
		return
	}

	succeeded := event.Status == "success"
	if !succeeded {
		c.log.Warn("settlement_failed_event", "gateway reported settlement failure",
			"trans_no", event.TransactionID, "reason", event.Reason)
	}

	if err := c.handler.HandleGatewaySettlement(ctx, event.TransactionID, succeeded); err != nil {
		c.log.Error("settlement_apply_failed", "could not apply settlement event", err,
			"trans_no", event.TransactionID)
	}
}
