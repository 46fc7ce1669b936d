// Package ordering talks to the external order and payment services. It owns
// the wire representation of a cart (the grouped order units) and the payment
// payload variants; the in-memory cart with its per-unit topping slots never
// crosses this boundary directly.
package ordering

import (
	"context"

	"github.com/luthfiadilal/pos/internal/domain"
)

// OrderGateway is the narrow contract the checkout flow depends on. The
// external order service is not guaranteed idempotent, so callers must not
// re-submit while a call is in flight.
type OrderGateway interface {
	CreateOrder(ctx context.Context, payload *CreateOrderPayload) (*CreateOrderResult, error)
	GetOrderDetails(ctx context.Context, remoteOrderID string, outlet domain.OutletRef) (*OrderDetails, error)
	SubmitCashPayment(ctx context.Context, payload *CashPayload) error
	SubmitGatewayPayment(ctx context.Context, payload *DigitalPayload) (*GatewayResult, error)
}

type CreateOrderPayload struct {
	domain.OutletRef
	PosNo       string         `json:"pos_no"`
	TableCode   string         `json:"tbl_cd"`
	FloorCode   string         `json:"floor_cd"`
	OrderName   string         `json:"name_of_order"`
	GuestsCount int            `json:"guests_cnt"`
	GuestsMen   int            `json:"guests_men_cnt"`
	GuestsWomen int            `json:"guests_women_cnt"`
	Cart        []OrderUnit    `json:"cart"`
	User        domain.UserRef `json:"userDetails"`
}

type CreateOrderResult struct {
	RemoteOrderID string `json:"pos_order_no"`
}

// OrderDetails is a previously submitted order loaded back for payment.
type OrderDetails struct {
	RemoteOrderID string
	Table         *domain.TableRef
	Guests        domain.GuestInfo
	Cart          *domain.Cart
}

type GatewayResult struct {
	// RedirectURL is set when the gateway requires browser navigation to
	// finish the payment. Empty means the charge settled inline.
	RedirectURL string `json:"redirect_url"`
}

// PaymentPayload is the tagged union over the per-method payment payloads.
type PaymentPayload interface {
	Method() domain.PaymentMethod
}

// CashPayload settles a transaction with cash tendered at the till. The
// teller transaction number is generated locally (CASHT1 + timestamp).
type CashPayload struct {
	domain.OutletRef
	SlipNo              string         `json:"slip_no"`
	TellerCode          string         `json:"teller_cd"`
	TellerTransactionNo string         `json:"trans_no_teller"`
	CashReceived        float64        `json:"pay_cash_amnt"`
	GuestsCount         int            `json:"guests_cnt"`
	GuestsMen           int            `json:"guests_men_cnt"`
	GuestsWomen         int            `json:"guests_women_cnt"`
	Cart                []OrderUnit    `json:"cart"`
	User                domain.UserRef `json:"userDetails"`
	MemberPhone         string         `json:"mobile_phone_no,omitempty"`
	PointsUsed          int            `json:"points_used_qty,omitempty"`
}

func (CashPayload) Method() domain.PaymentMethod { return domain.PaymentMethodCash }

// DigitalPayload covers the gateway-backed methods: digital (QR/redirect)
// and debit (terminal ack, no redirect).
type DigitalPayload struct {
	domain.OutletRef
	SlipNo      string               `json:"slip_no"`
	TellerCode  string               `json:"teller_cd"`
	Channel     domain.PaymentMethod `json:"channel"`
	GuestsCount int                  `json:"guests_cnt"`
	GuestsMen   int                  `json:"guests_men_cnt"`
	GuestsWomen int                  `json:"guests_women_cnt"`
	Cart        []OrderUnit          `json:"cart"`
	User        domain.UserRef       `json:"userDetails"`
	MemberPhone string               `json:"mobile_phone_no,omitempty"`
	PointsUsed  int                  `json:"points_used_qty,omitempty"`
}

func (p DigitalPayload) Method() domain.PaymentMethod {
	if p.Channel == domain.PaymentMethodDebit {
		return domain.PaymentMethodDebit
	}
	return domain.PaymentMethodDigital
}
