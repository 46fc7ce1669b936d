package checkout

import (
	"context"
	"fmt"

	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/internal/ordering"
)

var methodStates = map[domain.PaymentMethod]domain.CheckoutStatus{
	domain.PaymentMethodCash:    domain.CheckoutStatusCashTendering,
	domain.PaymentMethodDebit:   domain.CheckoutStatusDebitPending,
	domain.PaymentMethodDigital: domain.CheckoutStatusDigitalRedirect,
}

// SelectPaymentMethod forks the session into one payment branch. The fork is
// one-way: switching methods afterwards requires cancelling the checkout.
func (o *Orchestrator) SelectPaymentMethod(method domain.PaymentMethod) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || o.sess.State.IsTerminal() {
		return ErrNoActiveCheckout
	}
	if !method.Valid() {
		return validationErr("payment_method", "unknown payment method %q", method)
	}

	if err := o.transitionTo(methodStates[method]); err != nil {
		return err
	}
	o.sess.Method = method
	return nil
}

// SubmitCashTender validates the tendered amount and settles in cash.
// Tendering below the grand total is a validation error and the session stays
// at CashTendering; so does a remote settlement failure.
func (o *Orchestrator) SubmitCashTender(ctx context.Context, tendered float64) (float64, error) {
	o.mu.Lock()

	if o.sess == nil || o.sess.State.IsTerminal() {
		o.mu.Unlock()
		return 0, ErrNoActiveCheckout
	}
	if o.sess.inFlight {
		o.mu.Unlock()
		return 0, ErrSubmissionInFlight
	}
	if o.sess.State != domain.CheckoutStatusCashTendering {
		o.mu.Unlock()
		return 0, IllegalTransitionError
	}

	breakdown := o.breakdownLocked()
	if tendered < breakdown.GrandTotal {
		o.mu.Unlock()
		return 0, validationErr("pay_cash_amnt", "tendered %.0f is below total %.0f", tendered, breakdown.GrandTotal)
	}

	if err := o.transitionTo(domain.CheckoutStatusSettling); err != nil {
		o.mu.Unlock()
		return 0, err
	}

	payload := o.buildCashPayload(tendered)
	sessID := o.sess.ID
	o.sess.inFlight = true
	o.mu.Unlock()

	callErr := o.gateway.SubmitCashPayment(ctx, payload)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || o.sess.ID != sessID {
		o.log.Warn("stale_payment_response", "cash settlement response arrived for a superseded session",
			"session_id", sessID.String())
		return 0, nil
	}
	o.sess.inFlight = false

	if callErr != nil {
		if err := o.transitionTo(domain.CheckoutStatusCashTendering); err != nil {
			return 0, err
		}
		o.log.Error("cash_settlement_failed", "payment service rejected the cash settlement", callErr,
			"transaction_id", o.sess.TransactionID)
		return 0, fmt.Errorf("submit cash payment: %w", callErr)
	}

	change := tendered - breakdown.GrandTotal
	if change < 0 {
		change = 0
	}

	if err := o.transitionTo(domain.CheckoutStatusSettled); err != nil {
		return 0, err
	}
	o.finalizeSettlement()
	return change, nil
}

// SubmitDigitalPayment starts a gateway charge. A redirect URL means the
// customer finishes the payment outside this process and settlement arrives
// later as a gateway event; an empty URL means the charge settled inline.
func (o *Orchestrator) SubmitDigitalPayment(ctx context.Context) (string, error) {
	return o.submitGatewayCharge(ctx, domain.CheckoutStatusDigitalRedirect, domain.PaymentMethodDigital)
}

// ConfirmDebit settles a card payment after the terminal acknowledges it.
func (o *Orchestrator) ConfirmDebit(ctx context.Context) error {
	_, err := o.submitGatewayCharge(ctx, domain.CheckoutStatusDebitPending, domain.PaymentMethodDebit)
	return err
}

func (o *Orchestrator) submitGatewayCharge(ctx context.Context, fromState domain.CheckoutStatus, channel domain.PaymentMethod) (string, error) {
	o.mu.Lock()

	if o.sess == nil || o.sess.State.IsTerminal() {
		o.mu.Unlock()
		return "", ErrNoActiveCheckout
	}
	if o.sess.inFlight {
		o.mu.Unlock()
		return "", ErrSubmissionInFlight
	}
	if o.sess.State != fromState {
		o.mu.Unlock()
		return "", IllegalTransitionError
	}

	payload := o.buildDigitalPayload(channel)
	sessID := o.sess.ID
	o.sess.inFlight = true
	o.mu.Unlock()

	result, callErr := o.gateway.SubmitGatewayPayment(ctx, payload)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || o.sess.ID != sessID {
		o.log.Warn("stale_payment_response", "gateway response arrived for a superseded session",
			"session_id", sessID.String())
		return "", nil
	}
	o.sess.inFlight = false

	if callErr != nil {
		o.log.Error("gateway_charge_failed", "payment gateway rejected the charge", callErr,
			"transaction_id", o.sess.TransactionID, "channel", string(channel))
		return "", fmt.Errorf("submit gateway payment: %w", callErr)
	}

	if err := o.transitionTo(domain.CheckoutStatusSettling); err != nil {
		return "", err
	}

	if result.RedirectURL != "" {
		// settlement arrives as a gateway event, see HandleGatewaySettlement
		o.log.Info("gateway_redirect", "customer redirected to payment gateway",
			"transaction_id", o.sess.TransactionID)
		return result.RedirectURL, nil
	}

	if err := o.transitionTo(domain.CheckoutStatusSettled); err != nil {
		return "", err
	}
	o.finalizeSettlement()
	return "", nil
}

// HandleGatewaySettlement applies an asynchronous settlement event from the
// payment gateway. Events for unknown or superseded transactions are logged
// and dropped, never applied to the current cart.
func (o *Orchestrator) HandleGatewaySettlement(_ context.Context, transactionID string, succeeded bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || o.sess.State.IsTerminal() {
		o.log.Warn("settlement_discarded", "settlement event without a live session",
			"transaction_id", transactionID)
		return nil
	}
	if transactionID != o.sess.TransactionID && transactionID != o.sess.RemoteOrderID {
		o.log.Warn("settlement_discarded", "settlement event for a different transaction",
			"transaction_id", transactionID, "active_transaction_id", o.sess.TransactionID)
		return nil
	}
	if o.sess.State != domain.CheckoutStatusSettling {
		o.log.Warn("settlement_discarded", "settlement event outside the settling state",
			"transaction_id", transactionID, "state", o.sess.State.String())
		return nil
	}

	if !succeeded {
		if err := o.transitionTo(domain.CheckoutStatusFailed); err != nil {
			return err
		}
		o.log.Error("gateway_settlement_failed", "gateway reported the payment as failed", nil,
			"transaction_id", transactionID)
		return nil
	}

	if err := o.transitionTo(domain.CheckoutStatusSettled); err != nil {
		return err
	}
	o.finalizeSettlement()
	return nil
}

func (o *Orchestrator) buildCashPayload(tendered float64) *ordering.CashPayload {
	payload := &ordering.CashPayload{
		OutletRef:           o.cfg.Outlet,
		SlipNo:              o.slipNo(),
		TellerCode:          o.cfg.TellerCode,
		TellerTransactionNo: NewTellerTransactionID(o.cfg.TellerCode, o.now()),
		CashReceived:        tendered,
		GuestsCount:         o.sess.Guests.Total,
		GuestsMen:           o.sess.Guests.Men,
		GuestsWomen:         o.sess.Guests.Women,
		Cart:                ordering.BuildOrderUnits(o.cart),
		User:                o.cfg.User,
	}
	if o.member != nil {
		payload.MemberPhone = o.member.PhoneNumber
		payload.PointsUsed = o.member.PointsUsed
	}
	return payload
}

func (o *Orchestrator) buildDigitalPayload(channel domain.PaymentMethod) *ordering.DigitalPayload {
	payload := &ordering.DigitalPayload{
		OutletRef:   o.cfg.Outlet,
		SlipNo:      o.slipNo(),
		TellerCode:  o.cfg.TellerCode,
		Channel:     channel,
		GuestsCount: o.sess.Guests.Total,
		GuestsMen:   o.sess.Guests.Men,
		GuestsWomen: o.sess.Guests.Women,
		Cart:        ordering.BuildOrderUnits(o.cart),
		User:        o.cfg.User,
	}
	if o.member != nil {
		payload.MemberPhone = o.member.PhoneNumber
		payload.PointsUsed = o.member.PointsUsed
	}
	return payload
}

// slipNo identifies the transaction downstream: the remote order number once
// one exists, the locally generated id otherwise.
func (o *Orchestrator) slipNo() string {
	if o.sess.RemoteOrderID != "" {
		return o.sess.RemoteOrderID
	}
	return o.sess.TransactionID
}
