package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/internal/ordering"
	"github.com/luthfiadilal/pos/internal/session"
)

// SubmitOrder pushes the cart to the order service. For dine-in this is the
// guest-info confirmation step; for counter mode it runs right after Begin.
// A remote failure keeps the session at OrderSubmitting so the cashier can
// retry the same call.
func (o *Orchestrator) SubmitOrder(ctx context.Context, guests domain.GuestInfo) error {
	o.mu.Lock()

	if o.sess == nil || o.sess.State.IsTerminal() {
		o.mu.Unlock()
		return ErrNoActiveCheckout
	}
	if o.sess.inFlight {
		o.mu.Unlock()
		return ErrSubmissionInFlight
	}

	switch o.sess.State {
	case domain.CheckoutStatusAwaitingGuestInfo:
		if guests.Total < 1 {
			o.mu.Unlock()
			return validationErr("guests_cnt", "guest count is required for dine-in")
		}
		if err := o.transitionTo(domain.CheckoutStatusOrderSubmitting); err != nil {
			o.mu.Unlock()
			return err
		}
	case domain.CheckoutStatusOrderSubmitting:
		// first counter-mode submission, or a user-triggered retry
	default:
		o.mu.Unlock()
		return IllegalTransitionError
	}

	if guests.Total > 0 {
		o.sess.Guests = guests
	}

	payload := o.buildCreateOrderPayload()
	sessID := o.sess.ID
	o.sess.inFlight = true
	o.mu.Unlock()

	result, callErr := o.gateway.CreateOrder(ctx, payload)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || o.sess.ID != sessID {
		o.log.Warn("stale_order_response", "order response arrived for a superseded session",
			"session_id", sessID.String())
		return nil
	}
	o.sess.inFlight = false

	if callErr != nil {
		o.log.Error("order_submit_failed", "order service rejected the order", callErr,
			"transaction_id", o.sess.TransactionID)
		return fmt.Errorf("create order: %w", callErr)
	}

	o.sess.RemoteOrderID = result.RemoteOrderID

	if o.sess.Mode == ModeDineIn {
		if _, err := o.bridge.PromoteDraft(ctx, result.RemoteOrderID); err != nil {
			o.sess.TableUntracked = true
			o.log.Error("draft_promote_failed", "order created but table session was not recorded", err,
				"pos_order_no", result.RemoteOrderID)
		}
	}

	if err := o.transitionTo(domain.CheckoutStatusAwaitingPaymentMethod); err != nil {
		return err
	}

	o.log.Info("order_created", "order accepted by order service",
		"pos_order_no", result.RemoteOrderID, "transaction_id", o.sess.TransactionID)
	return nil
}

func (o *Orchestrator) buildCreateOrderPayload() *ordering.CreateOrderPayload {
	payload := &ordering.CreateOrderPayload{
		OutletRef:   o.cfg.Outlet,
		PosNo:       o.sess.TransactionID,
		OrderName:   o.sess.Guests.Name,
		GuestsCount: o.sess.Guests.Total,
		GuestsMen:   o.sess.Guests.Men,
		GuestsWomen: o.sess.Guests.Women,
		Cart:        ordering.BuildOrderUnits(o.cart),
		User:        o.cfg.User,
	}
	if o.sess.Table != nil {
		payload.TableCode = o.sess.Table.TableCode
		payload.FloorCode = o.sess.Table.FloorCode
	}
	return payload
}

// ResumeForPayment reopens checkout for a table whose order was submitted
// earlier. The order is loaded back from the order service and the session
// starts directly at payment-method selection.
func (o *Orchestrator) ResumeForPayment(ctx context.Context, tableCode string) (Session, error) {
	o.mu.Lock()
	if o.checkoutActive() {
		o.mu.Unlock()
		return Session{}, ErrCheckoutInProgress
	}
	o.mu.Unlock()

	active, found := o.bridge.SessionFor(tableCode)
	if !found {
		return Session{}, session.ErrSessionNotFound
	}

	details, err := o.gateway.GetOrderDetails(ctx, active.RemoteOrderID, o.cfg.Outlet)
	if err != nil {
		return Session{}, fmt.Errorf("load order for payment: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.checkoutActive() {
		return Session{}, ErrCheckoutInProgress
	}

	table := active.Table
	if details.Table != nil {
		table = *details.Table
	}

	o.cart = details.Cart
	o.member = nil
	o.sess = &Session{
		ID:            uuid.New(),
		Mode:          ModeDineIn,
		State:         domain.CheckoutStatusAwaitingPaymentMethod,
		TransactionID: NewTransactionID(o.now()),
		RemoteOrderID: active.RemoteOrderID,
		Table:         &table,
		Guests:        active.Guests,
	}

	o.log.Info("checkout_resumed", "table order reloaded for payment",
		"tbl_cd", tableCode, "pos_order_no", active.RemoteOrderID)
	return *o.sess, nil
}
