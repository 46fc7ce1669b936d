// Package checkout drives the till's checkout protocol: order submission,
// payment-method selection, tender validation and settlement. One orchestrator
// serves one cashier terminal; it owns the cart being composed and at most one
// checkout session at a time.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/internal/ordering"
	"github.com/luthfiadilal/pos/internal/pricing"
	"github.com/luthfiadilal/pos/internal/session"
	"github.com/luthfiadilal/pos/pkg/logger"
)

type Mode string

const (
	ModeCounter Mode = "counter"
	ModeDineIn  Mode = "dine-in"
)

type Config struct {
	Outlet     domain.OutletRef
	User       domain.UserRef
	TellerCode string
	PointValue float64
	// CounterTable is the fixed table reference stamped on walk-in orders.
	CounterTable domain.TableRef
}

// Session is one run of the checkout state machine. The transaction id is
// assigned at Begin and never changes for the session's lifetime.
type Session struct {
	ID            uuid.UUID
	Mode          Mode
	State         domain.CheckoutStatus
	TransactionID string
	RemoteOrderID string
	Table         *domain.TableRef
	Guests        domain.GuestInfo
	Method        domain.PaymentMethod

	// TableUntracked is set when the order was accepted but the table
	// session could not be recorded; the cashier must settle from memory.
	TableUntracked bool

	inFlight bool
}

type Orchestrator struct {
	gateway ordering.OrderGateway
	bridge  *session.Bridge
	log     *logger.Logger
	cfg     Config

	// now is swapped out in tests
	now func() time.Time

	mu     sync.Mutex
	cart   *domain.Cart
	sess   *Session
	member *domain.MemberDiscount
}

func NewOrchestrator(gateway ordering.OrderGateway, bridge *session.Bridge, cfg Config, log *logger.Logger) *Orchestrator {
	if cfg.PointValue == 0 {
		cfg.PointValue = pricing.DefaultPointValue
	}
	return &Orchestrator{
		gateway: gateway,
		bridge:  bridge,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
		cart:    domain.NewCart(),
	}
}

// checkoutActive reports whether a non-terminal session exists. Callers hold mu.
func (o *Orchestrator) checkoutActive() bool {
	return o.sess != nil && !o.sess.State.IsTerminal()
}

// transitionTo moves the session state, guarding against illegal jumps.
// Callers hold mu.
func (o *Orchestrator) transitionTo(to domain.CheckoutStatus) error {
	if !domain.CanTransitionTo(o.sess.State, to) {
		o.log.Error("illegal_transition", "rejected checkout state change", IllegalTransitionError,
			"from", o.sess.State.String(), "to", to.String())
		return IllegalTransitionError
	}
	o.log.Debug("checkout_transition", "checkout state changed",
		"from", o.sess.State.String(), "to", to.String(), "transaction_id", o.sess.TransactionID)
	o.sess.State = to
	return nil
}

// Cart mutation. Rejected once a checkout session is active: the cart is
// owned by that session until it settles or is cancelled.

func (o *Orchestrator) AddToCart(product domain.Product, quantity int, slots []domain.ToppingSlot) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.checkoutActive() {
		return ErrCheckoutInProgress
	}
	o.cart.AddLine(product, quantity, slots)
	return nil
}

func (o *Orchestrator) RemoveFromCart(productCode string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.checkoutActive() {
		return ErrCheckoutInProgress
	}
	o.cart.RemoveLine(productCode)
	return nil
}

func (o *Orchestrator) AdjustQuantity(productCode string, delta int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.checkoutActive() {
		return ErrCheckoutInProgress
	}
	o.cart.AdjustQuantity(productCode, delta)
	return nil
}

func (o *Orchestrator) SetSlotToppings(productCode string, slotIndex int, toppingCodes []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.checkoutActive() {
		return ErrCheckoutInProgress
	}
	if !o.cart.SetSlotToppings(productCode, slotIndex, toppingCodes) {
		o.log.Warn("topping_slot_miss", "slot assignment targeted a missing line or slot",
			"product_cd", productCode, "slot", slotIndex)
	}
	return nil
}

func (o *Orchestrator) CartLines() []domain.CartLine {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cart.Lines()
}

// Breakdown recomputes the price breakdown from the cart and any attached
// member discount. Never cached.
func (o *Orchestrator) Breakdown() domain.PriceBreakdown {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.breakdownLocked()
}

func (o *Orchestrator) breakdownLocked() domain.PriceBreakdown {
	points := 0
	if o.member != nil {
		points = o.member.PointsUsed
	}
	return pricing.ComputeBreakdown(o.cart, points, o.cfg.PointValue)
}

// AttachMember puts a loyalty member on the transaction. The discount applies
// to the grand total only.
func (o *Orchestrator) AttachMember(phoneNumber string, pointsUsed int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if pointsUsed < 0 {
		return validationErr("points_used_qty", "points must not be negative")
	}
	o.member = &domain.MemberDiscount{
		PhoneNumber:    phoneNumber,
		PointsUsed:     pointsUsed,
		DiscountAmount: float64(pointsUsed) * o.cfg.PointValue,
	}
	return nil
}

func (o *Orchestrator) ClearMember() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.member = nil
}

// Begin opens a checkout session over the current cart. Dine-in requires a
// table draft staged on the bridge and stops for guest confirmation; counter
// mode goes straight to order submission.
func (o *Orchestrator) Begin(mode Mode) (Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.checkoutActive() {
		return Session{}, ErrCheckoutInProgress
	}
	if o.cart.IsEmpty() {
		return Session{}, ErrEmptyCart
	}

	sess := &Session{
		ID:            uuid.New(),
		Mode:          mode,
		State:         domain.CheckoutStatusIdle,
		TransactionID: NewTransactionID(o.now()),
	}

	switch mode {
	case ModeDineIn:
		draft, ok := o.bridge.Draft()
		if !ok {
			return Session{}, ErrNoDraftOrder
		}
		table := draft.Table
		sess.Table = &table
		sess.Guests = draft.Guests
		sess.State = domain.CheckoutStatusAwaitingGuestInfo
	case ModeCounter:
		table := o.cfg.CounterTable
		sess.Table = &table
		sess.State = domain.CheckoutStatusOrderSubmitting
	default:
		return Session{}, validationErr("mode", "unknown service mode %q", mode)
	}

	o.sess = sess
	o.log.Info("checkout_started", "checkout session opened",
		"mode", string(mode), "transaction_id", sess.TransactionID, "state", sess.State.String())
	return *sess, nil
}

// Cancel abandons the active session. Legal from any pre-settling state. A
// dine-in order already submitted keeps its table session: the table is paid
// later via ResumeForPayment.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil || o.sess.State.IsTerminal() {
		return ErrNoActiveCheckout
	}
	if o.sess.inFlight {
		return ErrSubmissionInFlight
	}
	if err := o.transitionTo(domain.CheckoutStatusCancelled); err != nil {
		return err
	}

	o.log.Info("checkout_cancelled", "checkout session abandoned",
		"transaction_id", o.sess.TransactionID)
	o.sess = nil
	return nil
}

// Session returns a copy of the active session state.
func (o *Orchestrator) Session() (Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess == nil {
		return Session{}, false
	}
	return *o.sess, true
}

// ClearCart empties the cart outside of any checkout.
func (o *Orchestrator) ClearCart() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.checkoutActive() {
		return ErrCheckoutInProgress
	}
	o.cart.Clear()
	o.member = nil
	return nil
}

// finalizeSettlement runs the post-settlement cleanup: table session ends,
// cart and member state reset. Callers hold mu and have already moved the
// session to Settled.
func (o *Orchestrator) finalizeSettlement() {
	if o.sess.Mode == ModeDineIn && o.sess.Table != nil {
		if err := o.bridge.EndSession(context.Background(), o.sess.Table.TableCode); err != nil {
			o.log.Warn("session_end_failed", "could not release table after settlement",
				"tbl_cd", o.sess.Table.TableCode, "error", err.Error())
		}
	}
	o.cart.Clear()
	o.member = nil
	o.log.Info("checkout_settled", "payment settled",
		"transaction_id", o.sess.TransactionID, "pos_order_no", o.sess.RemoteOrderID)
}
