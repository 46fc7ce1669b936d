package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle                  CheckoutStatus = "IDLE"
	CheckoutStatusAwaitingGuestInfo     CheckoutStatus = "AWAITING_GUEST_INFO"
	CheckoutStatusOrderSubmitting       CheckoutStatus = "ORDER_SUBMITTING"
	CheckoutStatusAwaitingPaymentMethod CheckoutStatus = "AWAITING_PAYMENT_METHOD"
	CheckoutStatusCashTendering         CheckoutStatus = "CASH_TENDERING"
	CheckoutStatusDebitPending          CheckoutStatus = "DEBIT_PENDING"
	CheckoutStatusDigitalRedirect       CheckoutStatus = "DIGITAL_REDIRECT"
	CheckoutStatusSettling              CheckoutStatus = "SETTLING"
	CheckoutStatusSettled               CheckoutStatus = "SETTLED"
	CheckoutStatusFailed                CheckoutStatus = "FAILED"
	CheckoutStatusCancelled             CheckoutStatus = "CANCELLED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSettled || s == CheckoutStatusFailed || s == CheckoutStatusCancelled
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// transitions lists the legal next states per state. A failed remote call is
// not a transition: the session stays where it is and the same action may be
// retried by the user.
var transitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle: {
		CheckoutStatusAwaitingGuestInfo,
		CheckoutStatusOrderSubmitting,
		CheckoutStatusCancelled,
	},
	CheckoutStatusAwaitingGuestInfo: {
		CheckoutStatusOrderSubmitting,
		CheckoutStatusCancelled,
	},
	CheckoutStatusOrderSubmitting: {
		CheckoutStatusAwaitingPaymentMethod,
		CheckoutStatusCancelled,
		CheckoutStatusFailed,
	},
	CheckoutStatusAwaitingPaymentMethod: {
		CheckoutStatusCashTendering,
		CheckoutStatusDebitPending,
		CheckoutStatusDigitalRedirect,
		CheckoutStatusCancelled,
	},
	CheckoutStatusCashTendering: {
		CheckoutStatusSettling,
		CheckoutStatusCancelled,
		CheckoutStatusFailed,
	},
	CheckoutStatusDebitPending: {
		CheckoutStatusSettling,
		CheckoutStatusCancelled,
		CheckoutStatusFailed,
	},
	CheckoutStatusDigitalRedirect: {
		CheckoutStatusSettling,
		CheckoutStatusCancelled,
		CheckoutStatusFailed,
	},
	CheckoutStatusSettling: {
		CheckoutStatusSettled,
		CheckoutStatusFailed,
		CheckoutStatusCashTendering,
		CheckoutStatusDebitPending,
		CheckoutStatusDigitalRedirect,
	},
}

// CanTransitionTo reports whether moving from one status to another is legal.
func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
