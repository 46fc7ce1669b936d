package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress  = errors.New("a checkout is already in progress")
	ErrNoActiveCheckout    = errors.New("no active checkout session")
	ErrNoDraftOrder        = errors.New("no table draft staged for dine-in checkout")
	ErrSubmissionInFlight  = errors.New("a submission is already in flight")
	IllegalTransitionError = errors.New("illegal transition of checkout status")
)

// ValidationError marks input the cashier can correct in place. The session
// state does not move when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
