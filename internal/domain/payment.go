package domain

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodDebit   PaymentMethod = "debit"
	PaymentMethodDigital PaymentMethod = "digital"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodDebit, PaymentMethodDigital:
		return true
	}
	return false
}

// MemberDiscount is the loyalty context attached to a checkout session.
// DiscountAmount = PointsUsed × the configured point value, applied only
// against the grand total, never against the component breakdown.
type MemberDiscount struct {
	PhoneNumber    string  `json:"mobile_phone_no"`
	PointsUsed     int     `json:"points_used_qty"`
	DiscountAmount float64 `json:"discount_amount"`
}
