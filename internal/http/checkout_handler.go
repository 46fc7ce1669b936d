package http

import (
	"encoding/json"
	"net/http"

	"github.com/luthfiadilal/pos/internal/checkout"
	"github.com/luthfiadilal/pos/internal/domain"
)

type BeginCheckoutRequestDTO struct {
	Mode string `json:"mode"`
}

type SubmitOrderRequestDTO struct {
	Guests domain.GuestInfo `json:"guests"`
}

type PaymentMethodRequestDTO struct {
	Method string `json:"payment_method"`
}

type CashTenderRequestDTO struct {
	Tendered float64 `json:"pay_cash_amnt"`
}

type ResumeRequestDTO struct {
	TableCode string `json:"tbl_cd"`
}

type CheckoutResponseDTO struct {
	SessionID     string                `json:"session_id"`
	Mode          string                `json:"mode"`
	State         string                `json:"state"`
	TransactionID string                `json:"trans_no"`
	RemoteOrderID string                `json:"pos_order_no,omitempty"`
	Table         *domain.TableRef      `json:"table,omitempty"`
	Guests        domain.GuestInfo      `json:"guests"`
	Breakdown     domain.PriceBreakdown `json:"breakdown"`

	// TableUntracked warns the cashier that the table session was lost
	// after order creation, so this order cannot be resumed from the
	// table map.
	TableUntracked bool `json:"table_untracked,omitempty"`
}

type CashResultDTO struct {
	Change float64 `json:"change"`
	CheckoutResponseDTO
}

type DigitalResultDTO struct {
	RedirectURL string `json:"redirect_url,omitempty"`
	CheckoutResponseDTO
}

func (s *Server) checkoutResponse(sess checkout.Session) CheckoutResponseDTO {
	return CheckoutResponseDTO{
		SessionID:      sess.ID.String(),
		Mode:           string(sess.Mode),
		State:          sess.State.String(),
		TransactionID:  sess.TransactionID,
		RemoteOrderID:  sess.RemoteOrderID,
		Table:          sess.Table,
		Guests:         sess.Guests,
		Breakdown:      s.checkout.Breakdown(),
		TableUntracked: sess.TableUntracked,
	}
}

func (s *Server) GetCheckout(w http.ResponseWriter, _ *http.Request) {
	sess, ok := s.checkout.Session()
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no checkout session")
		return
	}
	respondJSON(w, http.StatusOK, s.checkoutResponse(sess))
}

func (s *Server) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	var req BeginCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess, err := s.checkout.Begin(checkout.Mode(req.Mode))
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.checkoutResponse(sess))
}

func (s *Server) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.checkout.SubmitOrder(r.Context(), req.Guests); err != nil {
		handleCheckoutError(w, err)
		return
	}

	sess, _ := s.checkout.Session()
	respondJSON(w, http.StatusOK, s.checkoutResponse(sess))
}

func (s *Server) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req PaymentMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.checkout.SelectPaymentMethod(domain.PaymentMethod(req.Method)); err != nil {
		handleCheckoutError(w, err)
		return
	}

	sess, _ := s.checkout.Session()
	respondJSON(w, http.StatusOK, s.checkoutResponse(sess))
}

func (s *Server) SubmitCashTender(w http.ResponseWriter, r *http.Request) {
	var req CashTenderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	change, err := s.checkout.SubmitCashTender(r.Context(), req.Tendered)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	sess, _ := s.checkout.Session()
	respondJSON(w, http.StatusOK, CashResultDTO{
		Change:              change,
		CheckoutResponseDTO: s.checkoutResponse(sess),
	})
}

func (s *Server) ConfirmDebit(w http.ResponseWriter, r *http.Request) {
	if err := s.checkout.ConfirmDebit(r.Context()); err != nil {
		handleCheckoutError(w, err)
		return
	}

	sess, _ := s.checkout.Session()
	respondJSON(w, http.StatusOK, s.checkoutResponse(sess))
}

func (s *Server) SubmitDigitalPayment(w http.ResponseWriter, r *http.Request) {
	redirectURL, err := s.checkout.SubmitDigitalPayment(r.Context())
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	sess, _ := s.checkout.Session()
	respondJSON(w, http.StatusOK, DigitalResultDTO{
		RedirectURL:         redirectURL,
		CheckoutResponseDTO: s.checkoutResponse(sess),
	})
}

func (s *Server) ResumeForPayment(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.TableCode == "" {
		respondError(w, http.StatusBadRequest, "invalid_tbl_cd", "tbl_cd is required")
		return
	}

	sess, err := s.checkout.ResumeForPayment(r.Context(), req.TableCode)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.checkoutResponse(sess))
}

func (s *Server) CancelCheckout(w http.ResponseWriter, _ *http.Request) {
	if err := s.checkout.Cancel(); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": domain.CheckoutStatusCancelled.String()})
}
