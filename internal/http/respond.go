package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/luthfiadilal/pos/internal/catalog"
	"github.com/luthfiadilal/pos/internal/checkout"
	"github.com/luthfiadilal/pos/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleCheckoutError maps domain errors onto HTTP statuses. Anything not in
// the taxonomy is treated as a failed remote call.
func handleCheckoutError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrNoDraftOrder):
		respondError(w, http.StatusBadRequest, "no_draft_order", err.Error())
	case errors.Is(err, checkout.ErrNoActiveCheckout):
		respondError(w, http.StatusBadRequest, "no_active_checkout", err.Error())
	case errors.Is(err, checkout.ErrCheckoutInProgress),
		errors.Is(err, checkout.ErrSubmissionInFlight),
		errors.Is(err, checkout.IllegalTransitionError),
		errors.Is(err, session.ErrDuplicateTableSession):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		respondError(w, http.StatusBadGateway, "remote_error", err.Error())
	}
}
