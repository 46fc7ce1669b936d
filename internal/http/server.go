// Package http exposes the terminal's REST surface: catalog browsing, cart
// composition, the checkout protocol and the table map.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/luthfiadilal/pos/internal/catalog"
	"github.com/luthfiadilal/pos/internal/checkout"
	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/internal/session"
	"github.com/luthfiadilal/pos/pkg/logger"
)

type Server struct {
	catalog  *catalog.Service
	checkout *checkout.Orchestrator
	bridge   *session.Bridge
	outlet   domain.OutletRef
	timeout  time.Duration
	log      *logger.Logger
}

func NewServer(
	catalogSvc *catalog.Service,
	orchestrator *checkout.Orchestrator,
	bridge *session.Bridge,
	outlet domain.OutletRef,
	timeout time.Duration,
	log *logger.Logger,
) *Server {
	return &Server{
		catalog:  catalogSvc,
		checkout: orchestrator,
		bridge:   bridge,
		outlet:   outlet,
		timeout:  timeout,
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.ListProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.GetCart)
			r.Delete("/", s.ClearCart)
			r.Post("/items", s.AddItem)
			r.Patch("/items/{product_cd}", s.AdjustQuantity)
			r.Delete("/items/{product_cd}", s.RemoveItem)
			r.Put("/items/{product_cd}/slots/{slot}", s.SetSlotToppings)
			r.Post("/member", s.AttachMember)
			r.Delete("/member", s.ClearMember)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", s.GetCheckout)
			r.Post("/", s.BeginCheckout)
			r.Post("/order", s.SubmitOrder)
			r.Post("/payment-method", s.SelectPaymentMethod)
			r.Post("/cash", s.SubmitCashTender)
			r.Post("/debit", s.ConfirmDebit)
			r.Post("/digital", s.SubmitDigitalPayment)
			r.Post("/resume", s.ResumeForPayment)
			r.Post("/cancel", s.CancelCheckout)
		})

		r.Route("/tables", func(r chi.Router) {
			r.Get("/sessions", s.ListTableSessions)
			r.Delete("/sessions", s.ResetTableSessions)
			r.Post("/draft", s.StartTableDraft)
			r.Delete("/draft", s.ClearTableDraft)
		})
	})

	return r
}
