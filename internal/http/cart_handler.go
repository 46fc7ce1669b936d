package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/luthfiadilal/pos/internal/domain"
)

type AddItemRequestDTO struct {
	ProductCode string     `json:"product_cd"`
	Quantity    int        `json:"qty"`
	Toppings    [][]string `json:"selected_toppings,omitempty"`
}

type AdjustQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type SlotToppingsRequestDTO struct {
	Toppings []string `json:"toppings"`
}

type AttachMemberRequestDTO struct {
	PhoneNumber string `json:"mobile_phone_no"`
	PointsUsed  int    `json:"points_used_qty"`
}

type CartResponseDTO struct {
	Lines     []domain.CartLine     `json:"lines"`
	Breakdown domain.PriceBreakdown `json:"breakdown"`
}

func (s *Server) cartResponse() CartResponseDTO {
	return CartResponseDTO{
		Lines:     s.checkout.CartLines(),
		Breakdown: s.checkout.Breakdown(),
	}
}

func (s *Server) GetCart(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductCode == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_cd", "product_cd is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "qty must be between 1 and 99")
		return
	}

	product, err := s.catalog.Product(r.Context(), s.outlet, req.ProductCode)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	if !product.Available {
		respondError(w, http.StatusConflict, "sold_out", "product is sold out")
		return
	}

	slots := make([]domain.ToppingSlot, len(req.Toppings))
	for i, t := range req.Toppings {
		slots[i] = domain.ToppingSlot(t)
	}

	if err := s.checkout.AddToCart(product, req.Quantity, slots); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.cartResponse())
}

func (s *Server) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "product_cd")

	var req AdjustQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must not be zero")
		return
	}

	if err := s.checkout.AdjustQuantity(productCode, req.Delta); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "product_cd")

	if err := s.checkout.RemoveFromCart(productCode); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) SetSlotToppings(w http.ResponseWriter, r *http.Request) {
	productCode := chi.URLParam(r, "product_cd")
	slotIndex, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil || slotIndex < 0 {
		respondError(w, http.StatusBadRequest, "invalid_slot", "slot must be a non-negative integer")
		return
	}

	var req SlotToppingsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.checkout.SetSlotToppings(productCode, slotIndex, req.Toppings); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) ClearCart(w http.ResponseWriter, _ *http.Request) {
	if err := s.checkout.ClearCart(); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) AttachMember(w http.ResponseWriter, r *http.Request) {
	var req AttachMemberRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PhoneNumber == "" {
		respondError(w, http.StatusBadRequest, "invalid_phone", "mobile_phone_no is required")
		return
	}

	if err := s.checkout.AttachMember(req.PhoneNumber, req.PointsUsed); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.cartResponse())
}

func (s *Server) ClearMember(w http.ResponseWriter, _ *http.Request) {
	s.checkout.ClearMember()
	respondJSON(w, http.StatusOK, s.cartResponse())
}
