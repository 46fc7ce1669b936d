package http

import "net/http"

func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.Products(r.Context(), s.outlet)
	if err != nil {
		s.log.Error("catalog_fetch_failed", "could not load catalog", err,
			"request_id", getRequestID(r.Context()))
		respondError(w, http.StatusBadGateway, "remote_error", "could not load product catalog")
		return
	}
	respondJSON(w, http.StatusOK, products)
}
