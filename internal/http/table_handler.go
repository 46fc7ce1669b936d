package http

import (
	"encoding/json"
	"net/http"

	"github.com/luthfiadilal/pos/internal/domain"
)

type StartDraftRequestDTO struct {
	TableCode string           `json:"tbl_cd"`
	FloorCode string           `json:"floor_cd"`
	Guests    domain.GuestInfo `json:"guests"`
}

func (s *Server) ListTableSessions(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.bridge.ActiveSessions())
}

func (s *Server) StartTableDraft(w http.ResponseWriter, r *http.Request) {
	var req StartDraftRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.TableCode == "" {
		respondError(w, http.StatusBadRequest, "invalid_tbl_cd", "tbl_cd is required")
		return
	}
	if req.Guests.Total < 1 {
		respondError(w, http.StatusBadRequest, "invalid_guests", "guests.total must be at least 1")
		return
	}

	table := domain.TableRef{TableCode: req.TableCode, FloorCode: req.FloorCode}
	if err := s.bridge.StartDraft(table, req.Guests); err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.TableDraftOrder{Table: table, Guests: req.Guests})
}

func (s *Server) ClearTableDraft(w http.ResponseWriter, _ *http.Request) {
	s.bridge.ClearDraft()
	w.WriteHeader(http.StatusNoContent)
}

// ResetTableSessions drops every active table session. End-of-day operation.
func (s *Server) ResetTableSessions(w http.ResponseWriter, r *http.Request) {
	if err := s.bridge.ResetAll(r.Context()); err != nil {
		s.log.Error("sessions_reset_failed", "could not reset table sessions", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not reset table sessions")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
