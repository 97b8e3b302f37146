package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/sip"
)

func (s *Server) sipRoutes(r chi.Router) {
	r.Post("/", s.handleCreateSIP)
	r.Get("/", s.handleListSIPs)
	r.Get("/summary", s.handleSummary(s.summary.SIPSummary))
	r.Get("/{id}", s.handleGetSIP)
	r.Put("/{id}", s.handleUpdateSIP)
	r.Delete("/{id}", s.handleDeleteSIP)
	r.Post("/{id}/transactions", s.handleSIPTransaction)
	r.Post("/{id}/pause", s.handlePauseSIP)
	r.Post("/{id}/resume", s.handleResumeSIP)
	r.Post("/{id}/redeem", s.handleRedeemSIP)
	r.Get("/{id}/history", s.handleSIPHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectEntry(s.sips.CorrectEntry))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.sips.DeleteEntry))
}

type sipRequest struct {
	SchemeName string          `json:"scheme_name"`
	SchemeCode string          `json:"scheme_code"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type sipResponse struct {
	ID               uuid.UUID       `json:"id"`
	SchemeName       string          `json:"scheme_name"`
	SchemeCode       string          `json:"scheme_code,omitempty"`
	TotalUnits       decimal.Decimal `json:"total_units"`
	CurrentUnitPrice decimal.Decimal `json:"current_unit_price"`
	TotalInvested    decimal.Decimal `json:"total_invested"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	ReturnsPercent   decimal.Decimal `json:"returns_percent"`
	RedeemedAmount   decimal.Decimal `json:"redeemed_amount"`
	RedeemedAt       *string         `json:"redeemed_at,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"created_at"`
}

func toSIPResponse(v *sip.View) sipResponse {
	return sipResponse{
		ID:               v.ID,
		SchemeName:       v.SchemeName,
		SchemeCode:       v.SchemeCode,
		TotalUnits:       v.TotalUnits,
		CurrentUnitPrice: v.CurrentUnitPrice,
		TotalInvested:    v.TotalInvested,
		CurrentValue:     v.CurrentValue,
		ReturnsPercent:   v.ReturnsPercent,
		RedeemedAmount:   v.RedeemedAmount,
		RedeemedAt:       formatOptionalDate(v.RedeemedAt),
		Status:           string(v.Status),
		CreatedAt:        formatDate(v.CreatedAt),
	}
}

func (s *Server) handleCreateSIP(w http.ResponseWriter, r *http.Request) {
	var req sipRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.sips.Create(r.Context(), sip.CreateInput{
		OwnerID:    ownerFrom(r),
		SchemeName: req.SchemeName,
		SchemeCode: req.SchemeCode,
		UnitPrice:  req.UnitPrice,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSIPResponse(v))
}

func (s *Server) handleListSIPs(w http.ResponseWriter, r *http.Request) {
	views, err := s.sips.List(r.Context(), ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]sipResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toSIPResponse(v))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSIP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.sips.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSIPResponse(v))
}

func (s *Server) handleUpdateSIP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req sipRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.sips.Update(r.Context(), ownerFrom(r), id, req.SchemeName, req.SchemeCode)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSIPResponse(v))
}

func (s *Server) handleDeleteSIP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.sips.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type sipTransactionRequest struct {
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      string          `json:"date"`
	Notes     string          `json:"notes"`
}

func (s *Server) handleSIPTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req sipTransactionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.sips.AddTransaction(r.Context(), sip.TransactionInput{
		OwnerID:   ownerFrom(r),
		ID:        id,
		Kind:      domain.EntryKind(req.Kind),
		Amount:    req.Amount,
		UnitPrice: req.UnitPrice,
		Date:      date,
		Notes:     req.Notes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSIPResponse(v))
}

func (s *Server) handlePauseSIP(w http.ResponseWriter, r *http.Request) {
	s.sipTransition(w, r, s.sips.Pause)
}

func (s *Server) handleResumeSIP(w http.ResponseWriter, r *http.Request) {
	s.sipTransition(w, r, s.sips.Resume)
}

func (s *Server) sipTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, ownerID, id uuid.UUID) (*sip.View, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := fn(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSIPResponse(v))
}

type redeemRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	RedeemedAt string          `json:"redeemed_at"`
}

func (s *Server) handleRedeemSIP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req redeemRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	redeemedAt, err := parseDate(req.RedeemedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.sips.Redeem(r.Context(), ownerFrom(r), id, req.Amount, redeemedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSIPResponse(v))
}

func (s *Server) handleSIPHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries, err := s.sips.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toEntryResponses(entries))
}
