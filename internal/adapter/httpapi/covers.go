package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/assets"
)

func (s *Server) coverRoutes(r chi.Router) {
	r.Post("/", s.handleCreateCover)
	r.Get("/", s.handleListCovers)
	r.Get("/summary", s.handleSummary(s.summary.CoverSummary))
	r.Get("/{id}", s.handleGetCover)
	r.Put("/{id}", s.handleUpdateCover)
	r.Delete("/{id}", s.handleDeleteCover)
	r.Get("/{id}/history", s.handleCoverHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectSnapshot(s.covers.CorrectSnapshot))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.covers.DeleteSnapshot))
}

type coverRequest struct {
	Name              string          `json:"name"`
	CoverAmount       decimal.Decimal `json:"cover_amount"`
	PremiumAmount     decimal.Decimal `json:"premium_amount"`
	PremiumFrequency  string          `json:"premium_frequency"`
	PremiumCustomDays int             `json:"premium_custom_days"`
	NextPremiumDate   string          `json:"next_premium_date"`
	ExpiryDate        string          `json:"expiry_date"`
}

func (req coverRequest) toInput(owner uuid.UUID) (assets.CoverPlanInput, error) {
	nextPremium, err := parseDate(req.NextPremiumDate)
	if err != nil {
		return assets.CoverPlanInput{}, err
	}
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		return assets.CoverPlanInput{}, err
	}
	return assets.CoverPlanInput{
		OwnerID:           owner,
		Name:              req.Name,
		CoverAmount:       req.CoverAmount,
		PremiumAmount:     req.PremiumAmount,
		PremiumFrequency:  domain.Frequency(req.PremiumFrequency),
		PremiumCustomDays: req.PremiumCustomDays,
		NextPremiumDate:   nextPremium,
		ExpiryDate:        expiry,
	}, nil
}

type coverResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	CoverAmount       decimal.Decimal `json:"cover_amount"`
	PremiumAmount     decimal.Decimal `json:"premium_amount"`
	PremiumFrequency  string          `json:"premium_frequency"`
	PremiumCustomDays int             `json:"premium_custom_days,omitempty"`
	NextPremiumDate   string          `json:"next_premium_date"`
	ExpiryDate        string          `json:"expiry_date"`
	CreatedAt         string          `json:"created_at"`
}

func toCoverResponse(c *domain.CoverPlan) coverResponse {
	return coverResponse{
		ID:                c.ID,
		Name:              c.Name,
		CoverAmount:       c.CoverAmount,
		PremiumAmount:     c.PremiumAmount,
		PremiumFrequency:  string(c.PremiumFrequency),
		PremiumCustomDays: c.PremiumCustomDays,
		NextPremiumDate:   formatDate(c.NextPremiumDate),
		ExpiryDate:        formatDate(c.ExpiryDate),
		CreatedAt:         formatDate(c.CreatedAt),
	}
}

func (s *Server) handleCreateCover(w http.ResponseWriter, r *http.Request) {
	var req coverRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput(ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	plan, err := s.covers.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toCoverResponse(plan))
}

func (s *Server) handleListCovers(w http.ResponseWriter, r *http.Request) {
	plans, err := s.covers.List(r.Context(), ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]coverResponse, 0, len(plans))
	for _, c := range plans {
		out = append(out, toCoverResponse(c))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	plan, err := s.covers.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCoverResponse(plan))
}

func (s *Server) handleUpdateCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req coverRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := req.toInput(ownerFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	plan, err := s.covers.Update(r.Context(), id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCoverResponse(plan))
}

func (s *Server) handleDeleteCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.covers.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCoverHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	snaps, err := s.covers.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSnapshotResponses(snaps))
}
