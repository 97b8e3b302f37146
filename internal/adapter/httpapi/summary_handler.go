package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/usecase/summary"
)

type summaryResponse struct {
	ActiveCount   int             `json:"active_count"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// handleSummary adapts a per-class rollup into a handler
func (s *Server) handleSummary(fn func(context.Context, uuid.UUID) (summary.Summary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := fn(r.Context(), ownerFrom(r))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, summaryResponse{
			ActiveCount:   sum.ActiveCount,
			TotalInvested: sum.TotalInvested,
			TotalValue:    sum.TotalValue,
		})
	}
}
