package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/usecase/holding"
)

func (s *Server) holdingRoutes(r chi.Router) {
	r.Post("/", s.handleCreateHolding)
	r.Get("/", s.handleListHoldings)
	r.Get("/summary", s.handleSummary(s.summary.HoldingSummary))
	r.Get("/{id}", s.handleGetHolding)
	r.Put("/{id}", s.handleUpdateHolding)
	r.Delete("/{id}", s.handleDeleteHolding)
	r.Put("/{id}/price", s.handleUpdateHoldingPrice)
	r.Post("/{id}/sell", s.handleSellHolding)
	r.Get("/{id}/history", s.handleHoldingHistory)
	r.Put("/{id}/history/{entryID}", s.handleCorrectEntry(s.holdings.CorrectEntry))
	r.Delete("/{id}/history/{entryID}", s.handleDeleteHistoryRow(s.holdings.DeleteEntry))
}

type holdingRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	BuyPrice decimal.Decimal `json:"buy_price"`
	BuyDate  string          `json:"buy_date"`
	Group    string          `json:"group"`
}

type holdingResponse struct {
	ID                uuid.UUID       `json:"id"`
	Symbol            string          `json:"symbol"`
	Quantity          decimal.Decimal `json:"quantity"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	BuyDate           string          `json:"buy_date"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	Group             string          `json:"group,omitempty"`
	InvestedValue     decimal.Decimal `json:"invested_value"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	SoldAt            *string         `json:"sold_at,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         string          `json:"created_at"`
}

func toHoldingResponse(v *holding.View) holdingResponse {
	return holdingResponse{
		ID:                v.ID,
		Symbol:            v.Symbol,
		Quantity:          v.Quantity,
		BuyPrice:          v.BuyPrice,
		BuyDate:           formatDate(v.BuyDate),
		CurrentPrice:      v.CurrentPrice,
		Group:             v.Group,
		InvestedValue:     v.InvestedValue,
		CurrentValue:      v.CurrentValue,
		ProfitLoss:        v.ProfitLoss,
		ProfitLossPercent: v.ProfitLossPercent,
		SellPrice:         v.SellPrice,
		SoldAt:            formatOptionalDate(v.SoldAt),
		Status:            string(v.Status),
		CreatedAt:         formatDate(v.CreatedAt),
	}
}

func (s *Server) handleCreateHolding(w http.ResponseWriter, r *http.Request) {
	var req holdingRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	buyDate, err := parseDate(req.BuyDate)
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.holdings.Create(r.Context(), holding.CreateInput{
		OwnerID:  ownerFrom(r),
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		BuyPrice: req.BuyPrice,
		BuyDate:  buyDate,
		Group:    req.Group,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toHoldingResponse(v))
}

func (s *Server) handleListHoldings(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")

	views, err := s.holdings.List(r.Context(), ownerFrom(r), group)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]holdingResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toHoldingResponse(v))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetHolding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.holdings.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHoldingResponse(v))
}

func (s *Server) handleUpdateHolding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req holdingRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	buyDate, err := parseDate(req.BuyDate)
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.holdings.Update(r.Context(), holding.UpdateInput{
		OwnerID:  ownerFrom(r),
		ID:       id,
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		BuyPrice: req.BuyPrice,
		BuyDate:  buyDate,
		Group:    req.Group,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHoldingResponse(v))
}

func (s *Server) handleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.holdings.Delete(r.Context(), ownerFrom(r), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

func (s *Server) handleUpdateHoldingPrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req priceRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.holdings.UpdatePrice(r.Context(), ownerFrom(r), id, req.Price)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHoldingResponse(v))
}

type sellRequest struct {
	SellPrice decimal.Decimal `json:"sell_price"`
	SoldAt    string          `json:"sold_at"`
}

func (s *Server) handleSellHolding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req sellRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	soldAt, err := parseDate(req.SoldAt)
	if err != nil {
		s.writeError(w, err)
		return
	}

	v, err := s.holdings.Sell(r.Context(), ownerFrom(r), id, req.SellPrice, soldAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHoldingResponse(v))
}

func (s *Server) handleHoldingHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries, err := s.holdings.History(r.Context(), ownerFrom(r), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toEntryResponses(entries))
}
