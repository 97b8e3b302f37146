// Package holding holds the traded-holding lifecycle: buy on creation, caller
// supplied price updates, and a terminal sell. Invested value, current value
// and profit/loss are derived from quantity and prices on every read.
package holding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/valuation"
)

// Service handles traded holding operations
type Service struct {
	Holdings domain.HoldingRepository
	Ledger   domain.TransactionLedger
	Store    domain.Atomic
	Log      zerolog.Logger
}

// NewService creates a new holding Service instance
func NewService(holdings domain.HoldingRepository, ledger domain.TransactionLedger, store domain.Atomic, log zerolog.Logger) *Service {
	return &Service{Holdings: holdings, Ledger: ledger, Store: store, Log: log}
}

// View is a traded holding with its derived metrics computed fresh
type View struct {
	*domain.TradedHolding
	InvestedValue     decimal.Decimal
	CurrentValue      decimal.Decimal
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
}

func view(h *domain.TradedHolding) *View {
	invested := valuation.MarketValue(h.Quantity, h.BuyPrice)
	current := valuation.MarketValue(h.Quantity, h.CurrentPrice)
	return &View{
		TradedHolding:     h,
		InvestedValue:     invested,
		CurrentValue:      current,
		ProfitLoss:        valuation.ProfitLoss(current, invested),
		ProfitLossPercent: valuation.ReturnsPercent(current, invested),
	}
}

// CreateInput represents the input for creating a traded holding
type CreateInput struct {
	OwnerID  uuid.UUID
	Symbol   string
	Quantity decimal.Decimal
	BuyPrice decimal.Decimal
	BuyDate  time.Time
	Group    string
}

// Create persists a new holding and appends its buy event atomically. The
// current price starts at the buy price until the caller supplies a quote.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	h := &domain.TradedHolding{
		ID:           uuid.New(),
		OwnerID:      in.OwnerID,
		Symbol:       in.Symbol,
		Quantity:     in.Quantity,
		BuyPrice:     in.BuyPrice,
		BuyDate:      in.BuyDate,
		CurrentPrice: in.BuyPrice,
		Group:        in.Group,
		Status:       domain.HoldingStatusHolding,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	err := s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Holdings.Create(ctx, h); err != nil {
			return err
		}
		return s.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:           uuid.New(),
			InstrumentID: h.ID,
			Date:         h.BuyDate,
			Kind:         domain.EntryKindBuy,
			Amount:       valuation.MarketValue(h.Quantity, h.BuyPrice),
			Price:        h.BuyPrice,
			Units:        h.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("holding_id", h.ID.String()).Str("symbol", h.Symbol).Msg("traded holding created")
	return view(h), nil
}

// Get retrieves a holding with derived metrics, scoped by owner
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*View, error) {
	h, err := s.Holdings.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return view(h), nil
}

// List retrieves the owner's holdings with derived metrics, optionally
// filtered by group
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, group string) ([]*View, error) {
	hs, err := s.Holdings.List(ctx, ownerID, group)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(hs))
	for _, h := range hs {
		views = append(views, view(h))
	}
	return views, nil
}

// UpdateInput represents the input for editing a holding's base fields
type UpdateInput struct {
	OwnerID  uuid.UUID
	ID       uuid.UUID
	Symbol   string
	Quantity decimal.Decimal
	BuyPrice decimal.Decimal
	BuyDate  time.Time
	Group    string
}

// Update edits the base fields of an open holding
func (s *Service) Update(ctx context.Context, in UpdateInput) (*View, error) {
	h, err := s.Holdings.GetByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}
	if h.Sold() {
		return nil, domain.Transitionf("holding %s is sold", h.ID)
	}

	h.Symbol = in.Symbol
	h.Quantity = in.Quantity
	h.BuyPrice = in.BuyPrice
	h.BuyDate = in.BuyDate
	h.Group = in.Group
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := s.Holdings.Update(ctx, h); err != nil {
		return nil, err
	}
	return view(h), nil
}

// UpdatePrice records a caller-supplied market price for an open holding.
// An idempotent single-field write: repeating the same quote is safe.
func (s *Service) UpdatePrice(ctx context.Context, ownerID, id uuid.UUID, price decimal.Decimal) (*View, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("price must be positive")
	}

	h, err := s.Holdings.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if h.Sold() {
		return nil, domain.Transitionf("holding %s is sold", h.ID)
	}

	h.CurrentPrice = price
	if err := s.Holdings.Update(ctx, h); err != nil {
		return nil, err
	}
	return view(h), nil
}

// Sell transitions an open holding to its terminal state, recording the sale
// and appending the sell event atomically.
func (s *Service) Sell(ctx context.Context, ownerID, id uuid.UUID, sellPrice decimal.Decimal, soldAt time.Time) (*View, error) {
	if sellPrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("sell price must be positive")
	}
	if soldAt.IsZero() {
		return nil, domain.Validationf("sale date is required")
	}

	h, err := s.Holdings.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if h.Sold() {
		return nil, domain.Transitionf("holding %s is already sold", h.ID)
	}

	h.Status = domain.HoldingStatusSold
	h.SellPrice = sellPrice
	h.CurrentPrice = sellPrice
	h.SoldAt = &soldAt

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Holdings.Update(ctx, h); err != nil {
			return err
		}
		return s.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:           uuid.New(),
			InstrumentID: h.ID,
			Date:         soldAt,
			Kind:         domain.EntryKindSell,
			Amount:       valuation.MarketValue(h.Quantity, sellPrice),
			Price:        sellPrice,
			Units:        h.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("holding_id", h.ID.String()).Msg("traded holding sold")
	return view(h), nil
}

// Delete removes the holding and cascades to its ledger
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Holdings.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ledger.DeleteByInstrument(ctx, id); err != nil {
			return err
		}
		return s.Holdings.Delete(ctx, ownerID, id)
	})
}

// History returns the holding's buy/sell events, most recent first
func (s *Service) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.LedgerEntry, error) {
	if _, err := s.Holdings.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectEntry edits one historical trade event; the holding's quantity and
// prices are left untouched.
func (s *Service) CorrectEntry(ctx context.Context, ownerID uuid.UUID, e *domain.LedgerEntry) error {
	if _, err := s.Holdings.GetByID(ctx, ownerID, e.InstrumentID); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, e)
}

// DeleteEntry removes one historical trade event without touching the
// holding's current state.
func (s *Service) DeleteEntry(ctx context.Context, ownerID, id, entryID uuid.UUID) error {
	if _, err := s.Holdings.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, entryID)
}
