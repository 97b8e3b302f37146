package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingStatus represents the lifecycle state of a traded holding
type HoldingStatus string

const (
	HoldingStatusHolding HoldingStatus = "HOLDING"
	HoldingStatusSold    HoldingStatus = "SOLD"
)

// TradedHolding represents a market-traded position (stock, ETF).
// Lifecycle: holding -> sold (terminal). Current value and profit/loss are
// derived from quantity and prices on every read, never stored.
type TradedHolding struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Symbol       string
	Quantity     decimal.Decimal
	BuyPrice     decimal.Decimal
	BuyDate      time.Time
	CurrentPrice decimal.Decimal
	Group        string // optional grouping tag
	SellPrice    decimal.Decimal
	SoldAt       *time.Time
	Status       HoldingStatus
	CreatedAt    time.Time
}

// Validate ensures the holding adheres to domain rules
func (h *TradedHolding) Validate() error {
	if h.Symbol == "" {
		return Validationf("holding symbol cannot be empty")
	}
	if h.Quantity.LessThanOrEqual(decimal.Zero) {
		return Validationf("quantity must be positive")
	}
	if h.BuyPrice.LessThanOrEqual(decimal.Zero) {
		return Validationf("buy price must be positive")
	}
	if h.BuyDate.IsZero() {
		return Validationf("buy date is required")
	}
	return nil
}

// Sold reports whether the holding is in its terminal state.
func (h *TradedHolding) Sold() bool {
	return h.Status == HoldingStatusSold
}
