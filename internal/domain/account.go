package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiquidAccount represents a cash-like account (bank account, wallet).
// It has no lifecycle states; its ledger records the balance as of a date.
type LiquidAccount struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// Validate ensures the account adheres to domain rules
func (a *LiquidAccount) Validate() error {
	if a.Name == "" {
		return Validationf("account name cannot be empty")
	}
	return nil
}
