package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CoverPlan represents an insurance cover (life, health, vehicle).
// Time-driven rather than state-driven: it carries a premium schedule and an
// expiry date but no lifecycle states.
type CoverPlan struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Name              string
	CoverAmount       decimal.Decimal
	PremiumAmount     decimal.Decimal
	PremiumFrequency  Frequency
	PremiumCustomDays int
	NextPremiumDate   time.Time
	ExpiryDate        time.Time
	CreatedAt         time.Time
}

// Validate ensures the cover plan adheres to domain rules
func (c *CoverPlan) Validate() error {
	if c.Name == "" {
		return Validationf("cover plan name cannot be empty")
	}
	if c.CoverAmount.LessThanOrEqual(decimal.Zero) {
		return Validationf("cover amount must be positive")
	}
	if c.PremiumAmount.LessThanOrEqual(decimal.Zero) {
		return Validationf("premium amount must be positive")
	}
	if !c.PremiumFrequency.Valid(c.PremiumCustomDays) {
		return Validationf("premium frequency %q is not valid", c.PremiumFrequency)
	}
	if c.ExpiryDate.IsZero() {
		return Validationf("expiry date is required")
	}
	return nil
}
