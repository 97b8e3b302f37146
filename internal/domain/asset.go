package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValuedAsset represents a generic asset carried at an externally supplied
// value (vehicle, real estate, collectible). No lifecycle states.
type ValuedAsset struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Value     decimal.Decimal
	Category  string
	CreatedAt time.Time
}

// Validate ensures the asset adheres to domain rules
func (a *ValuedAsset) Validate() error {
	if a.Name == "" {
		return Validationf("asset name cannot be empty")
	}
	if a.Value.IsNegative() {
		return Validationf("asset value cannot be negative")
	}
	return nil
}
