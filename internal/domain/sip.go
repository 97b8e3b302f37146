package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SIPStatus represents the lifecycle state of a systematic investment
type SIPStatus string

const (
	SIPStatusOngoing  SIPStatus = "ONGOING"
	SIPStatusPaused   SIPStatus = "PAUSED"
	SIPStatusRedeemed SIPStatus = "REDEEMED"
)

// SystematicInvestment represents a unit-based holding built from periodic
// or lump-sum purchases at an externally supplied NAV.
// Lifecycle: ongoing <-> paused; ongoing/paused -> redeemed (terminal).
type SystematicInvestment struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	SchemeName       string
	SchemeCode       string
	TotalUnits       decimal.Decimal
	CurrentUnitPrice decimal.Decimal
	TotalInvested    decimal.Decimal
	RedeemedAmount   decimal.Decimal // set on redemption
	RedeemedAt       *time.Time
	Status           SIPStatus
	CreatedAt        time.Time
}

// Validate ensures the investment adheres to domain rules
func (s *SystematicInvestment) Validate() error {
	if s.SchemeName == "" {
		return Validationf("scheme name cannot be empty")
	}
	if s.TotalUnits.IsNegative() {
		return Validationf("total units cannot be negative")
	}
	if s.CurrentUnitPrice.IsNegative() {
		return Validationf("unit price cannot be negative")
	}
	if s.TotalInvested.IsNegative() {
		return Validationf("total invested cannot be negative")
	}
	return nil
}

// Redeemed reports whether the investment is in its terminal state.
func (s *SystematicInvestment) Redeemed() bool {
	return s.Status == SIPStatusRedeemed
}
