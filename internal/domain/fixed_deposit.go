package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositStatus represents the lifecycle state of a fixed-term deposit
type DepositStatus string

const (
	DepositStatusOngoing DepositStatus = "ONGOING"
	DepositStatusClosed  DepositStatus = "CLOSED"
)

// FixedTermDeposit represents a lump-sum deposit earning simple interest.
// Lifecycle: ongoing -> closed (terminal). ExpectedPayout is the quoted
// figure fixed at creation/update time; RealizedPayout and RealizedRate are
// set on closure. The stated rate is never overwritten by the back-solve.
type FixedTermDeposit struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Principal      decimal.Decimal
	StatedRate     decimal.Decimal // annual, percent
	StartDate      time.Time
	MaturityDate   time.Time
	ExpectedPayout decimal.Decimal
	RealizedPayout decimal.Decimal // zero until closed
	RealizedRate   decimal.Decimal // back-solved from the actual payout on closure
	ClosedAt       *time.Time
	Status         DepositStatus
	CreatedAt      time.Time
}

// Validate ensures the deposit adheres to domain rules
func (d *FixedTermDeposit) Validate() error {
	if d.Name == "" {
		return Validationf("deposit name cannot be empty")
	}
	if d.Principal.LessThanOrEqual(decimal.Zero) {
		return Validationf("principal must be positive")
	}
	if d.StatedRate.IsNegative() {
		return Validationf("interest rate cannot be negative")
	}
	if d.StartDate.IsZero() || d.MaturityDate.IsZero() {
		return Validationf("start and maturity dates are required")
	}
	if !d.MaturityDate.After(d.StartDate) {
		return Validationf("maturity date must be after start date")
	}
	return nil
}

// Closed reports whether the deposit is in its terminal state.
func (d *FixedTermDeposit) Closed() bool {
	return d.Status == DepositStatusClosed
}
