package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringDepositStatus represents the lifecycle state of a recurring deposit
type RecurringDepositStatus string

const (
	RecurringStatusOngoing   RecurringDepositStatus = "ONGOING"
	RecurringStatusCompleted RecurringDepositStatus = "COMPLETED"
	RecurringStatusClosed    RecurringDepositStatus = "CLOSED"
)

// RecurringDeposit represents a deposit built from periodic installments.
// Lifecycle: ongoing -> completed (all installments paid) -> closed;
// ongoing -> closed (early exit). MaturityValue is the quoted annuity-due
// figure recomputed on every base-field update.
type RecurringDeposit struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Name              string
	Installment       decimal.Decimal
	Frequency         Frequency
	CustomDays        int // period length in days when frequency is CUSTOM
	AnnualRate        decimal.Decimal
	StartDate         time.Time
	TotalInstallments int
	InstallmentsPaid  int
	NextDueDate       *time.Time
	MaturityValue     decimal.Decimal
	RealizedPayout    decimal.Decimal // set on closure
	ClosedAt          *time.Time
	Status            RecurringDepositStatus
	CreatedAt         time.Time
}

// Validate ensures the recurring deposit adheres to domain rules
func (d *RecurringDeposit) Validate() error {
	if d.Name == "" {
		return Validationf("deposit name cannot be empty")
	}
	if d.Installment.LessThanOrEqual(decimal.Zero) {
		return Validationf("installment amount must be positive")
	}
	if d.AnnualRate.IsNegative() {
		return Validationf("interest rate cannot be negative")
	}
	if !d.Frequency.Valid(d.CustomDays) {
		return Validationf("frequency %q is not valid", d.Frequency)
	}
	if d.StartDate.IsZero() {
		return Validationf("start date is required")
	}
	if d.TotalInstallments <= 0 {
		return Validationf("total installments must be positive")
	}
	if d.InstallmentsPaid < 0 || d.InstallmentsPaid > d.TotalInstallments {
		return Validationf("installments paid must be between 0 and %d", d.TotalInstallments)
	}
	return nil
}

// Closed reports whether the deposit is in its terminal state.
func (d *RecurringDeposit) Closed() bool {
	return d.Status == RecurringStatusClosed
}

// InstallmentsRemaining is derived from the stored counters on every read.
func (d *RecurringDeposit) InstallmentsRemaining() int {
	return d.TotalInstallments - d.InstallmentsPaid
}
