package deposit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/valuation"
)

// RecurringService handles recurring deposit operations
type RecurringService struct {
	Deposits domain.RecurringDepositRepository
	Ledger   domain.TransactionLedger
	Store    domain.Atomic
	Log      zerolog.Logger
}

// NewRecurringService creates a new RecurringService instance
func NewRecurringService(deposits domain.RecurringDepositRepository, ledger domain.TransactionLedger, store domain.Atomic, log zerolog.Logger) *RecurringService {
	return &RecurringService{Deposits: deposits, Ledger: ledger, Store: store, Log: log}
}

// RecurringInput represents the base fields of a recurring deposit
type RecurringInput struct {
	OwnerID           uuid.UUID
	Name              string
	Installment       decimal.Decimal
	Frequency         domain.Frequency
	CustomDays        int
	AnnualRate        decimal.Decimal
	StartDate         time.Time
	TotalInstallments int
}

// Create persists a new ongoing deposit with its maturity value computed and
// the first installment due on the start date.
func (s *RecurringService) Create(ctx context.Context, in RecurringInput) (*domain.RecurringDeposit, error) {
	d := &domain.RecurringDeposit{
		ID:                uuid.New(),
		OwnerID:           in.OwnerID,
		Name:              in.Name,
		Installment:       in.Installment,
		Frequency:         in.Frequency,
		CustomDays:        in.CustomDays,
		AnnualRate:        in.AnnualRate,
		StartDate:         in.StartDate,
		TotalInstallments: in.TotalInstallments,
		Status:            domain.RecurringStatusOngoing,
		CreatedAt:         time.Now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	d.MaturityValue = valuation.RecurringDepositMaturity(d.Installment, d.AnnualRate, d.Frequency, d.CustomDays, d.TotalInstallments)
	due := d.StartDate
	d.NextDueDate = &due

	if err := s.Deposits.Create(ctx, d); err != nil {
		return nil, err
	}

	s.Log.Info().Str("deposit_id", d.ID.String()).Str("maturity_value", d.MaturityValue.String()).Msg("recurring deposit created")
	return d, nil
}

// Get retrieves a deposit scoped by owner
func (s *RecurringService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.RecurringDeposit, error) {
	return s.Deposits.GetByID(ctx, ownerID, id)
}

// List retrieves all of the owner's recurring deposits
func (s *RecurringService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.RecurringDeposit, error) {
	return s.Deposits.List(ctx, ownerID)
}

// Update edits the base fields of an ongoing deposit, recomputing its
// maturity value and next due date. Closed deposits must use
// UpdateClosedRecord; completed deposits are frozen too.
func (s *RecurringService) Update(ctx context.Context, id uuid.UUID, in RecurringInput) (*domain.RecurringDeposit, error) {
	d, err := s.Deposits.GetByID(ctx, in.OwnerID, id)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.RecurringStatusOngoing {
		return nil, domain.Transitionf("deposit %s is %s", d.ID, d.Status)
	}

	d.Name = in.Name
	d.Installment = in.Installment
	d.Frequency = in.Frequency
	d.CustomDays = in.CustomDays
	d.AnnualRate = in.AnnualRate
	d.StartDate = in.StartDate
	d.TotalInstallments = in.TotalInstallments
	if err := d.Validate(); err != nil {
		return nil, err
	}

	d.MaturityValue = valuation.RecurringDepositMaturity(d.Installment, d.AnnualRate, d.Frequency, d.CustomDays, d.TotalInstallments)
	next := valuation.AdvanceSchedule(d.StartDate, d.Frequency, d.CustomDays, d.InstallmentsPaid)
	d.NextDueDate = &next

	if err := s.Deposits.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// MarkInstallmentPaid increments the paid counter and appends the installment
// to the ledger atomically. Paying the final installment transitions the
// deposit to completed and clears the next due date; otherwise the next due
// date rolls forward one period.
func (s *RecurringService) MarkInstallmentPaid(ctx context.Context, ownerID, id uuid.UUID, paidOn time.Time) (*domain.RecurringDeposit, error) {
	if paidOn.IsZero() {
		return nil, domain.Validationf("payment date is required")
	}

	d, err := s.Deposits.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.RecurringStatusOngoing {
		return nil, domain.Transitionf("deposit %s is %s, installments require an ongoing deposit", d.ID, d.Status)
	}

	d.InstallmentsPaid++
	if d.InstallmentsPaid >= d.TotalInstallments {
		d.Status = domain.RecurringStatusCompleted
		d.NextDueDate = nil
	} else {
		next := valuation.AdvanceSchedule(d.StartDate, d.Frequency, d.CustomDays, d.InstallmentsPaid)
		d.NextDueDate = &next
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Deposits.Update(ctx, d); err != nil {
			return err
		}
		return s.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:           uuid.New(),
			InstrumentID: d.ID,
			Date:         paidOn,
			Kind:         domain.EntryKindInstallment,
			Amount:       d.Installment,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Debug().Str("deposit_id", d.ID.String()).Int("paid", d.InstallmentsPaid).Msg("installment recorded")
	return d, nil
}

// Close transitions an ongoing or completed deposit to closed, recording the
// realized payout and the closure event atomically.
func (s *RecurringService) Close(ctx context.Context, ownerID, id uuid.UUID, actualPayout decimal.Decimal, closedAt time.Time) (*domain.RecurringDeposit, error) {
	if actualPayout.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("actual payout must be positive")
	}
	if closedAt.IsZero() {
		return nil, domain.Validationf("closure date is required")
	}

	d, err := s.Deposits.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d.Closed() {
		return nil, domain.Transitionf("deposit %s is already closed", d.ID)
	}

	d.Status = domain.RecurringStatusClosed
	d.RealizedPayout = actualPayout
	d.ClosedAt = &closedAt
	d.NextDueDate = nil

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Deposits.Update(ctx, d); err != nil {
			return err
		}
		return s.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:           uuid.New(),
			InstrumentID: d.ID,
			Date:         closedAt,
			Kind:         domain.EntryKindClose,
			Amount:       actualPayout,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("deposit_id", d.ID.String()).Msg("recurring deposit closed")
	return d, nil
}

// UpdateClosedRecord corrects the closure data of an already-closed deposit
func (s *RecurringService) UpdateClosedRecord(ctx context.Context, ownerID, id uuid.UUID, actualPayout decimal.Decimal, closedAt time.Time) (*domain.RecurringDeposit, error) {
	if actualPayout.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("actual payout must be positive")
	}
	if closedAt.IsZero() {
		return nil, domain.Validationf("closure date is required")
	}

	d, err := s.Deposits.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !d.Closed() {
		return nil, domain.Transitionf("deposit %s is not closed", d.ID)
	}

	d.RealizedPayout = actualPayout
	d.ClosedAt = &closedAt

	if err := s.Deposits.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the deposit and cascades to its ledger
func (s *RecurringService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Deposits.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ledger.DeleteByInstrument(ctx, id); err != nil {
			return err
		}
		return s.Deposits.Delete(ctx, ownerID, id)
	})
}

// History returns the deposit's ledger entries, most recent first
func (s *RecurringService) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.LedgerEntry, error) {
	if _, err := s.Deposits.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectEntry edits one historical ledger entry. The installment counter is
// left untouched; historical edits are corrections, not recounts.
func (s *RecurringService) CorrectEntry(ctx context.Context, ownerID uuid.UUID, e *domain.LedgerEntry) error {
	if _, err := s.Deposits.GetByID(ctx, ownerID, e.InstrumentID); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, e)
}

// DeleteEntry removes one historical ledger entry without touching the
// installment counter.
func (s *RecurringService) DeleteEntry(ctx context.Context, ownerID, id, entryID uuid.UUID) error {
	if _, err := s.Deposits.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, entryID)
}
