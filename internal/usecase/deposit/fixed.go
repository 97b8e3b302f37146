// Package deposit holds the lifecycle services for fixed-term and recurring
// deposits. Quoted figures (expected payout, maturity value) are recomputed
// from base fields on every update; closure records the realized payout and
// the back-solved realized rate alongside the stated rate.
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

// FixedService handles fixed-term deposit operations
type FixedService struct {
	Deposits domain.FixedDepositRepository
	Ledger   domain.TransactionLedger
	Store    domain.Atomic
	Log      zerolog.Logger
}

// NewFixedService creates a new FixedService instance
func NewFixedService(deposits domain.FixedDepositRepository, ledger domain.TransactionLedger, store domain.Atomic, log zerolog.Logger) *FixedService {
	return &FixedService{Deposits: deposits, Ledger: ledger, Store: store, Log: log}
}

// FixedInput represents the base fields of a fixed-term deposit
type FixedInput struct {
	OwnerID      uuid.UUID
	Name         string
	Principal    decimal.Decimal
	StatedRate   decimal.Decimal
	StartDate    time.Time
	MaturityDate time.Time
}

// Create persists a new ongoing deposit with its expected payout computed
// from the stated rate.
func (s *FixedService) Create(ctx context.Context, in FixedInput) (*domain.FixedTermDeposit, error) {
	d := &domain.FixedTermDeposit{
		ID:           uuid.New(),
		OwnerID:      in.OwnerID,
		Name:         in.Name,
		Principal:    in.Principal,
		StatedRate:   in.StatedRate,
		StartDate:    in.StartDate,
		MaturityDate: in.MaturityDate,
		Status:       domain.DepositStatusOngoing,
		CreatedAt:    time.Now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	d.ExpectedPayout = valuation.FixedDepositMaturity(d.Principal, d.StatedRate, d.StartDate, d.MaturityDate)
	if err := s.Deposits.Create(ctx, d); err != nil {
		return nil, err
	}

	s.Log.Info().Str("deposit_id", d.ID.String()).Str("expected_payout", d.ExpectedPayout.String()).Msg("fixed deposit created")
	return d, nil
}

// Get retrieves a deposit scoped by owner
func (s *FixedService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.FixedTermDeposit, error) {
	return s.Deposits.GetByID(ctx, ownerID, id)
}

// List retrieves all of the owner's fixed deposits
func (s *FixedService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.FixedTermDeposit, error) {
	return s.Deposits.List(ctx, ownerID)
}

// Update edits the base fields of an ongoing deposit and recomputes its
// expected payout. Closed deposits must use UpdateClosedRecord.
func (s *FixedService) Update(ctx context.Context, id uuid.UUID, in FixedInput) (*domain.FixedTermDeposit, error) {
	d, err := s.Deposits.GetByID(ctx, in.OwnerID, id)
	if err != nil {
		return nil, err
	}
	if d.Closed() {
		return nil, domain.Transitionf("deposit %s is closed", d.ID)
	}

	d.Name = in.Name
	d.Principal = in.Principal
	d.StatedRate = in.StatedRate
	d.StartDate = in.StartDate
	d.MaturityDate = in.MaturityDate
	if err := d.Validate(); err != nil {
		return nil, err
	}

	d.ExpectedPayout = valuation.FixedDepositMaturity(d.Principal, d.StatedRate, d.StartDate, d.MaturityDate)
	if err := s.Deposits.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Close transitions an ongoing deposit to its terminal state, recording the
// actual payout and back-solving the realized rate from it. The stated rate
// is kept untouched. The closure event lands in the ledger atomically.
func (s *FixedService) Close(ctx context.Context, ownerID, id uuid.UUID, actualPayout decimal.Decimal, closedAt time.Time) (*domain.FixedTermDeposit, error) {
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

	d.Status = domain.DepositStatusClosed
	d.RealizedPayout = actualPayout
	d.RealizedRate = valuation.RealizedRate(d.Principal, actualPayout, d.StartDate, closedAt)
	d.ClosedAt = &closedAt

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

	s.Log.Info().Str("deposit_id", d.ID.String()).Str("realized_rate", d.RealizedRate.String()).Msg("fixed deposit closed")
	return d, nil
}

// UpdateClosedRecord corrects the closure data of an already-closed deposit
// and re-runs the realized-rate back-solve against the corrected payout.
func (s *FixedService) UpdateClosedRecord(ctx context.Context, ownerID, id uuid.UUID, actualPayout decimal.Decimal, closedAt time.Time) (*domain.FixedTermDeposit, error) {
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
	d.RealizedRate = valuation.RealizedRate(d.Principal, actualPayout, d.StartDate, closedAt)
	d.ClosedAt = &closedAt

	if err := s.Deposits.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the deposit and cascades to its ledger
func (s *FixedService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
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
func (s *FixedService) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.LedgerEntry, error) {
	if _, err := s.Deposits.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectEntry edits one historical ledger entry; the deposit's current state
// is left untouched.
func (s *FixedService) CorrectEntry(ctx context.Context, ownerID uuid.UUID, e *domain.LedgerEntry) error {
	if _, err := s.Deposits.GetByID(ctx, ownerID, e.InstrumentID); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, e)
}

// DeleteEntry removes one historical ledger entry without touching the
// deposit's current state.
func (s *FixedService) DeleteEntry(ctx context.Context, ownerID, id, entryID uuid.UUID) error {
	if _, err := s.Deposits.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, entryID)
}
