package assets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// CoverService handles insurance cover plan operations
type CoverService struct {
	Covers domain.CoverPlanRepository
	Ledger domain.SnapshotLedger
	Store  domain.Atomic
	Log    zerolog.Logger
}

// NewCoverService creates a new CoverService instance
func NewCoverService(repo domain.CoverPlanRepository, ledger domain.SnapshotLedger, store domain.Atomic, log zerolog.Logger) *CoverService {
	return &CoverService{Covers: repo, Ledger: ledger, Store: store, Log: log}
}

// CoverPlanInput represents the input for creating or updating a cover plan
type CoverPlanInput struct {
	OwnerID           uuid.UUID
	Name              string
	CoverAmount       decimal.Decimal
	PremiumAmount     decimal.Decimal
	PremiumFrequency  domain.Frequency
	PremiumCustomDays int
	NextPremiumDate   time.Time
	ExpiryDate        time.Time
}

// Create persists a new cover plan and records its cover amount as today's
// snapshot, atomically.
func (s *CoverService) Create(ctx context.Context, in CoverPlanInput) (*domain.CoverPlan, error) {
	plan := &domain.CoverPlan{
		ID:                uuid.New(),
		OwnerID:           in.OwnerID,
		Name:              in.Name,
		CoverAmount:       in.CoverAmount,
		PremiumAmount:     in.PremiumAmount,
		PremiumFrequency:  in.PremiumFrequency,
		PremiumCustomDays: in.PremiumCustomDays,
		NextPremiumDate:   in.NextPremiumDate,
		ExpiryDate:        in.ExpiryDate,
		CreatedAt:         time.Now().UTC(),
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	err := s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Covers.Create(ctx, plan); err != nil {
			return err
		}
		return s.Ledger.Upsert(ctx, &domain.ValueSnapshot{
			ID:           uuid.New(),
			InstrumentID: plan.ID,
			Date:         today(),
			Value:        plan.CoverAmount,
			Notes:        "cover opened",
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("cover_id", plan.ID.String()).Msg("cover plan created")
	return plan, nil
}

// Get retrieves a cover plan scoped by owner
func (s *CoverService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.CoverPlan, error) {
	return s.Covers.GetByID(ctx, ownerID, id)
}

// List retrieves all of the owner's cover plans
func (s *CoverService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.CoverPlan, error) {
	return s.Covers.List(ctx, ownerID)
}

// Update persists the new base fields and overwrites today's snapshot with
// the new cover amount, atomically.
func (s *CoverService) Update(ctx context.Context, id uuid.UUID, in CoverPlanInput) (*domain.CoverPlan, error) {
	plan, err := s.Covers.GetByID(ctx, in.OwnerID, id)
	if err != nil {
		return nil, err
	}

	plan.Name = in.Name
	plan.CoverAmount = in.CoverAmount
	plan.PremiumAmount = in.PremiumAmount
	plan.PremiumFrequency = in.PremiumFrequency
	plan.PremiumCustomDays = in.PremiumCustomDays
	plan.NextPremiumDate = in.NextPremiumDate
	plan.ExpiryDate = in.ExpiryDate
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Covers.Update(ctx, plan); err != nil {
			return err
		}
		return s.Ledger.Upsert(ctx, &domain.ValueSnapshot{
			ID:           uuid.New(),
			InstrumentID: plan.ID,
			Date:         today(),
			Value:        plan.CoverAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete removes the cover plan and cascades to its snapshot ledger
func (s *CoverService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Covers.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ledger.DeleteByInstrument(ctx, id); err != nil {
			return err
		}
		return s.Covers.Delete(ctx, ownerID, id)
	})
}

// History returns the plan's snapshots, date ascending
func (s *CoverService) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.ValueSnapshot, error) {
	if _, err := s.Covers.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectSnapshot edits a single historical snapshot's value or notes
func (s *CoverService) CorrectSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID, value decimal.Decimal, notes string) error {
	if _, err := s.Covers.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, &domain.ValueSnapshot{
		ID:           snapshotID,
		InstrumentID: id,
		Value:        value,
		Notes:        notes,
	})
}

// DeleteSnapshot removes one historical snapshot
func (s *CoverService) DeleteSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID) error {
	if _, err := s.Covers.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, snapshotID)
}
