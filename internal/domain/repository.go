package domain

import (
	"context"

	"github.com/google/uuid"
)

// Atomic executes fn as one atomic unit: every repository write performed
// inside fn commits together or not at all. The lifecycle services are the
// only callers; they use it wherever an instrument write and a ledger write
// must stay consistent.
type Atomic interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SnapshotLedger is the upsert-by-date ledger discipline: one row per
// (instrument, date), overwritten on rewrite.
type SnapshotLedger interface {
	// Upsert writes the snapshot, overwriting any prior value for the same
	// (instrument, date).
	Upsert(ctx context.Context, s *ValueSnapshot) error

	// ListByInstrument returns all snapshots for the instrument, date ascending.
	ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*ValueSnapshot, error)

	// Update corrects a single snapshot's value or notes.
	Update(ctx context.Context, s *ValueSnapshot) error

	// Delete removes a single snapshot.
	Delete(ctx context.Context, instrumentID, snapshotID uuid.UUID) error

	// DeleteByInstrument removes all snapshots for the instrument.
	DeleteByInstrument(ctx context.Context, instrumentID uuid.UUID) error
}

// TransactionLedger is the append-only ledger discipline: each entry is a
// discrete immutable transaction, duplicates per date allowed.
type TransactionLedger interface {
	// Append always inserts a new entry.
	Append(ctx context.Context, e *LedgerEntry) error

	// ListByInstrument returns all entries for the instrument, most recent
	// first (date descending, then insertion order descending).
	ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*LedgerEntry, error)

	// Update corrects a single entry.
	Update(ctx context.Context, e *LedgerEntry) error

	// Delete removes a single entry.
	Delete(ctx context.Context, instrumentID, entryID uuid.UUID) error

	// DeleteByInstrument removes all entries for the instrument.
	DeleteByInstrument(ctx context.Context, instrumentID uuid.UUID) error
}

// LiquidAccountRepository defines persistence for liquid accounts
type LiquidAccountRepository interface {
	Create(ctx context.Context, a *LiquidAccount) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*LiquidAccount, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*LiquidAccount, error)
	Update(ctx context.Context, a *LiquidAccount) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ValuedAssetRepository defines persistence for valued assets
type ValuedAssetRepository interface {
	Create(ctx context.Context, a *ValuedAsset) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*ValuedAsset, error)

	// List returns the owner's assets; category filters when non-empty.
	List(ctx context.Context, ownerID uuid.UUID, category string) ([]*ValuedAsset, error)
	Update(ctx context.Context, a *ValuedAsset) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// CoverPlanRepository defines persistence for insurance cover plans
type CoverPlanRepository interface {
	Create(ctx context.Context, c *CoverPlan) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*CoverPlan, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*CoverPlan, error)
	Update(ctx context.Context, c *CoverPlan) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// SavingsGoalRepository defines persistence for savings goals
type SavingsGoalRepository interface {
	Create(ctx context.Context, g *SavingsGoal) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*SavingsGoal, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*SavingsGoal, error)
	Update(ctx context.Context, g *SavingsGoal) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// FixedDepositRepository defines persistence for fixed-term deposits
type FixedDepositRepository interface {
	Create(ctx context.Context, d *FixedTermDeposit) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*FixedTermDeposit, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*FixedTermDeposit, error)
	Update(ctx context.Context, d *FixedTermDeposit) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// RecurringDepositRepository defines persistence for recurring deposits
type RecurringDepositRepository interface {
	Create(ctx context.Context, d *RecurringDeposit) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*RecurringDeposit, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*RecurringDeposit, error)
	Update(ctx context.Context, d *RecurringDeposit) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// SIPRepository defines persistence for systematic investments
type SIPRepository interface {
	Create(ctx context.Context, s *SystematicInvestment) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*SystematicInvestment, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*SystematicInvestment, error)
	Update(ctx context.Context, s *SystematicInvestment) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// HoldingRepository defines persistence for traded holdings
type HoldingRepository interface {
	Create(ctx context.Context, h *TradedHolding) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*TradedHolding, error)

	// List returns the owner's holdings; group filters when non-empty.
	List(ctx context.Context, ownerID uuid.UUID, group string) ([]*TradedHolding, error)
	Update(ctx context.Context, h *TradedHolding) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
