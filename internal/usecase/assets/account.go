package assets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// AccountService handles liquid account operations
type AccountService struct {
	Accounts domain.LiquidAccountRepository
	Ledger   domain.SnapshotLedger
	Store    domain.Atomic
	Log      zerolog.Logger
}

// NewAccountService creates a new AccountService instance
func NewAccountService(accounts domain.LiquidAccountRepository, ledger domain.SnapshotLedger, store domain.Atomic, log zerolog.Logger) *AccountService {
	return &AccountService{Accounts: accounts, Ledger: ledger, Store: store, Log: log}
}

// CreateAccountInput represents the input for creating a liquid account
type CreateAccountInput struct {
	OwnerID uuid.UUID
	Name    string
	Balance decimal.Decimal
}

// Create persists a new account and records its opening balance as today's
// snapshot, atomically.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*domain.LiquidAccount, error) {
	acct := &domain.LiquidAccount{
		ID:        uuid.New(),
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Balance:   in.Balance,
		CreatedAt: time.Now().UTC(),
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	err := s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Accounts.Create(ctx, acct); err != nil {
			return err
		}
		return s.Ledger.Upsert(ctx, &domain.ValueSnapshot{
			ID:           uuid.New(),
			InstrumentID: acct.ID,
			Date:         today(),
			Value:        acct.Balance,
			Notes:        "opening balance",
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("account_id", acct.ID.String()).Msg("liquid account created")
	return acct, nil
}

// Get retrieves an account scoped by owner
func (s *AccountService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.LiquidAccount, error) {
	return s.Accounts.GetByID(ctx, ownerID, id)
}

// List retrieves all of the owner's accounts
func (s *AccountService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.LiquidAccount, error) {
	return s.Accounts.List(ctx, ownerID)
}

// UpdateAccountInput represents the input for updating a liquid account
type UpdateAccountInput struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
	Name    string
	Balance decimal.Decimal
}

// Update persists the new base fields and overwrites today's snapshot with
// the new balance, atomically.
func (s *AccountService) Update(ctx context.Context, in UpdateAccountInput) (*domain.LiquidAccount, error) {
	acct, err := s.Accounts.GetByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}

	acct.Name = in.Name
	acct.Balance = in.Balance
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Accounts.Update(ctx, acct); err != nil {
			return err
		}
		return s.Ledger.Upsert(ctx, &domain.ValueSnapshot{
			ID:           uuid.New(),
			InstrumentID: acct.ID,
			Date:         today(),
			Value:        acct.Balance,
		})
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Delete removes the account and cascades to its snapshot ledger
func (s *AccountService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Accounts.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ledger.DeleteByInstrument(ctx, id); err != nil {
			return err
		}
		return s.Accounts.Delete(ctx, ownerID, id)
	})
}

// History returns the account's snapshots, date ascending
func (s *AccountService) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.ValueSnapshot, error) {
	if _, err := s.Accounts.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectSnapshot edits a single historical snapshot's value or notes. The
// account's current balance is left untouched.
func (s *AccountService) CorrectSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID, value decimal.Decimal, notes string) error {
	if _, err := s.Accounts.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, &domain.ValueSnapshot{
		ID:           snapshotID,
		InstrumentID: id,
		Value:        value,
		Notes:        notes,
	})
}

// DeleteSnapshot removes one historical snapshot, again without touching the
// account's current balance.
func (s *AccountService) DeleteSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID) error {
	if _, err := s.Accounts.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, snapshotID)
}
