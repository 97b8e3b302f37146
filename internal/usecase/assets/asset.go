package assets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// AssetService handles valued asset operations
type AssetService struct {
	Assets domain.ValuedAssetRepository
	Ledger domain.SnapshotLedger
	Store  domain.Atomic
	Log    zerolog.Logger
}

// NewAssetService creates a new AssetService instance
func NewAssetService(repo domain.ValuedAssetRepository, ledger domain.SnapshotLedger, store domain.Atomic, log zerolog.Logger) *AssetService {
	return &AssetService{Assets: repo, Ledger: ledger, Store: store, Log: log}
}

// CreateAssetInput represents the input for creating a valued asset
type CreateAssetInput struct {
	OwnerID  uuid.UUID
	Name     string
	Value    decimal.Decimal
	Category string
}

// Create persists a new asset and records its value as today's snapshot,
// atomically.
func (s *AssetService) Create(ctx context.Context, in CreateAssetInput) (*domain.ValuedAsset, error) {
	asset := &domain.ValuedAsset{
		ID:        uuid.New(),
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Value:     in.Value,
		Category:  in.Category,
		CreatedAt: time.Now().UTC(),
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}

	err := s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Assets.Create(ctx, asset); err != nil {
			return err
		}
		return s.Ledger.Upsert(ctx, &domain.ValueSnapshot{
			ID:           uuid.New(),
			InstrumentID: asset.ID,
			Date:         today(),
			Value:        asset.Value,
			Notes:        "initial value",
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("asset_id", asset.ID.String()).Msg("valued asset created")
	return asset, nil
}

// Get retrieves an asset scoped by owner
func (s *AssetService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.ValuedAsset, error) {
	return s.Assets.GetByID(ctx, ownerID, id)
}

// List retrieves the owner's assets, optionally filtered by category
func (s *AssetService) List(ctx context.Context, ownerID uuid.UUID, category string) ([]*domain.ValuedAsset, error) {
	return s.Assets.List(ctx, ownerID, category)
}

// UpdateAssetInput represents the input for updating a valued asset
type UpdateAssetInput struct {
	OwnerID  uuid.UUID
	ID       uuid.UUID
	Name     string
	Value    decimal.Decimal
	Category string
}

// Update persists the new base fields and overwrites today's snapshot with
// the new value, atomically.
func (s *AssetService) Update(ctx context.Context, in UpdateAssetInput) (*domain.ValuedAsset, error) {
	asset, err := s.Assets.GetByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}

	asset.Name = in.Name
	asset.Value = in.Value
	asset.Category = in.Category
	if err := asset.Validate(); err != nil {
		return nil, err
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Assets.Update(ctx, asset); err != nil {
			return err
		}
		return s.Ledger.Upsert(ctx, &domain.ValueSnapshot{
			ID:           uuid.New(),
			InstrumentID: asset.ID,
			Date:         today(),
			Value:        asset.Value,
		})
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete removes the asset and cascades to its snapshot ledger
func (s *AssetService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Assets.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ledger.DeleteByInstrument(ctx, id); err != nil {
			return err
		}
		return s.Assets.Delete(ctx, ownerID, id)
	})
}

// History returns the asset's snapshots, date ascending
func (s *AssetService) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.ValueSnapshot, error) {
	if _, err := s.Assets.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectSnapshot edits a single historical snapshot's value or notes. The
// asset's current value is left untouched.
func (s *AssetService) CorrectSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID, value decimal.Decimal, notes string) error {
	if _, err := s.Assets.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, &domain.ValueSnapshot{
		ID:           snapshotID,
		InstrumentID: id,
		Value:        value,
		Notes:        notes,
	})
}

// DeleteSnapshot removes one historical snapshot without touching the asset's
// current value.
func (s *AssetService) DeleteSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID) error {
	if _, err := s.Assets.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, snapshotID)
}
