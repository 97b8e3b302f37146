package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// assetRepository implements domain.ValuedAssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new valued asset repository
func NewAssetRepository(db *DB) domain.ValuedAssetRepository {
	return &assetRepository{db: db}
}

// Create creates a new valued asset
func (r *assetRepository) Create(ctx context.Context, a *domain.ValuedAsset) error {
	query := `
		INSERT INTO valued_assets (id, owner_id, name, value, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		a.ID,
		a.OwnerID,
		a.Name,
		a.Value.String(),
		a.Category,
		a.CreatedAt,
	)
	if err != nil {
		return persistErr("create valued asset", err)
	}
	return nil
}

// GetByID retrieves an asset scoped by (owner, id)
func (r *assetRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ValuedAsset, error) {
	query := `
		SELECT id, owner_id, name, value, category, created_at
		FROM valued_assets
		WHERE id = $1 AND owner_id = $2
	`

	a, err := scanAsset(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("valued asset %s", id)
		}
		return nil, err
	}
	return a, nil
}

// List retrieves the owner's assets; category filters when non-empty
func (r *assetRepository) List(ctx context.Context, ownerID uuid.UUID, category string) ([]*domain.ValuedAsset, error) {
	query := `
		SELECT id, owner_id, name, value, category, created_at
		FROM valued_assets
		WHERE owner_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID, category)
	if err != nil {
		return nil, persistErr("list valued assets", err)
	}
	defer rows.Close()

	var assets []*domain.ValuedAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate valued assets", err)
	}
	return assets, nil
}

// Update persists the asset's mutable fields, scoped by (owner, id)
func (r *assetRepository) Update(ctx context.Context, a *domain.ValuedAsset) error {
	query := `
		UPDATE valued_assets
		SET name = $1, value = $2, category = $3
		WHERE id = $4 AND owner_id = $5
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query, a.Name, a.Value.String(), a.Category, a.ID, a.OwnerID)
	if err != nil {
		return persistErr("update valued asset", err)
	}
	return requireRow(res, "valued asset %s", a.ID)
}

// Delete removes the asset, scoped by (owner, id)
func (r *assetRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM valued_assets WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete valued asset", err)
	}
	return requireRow(res, "valued asset %s", id)
}

func scanAsset(row rowScanner) (*domain.ValuedAsset, error) {
	var a domain.ValuedAsset
	var valueStr string

	if err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &valueStr, &a.Category, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan valued asset", err)
	}

	var err error
	if a.Value, err = parseDecimal(valueStr, "value"); err != nil {
		return nil, err
	}
	return &a, nil
}
