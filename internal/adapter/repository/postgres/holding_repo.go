package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new traded holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// Create creates a new traded holding
func (r *holdingRepository) Create(ctx context.Context, h *domain.TradedHolding) error {
	query := `
		INSERT INTO traded_holdings (id, owner_id, symbol, quantity, buy_price,
			buy_date, current_price, grouping, sell_price, sold_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		h.ID,
		h.OwnerID,
		h.Symbol,
		h.Quantity.String(),
		h.BuyPrice.String(),
		h.BuyDate,
		h.CurrentPrice.String(),
		h.Group,
		h.SellPrice.String(),
		nullTime(h.SoldAt),
		string(h.Status),
		h.CreatedAt,
	)
	if err != nil {
		return persistErr("create traded holding", err)
	}
	return nil
}

// GetByID retrieves a traded holding scoped by (owner, id)
func (r *holdingRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.TradedHolding, error) {
	query := `
		SELECT id, owner_id, symbol, quantity, buy_price,
			buy_date, current_price, grouping, sell_price, sold_at, status, created_at
		FROM traded_holdings
		WHERE id = $1 AND owner_id = $2
	`

	h, err := scanHolding(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("traded holding %s", id)
		}
		return nil, err
	}
	return h, nil
}

// List retrieves the owner's holdings, optionally filtered by group
func (r *holdingRepository) List(ctx context.Context, ownerID uuid.UUID, group string) ([]*domain.TradedHolding, error) {
	query := `
		SELECT id, owner_id, symbol, quantity, buy_price,
			buy_date, current_price, grouping, sell_price, sold_at, status, created_at
		FROM traded_holdings
		WHERE owner_id = $1 AND ($2 = '' OR grouping = $2)
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID, group)
	if err != nil {
		return nil, persistErr("list traded holdings", err)
	}
	defer rows.Close()

	var holdings []*domain.TradedHolding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate traded holdings", err)
	}
	return holdings, nil
}

// Update persists the holding's mutable fields, scoped by (owner, id)
func (r *holdingRepository) Update(ctx context.Context, h *domain.TradedHolding) error {
	query := `
		UPDATE traded_holdings
		SET symbol = $1, quantity = $2, buy_price = $3, buy_date = $4,
			current_price = $5, grouping = $6, sell_price = $7, sold_at = $8, status = $9
		WHERE id = $10 AND owner_id = $11
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query,
		h.Symbol,
		h.Quantity.String(),
		h.BuyPrice.String(),
		h.BuyDate,
		h.CurrentPrice.String(),
		h.Group,
		h.SellPrice.String(),
		nullTime(h.SoldAt),
		string(h.Status),
		h.ID,
		h.OwnerID,
	)
	if err != nil {
		return persistErr("update traded holding", err)
	}
	return requireRow(res, "traded holding %s", h.ID)
}

// Delete removes the holding, scoped by (owner, id)
func (r *holdingRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM traded_holdings WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete traded holding", err)
	}
	return requireRow(res, "traded holding %s", id)
}

func scanHolding(row rowScanner) (*domain.TradedHolding, error) {
	var h domain.TradedHolding
	var quantityStr, buyStr, currentStr, sellStr string
	var soldAt sql.NullTime

	if err := row.Scan(
		&h.ID,
		&h.OwnerID,
		&h.Symbol,
		&quantityStr,
		&buyStr,
		&h.BuyDate,
		&currentStr,
		&h.Group,
		&sellStr,
		&soldAt,
		&h.Status,
		&h.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan traded holding", err)
	}

	var err error
	if h.Quantity, err = parseDecimal(quantityStr, "quantity"); err != nil {
		return nil, err
	}
	if h.BuyPrice, err = parseDecimal(buyStr, "buy_price"); err != nil {
		return nil, err
	}
	if h.CurrentPrice, err = parseDecimal(currentStr, "current_price"); err != nil {
		return nil, err
	}
	if h.SellPrice, err = parseDecimal(sellStr, "sell_price"); err != nil {
		return nil, err
	}
	if soldAt.Valid {
		t := soldAt.Time
		h.SoldAt = &t
	}
	return &h, nil
}
