package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// coverRepository implements domain.CoverPlanRepository
type coverRepository struct {
	db *DB
}

// NewCoverRepository creates a new cover plan repository
func NewCoverRepository(db *DB) domain.CoverPlanRepository {
	return &coverRepository{db: db}
}

// Create creates a new cover plan
func (r *coverRepository) Create(ctx context.Context, c *domain.CoverPlan) error {
	query := `
		INSERT INTO cover_plans (id, owner_id, name, cover_amount, premium_amount,
			premium_frequency, premium_custom_days, next_premium_date, expiry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		c.ID,
		c.OwnerID,
		c.Name,
		c.CoverAmount.String(),
		c.PremiumAmount.String(),
		string(c.PremiumFrequency),
		c.PremiumCustomDays,
		c.NextPremiumDate,
		c.ExpiryDate,
		c.CreatedAt,
	)
	if err != nil {
		return persistErr("create cover plan", err)
	}
	return nil
}

// GetByID retrieves a cover plan scoped by (owner, id)
func (r *coverRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.CoverPlan, error) {
	query := `
		SELECT id, owner_id, name, cover_amount, premium_amount,
			premium_frequency, premium_custom_days, next_premium_date, expiry_date, created_at
		FROM cover_plans
		WHERE id = $1 AND owner_id = $2
	`

	c, err := scanCover(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("cover plan %s", id)
		}
		return nil, err
	}
	return c, nil
}

// List retrieves all of the owner's cover plans
func (r *coverRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.CoverPlan, error) {
	query := `
		SELECT id, owner_id, name, cover_amount, premium_amount,
			premium_frequency, premium_custom_days, next_premium_date, expiry_date, created_at
		FROM cover_plans
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, persistErr("list cover plans", err)
	}
	defer rows.Close()

	var plans []*domain.CoverPlan
	for rows.Next() {
		c, err := scanCover(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate cover plans", err)
	}
	return plans, nil
}

// Update persists the plan's mutable fields, scoped by (owner, id)
func (r *coverRepository) Update(ctx context.Context, c *domain.CoverPlan) error {
	query := `
		UPDATE cover_plans
		SET name = $1, cover_amount = $2, premium_amount = $3, premium_frequency = $4,
			premium_custom_days = $5, next_premium_date = $6, expiry_date = $7
		WHERE id = $8 AND owner_id = $9
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query,
		c.Name,
		c.CoverAmount.String(),
		c.PremiumAmount.String(),
		string(c.PremiumFrequency),
		c.PremiumCustomDays,
		c.NextPremiumDate,
		c.ExpiryDate,
		c.ID,
		c.OwnerID,
	)
	if err != nil {
		return persistErr("update cover plan", err)
	}
	return requireRow(res, "cover plan %s", c.ID)
}

// Delete removes the plan, scoped by (owner, id)
func (r *coverRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM cover_plans WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete cover plan", err)
	}
	return requireRow(res, "cover plan %s", id)
}

func scanCover(row rowScanner) (*domain.CoverPlan, error) {
	var c domain.CoverPlan
	var coverStr, premiumStr string

	if err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&coverStr,
		&premiumStr,
		&c.PremiumFrequency,
		&c.PremiumCustomDays,
		&c.NextPremiumDate,
		&c.ExpiryDate,
		&c.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan cover plan", err)
	}

	var err error
	if c.CoverAmount, err = parseDecimal(coverStr, "cover_amount"); err != nil {
		return nil, err
	}
	if c.PremiumAmount, err = parseDecimal(premiumStr, "premium_amount"); err != nil {
		return nil, err
	}
	return &c, nil
}
