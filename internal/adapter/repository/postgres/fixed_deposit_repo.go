package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// fixedDepositRepository implements domain.FixedDepositRepository
type fixedDepositRepository struct {
	db *DB
}

// NewFixedDepositRepository creates a new fixed-term deposit repository
func NewFixedDepositRepository(db *DB) domain.FixedDepositRepository {
	return &fixedDepositRepository{db: db}
}

// Create creates a new fixed-term deposit
func (r *fixedDepositRepository) Create(ctx context.Context, d *domain.FixedTermDeposit) error {
	query := `
		INSERT INTO fixed_deposits (id, owner_id, name, principal, stated_rate,
			start_date, maturity_date, expected_payout, realized_payout, realized_rate,
			closed_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		d.ID,
		d.OwnerID,
		d.Name,
		d.Principal.String(),
		d.StatedRate.String(),
		d.StartDate,
		d.MaturityDate,
		d.ExpectedPayout.String(),
		d.RealizedPayout.String(),
		d.RealizedRate.String(),
		nullTime(d.ClosedAt),
		string(d.Status),
		d.CreatedAt,
	)
	if err != nil {
		return persistErr("create fixed deposit", err)
	}
	return nil
}

// GetByID retrieves a fixed-term deposit scoped by (owner, id)
func (r *fixedDepositRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.FixedTermDeposit, error) {
	query := `
		SELECT id, owner_id, name, principal, stated_rate,
			start_date, maturity_date, expected_payout, realized_payout, realized_rate,
			closed_at, status, created_at
		FROM fixed_deposits
		WHERE id = $1 AND owner_id = $2
	`

	d, err := scanFixedDeposit(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("fixed deposit %s", id)
		}
		return nil, err
	}
	return d, nil
}

// List retrieves all of the owner's fixed-term deposits
func (r *fixedDepositRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.FixedTermDeposit, error) {
	query := `
		SELECT id, owner_id, name, principal, stated_rate,
			start_date, maturity_date, expected_payout, realized_payout, realized_rate,
			closed_at, status, created_at
		FROM fixed_deposits
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, persistErr("list fixed deposits", err)
	}
	defer rows.Close()

	var deposits []*domain.FixedTermDeposit
	for rows.Next() {
		d, err := scanFixedDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate fixed deposits", err)
	}
	return deposits, nil
}

// Update persists the deposit's mutable fields, scoped by (owner, id)
func (r *fixedDepositRepository) Update(ctx context.Context, d *domain.FixedTermDeposit) error {
	query := `
		UPDATE fixed_deposits
		SET name = $1, principal = $2, stated_rate = $3, start_date = $4,
			maturity_date = $5, expected_payout = $6, realized_payout = $7,
			realized_rate = $8, closed_at = $9, status = $10
		WHERE id = $11 AND owner_id = $12
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query,
		d.Name,
		d.Principal.String(),
		d.StatedRate.String(),
		d.StartDate,
		d.MaturityDate,
		d.ExpectedPayout.String(),
		d.RealizedPayout.String(),
		d.RealizedRate.String(),
		nullTime(d.ClosedAt),
		string(d.Status),
		d.ID,
		d.OwnerID,
	)
	if err != nil {
		return persistErr("update fixed deposit", err)
	}
	return requireRow(res, "fixed deposit %s", d.ID)
}

// Delete removes the deposit, scoped by (owner, id)
func (r *fixedDepositRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM fixed_deposits WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete fixed deposit", err)
	}
	return requireRow(res, "fixed deposit %s", id)
}

func scanFixedDeposit(row rowScanner) (*domain.FixedTermDeposit, error) {
	var d domain.FixedTermDeposit
	var principalStr, statedStr, expectedStr, realizedStr, realizedRateStr string
	var closedAt sql.NullTime

	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Name,
		&principalStr,
		&statedStr,
		&d.StartDate,
		&d.MaturityDate,
		&expectedStr,
		&realizedStr,
		&realizedRateStr,
		&closedAt,
		&d.Status,
		&d.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan fixed deposit", err)
	}

	var err error
	if d.Principal, err = parseDecimal(principalStr, "principal"); err != nil {
		return nil, err
	}
	if d.StatedRate, err = parseDecimal(statedStr, "stated_rate"); err != nil {
		return nil, err
	}
	if d.ExpectedPayout, err = parseDecimal(expectedStr, "expected_payout"); err != nil {
		return nil, err
	}
	if d.RealizedPayout, err = parseDecimal(realizedStr, "realized_payout"); err != nil {
		return nil, err
	}
	if d.RealizedRate, err = parseDecimal(realizedRateStr, "realized_rate"); err != nil {
		return nil, err
	}
	if closedAt.Valid {
		t := closedAt.Time
		d.ClosedAt = &t
	}
	return &d, nil
}
