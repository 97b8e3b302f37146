package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// recurringDepositRepository implements domain.RecurringDepositRepository
type recurringDepositRepository struct {
	db *DB
}

// NewRecurringDepositRepository creates a new recurring deposit repository
func NewRecurringDepositRepository(db *DB) domain.RecurringDepositRepository {
	return &recurringDepositRepository{db: db}
}

// Create creates a new recurring deposit
func (r *recurringDepositRepository) Create(ctx context.Context, d *domain.RecurringDeposit) error {
	query := `
		INSERT INTO recurring_deposits (id, owner_id, name, installment, frequency,
			custom_days, annual_rate, start_date, total_installments, installments_paid,
			next_due_date, maturity_value, realized_payout, closed_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		d.ID,
		d.OwnerID,
		d.Name,
		d.Installment.String(),
		string(d.Frequency),
		d.CustomDays,
		d.AnnualRate.String(),
		d.StartDate,
		d.TotalInstallments,
		d.InstallmentsPaid,
		nullTime(d.NextDueDate),
		d.MaturityValue.String(),
		d.RealizedPayout.String(),
		nullTime(d.ClosedAt),
		string(d.Status),
		d.CreatedAt,
	)
	if err != nil {
		return persistErr("create recurring deposit", err)
	}
	return nil
}

// GetByID retrieves a recurring deposit scoped by (owner, id)
func (r *recurringDepositRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.RecurringDeposit, error) {
	query := `
		SELECT id, owner_id, name, installment, frequency,
			custom_days, annual_rate, start_date, total_installments, installments_paid,
			next_due_date, maturity_value, realized_payout, closed_at, status, created_at
		FROM recurring_deposits
		WHERE id = $1 AND owner_id = $2
	`

	d, err := scanRecurringDeposit(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("recurring deposit %s", id)
		}
		return nil, err
	}
	return d, nil
}

// List retrieves all of the owner's recurring deposits
func (r *recurringDepositRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.RecurringDeposit, error) {
	query := `
		SELECT id, owner_id, name, installment, frequency,
			custom_days, annual_rate, start_date, total_installments, installments_paid,
			next_due_date, maturity_value, realized_payout, closed_at, status, created_at
		FROM recurring_deposits
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, persistErr("list recurring deposits", err)
	}
	defer rows.Close()

	var deposits []*domain.RecurringDeposit
	for rows.Next() {
		d, err := scanRecurringDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate recurring deposits", err)
	}
	return deposits, nil
}

// Update persists the deposit's mutable fields, scoped by (owner, id)
func (r *recurringDepositRepository) Update(ctx context.Context, d *domain.RecurringDeposit) error {
	query := `
		UPDATE recurring_deposits
		SET name = $1, installment = $2, frequency = $3, custom_days = $4,
			annual_rate = $5, start_date = $6, total_installments = $7,
			installments_paid = $8, next_due_date = $9, maturity_value = $10,
			realized_payout = $11, closed_at = $12, status = $13
		WHERE id = $14 AND owner_id = $15
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query,
		d.Name,
		d.Installment.String(),
		string(d.Frequency),
		d.CustomDays,
		d.AnnualRate.String(),
		d.StartDate,
		d.TotalInstallments,
		d.InstallmentsPaid,
		nullTime(d.NextDueDate),
		d.MaturityValue.String(),
		d.RealizedPayout.String(),
		nullTime(d.ClosedAt),
		string(d.Status),
		d.ID,
		d.OwnerID,
	)
	if err != nil {
		return persistErr("update recurring deposit", err)
	}
	return requireRow(res, "recurring deposit %s", d.ID)
}

// Delete removes the deposit, scoped by (owner, id)
func (r *recurringDepositRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM recurring_deposits WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete recurring deposit", err)
	}
	return requireRow(res, "recurring deposit %s", id)
}

func scanRecurringDeposit(row rowScanner) (*domain.RecurringDeposit, error) {
	var d domain.RecurringDeposit
	var installmentStr, rateStr, maturityStr, realizedStr string
	var nextDue, closedAt sql.NullTime

	if err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Name,
		&installmentStr,
		&d.Frequency,
		&d.CustomDays,
		&rateStr,
		&d.StartDate,
		&d.TotalInstallments,
		&d.InstallmentsPaid,
		&nextDue,
		&maturityStr,
		&realizedStr,
		&closedAt,
		&d.Status,
		&d.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan recurring deposit", err)
	}

	var err error
	if d.Installment, err = parseDecimal(installmentStr, "installment"); err != nil {
		return nil, err
	}
	if d.AnnualRate, err = parseDecimal(rateStr, "annual_rate"); err != nil {
		return nil, err
	}
	if d.MaturityValue, err = parseDecimal(maturityStr, "maturity_value"); err != nil {
		return nil, err
	}
	if d.RealizedPayout, err = parseDecimal(realizedStr, "realized_payout"); err != nil {
		return nil, err
	}
	if nextDue.Valid {
		t := nextDue.Time
		d.NextDueDate = &t
	}
	if closedAt.Valid {
		t := closedAt.Time
		d.ClosedAt = &t
	}
	return &d, nil
}
