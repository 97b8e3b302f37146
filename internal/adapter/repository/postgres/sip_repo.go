package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// sipRepository implements domain.SIPRepository
type sipRepository struct {
	db *DB
}

// NewSIPRepository creates a new systematic investment repository
func NewSIPRepository(db *DB) domain.SIPRepository {
	return &sipRepository{db: db}
}

// Create creates a new systematic investment
func (r *sipRepository) Create(ctx context.Context, s *domain.SystematicInvestment) error {
	query := `
		INSERT INTO systematic_investments (id, owner_id, scheme_name, scheme_code,
			total_units, current_unit_price, total_invested, redeemed_amount,
			redeemed_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		s.ID,
		s.OwnerID,
		s.SchemeName,
		s.SchemeCode,
		s.TotalUnits.String(),
		s.CurrentUnitPrice.String(),
		s.TotalInvested.String(),
		s.RedeemedAmount.String(),
		nullTime(s.RedeemedAt),
		string(s.Status),
		s.CreatedAt,
	)
	if err != nil {
		return persistErr("create systematic investment", err)
	}
	return nil
}

// GetByID retrieves a systematic investment scoped by (owner, id)
func (r *sipRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.SystematicInvestment, error) {
	query := `
		SELECT id, owner_id, scheme_name, scheme_code,
			total_units, current_unit_price, total_invested, redeemed_amount,
			redeemed_at, status, created_at
		FROM systematic_investments
		WHERE id = $1 AND owner_id = $2
	`

	s, err := scanSIP(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("systematic investment %s", id)
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all of the owner's systematic investments
func (r *sipRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.SystematicInvestment, error) {
	query := `
		SELECT id, owner_id, scheme_name, scheme_code,
			total_units, current_unit_price, total_invested, redeemed_amount,
			redeemed_at, status, created_at
		FROM systematic_investments
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, persistErr("list systematic investments", err)
	}
	defer rows.Close()

	var sips []*domain.SystematicInvestment
	for rows.Next() {
		s, err := scanSIP(rows)
		if err != nil {
			return nil, err
		}
		sips = append(sips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate systematic investments", err)
	}
	return sips, nil
}

// Update persists the investment's mutable fields, scoped by (owner, id)
func (r *sipRepository) Update(ctx context.Context, s *domain.SystematicInvestment) error {
	query := `
		UPDATE systematic_investments
		SET scheme_name = $1, scheme_code = $2, total_units = $3,
			current_unit_price = $4, total_invested = $5, redeemed_amount = $6,
			redeemed_at = $7, status = $8
		WHERE id = $9 AND owner_id = $10
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query,
		s.SchemeName,
		s.SchemeCode,
		s.TotalUnits.String(),
		s.CurrentUnitPrice.String(),
		s.TotalInvested.String(),
		s.RedeemedAmount.String(),
		nullTime(s.RedeemedAt),
		string(s.Status),
		s.ID,
		s.OwnerID,
	)
	if err != nil {
		return persistErr("update systematic investment", err)
	}
	return requireRow(res, "systematic investment %s", s.ID)
}

// Delete removes the investment, scoped by (owner, id)
func (r *sipRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM systematic_investments WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete systematic investment", err)
	}
	return requireRow(res, "systematic investment %s", id)
}

func scanSIP(row rowScanner) (*domain.SystematicInvestment, error) {
	var s domain.SystematicInvestment
	var unitsStr, priceStr, investedStr, redeemedStr string
	var redeemedAt sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.SchemeName,
		&s.SchemeCode,
		&unitsStr,
		&priceStr,
		&investedStr,
		&redeemedStr,
		&redeemedAt,
		&s.Status,
		&s.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan systematic investment", err)
	}

	var err error
	if s.TotalUnits, err = parseDecimal(unitsStr, "total_units"); err != nil {
		return nil, err
	}
	if s.CurrentUnitPrice, err = parseDecimal(priceStr, "current_unit_price"); err != nil {
		return nil, err
	}
	if s.TotalInvested, err = parseDecimal(investedStr, "total_invested"); err != nil {
		return nil, err
	}
	if s.RedeemedAmount, err = parseDecimal(redeemedStr, "redeemed_amount"); err != nil {
		return nil, err
	}
	if redeemedAt.Valid {
		t := redeemedAt.Time
		s.RedeemedAt = &t
	}
	return &s, nil
}
