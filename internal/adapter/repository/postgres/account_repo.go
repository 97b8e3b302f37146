package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// accountRepository implements domain.LiquidAccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new liquid account repository
func NewAccountRepository(db *DB) domain.LiquidAccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new liquid account
func (r *accountRepository) Create(ctx context.Context, a *domain.LiquidAccount) error {
	query := `
		INSERT INTO liquid_accounts (id, owner_id, name, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		a.ID,
		a.OwnerID,
		a.Name,
		a.Balance.String(),
		a.CreatedAt,
	)
	if err != nil {
		return persistErr("create liquid account", err)
	}
	return nil
}

// GetByID retrieves an account scoped by (owner, id)
func (r *accountRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.LiquidAccount, error) {
	query := `
		SELECT id, owner_id, name, balance, created_at
		FROM liquid_accounts
		WHERE id = $1 AND owner_id = $2
	`

	a, err := scanAccount(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("liquid account %s", id)
		}
		return nil, err
	}
	return a, nil
}

// List retrieves all of the owner's accounts
func (r *accountRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.LiquidAccount, error) {
	query := `
		SELECT id, owner_id, name, balance, created_at
		FROM liquid_accounts
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, persistErr("list liquid accounts", err)
	}
	defer rows.Close()

	var accounts []*domain.LiquidAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate liquid accounts", err)
	}
	return accounts, nil
}

// Update persists the account's mutable fields, scoped by (owner, id)
func (r *accountRepository) Update(ctx context.Context, a *domain.LiquidAccount) error {
	query := `
		UPDATE liquid_accounts
		SET name = $1, balance = $2
		WHERE id = $3 AND owner_id = $4
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query, a.Name, a.Balance.String(), a.ID, a.OwnerID)
	if err != nil {
		return persistErr("update liquid account", err)
	}
	return requireRow(res, "liquid account %s", a.ID)
}

// Delete removes the account, scoped by (owner, id)
func (r *accountRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM liquid_accounts WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete liquid account", err)
	}
	return requireRow(res, "liquid account %s", id)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.LiquidAccount, error) {
	var a domain.LiquidAccount
	var balanceStr string

	if err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &balanceStr, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan liquid account", err)
	}

	var err error
	if a.Balance, err = parseDecimal(balanceStr, "balance"); err != nil {
		return nil, err
	}
	return &a, nil
}
