package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// goalRepository implements domain.SavingsGoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new savings goal repository
func NewGoalRepository(db *DB) domain.SavingsGoalRepository {
	return &goalRepository{db: db}
}

// Create creates a new savings goal
func (r *goalRepository) Create(ctx context.Context, g *domain.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (id, owner_id, name, target_amount, saved_amount,
			repetitive, contribution_frequency, contribution_days, next_contribution_date,
			status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.q(ctx).ExecContext(ctx, query,
		g.ID,
		g.OwnerID,
		g.Name,
		g.TargetAmount.String(),
		g.SavedAmount.String(),
		g.Repetitive,
		string(g.ContributionFrequency),
		g.ContributionDays,
		nullTime(g.NextContributionDate),
		string(g.Status),
		g.CreatedAt,
	)
	if err != nil {
		return persistErr("create savings goal", err)
	}
	return nil
}

// GetByID retrieves a savings goal scoped by (owner, id)
func (r *goalRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.SavingsGoal, error) {
	query := `
		SELECT id, owner_id, name, target_amount, saved_amount,
			repetitive, contribution_frequency, contribution_days, next_contribution_date,
			status, created_at
		FROM savings_goals
		WHERE id = $1 AND owner_id = $2
	`

	g, err := scanGoal(r.db.q(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("savings goal %s", id)
		}
		return nil, err
	}
	return g, nil
}

// List retrieves all of the owner's savings goals
func (r *goalRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.SavingsGoal, error) {
	query := `
		SELECT id, owner_id, name, target_amount, saved_amount,
			repetitive, contribution_frequency, contribution_days, next_contribution_date,
			status, created_at
		FROM savings_goals
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.q(ctx).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, persistErr("list savings goals", err)
	}
	defer rows.Close()

	var goals []*domain.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate savings goals", err)
	}
	return goals, nil
}

// Update persists the goal's mutable fields, scoped by (owner, id)
func (r *goalRepository) Update(ctx context.Context, g *domain.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, saved_amount = $3, repetitive = $4,
			contribution_frequency = $5, contribution_days = $6,
			next_contribution_date = $7, status = $8
		WHERE id = $9 AND owner_id = $10
	`

	res, err := r.db.q(ctx).ExecContext(ctx, query,
		g.Name,
		g.TargetAmount.String(),
		g.SavedAmount.String(),
		g.Repetitive,
		string(g.ContributionFrequency),
		g.ContributionDays,
		nullTime(g.NextContributionDate),
		string(g.Status),
		g.ID,
		g.OwnerID,
	)
	if err != nil {
		return persistErr("update savings goal", err)
	}
	return requireRow(res, "savings goal %s", g.ID)
}

// Delete removes the goal, scoped by (owner, id)
func (r *goalRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM savings_goals WHERE id = $1 AND owner_id = $2`

	res, err := r.db.q(ctx).ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return persistErr("delete savings goal", err)
	}
	return requireRow(res, "savings goal %s", id)
}

func scanGoal(row rowScanner) (*domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	var targetStr, savedStr string
	var nextContribution sql.NullTime

	if err := row.Scan(
		&g.ID,
		&g.OwnerID,
		&g.Name,
		&targetStr,
		&savedStr,
		&g.Repetitive,
		&g.ContributionFrequency,
		&g.ContributionDays,
		&nextContribution,
		&g.Status,
		&g.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistErr("scan savings goal", err)
	}

	var err error
	if g.TargetAmount, err = parseDecimal(targetStr, "target_amount"); err != nil {
		return nil, err
	}
	if g.SavedAmount, err = parseDecimal(savedStr, "saved_amount"); err != nil {
		return nil, err
	}
	if nextContribution.Valid {
		t := nextContribution.Time
		g.NextContributionDate = &t
	}
	return &g, nil
}
