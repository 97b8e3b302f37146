package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle state of a savings goal
type GoalStatus string

const (
	GoalStatusActive   GoalStatus = "ACTIVE"
	GoalStatusAchieved GoalStatus = "ACHIEVED"
	GoalStatusArchived GoalStatus = "ARCHIVED"
)

// SavingsGoal represents a savings target with an optional contribution
// schedule. Lifecycle: active -> achieved -> active (reactivate);
// active -> archived.
type SavingsGoal struct {
	ID                    uuid.UUID
	OwnerID               uuid.UUID
	Name                  string
	TargetAmount          decimal.Decimal
	SavedAmount           decimal.Decimal
	Repetitive            bool
	ContributionFrequency Frequency
	ContributionDays      int // period length in days when frequency is CUSTOM
	NextContributionDate  *time.Time
	Status                GoalStatus
	CreatedAt             time.Time
}

// Validate ensures the goal adheres to domain rules
func (g *SavingsGoal) Validate() error {
	if g.Name == "" {
		return Validationf("goal name cannot be empty")
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return Validationf("target amount must be positive")
	}
	if g.SavedAmount.IsNegative() {
		return Validationf("saved amount cannot be negative")
	}
	if g.Repetitive && !g.ContributionFrequency.Valid(g.ContributionDays) {
		return Validationf("contribution frequency %q is not valid", g.ContributionFrequency)
	}
	return nil
}
