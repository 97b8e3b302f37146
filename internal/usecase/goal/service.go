// Package goal holds the savings goal lifecycle: contributions feed the saved
// amount and the upsert-by-date ledger records the running total; achieve,
// reactivate and archive toggle the lifecycle state with no numeric side
// effects.
package goal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/valuation"
)

// Service handles savings goal operations
type Service struct {
	Goals  domain.SavingsGoalRepository
	Ledger domain.SnapshotLedger
	Store  domain.Atomic
	Log    zerolog.Logger
}

// NewService creates a new goal Service instance
func NewService(goals domain.SavingsGoalRepository, ledger domain.SnapshotLedger, store domain.Atomic, log zerolog.Logger) *Service {
	return &Service{Goals: goals, Ledger: ledger, Store: store, Log: log}
}

// CreateInput represents the input for creating a savings goal
type CreateInput struct {
	OwnerID               uuid.UUID
	Name                  string
	TargetAmount          decimal.Decimal
	SavedAmount           decimal.Decimal
	Repetitive            bool
	ContributionFrequency domain.Frequency
	ContributionDays      int
	NextContributionDate  *time.Time
}

// Create persists a new goal in the active state
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.SavingsGoal, error) {
	g := &domain.SavingsGoal{
		ID:                    uuid.New(),
		OwnerID:               in.OwnerID,
		Name:                  in.Name,
		TargetAmount:          in.TargetAmount,
		SavedAmount:           in.SavedAmount,
		Repetitive:            in.Repetitive,
		ContributionFrequency: in.ContributionFrequency,
		ContributionDays:      in.ContributionDays,
		NextContributionDate:  in.NextContributionDate,
		Status:                domain.GoalStatusActive,
		CreatedAt:             time.Now().UTC(),
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := s.Goals.Create(ctx, g); err != nil {
		return nil, err
	}

	s.Log.Info().Str("goal_id", g.ID.String()).Msg("savings goal created")
	return g, nil
}

// Get retrieves a goal scoped by owner
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.SavingsGoal, error) {
	return s.Goals.GetByID(ctx, ownerID, id)
}

// List retrieves all of the owner's goals
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.SavingsGoal, error) {
	return s.Goals.List(ctx, ownerID)
}

// UpdateInput represents the input for updating a savings goal
type UpdateInput struct {
	OwnerID               uuid.UUID
	ID                    uuid.UUID
	Name                  string
	TargetAmount          decimal.Decimal
	Repetitive            bool
	ContributionFrequency domain.Frequency
	ContributionDays      int
	NextContributionDate  *time.Time
}

// Update edits the goal's base fields. Archived goals are frozen.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*domain.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}
	if g.Status == domain.GoalStatusArchived {
		return nil, domain.Transitionf("goal %s is archived", g.ID)
	}

	g.Name = in.Name
	g.TargetAmount = in.TargetAmount
	g.Repetitive = in.Repetitive
	g.ContributionFrequency = in.ContributionFrequency
	g.ContributionDays = in.ContributionDays
	g.NextContributionDate = in.NextContributionDate
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := s.Goals.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Contribute adds amount to the saved total and records the running total as
// today's snapshot, atomically. Only active goals accept contributions: an
// achieved goal must be reactivated first, so that crossing the target stays
// an explicit decision rather than a silent side effect of a deposit.
func (s *Service) Contribute(ctx context.Context, ownerID, id uuid.UUID, amount decimal.Decimal, notes string) (*domain.SavingsGoal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("contribution amount must be positive")
	}

	g, err := s.Goals.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if g.Status != domain.GoalStatusActive {
		return nil, domain.Transitionf("goal %s is %s, contributions require an active goal", g.ID, g.Status)
	}

	g.SavedAmount = g.SavedAmount.Add(amount)
	if err := s.saveWithSnapshot(ctx, g, notes); err != nil {
		return nil, err
	}

	s.Log.Debug().Str("goal_id", g.ID.String()).Str("amount", amount.String()).Msg("goal contribution recorded")
	return g, nil
}

// MarkContributionDone records a scheduled contribution: it adds amount to
// the saved total and, for repetitive goals, advances the next contribution
// date by one period. Non-repetitive goals get their next date cleared.
func (s *Service) MarkContributionDone(ctx context.Context, ownerID, id uuid.UUID, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("contribution amount must be positive")
	}

	g, err := s.Goals.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if g.Status != domain.GoalStatusActive {
		return nil, domain.Transitionf("goal %s is %s, contributions require an active goal", g.ID, g.Status)
	}

	g.SavedAmount = g.SavedAmount.Add(amount)
	if g.Repetitive && g.NextContributionDate != nil {
		next := valuation.AdvanceSchedule(*g.NextContributionDate, g.ContributionFrequency, g.ContributionDays, 1)
		g.NextContributionDate = &next
	} else {
		g.NextContributionDate = nil
	}

	if err := s.saveWithSnapshot(ctx, g, "scheduled contribution"); err != nil {
		return nil, err
	}
	return g, nil
}

// MarkAchieved transitions an active goal to achieved
func (s *Service) MarkAchieved(ctx context.Context, ownerID, id uuid.UUID) (*domain.SavingsGoal, error) {
	return s.setStatus(ctx, ownerID, id, domain.GoalStatusActive, domain.GoalStatusAchieved)
}

// Reactivate transitions an achieved goal back to active
func (s *Service) Reactivate(ctx context.Context, ownerID, id uuid.UUID) (*domain.SavingsGoal, error) {
	return s.setStatus(ctx, ownerID, id, domain.GoalStatusAchieved, domain.GoalStatusActive)
}

// Archive transitions an active goal to archived
func (s *Service) Archive(ctx context.Context, ownerID, id uuid.UUID) (*domain.SavingsGoal, error) {
	return s.setStatus(ctx, ownerID, id, domain.GoalStatusActive, domain.GoalStatusArchived)
}

// Delete removes the goal and cascades to its snapshot ledger
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Goals.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ledger.DeleteByInstrument(ctx, id); err != nil {
			return err
		}
		return s.Goals.Delete(ctx, ownerID, id)
	})
}

// History returns the goal's running-total snapshots, date ascending
func (s *Service) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.ValueSnapshot, error) {
	if _, err := s.Goals.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectSnapshot edits a single historical snapshot's value or notes. The
// goal's saved amount is left untouched.
func (s *Service) CorrectSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID, value decimal.Decimal, notes string) error {
	if _, err := s.Goals.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, &domain.ValueSnapshot{
		ID:           snapshotID,
		InstrumentID: id,
		Value:        value,
		Notes:        notes,
	})
}

// DeleteSnapshot removes one historical snapshot without touching the goal's
// saved amount.
func (s *Service) DeleteSnapshot(ctx context.Context, ownerID, id, snapshotID uuid.UUID) error {
	if _, err := s.Goals.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, snapshotID)
}

func (s *Service) saveWithSnapshot(ctx context.Context, g *domain.SavingsGoal, notes string) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Goals.Update(ctx, g); err != nil {
			return err
		}
		return s.Ledger.Upsert(ctx, &domain.ValueSnapshot{
			ID:           uuid.New(),
			InstrumentID: g.ID,
			Date:         todayUTC(),
			Value:        g.SavedAmount,
			Notes:        notes,
		})
	})
}

func (s *Service) setStatus(ctx context.Context, ownerID, id uuid.UUID, from, to domain.GoalStatus) (*domain.SavingsGoal, error) {
	g, err := s.Goals.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if g.Status != from {
		return nil, domain.Transitionf("goal %s is %s, expected %s", g.ID, g.Status, from)
	}

	g.Status = to
	if err := s.Goals.Update(ctx, g); err != nil {
		return nil, err
	}

	s.Log.Info().Str("goal_id", g.ID.String()).Str("status", string(to)).Msg("goal status changed")
	return g, nil
}

func todayUTC() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
