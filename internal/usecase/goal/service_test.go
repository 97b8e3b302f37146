package goal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

type fakeAtomic struct{}

func (fakeAtomic) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockGoalRepository is a mock implementation of SavingsGoalRepository for testing
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) Create(ctx context.Context, g *domain.SavingsGoal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGoalRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.SavingsGoal, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavingsGoal), args.Error(1)
}

func (m *MockGoalRepository) Update(ctx context.Context, g *domain.SavingsGoal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGoalRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockSnapshotLedger is a mock implementation of SnapshotLedger for testing
type MockSnapshotLedger struct {
	mock.Mock
}

func (m *MockSnapshotLedger) Upsert(ctx context.Context, s *domain.ValueSnapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSnapshotLedger) ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*domain.ValueSnapshot, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ValueSnapshot), args.Error(1)
}

func (m *MockSnapshotLedger) Update(ctx context.Context, s *domain.ValueSnapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSnapshotLedger) Delete(ctx context.Context, instrumentID, snapshotID uuid.UUID) error {
	args := m.Called(ctx, instrumentID, snapshotID)
	return args.Error(0)
}

func (m *MockSnapshotLedger) DeleteByInstrument(ctx context.Context, instrumentID uuid.UUID) error {
	args := m.Called(ctx, instrumentID)
	return args.Error(0)
}

func newTestService(repo *MockGoalRepository, ledger *MockSnapshotLedger) *Service {
	return NewService(repo, ledger, fakeAtomic{}, zerolog.Nop())
}

func activeGoal(ownerID uuid.UUID) *domain.SavingsGoal {
	return &domain.SavingsGoal{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         "Emergency Fund",
		TargetAmount: decimal.NewFromInt(10000),
		SavedAmount:  decimal.NewFromInt(2000),
		Status:       domain.GoalStatusActive,
	}
}

func TestContribute_AddsToSavedAmountAndSnapshotsRunningTotal(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)
	mockRepo.On("Update", ctx, g).Return(nil)
	mockLedger.On("Upsert", ctx, mock.MatchedBy(func(s *domain.ValueSnapshot) bool {
		return s.InstrumentID == g.ID && s.Value.Equal(decimal.NewFromInt(2500))
	})).Return(nil)

	got, err := service.Contribute(ctx, ownerID, g.ID, decimal.NewFromInt(500), "bonus")

	assert.NoError(t, err)
	assert.True(t, got.SavedAmount.Equal(decimal.NewFromInt(2500)))
	mockLedger.AssertExpectations(t)
}

func TestContribute_NonPositiveAmountRejected(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	_, err := service.Contribute(ctx, uuid.New(), uuid.New(), decimal.Zero, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestContribute_ArchivedGoalRejected(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	g.Status = domain.GoalStatusArchived
	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)

	_, err := service.Contribute(ctx, ownerID, g.ID, decimal.NewFromInt(100), "")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
	mockLedger.AssertNotCalled(t, "Upsert")
}

func TestContribute_AchievedGoalRequiresReactivation(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	g.Status = domain.GoalStatusAchieved
	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)

	_, err := service.Contribute(ctx, ownerID, g.ID, decimal.NewFromInt(100), "")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
	mockLedger.AssertNotCalled(t, "Upsert")
}

func TestMarkContributionDone_AdvancesScheduleOnePeriod(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	g.Repetitive = true
	g.ContributionFrequency = domain.FrequencyMonthly
	due := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	g.NextContributionDate = &due

	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)
	mockRepo.On("Update", ctx, g).Return(nil)
	mockLedger.On("Upsert", ctx, mock.Anything).Return(nil)

	got, err := service.MarkContributionDone(ctx, ownerID, g.ID, decimal.NewFromInt(500))

	assert.NoError(t, err)
	assert.NotNil(t, got.NextContributionDate)
	assert.Equal(t, time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC), *got.NextContributionDate)
}

func TestMarkContributionDone_NonRepetitiveClearsNextDate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	due := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	g.NextContributionDate = &due

	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)
	mockRepo.On("Update", ctx, g).Return(nil)
	mockLedger.On("Upsert", ctx, mock.Anything).Return(nil)

	got, err := service.MarkContributionDone(ctx, ownerID, g.ID, decimal.NewFromInt(500))

	assert.NoError(t, err)
	assert.Nil(t, got.NextContributionDate)
}

func TestMarkAchieved_FromActive(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)
	mockRepo.On("Update", ctx, g).Return(nil)

	got, err := service.MarkAchieved(ctx, ownerID, g.ID)

	assert.NoError(t, err)
	assert.Equal(t, domain.GoalStatusAchieved, got.Status)
}

func TestReactivate_FromActiveRejected(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)

	_, err := service.Reactivate(ctx, ownerID, g.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdate_ArchivedGoalFrozen(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	g.Status = domain.GoalStatusArchived
	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)

	_, err := service.Update(ctx, UpdateInput{
		OwnerID:      ownerID,
		ID:           g.ID,
		Name:         "Renamed",
		TargetAmount: decimal.NewFromInt(20000),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestDelete_CascadesToLedger(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockGoalRepository)
	mockLedger := new(MockSnapshotLedger)
	service := newTestService(mockRepo, mockLedger)

	ownerID := uuid.New()
	g := activeGoal(ownerID)
	mockRepo.On("GetByID", ctx, ownerID, g.ID).Return(g, nil)
	mockLedger.On("DeleteByInstrument", ctx, g.ID).Return(nil)
	mockRepo.On("Delete", ctx, ownerID, g.ID).Return(nil)

	err := service.Delete(ctx, ownerID, g.ID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}
