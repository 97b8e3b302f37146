package deposit

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

// MockFixedRepository is a mock implementation of FixedDepositRepository for testing
type MockFixedRepository struct {
	mock.Mock
}

func (m *MockFixedRepository) Create(ctx context.Context, d *domain.FixedTermDeposit) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockFixedRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.FixedTermDeposit, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedTermDeposit), args.Error(1)
}

func (m *MockFixedRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.FixedTermDeposit, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FixedTermDeposit), args.Error(1)
}

func (m *MockFixedRepository) Update(ctx context.Context, d *domain.FixedTermDeposit) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockFixedRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockRecurringRepository is a mock implementation of RecurringDepositRepository for testing
type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) Create(ctx context.Context, d *domain.RecurringDeposit) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockRecurringRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.RecurringDeposit, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDeposit), args.Error(1)
}

func (m *MockRecurringRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.RecurringDeposit, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RecurringDeposit), args.Error(1)
}

func (m *MockRecurringRepository) Update(ctx context.Context, d *domain.RecurringDeposit) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockRecurringRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockTransactionLedger is a mock implementation of TransactionLedger for testing
type MockTransactionLedger struct {
	mock.Mock
}

func (m *MockTransactionLedger) Append(ctx context.Context, e *domain.LedgerEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockTransactionLedger) ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*domain.LedgerEntry, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LedgerEntry), args.Error(1)
}

func (m *MockTransactionLedger) Update(ctx context.Context, e *domain.LedgerEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockTransactionLedger) Delete(ctx context.Context, instrumentID, entryID uuid.UUID) error {
	args := m.Called(ctx, instrumentID, entryID)
	return args.Error(0)
}

func (m *MockTransactionLedger) DeleteByInstrument(ctx context.Context, instrumentID uuid.UUID) error {
	args := m.Called(ctx, instrumentID)
	return args.Error(0)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFixedCreate_ComputesExpectedPayout(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFixedRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewFixedService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.FixedTermDeposit")).Return(nil)

	d, err := service.Create(ctx, FixedInput{
		OwnerID:      uuid.New(),
		Name:         "Bank FD",
		Principal:    decimal.NewFromInt(100000),
		StatedRate:   decimal.NewFromInt(7),
		StartDate:    date(2023, time.January, 1),
		MaturityDate: date(2024, time.January, 1),
	})

	assert.NoError(t, err)
	assert.True(t, d.ExpectedPayout.Equal(decimal.NewFromInt(107000)),
		"expected 107000, got %s", d.ExpectedPayout)
	assert.Equal(t, domain.DepositStatusOngoing, d.Status)
}

func TestFixedClose_BackSolvesRealizedRateKeepingStatedRate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFixedRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewFixedService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := &domain.FixedTermDeposit{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         "Bank FD",
		Principal:    decimal.NewFromInt(100000),
		StatedRate:   decimal.NewFromInt(7),
		StartDate:    date(2023, time.January, 1),
		MaturityDate: date(2024, time.January, 1),
		Status:       domain.DepositStatusOngoing,
	}

	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)
	mockRepo.On("Update", ctx, d).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindClose && e.Amount.Equal(decimal.NewFromInt(108000))
	})).Return(nil)

	got, err := service.Close(ctx, ownerID, d.ID, decimal.NewFromInt(108000), date(2024, time.January, 1))

	assert.NoError(t, err)
	assert.Equal(t, domain.DepositStatusClosed, got.Status)
	assert.True(t, got.RealizedRate.Equal(decimal.NewFromInt(8)),
		"expected realized rate 8, got %s", got.RealizedRate)
	assert.True(t, got.StatedRate.Equal(decimal.NewFromInt(7)), "stated rate must survive closure")
	mockLedger.AssertExpectations(t)
}

func TestFixedClose_AlreadyClosedRejected(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFixedRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewFixedService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := &domain.FixedTermDeposit{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Status:  domain.DepositStatusClosed,
	}
	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)

	_, err := service.Close(ctx, ownerID, d.ID, decimal.NewFromInt(108000), date(2024, time.January, 1))

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
	mockLedger.AssertNotCalled(t, "Append")
}

func TestFixedUpdate_ClosedDepositFrozen(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFixedRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewFixedService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := &domain.FixedTermDeposit{ID: uuid.New(), OwnerID: ownerID, Status: domain.DepositStatusClosed}
	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)

	_, err := service.Update(ctx, d.ID, FixedInput{
		OwnerID:      ownerID,
		Name:         "Bank FD",
		Principal:    decimal.NewFromInt(100000),
		StatedRate:   decimal.NewFromInt(7),
		StartDate:    date(2023, time.January, 1),
		MaturityDate: date(2024, time.January, 1),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestFixedUpdateClosedRecord_ReRunsBackSolve(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFixedRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewFixedService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	closedAt := date(2024, time.January, 1)
	d := &domain.FixedTermDeposit{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Principal:      decimal.NewFromInt(100000),
		StatedRate:     decimal.NewFromInt(7),
		StartDate:      date(2023, time.January, 1),
		MaturityDate:   closedAt,
		RealizedPayout: decimal.NewFromInt(108000),
		RealizedRate:   decimal.NewFromInt(8),
		ClosedAt:       &closedAt,
		Status:         domain.DepositStatusClosed,
	}
	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)
	mockRepo.On("Update", ctx, d).Return(nil)

	got, err := service.UpdateClosedRecord(ctx, ownerID, d.ID, decimal.NewFromInt(109000), closedAt)

	assert.NoError(t, err)
	assert.True(t, got.RealizedRate.Equal(decimal.NewFromInt(9)),
		"expected realized rate 9, got %s", got.RealizedRate)
}

func TestFixedUpdateClosedRecord_OngoingRejected(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFixedRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewFixedService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := &domain.FixedTermDeposit{ID: uuid.New(), OwnerID: ownerID, Status: domain.DepositStatusOngoing}
	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)

	_, err := service.UpdateClosedRecord(ctx, ownerID, d.ID, decimal.NewFromInt(109000), date(2024, time.January, 1))

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func ongoingRecurring(ownerID uuid.UUID) *domain.RecurringDeposit {
	return &domain.RecurringDeposit{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              "Monthly RD",
		Installment:       decimal.NewFromInt(1000),
		Frequency:         domain.FrequencyMonthly,
		AnnualRate:        decimal.NewFromInt(8),
		StartDate:         date(2024, time.January, 10),
		TotalInstallments: 12,
		InstallmentsPaid:  0,
		Status:            domain.RecurringStatusOngoing,
	}
}

func TestRecurringCreate_FirstInstallmentDueOnStart(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRecurringRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewRecurringService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.RecurringDeposit")).Return(nil)

	d, err := service.Create(ctx, RecurringInput{
		OwnerID:           uuid.New(),
		Name:              "Monthly RD",
		Installment:       decimal.NewFromInt(1000),
		Frequency:         domain.FrequencyMonthly,
		AnnualRate:        decimal.NewFromInt(8),
		StartDate:         date(2024, time.January, 10),
		TotalInstallments: 12,
	})

	assert.NoError(t, err)
	assert.NotNil(t, d.NextDueDate)
	assert.Equal(t, date(2024, time.January, 10), *d.NextDueDate)
	assert.False(t, d.MaturityValue.IsZero())
}

func TestMarkInstallmentPaid_AdvancesDueDate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRecurringRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewRecurringService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := ongoingRecurring(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)
	mockRepo.On("Update", ctx, d).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindInstallment && e.Amount.Equal(decimal.NewFromInt(1000))
	})).Return(nil)

	got, err := service.MarkInstallmentPaid(ctx, ownerID, d.ID, date(2024, time.January, 10))

	assert.NoError(t, err)
	assert.Equal(t, 1, got.InstallmentsPaid)
	assert.Equal(t, domain.RecurringStatusOngoing, got.Status)
	assert.NotNil(t, got.NextDueDate)
	assert.Equal(t, date(2024, time.February, 10), *got.NextDueDate)
}

func TestMarkInstallmentPaid_FinalInstallmentCompletes(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRecurringRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewRecurringService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := ongoingRecurring(ownerID)
	d.InstallmentsPaid = 11

	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)
	mockRepo.On("Update", ctx, d).Return(nil)
	mockLedger.On("Append", ctx, mock.Anything).Return(nil)

	got, err := service.MarkInstallmentPaid(ctx, ownerID, d.ID, date(2024, time.December, 10))

	assert.NoError(t, err)
	assert.Equal(t, 12, got.InstallmentsPaid)
	assert.Equal(t, domain.RecurringStatusCompleted, got.Status)
	assert.Nil(t, got.NextDueDate)
	assert.Equal(t, 0, got.InstallmentsRemaining())
}

func TestMarkInstallmentPaid_CompletedRejected(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRecurringRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewRecurringService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := ongoingRecurring(ownerID)
	d.InstallmentsPaid = 12
	d.Status = domain.RecurringStatusCompleted

	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)

	_, err := service.MarkInstallmentPaid(ctx, ownerID, d.ID, date(2025, time.January, 10))

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockLedger.AssertNotCalled(t, "Append")
}

func TestRecurringClose_FromCompleted(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRecurringRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewRecurringService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := ongoingRecurring(ownerID)
	d.InstallmentsPaid = 12
	d.Status = domain.RecurringStatusCompleted

	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)
	mockRepo.On("Update", ctx, d).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindClose
	})).Return(nil)

	got, err := service.Close(ctx, ownerID, d.ID, decimal.NewFromInt(12533), date(2025, time.January, 10))

	assert.NoError(t, err)
	assert.Equal(t, domain.RecurringStatusClosed, got.Status)
	assert.Nil(t, got.NextDueDate)
}

func TestRecurringUpdate_CompletedFrozen(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRecurringRepository)
	mockLedger := new(MockTransactionLedger)
	service := NewRecurringService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	d := ongoingRecurring(ownerID)
	d.Status = domain.RecurringStatusCompleted
	mockRepo.On("GetByID", ctx, ownerID, d.ID).Return(d, nil)

	_, err := service.Update(ctx, d.ID, RecurringInput{
		OwnerID:           ownerID,
		Name:              "Monthly RD",
		Installment:       decimal.NewFromInt(2000),
		Frequency:         domain.FrequencyMonthly,
		AnnualRate:        decimal.NewFromInt(8),
		StartDate:         date(2024, time.January, 10),
		TotalInstallments: 12,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
