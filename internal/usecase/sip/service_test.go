package sip

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

// MockSIPRepository is a mock implementation of SIPRepository for testing
type MockSIPRepository struct {
	mock.Mock
}

func (m *MockSIPRepository) Create(ctx context.Context, inv *domain.SystematicInvestment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockSIPRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.SystematicInvestment, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystematicInvestment), args.Error(1)
}

func (m *MockSIPRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.SystematicInvestment, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SystematicInvestment), args.Error(1)
}

func (m *MockSIPRepository) Update(ctx context.Context, inv *domain.SystematicInvestment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockSIPRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
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

func newTestService() (*Service, *MockSIPRepository, *MockTransactionLedger) {
	mockRepo := new(MockSIPRepository)
	mockLedger := new(MockTransactionLedger)
	return NewService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop()), mockRepo, mockLedger
}

func ongoingInvestment(ownerID uuid.UUID) *domain.SystematicInvestment {
	return &domain.SystematicInvestment{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		SchemeName:       "Index Fund",
		SchemeCode:       "IDX001",
		TotalUnits:       decimal.NewFromInt(100),
		CurrentUnitPrice: decimal.NewFromInt(50),
		TotalInvested:    decimal.NewFromInt(4000),
		Status:           domain.SIPStatusOngoing,
	}
}

func TestAddTransaction_PurchaseGrowsUnitsAndInvested(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)
	mockRepo.On("Update", ctx, inv).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindSIP &&
			e.Amount.Equal(decimal.NewFromInt(1000)) &&
			e.Units.Equal(decimal.NewFromInt(20)) &&
			e.Price.Equal(decimal.NewFromInt(50))
	})).Return(nil)

	v, err := service.AddTransaction(ctx, TransactionInput{
		OwnerID:   ownerID,
		ID:        inv.ID,
		Kind:      domain.EntryKindSIP,
		Amount:    decimal.NewFromInt(1000),
		UnitPrice: decimal.NewFromInt(50),
		Date:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.True(t, v.TotalUnits.Equal(decimal.NewFromInt(120)), "expected 120 units, got %s", v.TotalUnits)
	assert.True(t, v.TotalInvested.Equal(decimal.NewFromInt(5000)))
	assert.True(t, v.CurrentValue.Equal(decimal.NewFromInt(6000)), "120 units at 50 should be worth 6000")
	assert.True(t, v.ReturnsPercent.Equal(decimal.NewFromInt(20)), "expected returns of 20%%, got %s", v.ReturnsPercent)
	mockLedger.AssertExpectations(t)
}

func TestAddTransaction_NAVUpdateOnlyReprices(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)
	mockRepo.On("Update", ctx, inv).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindNAVUpdate && e.Amount.IsZero() && e.Units.IsZero()
	})).Return(nil)

	v, err := service.AddTransaction(ctx, TransactionInput{
		OwnerID:   ownerID,
		ID:        inv.ID,
		Kind:      domain.EntryKindNAVUpdate,
		UnitPrice: decimal.NewFromInt(60),
		Date:      time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.True(t, v.TotalUnits.Equal(decimal.NewFromInt(100)), "NAV update must not change units")
	assert.True(t, v.TotalInvested.Equal(decimal.NewFromInt(4000)), "NAV update must not change invested capital")
	assert.True(t, v.CurrentUnitPrice.Equal(decimal.NewFromInt(60)))
	assert.True(t, v.CurrentValue.Equal(decimal.NewFromInt(6000)))
}

func TestAddTransaction_UnsupportedKindRejected(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)
	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)

	_, err := service.AddTransaction(ctx, TransactionInput{
		OwnerID:   ownerID,
		ID:        inv.ID,
		Kind:      domain.EntryKindBuy,
		Amount:    decimal.NewFromInt(1000),
		UnitPrice: decimal.NewFromInt(50),
		Date:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	mockRepo.AssertNotCalled(t, "Update")
	mockLedger.AssertNotCalled(t, "Append")
}

func TestAddTransaction_RedeemedInvestmentRejected(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)
	inv.Status = domain.SIPStatusRedeemed
	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)

	_, err := service.AddTransaction(ctx, TransactionInput{
		OwnerID:   ownerID,
		ID:        inv.ID,
		Kind:      domain.EntryKindSIP,
		Amount:    decimal.NewFromInt(1000),
		UnitPrice: decimal.NewFromInt(50),
		Date:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockLedger.AssertNotCalled(t, "Append")
}

func TestPauseResume_FollowsStatusMachine(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, _ := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)
	mockRepo.On("Update", ctx, inv).Return(nil)

	v, err := service.Pause(ctx, ownerID, inv.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SIPStatusPaused, v.Status)

	v, err = service.Resume(ctx, ownerID, inv.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SIPStatusOngoing, v.Status)
}

func TestPause_RedeemedRejected(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, _ := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)
	inv.Status = domain.SIPStatusRedeemed
	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)

	_, err := service.Pause(ctx, ownerID, inv.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestRedeem_TerminalStateRecorded(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)
	redeemedAt := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)
	mockRepo.On("Update", ctx, inv).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindRedeem && e.Amount.Equal(decimal.NewFromInt(5500))
	})).Return(nil)

	v, err := service.Redeem(ctx, ownerID, inv.ID, decimal.NewFromInt(5500), redeemedAt)

	assert.NoError(t, err)
	assert.Equal(t, domain.SIPStatusRedeemed, v.Status)
	assert.True(t, v.RedeemedAmount.Equal(decimal.NewFromInt(5500)))
	assert.Equal(t, redeemedAt, *v.RedeemedAt)
	mockLedger.AssertExpectations(t)
}

func TestRedeem_AlreadyRedeemedRejected(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)
	inv.Status = domain.SIPStatusRedeemed
	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)

	_, err := service.Redeem(ctx, ownerID, inv.ID, decimal.NewFromInt(5500), time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
	mockLedger.AssertNotCalled(t, "Append")
}

func TestDelete_CascadesToLedger(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	inv := ongoingInvestment(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, inv.ID).Return(inv, nil)
	mockLedger.On("DeleteByInstrument", ctx, inv.ID).Return(nil)
	mockRepo.On("Delete", ctx, ownerID, inv.ID).Return(nil)

	err := service.Delete(ctx, ownerID, inv.ID)

	assert.NoError(t, err)
	mockLedger.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}
