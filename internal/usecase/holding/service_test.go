package holding

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

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) Create(ctx context.Context, h *domain.TradedHolding) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHoldingRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.TradedHolding, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TradedHolding), args.Error(1)
}

func (m *MockHoldingRepository) List(ctx context.Context, ownerID uuid.UUID, group string) ([]*domain.TradedHolding, error) {
	args := m.Called(ctx, ownerID, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TradedHolding), args.Error(1)
}

func (m *MockHoldingRepository) Update(ctx context.Context, h *domain.TradedHolding) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHoldingRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
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

func newTestService() (*Service, *MockHoldingRepository, *MockTransactionLedger) {
	mockRepo := new(MockHoldingRepository)
	mockLedger := new(MockTransactionLedger)
	return NewService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop()), mockRepo, mockLedger
}

func openHolding(ownerID uuid.UUID) *domain.TradedHolding {
	return &domain.TradedHolding{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Symbol:       "ACME",
		Quantity:     decimal.NewFromInt(10),
		BuyPrice:     decimal.NewFromInt(150),
		BuyDate:      time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		CurrentPrice: decimal.NewFromInt(150),
		Group:        "tech",
		Status:       domain.HoldingStatusHolding,
	}
}

func TestCreate_AppendsBuyEvent(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.TradedHolding")).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindBuy &&
			e.Amount.Equal(decimal.NewFromInt(1500)) &&
			e.Price.Equal(decimal.NewFromInt(150)) &&
			e.Units.Equal(decimal.NewFromInt(10))
	})).Return(nil)

	v, err := service.Create(ctx, CreateInput{
		OwnerID:  uuid.New(),
		Symbol:   "ACME",
		Quantity: decimal.NewFromInt(10),
		BuyPrice: decimal.NewFromInt(150),
		BuyDate:  time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		Group:    "tech",
	})

	assert.NoError(t, err)
	assert.True(t, v.CurrentPrice.Equal(decimal.NewFromInt(150)), "current price starts at the buy price")
	assert.True(t, v.InvestedValue.Equal(decimal.NewFromInt(1500)))
	assert.True(t, v.CurrentValue.Equal(decimal.NewFromInt(1500)))
	assert.True(t, v.ProfitLoss.IsZero())
	mockLedger.AssertExpectations(t)
}

func TestUpdatePrice_RepricesWithoutLedgerEntry(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	h := openHolding(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, h.ID).Return(h, nil)
	mockRepo.On("Update", ctx, h).Return(nil)

	v, err := service.UpdatePrice(ctx, ownerID, h.ID, decimal.NewFromInt(180))

	assert.NoError(t, err)
	assert.True(t, v.CurrentPrice.Equal(decimal.NewFromInt(180)))
	assert.True(t, v.CurrentValue.Equal(decimal.NewFromInt(1800)))
	assert.True(t, v.ProfitLoss.Equal(decimal.NewFromInt(300)))
	assert.True(t, v.ProfitLossPercent.Equal(decimal.NewFromInt(20)))
	mockLedger.AssertNotCalled(t, "Append")
}

func TestUpdatePrice_NonPositiveRejected(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, _ := newTestService()

	_, err := service.UpdatePrice(ctx, uuid.New(), uuid.New(), decimal.Zero)

	assert.ErrorIs(t, err, domain.ErrValidation)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestSell_TerminalStateAndSellEvent(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	h := openHolding(ownerID)
	soldAt := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	mockRepo.On("GetByID", ctx, ownerID, h.ID).Return(h, nil)
	mockRepo.On("Update", ctx, h).Return(nil)
	mockLedger.On("Append", ctx, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.Kind == domain.EntryKindSell &&
			e.Amount.Equal(decimal.NewFromInt(2000)) &&
			e.Price.Equal(decimal.NewFromInt(200))
	})).Return(nil)

	v, err := service.Sell(ctx, ownerID, h.ID, decimal.NewFromInt(200), soldAt)

	assert.NoError(t, err)
	assert.Equal(t, domain.HoldingStatusSold, v.Status)
	assert.True(t, v.SellPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, v.CurrentPrice.Equal(decimal.NewFromInt(200)), "sale reprices the holding at the sell price")
	assert.Equal(t, soldAt, *v.SoldAt)
	mockLedger.AssertExpectations(t)
}

func TestSell_AlreadySoldRejected(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	h := openHolding(ownerID)
	h.Status = domain.HoldingStatusSold

	mockRepo.On("GetByID", ctx, ownerID, h.ID).Return(h, nil)

	_, err := service.Sell(ctx, ownerID, h.ID, decimal.NewFromInt(200), time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
	mockLedger.AssertNotCalled(t, "Append")
}

func TestUpdate_SoldHoldingFrozen(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, _ := newTestService()

	ownerID := uuid.New()
	h := openHolding(ownerID)
	h.Status = domain.HoldingStatusSold

	mockRepo.On("GetByID", ctx, ownerID, h.ID).Return(h, nil)

	_, err := service.Update(ctx, UpdateInput{
		OwnerID:  ownerID,
		ID:       h.ID,
		Symbol:   "ACME",
		Quantity: decimal.NewFromInt(20),
		BuyPrice: decimal.NewFromInt(150),
		BuyDate:  h.BuyDate,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestDelete_CascadesToLedger(t *testing.T) {
	ctx := context.Background()
	service, mockRepo, mockLedger := newTestService()

	ownerID := uuid.New()
	h := openHolding(ownerID)

	mockRepo.On("GetByID", ctx, ownerID, h.ID).Return(h, nil)
	mockLedger.On("DeleteByInstrument", ctx, h.ID).Return(nil)
	mockRepo.On("Delete", ctx, ownerID, h.ID).Return(nil)

	err := service.Delete(ctx, ownerID, h.ID)

	assert.NoError(t, err)
	mockLedger.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}
