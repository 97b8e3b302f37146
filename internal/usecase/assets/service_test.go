package assets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// fakeAtomic runs the unit directly; the tests only care about call order
type fakeAtomic struct{}

func (fakeAtomic) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockAccountRepository is a mock implementation of LiquidAccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *domain.LiquidAccount) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.LiquidAccount, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiquidAccount), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.LiquidAccount, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LiquidAccount), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, a *domain.LiquidAccount) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
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

func TestAccountCreate_RecordsOpeningSnapshot(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.LiquidAccount")).Return(nil)
	mockLedger.On("Upsert", ctx, mock.MatchedBy(func(s *domain.ValueSnapshot) bool {
		return s.Value.Equal(decimal.NewFromInt(5000)) && s.Notes == "opening balance"
	})).Return(nil)

	acct, err := service.Create(ctx, CreateAccountInput{
		OwnerID: ownerID,
		Name:    "Checking",
		Balance: decimal.NewFromInt(5000),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Checking", acct.Name)
	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestAccountCreate_EmptyNameRejected(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	_, err := service.Create(ctx, CreateAccountInput{
		OwnerID: uuid.New(),
		Balance: decimal.NewFromInt(100),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestAccountUpdate_OverwritesTodaysSnapshot(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	acctID := uuid.New()
	existing := &domain.LiquidAccount{
		ID:      acctID,
		OwnerID: ownerID,
		Name:    "Checking",
		Balance: decimal.NewFromInt(5000),
	}

	mockRepo.On("GetByID", ctx, ownerID, acctID).Return(existing, nil)
	mockRepo.On("Update", ctx, existing).Return(nil)
	mockLedger.On("Upsert", ctx, mock.MatchedBy(func(s *domain.ValueSnapshot) bool {
		return s.InstrumentID == acctID && s.Value.Equal(decimal.NewFromInt(7200))
	})).Return(nil)

	acct, err := service.Update(ctx, UpdateAccountInput{
		OwnerID: ownerID,
		ID:      acctID,
		Name:    "Checking",
		Balance: decimal.NewFromInt(7200),
	})

	assert.NoError(t, err)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(7200)))
	mockLedger.AssertExpectations(t)
}

func TestAccountDelete_CascadesToLedger(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	acctID := uuid.New()
	mockRepo.On("GetByID", ctx, ownerID, acctID).Return(&domain.LiquidAccount{ID: acctID, OwnerID: ownerID, Name: "Checking"}, nil)
	mockLedger.On("DeleteByInstrument", ctx, acctID).Return(nil)
	mockRepo.On("Delete", ctx, ownerID, acctID).Return(nil)

	err := service.Delete(ctx, ownerID, acctID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestAccountDelete_UnknownOwnerFails(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	acctID := uuid.New()
	mockRepo.On("GetByID", ctx, ownerID, acctID).Return(nil, domain.NotFoundf("account %s", acctID))

	err := service.Delete(ctx, ownerID, acctID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockLedger.AssertNotCalled(t, "DeleteByInstrument")
}

func TestAccountHistory_ChecksOwnership(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	acctID := uuid.New()
	mockRepo.On("GetByID", ctx, ownerID, acctID).Return(nil, domain.NotFoundf("account %s", acctID))

	_, err := service.History(ctx, ownerID, acctID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockLedger.AssertNotCalled(t, "ListByInstrument")
}

func TestAccountCorrectSnapshot_EditsLedgerOnly(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	acctID := uuid.New()
	snapshotID := uuid.New()
	mockRepo.On("GetByID", ctx, ownerID, acctID).Return(&domain.LiquidAccount{ID: acctID, OwnerID: ownerID, Name: "Checking"}, nil)
	mockLedger.On("Update", ctx, mock.MatchedBy(func(s *domain.ValueSnapshot) bool {
		return s.ID == snapshotID && s.InstrumentID == acctID &&
			s.Value.Equal(decimal.NewFromInt(4800)) && s.Notes == "typo fix"
	})).Return(nil)

	err := service.CorrectSnapshot(ctx, ownerID, acctID, snapshotID, decimal.NewFromInt(4800), "typo fix")

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Update")
	mockLedger.AssertExpectations(t)
}

func TestAccountDeleteSnapshot_ChecksOwnership(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockAccountRepository)
	mockLedger := new(MockSnapshotLedger)

	service := NewAccountService(mockRepo, mockLedger, fakeAtomic{}, zerolog.Nop())

	ownerID := uuid.New()
	acctID := uuid.New()
	mockRepo.On("GetByID", ctx, ownerID, acctID).Return(nil, domain.NotFoundf("account %s", acctID))

	err := service.DeleteSnapshot(ctx, ownerID, acctID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockLedger.AssertNotCalled(t, "Delete")
}
