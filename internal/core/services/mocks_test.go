package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	var rates []domain.ExchangeRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]domain.ExchangeRate)
	}
	return rates, args.Error(1)
}

func (m *MockExchangeRateRepository) FindExchangeRates(ctx context.Context, currencies []string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, currencies)
	var rates []domain.ExchangeRate
	if args.Get(0) != nil {
		rates = args.Get(0).([]domain.ExchangeRate)
	}
	return rates, args.Error(1)
}

func (m *MockExchangeRateRepository) ListRateHistory(ctx context.Context, currency *string, limit int, nextToken *string) ([]domain.RateHistory, *string, error) {
	args := m.Called(ctx, currency, limit, nextToken)
	var history []domain.RateHistory
	if args.Get(0) != nil {
		history = args.Get(0).([]domain.RateHistory)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return history, next, args.Error(2)
}

func (m *MockExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate, history []domain.RateHistory) error {
	args := m.Called(ctx, rates, history)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionBySerialKey(ctx context.Context, serialKey string) (*domain.Transaction, error) {
	args := m.Called(ctx, serialKey)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteAllTransactions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveFirstAdmin(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock SettingsRepository ---
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	var values map[string]string
	if args.Get(0) != nil {
		values = args.Get(0).(map[string]string)
	}
	return values, args.Error(1)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, values map[string]string, updatedBy string) error {
	args := m.Called(ctx, values, updatedBy)
	return args.Error(0)
}

// --- Mock Authorizer ---
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) RequireRole(ctx context.Context, userID string, role domain.UserRole) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// --- Mock PrintDispatcher ---
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Name() string {
	return "mock"
}

func (m *MockDispatcher) WaitAssetsReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatcher) Dispatch(ctx context.Context, doc invoice.Document, printerName string) error {
	args := m.Called(ctx, doc, printerName)
	return args.Error(0)
}
