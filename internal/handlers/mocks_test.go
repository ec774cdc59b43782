package handlers_test

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
	"github.com/SscSPs/exchange_office_app/internal/utils/pricing"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) QuoteTransaction(ctx context.Context, txType domain.TransactionType, items []domain.LineItem) (*pricing.Quote, error) {
	args := m.Called(ctx, txType, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Quote), args.Error(1)
}

func (m *MockTransactionService) RecordTransaction(ctx context.Context, txType domain.TransactionType, items []domain.LineItem, actingUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, txType, items, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ClearHistory(ctx context.Context, actingUserID string) (int64, error) {
	args := m.Called(ctx, actingUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, serialKey string) (*domain.Transaction, error) {
	args := m.Called(ctx, serialKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
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

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) RenderInvoice(ctx context.Context, serialKey string) (*invoice.Document, error) {
	args := m.Called(ctx, serialKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Document), args.Error(1)
}

func (m *MockInvoiceService) PrintInvoice(ctx context.Context, serialKey string) error {
	return m.Called(ctx, serialKey).Error(0)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) GetRateTable(ctx context.Context) (domain.RateTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RateTable), args.Error(1)
}

func (m *MockExchangeRateService) ListRateHistory(ctx context.Context, currency *string, limit int, nextToken *string) ([]domain.RateHistory, *string, error) {
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

func (m *MockExchangeRateService) UpdateRates(ctx context.Context, updates []domain.RateUpdate, actingUserID string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, updates, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) HasUsers(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) RegisterFirstAdmin(ctx context.Context, req dto.RegisterAdminRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, actingUserID string) ([]domain.User, error) {
	args := m.Called(ctx, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actingUserID string) (*domain.User, error) {
	args := m.Called(ctx, req, actingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, actingUserID string) error {
	return m.Called(ctx, userID, actingUserID).Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock SettingsService ---
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context) (domain.OfficeSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.OfficeSettings), args.Error(1)
}

func (m *MockSettingsService) UpdateSettings(ctx context.Context, settings domain.OfficeSettings, actingUserID string) (domain.OfficeSettings, error) {
	args := m.Called(ctx, settings, actingUserID)
	return args.Get(0).(domain.OfficeSettings), args.Error(1)
}

func (m *MockSettingsService) GetOfficeInfo(ctx context.Context) (domain.OfficeInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.OfficeInfo), args.Error(1)
}

var _ portssvc.SettingsSvcFacade = (*MockSettingsService)(nil)
