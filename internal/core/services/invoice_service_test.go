package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/core/services"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSerial = "EXC-AAAA0001"

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockSettingsRepo *MockSettingsRepository
	mockDispatcher   *MockDispatcher
	service          portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.mockDispatcher = new(MockDispatcher)

	txns := services.NewTransactionService(suite.mockTxnRepo, services.NewExchangeRateService(new(MockExchangeRateRepository)))
	settings := services.NewSettingsService(suite.mockSettingsRepo, domain.OfficeSettings{
		OfficeName: "FEJZULLAI",
		Address:    "Ul/Rr.Brakja Ginoski 135",
		Phone:      "070 378 645",
	}, "Money & Crypto Exchange Office", "COMPANY")
	renderer, err := invoice.NewRenderer(time.UTC)
	suite.Require().NoError(err)

	suite.service = services.NewInvoiceService(txns, settings, renderer,
		services.WithPrintDispatcher(suite.mockDispatcher),
		services.WithAssetsTimeout(50*time.Millisecond),
	)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (suite *InvoiceServiceTestSuite) expectTransaction(ctx context.Context) {
	suite.mockTxnRepo.On("FindTransactionBySerialKey", ctx, testSerial).Return(&domain.Transaction{
		SerialKey:       testSerial,
		TransactionType: domain.TransactionBuy,
		TotalMKD:        decimal.RequireFromString("6150"),
		Details: []domain.TransactionDetail{{
			Currency:      "EUR",
			Amount:        decimal.NewFromInt(100),
			Rate:          decimal.RequireFromString("61.5"),
			MKDEquivalent: decimal.RequireFromString("6150"),
		}},
	}, nil)
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(map[string]string{domain.SettingPrinterName: "POS-80"}, nil)
}

func (suite *InvoiceServiceTestSuite) TestRenderInvoice() {
	ctx := context.Background()
	suite.expectTransaction(ctx)

	doc, err := suite.service.RenderInvoice(ctx, testSerial)

	suite.Require().NoError(err)
	suite.Equal(testSerial, doc.SerialKey)
	suite.Contains(string(doc.HTML), "FEJZULLAI")
	suite.Contains(string(doc.HTML), "6,150.00")
}

func (suite *InvoiceServiceTestSuite) TestRenderInvoice_NotFound() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindTransactionBySerialKey", ctx, testSerial).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.RenderInvoice(ctx, testSerial)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestPrintInvoice_Success() {
	ctx := context.Background()
	suite.expectTransaction(ctx)
	suite.mockDispatcher.On("WaitAssetsReady", mock.Anything).Return(nil).Once()
	suite.mockDispatcher.On("Dispatch", ctx, mock.MatchedBy(func(d invoice.Document) bool {
		return d.SerialKey == testSerial
	}), "POS-80").Return(nil).Once()

	suite.NoError(suite.service.PrintInvoice(ctx, testSerial))
	suite.mockDispatcher.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestPrintInvoice_AssetsTimeoutFallsBack() {
	ctx := context.Background()
	suite.expectTransaction(ctx)
	suite.mockDispatcher.On("WaitAssetsReady", mock.Anything).Return(context.DeadlineExceeded).Once()
	suite.mockDispatcher.On("Dispatch", ctx, mock.Anything, "POS-80").Return(nil).Once()

	suite.NoError(suite.service.PrintInvoice(ctx, testSerial))
	suite.mockDispatcher.AssertNumberOfCalls(suite.T(), "Dispatch", 1)
}

func (suite *InvoiceServiceTestSuite) TestPrintInvoice_DispatchFailure() {
	ctx := context.Background()
	suite.expectTransaction(ctx)
	suite.mockDispatcher.On("WaitAssetsReady", mock.Anything).Return(nil).Once()
	suite.mockDispatcher.On("Dispatch", ctx, mock.Anything, "POS-80").Return(context.DeadlineExceeded).Once()

	err := suite.service.PrintInvoice(ctx, testSerial)

	suite.ErrorIs(err, apperrors.ErrPrint)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteAllTransactions", mock.Anything)
}

func TestPrintInvoice_WithoutDispatcher(t *testing.T) {
	ctx := context.Background()
	txnRepo := new(MockTransactionRepository)
	txnRepo.On("FindTransactionBySerialKey", ctx, testSerial).Return(&domain.Transaction{
		SerialKey:       testSerial,
		TransactionType: domain.TransactionSell,
		TotalMKD:        decimal.NewFromInt(618),
		Details:         []domain.TransactionDetail{{Currency: "EUR", Amount: decimal.NewFromInt(10), Rate: decimal.RequireFromString("61.8"), MKDEquivalent: decimal.NewFromInt(618)}},
	}, nil)
	settingsRepo := new(MockSettingsRepository)
	settingsRepo.On("GetSettings", ctx).Return(map[string]string{}, nil)
	renderer, err := invoice.NewRenderer(nil)
	require.NoError(t, err)

	svc := services.NewInvoiceService(
		services.NewTransactionService(txnRepo, services.NewExchangeRateService(new(MockExchangeRateRepository))),
		services.NewSettingsService(settingsRepo, domain.OfficeSettings{}, "", ""),
		renderer,
	)

	assert.ErrorIs(t, svc.PrintInvoice(ctx, testSerial), apperrors.ErrPrint)
}
