package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/core/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/handlers"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
	"github.com/SscSPs/exchange_office_app/internal/platform/config"
	"github.com/SscSPs/exchange_office_app/internal/utils/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUserID = "0b6f3a8e-9c55-4a57-8d1e-2f1d1c9e7a11"

type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	token        string
	transactions *MockTransactionService
	invoices     *MockInvoiceService
	rates        *MockExchangeRateService
	auth         *MockAuthService
	users        *MockUserService
	settings     *MockSettingsService
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	loc, err := time.LoadLocation("Europe/Skopje")
	s.Require().NoError(err)
	cfg := &config.Config{
		IsProduction:       true,
		JWTSecret:          "handler-test-secret",
		JWTExpiryDuration:  time.Hour,
		JWTIssuer:          "test",
		LoginRateLimit:     "100-M",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		OfficeLocation:     loc,
	}

	s.transactions = new(MockTransactionService)
	s.invoices = new(MockInvoiceService)
	s.rates = new(MockExchangeRateService)
	s.auth = new(MockAuthService)
	s.users = new(MockUserService)
	s.settings = new(MockSettingsService)
	tokenSvc := services.NewTokenService(cfg)

	container := &portssvc.ServiceContainer{
		ExchangeRate: s.rates,
		Transaction:  s.transactions,
		Invoice:      s.invoices,
		User:         s.users,
		Auth:         s.auth,
		Token:        tokenSvc,
		Settings:     s.settings,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router, err = handlers.NewRouter(cfg, container, logger, nil, nil)
	s.Require().NoError(err)

	s.token, _, err = tokenSvc.GenerateAccessToken(context.Background(), &domain.User{
		UserID: testUserID, Username: "ana", Role: domain.RoleAdmin,
	})
	s.Require().NoError(err)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.transactions.AssertExpectations(s.T())
	s.invoices.AssertExpectations(s.T())
	s.rates.AssertExpectations(s.T())
	s.auth.AssertExpectations(s.T())
	s.users.AssertExpectations(s.T())
	s.settings.AssertExpectations(s.T())
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sampleTransaction() *domain.Transaction {
	return &domain.Transaction{
		TransactionID:   "9b2f7c1e-0000-4000-8000-000000000001",
		SerialKey:       "EXC-3F9A1B2C",
		TransactionType: domain.TransactionBuy,
		TransactionDate: time.Date(2024, 5, 1, 7, 5, 9, 0, time.UTC),
		TotalMKD:        d("6150.00"),
		Details: []domain.TransactionDetail{
			{Currency: "EUR", Amount: d("100"), Rate: d("61.5"), MKDEquivalent: d("6150.00")},
		},
	}
}

// --- Root ---

func (s *HandlerTestSuite) TestHealth() {
	s.token = ""
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlerTestSuite) TestProtectedRouteRequiresToken() {
	s.token = ""
	w := s.do(http.MethodGet, "/api/v1/rates", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestSwaggerDisabledInProduction() {
	w := s.do(http.MethodGet, "/swagger/index.html", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

// --- Auth ---

func (s *HandlerTestSuite) TestSetupStatus() {
	s.token = ""
	s.auth.On("HasUsers", mock.Anything).Return(false, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/auth/setup", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.SetupStatusResponse
	s.decode(w, &resp)
	s.False(resp.HasUsers)
}

func (s *HandlerTestSuite) TestRegisterAdmin_AlreadySetUp() {
	s.token = ""
	req := dto.RegisterAdminRequest{Username: "admin", Password: "secret123"}
	s.auth.On("RegisterFirstAdmin", mock.Anything, req).
		Return(nil, fmt.Errorf("%w: users already exist", apperrors.ErrDuplicate)).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/register-admin", req)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestLogin() {
	s.token = ""
	user := &domain.User{UserID: testUserID, Username: "ana", Role: domain.RoleOperator}
	s.auth.On("Login", mock.Anything, "ana", "secret123").Return(user, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "ana", Password: "secret123"})

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	s.decode(w, &resp)
	s.NotEmpty(resp.Token)
	s.Equal("OPERATOR", resp.User.Role)
	s.True(resp.ExpiresAt.After(time.Now()))
}

func (s *HandlerTestSuite) TestLogin_BadCredentials() {
	s.token = ""
	s.auth.On("Login", mock.Anything, "ana", "wrong").
		Return(nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "ana", Password: "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestLogin_MissingPassword() {
	s.token = ""
	w := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "ana"})
	s.Equal(http.StatusBadRequest, w.Code)
}

// --- Rates ---

func (s *HandlerTestSuite) TestGetRates() {
	s.rates.On("GetRates", mock.Anything).Return([]domain.ExchangeRate{
		{Currency: "EUR", BuyRate: d("61.5"), SellRate: d("61.8"), UpdatedAt: time.Now()},
		{Currency: "CHF", BuyRate: decimal.Zero, SellRate: decimal.Zero},
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/rates", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp []dto.ExchangeRateResponse
	s.decode(w, &resp)
	s.Require().Len(resp, 2)
	s.Equal("EUR", resp[0].Currency)
	s.NotNil(resp[0].UpdatedAt)
	s.Nil(resp[1].UpdatedAt)
}

func (s *HandlerTestSuite) TestUpdateRates() {
	s.rates.On("UpdateRates", mock.Anything, mock.MatchedBy(func(updates []domain.RateUpdate) bool {
		return len(updates) == 1 && updates[0].Currency == "USD" && updates[0].BuyRate.Equal(d("56"))
	}), testUserID).Return([]domain.ExchangeRate{
		{Currency: "USD", BuyRate: d("56"), SellRate: d("57.2")},
	}, nil).Once()

	w := s.do(http.MethodPut, "/api/v1/rates", map[string]any{
		"rates": []map[string]any{{"currency": "usd", "buyRate": 56, "sellRate": "57.2"}},
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestUpdateRates_InvalidCurrency() {
	w := s.do(http.MethodPut, "/api/v1/rates", map[string]any{
		"rates": []map[string]any{{"currency": "EURO", "buyRate": 1, "sellRate": 1}},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestListRateHistory() {
	next := "tok"
	s.rates.On("ListRateHistory", mock.Anything, mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == "EUR"
	}), 10, (*string)(nil)).Return([]domain.RateHistory{
		{RateHistoryID: "h1", Currency: "EUR", BuyRate: d("61.5"), SellRate: d("61.8")},
	}, &next, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/rates/history?currency=eur&limit=10", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ListRateHistoryResponse
	s.decode(w, &resp)
	s.Len(resp.History, 1)
	s.Require().NotNil(resp.NextToken)
	s.Equal("tok", *resp.NextToken)
}

// --- Transactions ---

func (s *HandlerTestSuite) TestQuoteTransaction() {
	s.transactions.On("QuoteTransaction", mock.Anything, domain.TransactionBuy, mock.MatchedBy(func(items []domain.LineItem) bool {
		return len(items) == 1 && items[0].Currency == "EUR" && items[0].Amount.Equal(d("100"))
	})).Return(&pricing.Quote{
		TransactionType: domain.TransactionBuy,
		TotalMKD:        d("6150.00"),
		Details:         sampleTransaction().Details,
	}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/quote", map[string]any{
		"transactionType": "buy",
		"lineItems":       []map[string]any{{"currency": "eur", "amount": 100}},
	})

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.QuoteResponse
	s.decode(w, &resp)
	s.True(d("6150").Equal(resp.TotalMKD))
}

func (s *HandlerTestSuite) TestQuoteTransaction_UnknownType() {
	w := s.do(http.MethodPost, "/api/v1/transactions/quote", map[string]any{
		"transactionType": "SWAP",
		"lineItems":       []map[string]any{{"currency": "EUR", "amount": 1}},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestQuoteTransaction_ZeroSellRate() {
	s.transactions.On("QuoteTransaction", mock.Anything, domain.TransactionSellMKD, mock.Anything).
		Return(nil, fmt.Errorf("%w: sell rate for CHF is zero", apperrors.ErrPricing)).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions/quote", map[string]any{
		"transactionType": "SELL_MKD",
		"lineItems":       []map[string]any{{"currency": "CHF", "amount": 1000}},
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestRecordTransaction() {
	txn := sampleTransaction()
	s.transactions.On("RecordTransaction", mock.Anything, domain.TransactionBuy, mock.Anything, testUserID).Return(txn, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"transactionType": "BUY",
		"lineItems":       []map[string]any{{"currency": "EUR", "amount": "100"}},
	})

	s.Require().Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	s.decode(w, &resp)
	s.Equal("EXC-3F9A1B2C", resp.SerialKey)
	s.Len(resp.Details, 1)
}

func (s *HandlerTestSuite) TestRecordTransaction_PersistenceFailureHidesCause() {
	s.transactions.On("RecordTransaction", mock.Anything, domain.TransactionBuy, mock.Anything, testUserID).
		Return(nil, apperrors.NewPersistenceError("insert failed", fmt.Errorf("connection reset"))).Once()

	w := s.do(http.MethodPost, "/api/v1/transactions", map[string]any{
		"transactionType": "BUY",
		"lineItems":       []map[string]any{{"currency": "EUR", "amount": "100"}},
	})

	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "connection reset")
	s.Contains(w.Body.String(), "Failed to save transaction")
}

func (s *HandlerTestSuite) TestListTransactions_AllMeansNoFilter() {
	s.transactions.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Type == nil && f.Currency == nil && f.StartDate != nil && f.EndDate != nil &&
			f.EndDate.Format("2006-01-02 15:04:05") == "2024-05-01 23:59:59" &&
			f.EndDate.Location().String() == "Europe/Skopje"
	})).Return([]domain.Transaction{*sampleTransaction()}, nil, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions?type=ALL&currency=ALL&startDate=2024-05-01&endDate=2024-05-01", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	s.decode(w, &resp)
	s.Len(resp.Transactions, 1)
	s.Nil(resp.NextToken)
}

func (s *HandlerTestSuite) TestListTransactions_Filters() {
	s.transactions.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Type != nil && *f.Type == domain.TransactionSell &&
			f.Currency != nil && *f.Currency == "USD" &&
			f.SerialKey != nil && *f.SerialKey == "3f9a"
	})).Return([]domain.Transaction{}, nil, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions?type=sell&currency=usd&serialKey=3f9a", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestListTransactions_InvalidDate() {
	w := s.do(http.MethodGet, "/api/v1/transactions?startDate=01/05/2024", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestClearHistory_Forbidden() {
	s.transactions.On("ClearHistory", mock.Anything, testUserID).
		Return(int64(0), fmt.Errorf("%w: admin role required", apperrors.ErrForbidden)).Once()

	w := s.do(http.MethodDelete, "/api/v1/transactions", nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerTestSuite) TestClearHistory() {
	s.transactions.On("ClearHistory", mock.Anything, testUserID).Return(int64(12), nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/transactions", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ClearHistoryResponse
	s.decode(w, &resp)
	s.Equal(int64(12), resp.Deleted)
}

func (s *HandlerTestSuite) TestGetTransaction_NotFound() {
	s.transactions.On("GetTransaction", mock.Anything, "EXC-00000000").
		Return(nil, apperrors.NewNotFoundError("transaction EXC-00000000")).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions/EXC-00000000", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestGetInvoice() {
	s.invoices.On("RenderInvoice", mock.Anything, "EXC-3F9A1B2C").Return(&invoice.Document{
		SerialKey:   "EXC-3F9A1B2C",
		ContentType: invoice.ContentTypeHTML,
		HTML:        []byte("<html>Serial: EXC-3F9A1B2C</html>"),
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions/EXC-3F9A1B2C/invoice", nil)

	s.Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	s.Contains(w.Body.String(), "Serial: EXC-3F9A1B2C")
}

func (s *HandlerTestSuite) TestPrintInvoice() {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantSuccess bool
	}{
		{name: "printed", wantStatus: http.StatusOK, wantSuccess: true},
		{name: "printer failure", err: fmt.Errorf("%w: paper out", apperrors.ErrPrint), wantStatus: http.StatusOK},
		{name: "unknown serial", err: apperrors.NewNotFoundError("transaction"), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.invoices.On("PrintInvoice", mock.Anything, "EXC-3F9A1B2C").Return(tt.err).Once()

			w := s.do(http.MethodPost, "/api/v1/transactions/EXC-3F9A1B2C/print", nil)

			s.Equal(tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp dto.PrintResponse
				s.decode(w, &resp)
				s.Equal(tt.wantSuccess, resp.Success)
				if !tt.wantSuccess {
					s.Contains(resp.Error, "paper out")
				}
			}
		})
	}
}

// --- Users ---

func (s *HandlerTestSuite) TestGetCurrentUser() {
	s.users.On("GetUserByID", mock.Anything, testUserID).
		Return(&domain.User{UserID: testUserID, Username: "ana", Role: domain.RoleAdmin}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/users/me", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	s.decode(w, &resp)
	s.Equal("ana", resp.Username)
}

func (s *HandlerTestSuite) TestCreateUser_InvalidRole() {
	w := s.do(http.MethodPost, "/api/v1/users", map[string]string{"username": "bob", "password": "secret123", "role": "GUEST"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestCreateUser() {
	req := dto.CreateUserRequest{Username: "bob", Password: "secret123", Role: "OPERATOR"}
	s.users.On("CreateUser", mock.Anything, req, testUserID).
		Return(&domain.User{UserID: "u2", Username: "bob", Role: domain.RoleOperator}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/users", req)
	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlerTestSuite) TestDeleteUser() {
	s.users.On("DeleteUser", mock.Anything, "u2", testUserID).Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/users/u2", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerTestSuite) TestDeleteUser_Self() {
	s.users.On("DeleteUser", mock.Anything, testUserID, testUserID).
		Return(fmt.Errorf("%w: cannot delete yourself", apperrors.ErrValidation)).Once()

	w := s.do(http.MethodDelete, "/api/v1/users/"+testUserID, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

// --- Settings ---

func (s *HandlerTestSuite) TestUpdateSettings() {
	in := domain.OfficeSettings{OfficeName: "FEJZULLAI", Address: "Ul/Rr.Brakja Ginoski 135", Phone: "070 378 645", PrinterName: "EPSON"}
	s.settings.On("UpdateSettings", mock.Anything, in, testUserID).Return(in, nil).Once()

	w := s.do(http.MethodPut, "/api/v1/settings", dto.ToSettingsPayload(in))

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.SettingsPayload
	s.decode(w, &resp)
	s.Equal("EPSON", resp.PrinterName)
}

func (s *HandlerTestSuite) TestGetSettings() {
	s.settings.On("GetSettings", mock.Anything).Return(domain.OfficeSettings{OfficeName: "FEJZULLAI"}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/settings", nil)
	s.Equal(http.StatusOK, w.Code)
}
