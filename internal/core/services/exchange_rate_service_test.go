package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.ExchangeRateSvcFacade
	now          time.Time
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	suite.service = services.NewExchangeRateService(
		suite.mockRateRepo,
		services.WithDefaultCurrencies([]string{"EUR", "CHF", "USD"}),
		services.WithExchangeRateClock(func() time.Time { return suite.now }),
	)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

func (suite *ExchangeRateServiceTestSuite) TestGetRates_MergesDefaults() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx).Return([]domain.ExchangeRate{
		{Currency: "EUR", BuyRate: decimal.RequireFromString("61.5"), SellRate: decimal.RequireFromString("61.8")},
		{Currency: "TRY", BuyRate: decimal.RequireFromString("1.7"), SellRate: decimal.RequireFromString("1.9")},
	}, nil).Once()

	rates, err := suite.service.GetRates(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(rates, 4)
	suite.Equal([]string{"EUR", "CHF", "USD", "TRY"}, []string{rates[0].Currency, rates[1].Currency, rates[2].Currency, rates[3].Currency})
	suite.True(decimal.RequireFromString("61.5").Equal(rates[0].BuyRate))
	suite.True(rates[1].BuyRate.IsZero())
	suite.True(rates[1].SellRate.IsZero())
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRates_RepoError() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListExchangeRates", ctx).Return(nil, assert.AnError).Once()

	rates, err := suite.service.GetRates(ctx)

	suite.Nil(rates)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateRates_Success() {
	ctx := context.Background()
	prevBy := "someone"
	suite.mockRateRepo.On("FindExchangeRates", ctx, []string{"EUR", "GBP"}).Return([]domain.ExchangeRate{
		{Currency: "EUR", BuyRate: decimal.NewFromInt(60), SellRate: decimal.NewFromInt(61), UpdatedBy: &prevBy},
	}, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRates", ctx,
		mock.MatchedBy(func(rates []domain.ExchangeRate) bool {
			return len(rates) == 2 &&
				rates[0].Currency == "EUR" && rates[0].BuyRate.Equal(decimal.RequireFromString("61.5")) &&
				rates[1].Currency == "GBP" && rates[1].UpdatedAt.Equal(suite.now) &&
				rates[1].UpdatedBy != nil && *rates[1].UpdatedBy == "admin_1"
		}),
		mock.MatchedBy(func(history []domain.RateHistory) bool {
			return len(history) == 2 && history[0].Currency == "EUR" && history[1].Currency == "GBP" &&
				history[0].RateHistoryID != history[1].RateHistoryID
		}),
	).Return(nil).Once()

	rates, err := suite.service.UpdateRates(ctx, []domain.RateUpdate{
		{Currency: "eur", BuyRate: decimal.RequireFromString("61.5"), SellRate: decimal.RequireFromString("61.8")},
		{Currency: "GBP", BuyRate: decimal.RequireFromString("71.3"), SellRate: decimal.RequireFromString("72.7")},
	}, "admin_1")

	suite.Require().NoError(err)
	suite.Len(rates, 2)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateRates_Validation() {
	ctx := context.Background()
	cases := [][]domain.RateUpdate{
		nil,
		{{Currency: "EURO"}},
		{{Currency: "EUR", BuyRate: decimal.NewFromInt(-1)}},
		{{Currency: "EUR"}, {Currency: "eur"}},
	}
	for _, updates := range cases {
		_, err := suite.service.UpdateRates(ctx, updates, "admin_1")
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRates", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateRates_SaveError() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindExchangeRates", ctx, []string{"EUR"}).Return([]domain.ExchangeRate{}, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrPersistence).Once()

	_, err := suite.service.UpdateRates(ctx, []domain.RateUpdate{{Currency: "EUR"}}, "admin_1")

	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *ExchangeRateServiceTestSuite) TestListRateHistory_NormalizesCurrency() {
	ctx := context.Background()
	currency := "eur"
	next := "token"
	suite.mockRateRepo.On("ListRateHistory", ctx, mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == "EUR"
	}), 10, (*string)(nil)).Return([]domain.RateHistory{{Currency: "EUR"}}, &next, nil).Once()

	history, token, err := suite.service.ListRateHistory(ctx, &currency, 10, nil)

	suite.Require().NoError(err)
	suite.Len(history, 1)
	suite.Equal(&next, token)
}

func (suite *ExchangeRateServiceTestSuite) TestListRateHistory_InvalidCurrency() {
	currency := "EURO"
	_, _, err := suite.service.ListRateHistory(context.Background(), &currency, 10, nil)
	suite.ErrorIs(err, apperrors.ErrValidation)
}
