package services

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetRates returns the stored rates merged with the configured default
	// currencies. Currencies never configured appear with zero rates.
	GetRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// GetRateTable returns a fresh snapshot of the stored rates for pricing.
	GetRateTable(ctx context.Context) (domain.RateTable, error)

	// ListRateHistory returns audit rows newest-first, optionally for one currency.
	ListRateHistory(ctx context.Context, currency *string, limit int, nextToken *string) ([]domain.RateHistory, *string, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// UpdateRates applies every update last-write-wins and records one audit row per currency.
	UpdateRates(ctx context.Context, updates []domain.RateUpdate, actingUserID string) ([]domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
