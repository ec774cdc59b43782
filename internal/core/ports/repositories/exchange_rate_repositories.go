package repositories

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
)

// ExchangeRateReader reads the current rate board.
type ExchangeRateReader interface {
	// ListExchangeRates returns every stored rate ordered by currency code.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// FindExchangeRates returns the stored rates for the given codes. Missing codes are omitted.
	FindExchangeRates(ctx context.Context, currencies []string) ([]domain.ExchangeRate, error)
}

// RateHistoryReader pages through the append-only rate audit log.
type RateHistoryReader interface {
	// ListRateHistory returns audit rows newest-first, optionally for one currency.
	// It returns the rows and a token for the next page when the page is full.
	ListRateHistory(ctx context.Context, currency *string, limit int, nextToken *string) ([]domain.RateHistory, *string, error)
}

// ExchangeRateWriter replaces rates. Every write also appends audit rows.
type ExchangeRateWriter interface {
	// SaveExchangeRates upserts rates and appends their history rows in one transaction.
	// rates and history are index-aligned.
	SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate, history []domain.RateHistory) error
}

// ExchangeRateRepositoryFacade is the storage surface of the rate service.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	RateHistoryReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx is implemented by the pgx rate repository.
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
