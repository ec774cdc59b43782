package services

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/utils/pricing"
)

// TransactionPricerSvc prices line items without storing anything.
type TransactionPricerSvc interface {
	// QuoteTransaction prices items against the current rates.
	QuoteTransaction(ctx context.Context, txType domain.TransactionType, items []domain.LineItem) (*pricing.Quote, error)
}

// TransactionRecorderSvc stores priced transactions.
type TransactionRecorderSvc interface {
	// RecordTransaction validates, prices and atomically stores a transaction under a new serial key.
	RecordTransaction(ctx context.Context, txType domain.TransactionType, items []domain.LineItem, actingUserID string) (*domain.Transaction, error)

	// ClearHistory deletes every recorded transaction. Admin only.
	ClearHistory(ctx context.Context, actingUserID string) (int64, error)
}

// TransactionReaderSvc queries the transaction history.
type TransactionReaderSvc interface {
	// GetTransaction returns one transaction by serial key.
	GetTransaction(ctx context.Context, serialKey string) (*domain.Transaction, error)

	// ListTransactions returns the filtered history newest-first and a next page token.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionPricerSvc
	TransactionRecorderSvc
	TransactionReaderSvc
}
