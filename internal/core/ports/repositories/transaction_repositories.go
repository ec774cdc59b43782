package repositories

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
)

// TransactionReader defines read operations for recorded transactions
type TransactionReader interface {
	// FindTransactionBySerialKey retrieves one transaction with its details and username.
	FindTransactionBySerialKey(ctx context.Context, serialKey string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions matching filter newest-first, details attached.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for recorded transactions
type TransactionWriter interface {
	// SaveTransaction persists the header and all details atomically and returns the
	// store-assigned transaction date. A serial key collision returns ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)

	// DeleteAllTransactions removes every transaction and, by cascade, its details.
	DeleteAllTransactions(ctx context.Context) (int64, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx is implemented by the pgx transaction repository.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
