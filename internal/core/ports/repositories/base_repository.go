package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager is implemented by repositories whose writes span several
// statements, such as a transaction header with its detail rows or a rate batch
// with its audit rows.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is a no-op on a transaction that was already committed.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
