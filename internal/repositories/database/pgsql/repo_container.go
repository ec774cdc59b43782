package pgsql

import (
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		SettingsRepo:     newPgxSettingsRepository(dbPool),
	}
}
