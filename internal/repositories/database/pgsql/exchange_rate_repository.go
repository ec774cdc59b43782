package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_office_app/internal/models"
	"github.com/SscSPs/exchange_office_app/internal/utils/mapping"
	"github.com/SscSPs/exchange_office_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements the exchange rate repository using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

const rateColumns = `currency, buy_rate, sell_rate, updated_at, updated_by`

// ListExchangeRates returns every stored rate ordered by currency code.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	return r.queryRates(ctx, `SELECT `+rateColumns+` FROM exchange_rates ORDER BY currency;`)
}

// FindExchangeRates returns the rates for the given currency codes. Unknown codes are skipped.
func (r *PgxExchangeRateRepository) FindExchangeRates(ctx context.Context, currencies []string) ([]domain.ExchangeRate, error) {
	if len(currencies) == 0 {
		return []domain.ExchangeRate{}, nil
	}
	return r.queryRates(ctx, `SELECT `+rateColumns+` FROM exchange_rates WHERE currency = ANY($1) ORDER BY currency;`, currencies)
}

func (r *PgxExchangeRateRepository) queryRates(ctx context.Context, query string, args ...any) ([]domain.ExchangeRate, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list exchange rates", err)
	}
	defer rows.Close()

	var modelRates []models.ExchangeRate
	for rows.Next() {
		var m models.ExchangeRate
		if err := rows.Scan(&m.Currency, &m.BuyRate, &m.SellRate, &m.UpdatedAt, &m.UpdatedBy); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan exchange rate", err)
		}
		modelRates = append(modelRates, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating exchange rates", err)
	}
	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}

// SaveExchangeRates upserts every rate and appends its history row in one transaction.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate, history []domain.RateHistory) error {
	if len(rates) != len(history) {
		return apperrors.NewAppError(http.StatusInternalServerError, "rate and history batches differ in length", nil)
	}
	if len(rates) == 0 {
		return nil
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		upsertQuery := `
			INSERT INTO exchange_rates (currency, buy_rate, sell_rate, updated_at, updated_by)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (currency) DO UPDATE
			SET buy_rate = EXCLUDED.buy_rate,
			    sell_rate = EXCLUDED.sell_rate,
			    updated_at = EXCLUDED.updated_at,
			    updated_by = EXCLUDED.updated_by;
		`
		historyQuery := `
			INSERT INTO rate_history (rate_history_id, currency, buy_rate, sell_rate, changed_at, changed_by)
			VALUES ($1, $2, $3, $4, $5, $6);
		`

		batch := &pgx.Batch{}
		for i := range rates {
			m := mapping.ToModelExchangeRate(rates[i])
			batch.Queue(upsertQuery, m.Currency, m.BuyRate, m.SellRate, m.UpdatedAt, m.UpdatedBy)

			h := mapping.ToModelRateHistory(history[i])
			batch.Queue(historyQuery, h.RateHistoryID, h.Currency, h.BuyRate, h.SellRate, h.ChangedAt, h.ChangedBy)
		}

		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			if isForeignKeyViolation(err) {
				return errActingUserGone
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to save exchange rates", err)
		}
		return nil
	})
}

// ListRateHistory returns audit rows newest-first, optionally for one currency.
func (r *PgxExchangeRateRepository) ListRateHistory(ctx context.Context, currency *string, limit int, nextToken *string) ([]domain.RateHistory, *string, error) {
	b := &queryBuilder{}
	if currency != nil && *currency != "" {
		b.add("currency = $%d", domain.NormalizeCurrency(*currency))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		b.add("(changed_at, rate_history_id) < ($%d, $%d)", cursor.At, cursor.ID)
	}

	query := `SELECT rate_history_id, currency, buy_rate, sell_rate, changed_at, changed_by FROM rate_history` +
		b.where() + "\n\tORDER BY changed_at DESC, rate_history_id DESC"
	args := b.args
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf("\n\tLIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list rate history", err)
	}
	defer rows.Close()

	history := []domain.RateHistory{}
	for rows.Next() {
		var m models.RateHistory
		if err := rows.Scan(&m.RateHistoryID, &m.Currency, &m.BuyRate, &m.SellRate, &m.ChangedAt, &m.ChangedBy); err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan rate history", err)
		}
		history = append(history, mapping.ToDomainRateHistory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating rate history", err)
	}

	next := pagination.NextToken(history, limit, func(h domain.RateHistory) (time.Time, string) {
		return h.ChangedAt, h.RateHistoryID
	})
	return history, next, nil
}
