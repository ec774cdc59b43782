package pgsql

import (
	"context"
	"errors"
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

const serialKeyConstraint = "transactions_serial_key_key"

// PgxTransactionRepository stores recorded exchange transactions and their details.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts the header and all details in one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	modelTxn := mapping.ToModelTransaction(txn)

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		headerQuery := `
			INSERT INTO transactions (transaction_id, serial_key, transaction_type, user_id, total_mkd)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING transaction_date;
		`
		err := tx.QueryRow(ctx, headerQuery,
			modelTxn.TransactionID,
			modelTxn.SerialKey,
			modelTxn.TransactionType,
			modelTxn.UserID,
			modelTxn.TotalMKD,
		).Scan(&modelTxn.TransactionDate)
		if err != nil {
			if isUniqueViolation(err, serialKeyConstraint) {
				return fmt.Errorf("%w: serial key %s already used", apperrors.ErrDuplicate, modelTxn.SerialKey)
			}
			if isForeignKeyViolation(err) {
				return errActingUserGone
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert transaction "+modelTxn.TransactionID, err)
		}

		batch := &pgx.Batch{}
		detailQuery := `
			INSERT INTO transaction_details (transaction_detail_id, transaction_id, line_no, currency, amount, rate, mkd_equivalent)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		for i, detail := range txn.Details {
			m := mapping.ToModelTransactionDetail(detail)
			batch.Queue(detailQuery,
				m.TransactionDetailID,
				m.TransactionID,
				i+1,
				m.Currency,
				m.Amount,
				m.Rate,
				m.MKDEquivalent,
			)
		}

		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert details for transaction "+modelTxn.TransactionID, err)
		}
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	txn.TransactionDate = modelTxn.TransactionDate
	return txn, nil
}

// FindTransactionBySerialKey retrieves one transaction with its details.
func (r *PgxTransactionRepository) FindTransactionBySerialKey(ctx context.Context, serialKey string) (*domain.Transaction, error) {
	query := transactionSelect + "\n\tWHERE t.serial_key = $1;"

	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, serialKey).Scan(
		&m.TransactionID, &m.SerialKey, &m.TransactionType, &m.TransactionDate,
		&m.UserID, &m.Username, &m.TotalMKD,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + serialKey + " not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find transaction "+serialKey, err)
	}

	details, err := r.findDetails(ctx, []string{m.TransactionID})
	if err != nil {
		return nil, err
	}

	txn := mapping.ToDomainTransaction(m, details[m.TransactionID])
	return &txn, nil
}

// ListTransactions retrieves filtered transactions newest-first using keyset pagination.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	query, args := buildTransactionListQuery(filter, cursor)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list transactions", err)
	}
	defer rows.Close()

	var headers []models.Transaction
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID, &m.SerialKey, &m.TransactionType, &m.TransactionDate,
			&m.UserID, &m.Username, &m.TotalMKD,
		); err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transaction", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating transactions", err)
	}

	if len(headers) == 0 {
		return []domain.Transaction{}, nil, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.TransactionID
	}
	details, err := r.findDetails(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	result := make([]domain.Transaction, len(headers))
	for i, h := range headers {
		result[i] = mapping.ToDomainTransaction(h, details[h.TransactionID])
	}

	nextToken := pagination.NextToken(result, filter.Limit, func(t domain.Transaction) (time.Time, string) {
		return t.TransactionDate, t.TransactionID
	})
	return result, nextToken, nil
}

// findDetails loads the details of the given transactions grouped by transaction ID, in line order.
func (r *PgxTransactionRepository) findDetails(ctx context.Context, transactionIDs []string) (map[string][]models.TransactionDetail, error) {
	query := `
		SELECT transaction_detail_id, transaction_id, currency, amount, rate, mkd_equivalent
		FROM transaction_details
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_no;
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to load transaction details", err)
	}
	defer rows.Close()

	grouped := make(map[string][]models.TransactionDetail, len(transactionIDs))
	for rows.Next() {
		var d models.TransactionDetail
		if err := rows.Scan(&d.TransactionDetailID, &d.TransactionID, &d.Currency, &d.Amount, &d.Rate, &d.MKDEquivalent); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transaction detail", err)
		}
		grouped[d.TransactionID] = append(grouped[d.TransactionID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating transaction details", err)
	}
	return grouped, nil
}

// DeleteAllTransactions clears the history. Details go with their headers by cascade.
func (r *PgxTransactionRepository) DeleteAllTransactions(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM transactions;`)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to clear transactions", err)
		}
		deleted = tag.RowsAffected()
		return nil
	})
	return deleted, err
}
