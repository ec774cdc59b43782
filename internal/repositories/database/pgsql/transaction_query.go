package pgsql

import (
	"fmt"
	"strings"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/utils/pagination"
)

const transactionSelect = `
	SELECT t.transaction_id, t.serial_key, t.transaction_type, t.transaction_date,
	       t.user_id, u.username, t.total_mkd
	FROM transactions t
	LEFT JOIN users u ON u.user_id = t.user_id`

// queryBuilder accumulates WHERE clauses with positional arguments.
type queryBuilder struct {
	clauses []string
	args    []any
}

func (b *queryBuilder) add(clause string, args ...any) {
	placeholders := make([]any, len(args))
	for i, arg := range args {
		b.args = append(b.args, arg)
		placeholders[i] = len(b.args)
	}
	b.clauses = append(b.clauses, fmt.Sprintf(clause, placeholders...))
}

func (b *queryBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "\n\tWHERE " + strings.Join(b.clauses, "\n\t  AND ")
}

// escapeLike escapes LIKE metacharacters so user input only matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildTransactionListQuery renders the history query for filter. The cursor,
// when set, continues after the last row of the previous page.
func buildTransactionListQuery(filter domain.TransactionFilter, cursor *pagination.Cursor) (string, []any) {
	b := &queryBuilder{}

	if filter.StartDate != nil {
		b.add("t.transaction_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		b.add("t.transaction_date <= $%d", *filter.EndDate)
	}
	if filter.Type != nil {
		b.add("t.transaction_type = $%d", string(*filter.Type))
	}
	if filter.SerialKey != nil && *filter.SerialKey != "" {
		b.add("t.serial_key ILIKE $%d", "%"+escapeLike(*filter.SerialKey)+"%")
	}
	if filter.Currency != nil && *filter.Currency != "" {
		b.add(`EXISTS (
		SELECT 1 FROM transaction_details d
		WHERE d.transaction_id = t.transaction_id AND d.currency = $%d
	  )`, domain.NormalizeCurrency(*filter.Currency))
	}
	if cursor != nil {
		b.add("(t.transaction_date, t.transaction_id) < ($%d, $%d)", cursor.At, cursor.ID)
	}

	query := transactionSelect + b.where() + "\n\tORDER BY t.transaction_date DESC, t.transaction_id DESC"
	if filter.Limit > 0 {
		b.args = append(b.args, filter.Limit)
		query += fmt.Sprintf("\n\tLIMIT $%d", len(b.args))
	}
	return query, b.args
}
