package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestBuildTransactionListQuery_NoFilters(t *testing.T) {
	query, args := buildTransactionListQuery(domain.TransactionFilter{}, nil)

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "LEFT JOIN users u")
	assert.Contains(t, query, "ORDER BY t.transaction_date DESC, t.transaction_id DESC")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestBuildTransactionListQuery_AllFilters(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)
	filter := domain.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      ptr(domain.TransactionMulti),
		Currency:  ptr("eur"),
		SerialKey: ptr("3f9"),
		Limit:     25,
	}
	cursor := &pagination.Cursor{At: end, ID: "txn-9"}

	query, args := buildTransactionListQuery(filter, cursor)

	assert.Contains(t, query, "t.transaction_date >= $1")
	assert.Contains(t, query, "t.transaction_date <= $2")
	assert.Contains(t, query, "t.transaction_type = $3")
	assert.Contains(t, query, "t.serial_key ILIKE $4")
	assert.Contains(t, query, "d.currency = $5")
	assert.Contains(t, query, "(t.transaction_date, t.transaction_id) < ($6, $7)")
	assert.Contains(t, query, "LIMIT $8")
	assert.Equal(t, []any{start, end, "MULTI", "%3f9%", "EUR", end, "txn-9", 25}, args)
}

func TestBuildTransactionListQuery_SerialOnly(t *testing.T) {
	query, args := buildTransactionListQuery(domain.TransactionFilter{SerialKey: ptr("50%_off")}, nil)

	assert.Contains(t, query, "WHERE t.serial_key ILIKE $1")
	assert.Equal(t, []any{`%50\%\_off%`}, args)
}

func TestBuildTransactionListQuery_EmptyStringsIgnored(t *testing.T) {
	_, args := buildTransactionListQuery(domain.TransactionFilter{SerialKey: ptr(""), Currency: ptr("")}, nil)
	assert.Empty(t, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `EXC-\%`, escapeLike("EXC-%"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "EXC-ABC", escapeLike("EXC-ABC"))
}

func TestIsUniqueViolation_NonPgError(t *testing.T) {
	assert.False(t, isUniqueViolation(assert.AnError, ""))
}
