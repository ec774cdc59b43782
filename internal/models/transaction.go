package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the stored header of a recorded exchange.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	SerialKey       string          `db:"serial_key"` // Unique
	TransactionType string          `db:"transaction_type"`
	TransactionDate time.Time       `db:"transaction_date"`
	UserID          sql.NullString  `db:"user_id"`  // FK -> users.user_id, nulled on user deletion
	Username        sql.NullString  `db:"username"` // Joined from users, not a column
	TotalMKD        decimal.Decimal `db:"total_mkd"`
}

// TransactionDetail is one stored line of a transaction.
type TransactionDetail struct {
	TransactionDetailID string          `db:"transaction_detail_id"`
	TransactionID       string          `db:"transaction_id"` // FK -> transactions, cascades on delete
	Currency            string          `db:"currency"`
	Amount              decimal.Decimal `db:"amount"`
	Rate                decimal.Decimal `db:"rate"`
	MKDEquivalent       decimal.Decimal `db:"mkd_equivalent"`
}
