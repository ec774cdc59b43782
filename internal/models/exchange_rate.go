package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the stored row of the exchange_rates table, one per currency code.
type ExchangeRate struct {
	Currency  string          `db:"currency"` // Primary Key (e.g., "EUR")
	BuyRate   decimal.Decimal `db:"buy_rate"`
	SellRate  decimal.Decimal `db:"sell_rate"`
	UpdatedAt time.Time       `db:"updated_at"`
	UpdatedBy sql.NullString  `db:"updated_by"` // FK -> users.user_id, NULL after the user is deleted
}

// RateHistory is a row of the append-only rate_history audit table.
type RateHistory struct {
	RateHistoryID string          `db:"rate_history_id"`
	Currency      string          `db:"currency"`
	BuyRate       decimal.Decimal `db:"buy_rate"`
	SellRate      decimal.Decimal `db:"sell_rate"`
	ChangedAt     time.Time       `db:"changed_at"`
	ChangedBy     sql.NullString  `db:"changed_by"`
}
