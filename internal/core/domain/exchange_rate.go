package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate is the current buy/sell rate against MKD for one currency code.
type ExchangeRate struct {
	Currency  string          `json:"currency"` // Primary Key (e.g., "EUR")
	BuyRate   decimal.Decimal `json:"buyRate"`
	SellRate  decimal.Decimal `json:"sellRate"`
	UpdatedAt time.Time       `json:"updatedAt"`
	UpdatedBy *string         `json:"updatedBy"` // Nulled when the user is removed
}

// RateHistory is an append-only audit record written for every rate update.
type RateHistory struct {
	RateHistoryID string          `json:"rateHistoryID"`
	Currency      string          `json:"currency"`
	BuyRate       decimal.Decimal `json:"buyRate"`
	SellRate      decimal.Decimal `json:"sellRate"`
	ChangedAt     time.Time       `json:"changedAt"`
	ChangedBy     *string         `json:"changedBy"`
}

// RateUpdate is a requested change to one currency's rates.
type RateUpdate struct {
	Currency string
	BuyRate  decimal.Decimal
	SellRate decimal.Decimal
}

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCurrencyCode reports whether code is a three-letter uppercase code.
func IsValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Validate checks the update's currency code and that both rates are non-negative
// and storable without rounding.
func (u RateUpdate) Validate() error {
	if !IsValidCurrencyCode(u.Currency) {
		return fmt.Errorf("currency code %q must be 3 uppercase letters", u.Currency)
	}
	if u.BuyRate.IsNegative() || u.SellRate.IsNegative() {
		return fmt.Errorf("rates for %s cannot be negative", u.Currency)
	}
	if !FitsStoredScale(u.BuyRate) || !FitsStoredScale(u.SellRate) {
		return fmt.Errorf("rates for %s allow at most %d decimal places", u.Currency, StoredScale)
	}
	return nil
}

// UpsertRate merges an update into the existing rate for the same currency.
// Last write wins: the update replaces both rates regardless of the previous
// values. Every call yields the audit record that must be appended with it.
func UpsertRate(existing *ExchangeRate, update RateUpdate, actingUserID string, at time.Time) (ExchangeRate, RateHistory) {
	var by *string
	if actingUserID != "" {
		by = &actingUserID
	}

	rate := ExchangeRate{Currency: update.Currency}
	if existing != nil {
		rate = *existing
	}
	rate.BuyRate = update.BuyRate
	rate.SellRate = update.SellRate
	rate.UpdatedAt = at
	rate.UpdatedBy = by

	history := RateHistory{
		RateHistoryID: uuid.NewString(),
		Currency:      rate.Currency,
		BuyRate:       rate.BuyRate,
		SellRate:      rate.SellRate,
		ChangedAt:     at,
		ChangedBy:     by,
	}
	return rate, history
}

// RateTable is a read-only snapshot of rates keyed by currency code.
// It is built fresh for every pricing operation.
type RateTable map[string]ExchangeRate

// NewRateTable indexes rates by normalized currency code.
func NewRateTable(rates []ExchangeRate) RateTable {
	table := make(RateTable, len(rates))
	for _, r := range rates {
		table[NormalizeCurrency(r.Currency)] = r
	}
	return table
}

// Lookup returns the rate for currency, if present.
func (t RateTable) Lookup(currency string) (ExchangeRate, bool) {
	r, ok := t[NormalizeCurrency(currency)]
	return r, ok
}
