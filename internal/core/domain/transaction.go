package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of exchange operation recorded.
type TransactionType string

const (
	TransactionBuy     TransactionType = "BUY"      // Customer hands over foreign currency, receives MKD
	TransactionSell    TransactionType = "SELL"     // Customer hands over MKD, receives foreign currency
	TransactionSellMKD TransactionType = "SELL_MKD" // Sale priced from an MKD amount
	TransactionMulti   TransactionType = "MULTI"    // Several simultaneous purchases under one serial key
)

// TransactionTypes lists every recordable type in display order.
var TransactionTypes = []TransactionType{TransactionBuy, TransactionSell, TransactionSellMKD, TransactionMulti}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionSellMKD, TransactionMulti:
		return true
	}
	return false
}

// IsPurchase reports whether the office buys foreign currency in this transaction.
func (t TransactionType) IsPurchase() bool {
	return t == TransactionBuy || t == TransactionMulti
}

// AllowsMultipleLines reports whether more than one line item may be recorded.
func (t TransactionType) AllowsMultipleLines() bool {
	return t == TransactionMulti
}

// ParseTransactionType parses a case-insensitive type name.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// serialKeyPattern is the literal PREFIX-XXXXXXXX shape of every serial key.
var serialKeyPattern = regexp.MustCompile(`^[A-Z]+-[A-Z0-9]{8}$`)

// IsValidSerialKey reports whether key has the PREFIX-XXXXXXXX shape.
func IsValidSerialKey(key string) bool {
	return serialKeyPattern.MatchString(key)
}

// LineItem is one requested currency/amount pair before pricing.
// For SELL_MKD the amount is in MKD; for every other type it is the foreign amount.
type LineItem struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// TransactionDetail is one priced line of a recorded transaction.
// Rate is a frozen copy of the rate applied at recording time.
type TransactionDetail struct {
	TransactionDetailID string          `json:"transactionDetailID"`
	TransactionID       string          `json:"transactionID"`
	Currency            string          `json:"currency"`
	Amount              decimal.Decimal `json:"amount"`
	Rate                decimal.Decimal `json:"rate"`
	MKDEquivalent       decimal.Decimal `json:"mkdEquivalent"`
}

// Transaction is the immutable header of a recorded exchange operation.
type Transaction struct {
	TransactionID   string              `json:"transactionID"`
	SerialKey       string              `json:"serialKey"`
	TransactionType TransactionType     `json:"transactionType"`
	TransactionDate time.Time           `json:"transactionDate"` // Assigned by the store
	UserID          *string             `json:"userID"`          // Nulled when the user is removed
	Username        *string             `json:"username,omitempty"`
	TotalMKD        decimal.Decimal     `json:"totalMKD"`
	Details         []TransactionDetail `json:"details"`
}

// Scales of the NUMERIC(20,6) amount and rate columns and the NUMERIC(20,2) MKD columns.
const (
	StoredScale    = 6
	StoredMKDScale = 2
	storedIntegers = 14
)

var storedLimit = decimal.New(1, storedIntegers)

// FitsStoredScale reports whether d survives a NUMERIC(20,6) column unchanged:
// at most six significant decimals and fourteen integer digits.
func FitsStoredScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(StoredScale)) && d.Abs().LessThan(storedLimit)
}

// FitsStoredMKDScale is FitsStoredScale for the two-decimal MKD columns.
func FitsStoredMKDScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(StoredMKDScale)) && d.Abs().LessThan(storedLimit)
}

// SumMKD adds up the MKD equivalents of details without intermediate rounding.
func SumMKD(details []TransactionDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.MKDEquivalent)
	}
	return total
}

// Validate checks the structural invariants a transaction must satisfy before it is stored.
func (t Transaction) Validate() error {
	if !t.TransactionType.IsValid() {
		return fmt.Errorf("invalid transaction type %q", t.TransactionType)
	}
	if !IsValidSerialKey(t.SerialKey) {
		return fmt.Errorf("serial key %q does not match PREFIX-XXXXXXXX", t.SerialKey)
	}
	if len(t.Details) == 0 {
		return fmt.Errorf("transaction must have at least one detail")
	}
	if len(t.Details) > 1 && !t.TransactionType.AllowsMultipleLines() {
		return fmt.Errorf("transaction type %s takes exactly one detail, got %d", t.TransactionType, len(t.Details))
	}
	for i, d := range t.Details {
		if d.TransactionID != t.TransactionID {
			return fmt.Errorf("detail %d belongs to transaction %s, not %s", i, d.TransactionID, t.TransactionID)
		}
		if !d.Amount.IsPositive() {
			return fmt.Errorf("detail %d amount must be positive", i)
		}
		if d.Rate.IsNegative() || d.MKDEquivalent.IsNegative() {
			return fmt.Errorf("detail %d rate and MKD equivalent cannot be negative", i)
		}
		if !FitsStoredScale(d.Amount) || !FitsStoredScale(d.Rate) || !FitsStoredMKDScale(d.MKDEquivalent) {
			return fmt.Errorf("detail %d does not fit the stored precision", i)
		}
	}
	if sum := SumMKD(t.Details); !sum.Equal(t.TotalMKD) {
		return fmt.Errorf("total %s does not equal sum of details %s", t.TotalMKD.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}

// TransactionFilter selects transactions from the history. Nil fields do not filter.
type TransactionFilter struct {
	StartDate *time.Time       // Inclusive lower bound on transaction_date
	EndDate   *time.Time       // Inclusive upper bound on transaction_date
	Type      *TransactionType // Exact match
	Currency  *string          // Matches if any detail uses it
	SerialKey *string          // Case-insensitive substring match
	Limit     int              // 0 means no limit
	NextToken *string          // Keyset pagination token
}
