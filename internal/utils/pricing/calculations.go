package pricing

import (
	"fmt"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	mkdPlaces     = domain.StoredMKDScale // MKD values are stored and shown with 2 decimals
	foreignPlaces = domain.StoredScale    // Foreign amounts derived from MKD keep the column's precision
)

// Round2 rounds half-up to two decimal places. Every stored MKD value passes through it.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(mkdPlaces)
}

// Options tunes how Price treats its input.
type Options struct {
	// RejectUnknownCurrencies fails the quote when a currency has no rate
	// instead of pricing it at zero.
	RejectUnknownCurrencies bool
}

// Quote is the priced result of a set of line items.
type Quote struct {
	TransactionType   domain.TransactionType     `json:"transactionType"`
	Details           []domain.TransactionDetail `json:"details"`
	TotalMKD          decimal.Decimal            `json:"totalMKD"`
	UnknownCurrencies []string                   `json:"unknownCurrencies,omitempty"`
}

func lookup(table domain.RateTable, currency string) domain.ExchangeRate {
	code := domain.NormalizeCurrency(currency)
	if r, ok := table.Lookup(code); ok {
		return r
	}
	// Missing currencies price at zero.
	return domain.ExchangeRate{Currency: code, BuyRate: decimal.Zero, SellRate: decimal.Zero}
}

// PriceBuy prices a purchase of foreign currency: mkd = round2(amount × buy_rate).
func PriceBuy(table domain.RateTable, currency string, foreignAmount decimal.Decimal) domain.TransactionDetail {
	rate := lookup(table, currency)
	return domain.TransactionDetail{
		Currency:      rate.Currency,
		Amount:        foreignAmount,
		Rate:          rate.BuyRate,
		MKDEquivalent: Round2(foreignAmount.Mul(rate.BuyRate)),
	}
}

// PriceSell prices a sale of foreign currency: mkd = round2(amount × sell_rate).
func PriceSell(table domain.RateTable, currency string, foreignAmount decimal.Decimal) domain.TransactionDetail {
	rate := lookup(table, currency)
	return domain.TransactionDetail{
		Currency:      rate.Currency,
		Amount:        foreignAmount,
		Rate:          rate.SellRate,
		MKDEquivalent: Round2(foreignAmount.Mul(rate.SellRate)),
	}
}

// PriceSellFromMkd derives the foreign amount a customer receives for mkdAmount.
// It fails with ErrPricing when the sell rate is zero and with ErrValidation when
// the result rounds to nothing at six decimals.
func PriceSellFromMkd(table domain.RateTable, currency string, mkdAmount decimal.Decimal) (domain.TransactionDetail, error) {
	rate := lookup(table, currency)
	if rate.SellRate.IsZero() {
		return domain.TransactionDetail{}, fmt.Errorf("%w: sell rate for %s is zero, cannot derive foreign amount", apperrors.ErrPricing, rate.Currency)
	}
	amount := mkdAmount.DivRound(rate.SellRate, foreignPlaces)
	if !amount.IsPositive() {
		return domain.TransactionDetail{}, fmt.Errorf("%w: %s MKD buys less than the smallest stored unit of %s", apperrors.ErrValidation, mkdAmount, rate.Currency)
	}
	return domain.TransactionDetail{
		Currency:      rate.Currency,
		Amount:        amount,
		Rate:          rate.SellRate,
		MKDEquivalent: Round2(mkdAmount),
	}, nil
}

// PriceMulti applies PriceBuy to every row and returns the rows with their grand total.
// The total is the exact sum of the already rounded rows.
func PriceMulti(table domain.RateTable, rows []domain.LineItem) ([]domain.TransactionDetail, decimal.Decimal) {
	details := make([]domain.TransactionDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, PriceBuy(table, row.Currency, row.Amount))
	}
	return details, domain.SumMKD(details)
}

// ValidateLineItems checks the input shape for a transaction type before any pricing happens.
func ValidateLineItems(txType domain.TransactionType, items []domain.LineItem) error {
	if !txType.IsValid() {
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txType)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", apperrors.ErrValidation)
	}
	if len(items) > 1 && !txType.AllowsMultipleLines() {
		return fmt.Errorf("%w: %s takes exactly one line item, got %d", apperrors.ErrValidation, txType, len(items))
	}
	for i, item := range items {
		if !domain.IsValidCurrencyCode(domain.NormalizeCurrency(item.Currency)) {
			return fmt.Errorf("%w: line %d has invalid currency code %q", apperrors.ErrValidation, i+1, item.Currency)
		}
		if !item.Amount.IsPositive() {
			return fmt.Errorf("%w: line %d amount must be greater than zero", apperrors.ErrValidation, i+1)
		}
		// SELL_MKD lines carry an MKD amount, stored with two decimals.
		if txType == domain.TransactionSellMKD {
			if !domain.FitsStoredMKDScale(item.Amount) {
				return fmt.Errorf("%w: line %d MKD amount allows at most %d decimal places", apperrors.ErrValidation, i+1, domain.StoredMKDScale)
			}
		} else if !domain.FitsStoredScale(item.Amount) {
			return fmt.Errorf("%w: line %d amount allows at most %d decimal places", apperrors.ErrValidation, i+1, domain.StoredScale)
		}
	}
	return nil
}

// Price validates items and prices them according to txType.
func Price(txType domain.TransactionType, table domain.RateTable, items []domain.LineItem, opts Options) (Quote, error) {
	if err := ValidateLineItems(txType, items); err != nil {
		return Quote{}, err
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, item := range items {
		code := domain.NormalizeCurrency(item.Currency)
		if _, ok := table.Lookup(code); !ok && !seen[code] {
			seen[code] = true
			unknown = append(unknown, code)
		}
	}
	if len(unknown) > 0 && opts.RejectUnknownCurrencies {
		return Quote{}, fmt.Errorf("%w: no exchange rate configured for %v", apperrors.ErrValidation, unknown)
	}

	quote := Quote{TransactionType: txType, UnknownCurrencies: unknown}
	switch txType {
	case domain.TransactionBuy:
		quote.Details = []domain.TransactionDetail{PriceBuy(table, items[0].Currency, items[0].Amount)}
	case domain.TransactionSell:
		quote.Details = []domain.TransactionDetail{PriceSell(table, items[0].Currency, items[0].Amount)}
	case domain.TransactionSellMKD:
		detail, err := PriceSellFromMkd(table, items[0].Currency, items[0].Amount)
		if err != nil {
			return Quote{}, err
		}
		quote.Details = []domain.TransactionDetail{detail}
	case domain.TransactionMulti:
		quote.Details, quote.TotalMKD = PriceMulti(table, items)
		return quote, nil
	}
	quote.TotalMKD = domain.SumMKD(quote.Details)
	return quote, nil
}
