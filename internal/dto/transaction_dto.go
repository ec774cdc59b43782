package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/utils/pricing"
	"github.com/shopspring/decimal"
)

// filterAll is the sentinel the front-end sends for "no filter" on type and currency.
const filterAll = "ALL"

const dateOnlyLayout = "2006-01-02"

// LineItemRequest is one currency row of a quote or record request.
type LineItemRequest struct {
	Currency string          `json:"currency" binding:"required,currency"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// TransactionRequest is the body of both the quote and the record endpoints.
type TransactionRequest struct {
	TransactionType string            `json:"transactionType" binding:"required,txtype"`
	LineItems       []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// ToLineItems converts the request into a type and domain line items.
func (r TransactionRequest) ToLineItems() (domain.TransactionType, []domain.LineItem, error) {
	txType, err := domain.ParseTransactionType(r.TransactionType)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	items := make([]domain.LineItem, len(r.LineItems))
	for i, li := range r.LineItems {
		items[i] = domain.LineItem{Currency: domain.NormalizeCurrency(li.Currency), Amount: li.Amount}
	}
	return txType, items, nil
}

// TransactionDetailResponse is one priced line.
type TransactionDetailResponse struct {
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Rate          decimal.Decimal `json:"rate"`
	MKDEquivalent decimal.Decimal `json:"mkdEquivalent"`
}

// TransactionResponse is a recorded transaction with its lines.
type TransactionResponse struct {
	TransactionID   string                      `json:"transactionID"`
	SerialKey       string                      `json:"serialKey"`
	TransactionType string                      `json:"transactionType"`
	TransactionDate time.Time                   `json:"transactionDate"`
	UserID          *string                     `json:"userID,omitempty"`
	Username        *string                     `json:"username,omitempty"`
	TotalMKD        decimal.Decimal             `json:"totalMKD"`
	Details         []TransactionDetailResponse `json:"details"`
}

// QuoteResponse is the pricing preview shown before saving.
type QuoteResponse struct {
	TransactionType   string                      `json:"transactionType"`
	TotalMKD          decimal.Decimal             `json:"totalMKD"`
	Details           []TransactionDetailResponse `json:"details"`
	UnknownCurrencies []string                    `json:"unknownCurrencies,omitempty"`
}

// ListTransactionsResponse wraps a page of history rows.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ClearHistoryResponse reports how many transactions were removed.
type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}

// PrintResponse mirrors the print outcome. Success is false when the printer failed.
type PrintResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func toDetailResponses(details []domain.TransactionDetail) []TransactionDetailResponse {
	out := make([]TransactionDetailResponse, len(details))
	for i, d := range details {
		out[i] = TransactionDetailResponse{
			Currency:      d.Currency,
			Amount:        d.Amount,
			Rate:          d.Rate,
			MKDEquivalent: d.MKDEquivalent,
		}
	}
	return out
}

func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		SerialKey:       txn.SerialKey,
		TransactionType: string(txn.TransactionType),
		TransactionDate: txn.TransactionDate,
		UserID:          txn.UserID,
		Username:        txn.Username,
		TotalMKD:        txn.TotalMKD,
		Details:         toDetailResponses(txn.Details),
	}
}

func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: out, NextToken: nextToken}
}

func ToQuoteResponse(q *pricing.Quote) QuoteResponse {
	return QuoteResponse{
		TransactionType:   string(q.TransactionType),
		TotalMKD:          q.TotalMKD,
		Details:           toDetailResponses(q.Details),
		UnknownCurrencies: q.UnknownCurrencies,
	}
}

// ListTransactionsParams defines query parameters for the history view.
type ListTransactionsParams struct {
	StartDate string  `form:"startDate"`
	EndDate   string  `form:"endDate"`
	Type      string  `form:"type"`
	Currency  string  `form:"currency"`
	SerialKey string  `form:"serialKey" binding:"max=64"`
	Limit     int     `form:"limit,default=0" binding:"min=0,max=1000"`
	NextToken *string `form:"nextToken"`
}

// ToFilter converts the query into a domain filter. Date-only values are read
// in loc; a date-only end date covers that whole day.
func (p ListTransactionsParams) ToFilter(loc *time.Location) (domain.TransactionFilter, error) {
	if loc == nil {
		loc = time.UTC
	}
	filter := domain.TransactionFilter{Limit: p.Limit, NextToken: p.NextToken}

	if p.StartDate != "" {
		start, _, err := parseFilterDate(p.StartDate, loc)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid startDate: %v", apperrors.ErrValidation, err)
		}
		filter.StartDate = &start
	}
	if p.EndDate != "" {
		end, dateOnly, err := parseFilterDate(p.EndDate, loc)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid endDate: %v", apperrors.ErrValidation, err)
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, fmt.Errorf("%w: endDate is before startDate", apperrors.ErrValidation)
	}

	if t := strings.TrimSpace(p.Type); t != "" && !strings.EqualFold(t, filterAll) {
		txType, err := domain.ParseTransactionType(t)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.Type = &txType
	}
	if c := domain.NormalizeCurrency(p.Currency); c != "" && c != filterAll {
		if !domain.IsValidCurrencyCode(c) {
			return filter, fmt.Errorf("%w: invalid currency %q", apperrors.ErrValidation, p.Currency)
		}
		filter.Currency = &c
	}
	if s := strings.TrimSpace(p.SerialKey); s != "" {
		filter.SerialKey = &s
	}
	return filter, nil
}

func parseFilterDate(value string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateOnlyLayout, value, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	return t, false, err
}
