package dto

import (
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateInput is one currency row of an update request.
type RateInput struct {
	Currency string          `json:"currency" binding:"required,currency"`
	BuyRate  decimal.Decimal `json:"buyRate"`
	SellRate decimal.Decimal `json:"sellRate"`
}

// UpdateRatesRequest replaces the rates of every listed currency.
type UpdateRatesRequest struct {
	Rates []RateInput `json:"rates" binding:"required,min=1,dive"`
}

// ToRateUpdates converts the request rows into domain updates.
func (r UpdateRatesRequest) ToRateUpdates() []domain.RateUpdate {
	updates := make([]domain.RateUpdate, len(r.Rates))
	for i, in := range r.Rates {
		updates[i] = domain.RateUpdate{
			Currency: domain.NormalizeCurrency(in.Currency),
			BuyRate:  in.BuyRate,
			SellRate: in.SellRate,
		}
	}
	return updates
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	Currency  string          `json:"currency"`
	BuyRate   decimal.Decimal `json:"buyRate"`
	SellRate  decimal.Decimal `json:"sellRate"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
	UpdatedBy *string         `json:"updatedBy,omitempty"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO.
// Placeholder rows for currencies never configured carry no timestamp.
func ToExchangeRateResponse(rate domain.ExchangeRate) ExchangeRateResponse {
	resp := ExchangeRateResponse{
		Currency:  rate.Currency,
		BuyRate:   rate.BuyRate,
		SellRate:  rate.SellRate,
		UpdatedBy: rate.UpdatedBy,
	}
	if !rate.UpdatedAt.IsZero() {
		at := rate.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i, rate := range rates {
		responses[i] = ToExchangeRateResponse(rate)
	}
	return responses
}

// ListRateHistoryParams defines query parameters for the rate audit log.
type ListRateHistoryParams struct {
	Currency  string  `form:"currency" binding:"omitempty,currency"`
	Limit     int     `form:"limit,default=50" binding:"min=0,max=500"`
	NextToken *string `form:"nextToken"`
}

// RateHistoryResponse is one audit row.
type RateHistoryResponse struct {
	RateHistoryID string          `json:"rateHistoryID"`
	Currency      string          `json:"currency"`
	BuyRate       decimal.Decimal `json:"buyRate"`
	SellRate      decimal.Decimal `json:"sellRate"`
	ChangedAt     time.Time       `json:"changedAt"`
	ChangedBy     *string         `json:"changedBy,omitempty"`
}

// ListRateHistoryResponse wraps a page of audit rows.
type ListRateHistoryResponse struct {
	History   []RateHistoryResponse `json:"history"`
	NextToken *string               `json:"nextToken,omitempty"`
}

func ToListRateHistoryResponse(history []domain.RateHistory, nextToken *string) ListRateHistoryResponse {
	rows := make([]RateHistoryResponse, len(history))
	for i, h := range history {
		rows[i] = RateHistoryResponse{
			RateHistoryID: h.RateHistoryID,
			Currency:      h.Currency,
			BuyRate:       h.BuyRate,
			SellRate:      h.SellRate,
			ChangedAt:     h.ChangedAt,
			ChangedBy:     h.ChangedBy,
		}
	}
	return ListRateHistoryResponse{History: rows, NextToken: nextToken}
}
