package mapping

import (
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		Currency:  d.Currency,
		BuyRate:   d.BuyRate,
		SellRate:  d.SellRate,
		UpdatedAt: d.UpdatedAt,
		UpdatedBy: toNullString(d.UpdatedBy),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		Currency:  m.Currency,
		BuyRate:   m.BuyRate,
		SellRate:  m.SellRate,
		UpdatedAt: m.UpdatedAt,
		UpdatedBy: fromNullString(m.UpdatedBy),
	}
}

// ToDomainExchangeRateSlice converts a slice of model ExchangeRates
func ToDomainExchangeRateSlice(ms []models.ExchangeRate) []domain.ExchangeRate {
	ds := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExchangeRate(m)
	}
	return ds
}

// ToModelRateHistory converts a domain RateHistory to a model RateHistory
func ToModelRateHistory(d domain.RateHistory) models.RateHistory {
	return models.RateHistory{
		RateHistoryID: d.RateHistoryID,
		Currency:      d.Currency,
		BuyRate:       d.BuyRate,
		SellRate:      d.SellRate,
		ChangedAt:     d.ChangedAt,
		ChangedBy:     toNullString(d.ChangedBy),
	}
}

// ToDomainRateHistory converts a model RateHistory to a domain RateHistory
func ToDomainRateHistory(m models.RateHistory) domain.RateHistory {
	return domain.RateHistory{
		RateHistoryID: m.RateHistoryID,
		Currency:      m.Currency,
		BuyRate:       m.BuyRate,
		SellRate:      m.SellRate,
		ChangedAt:     m.ChangedAt,
		ChangedBy:     fromNullString(m.ChangedBy),
	}
}
