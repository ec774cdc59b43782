package mapping

import (
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/models"
)

// ToModelTransaction converts the header of a domain Transaction. Details are mapped separately.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		SerialKey:       d.SerialKey,
		TransactionType: string(d.TransactionType),
		TransactionDate: d.TransactionDate,
		UserID:          toNullString(d.UserID),
		Username:        toNullString(d.Username),
		TotalMKD:        d.TotalMKD,
	}
}

// ToDomainTransaction converts a model header and its detail rows to a domain Transaction
func ToDomainTransaction(m models.Transaction, details []models.TransactionDetail) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		SerialKey:       m.SerialKey,
		TransactionType: domain.TransactionType(m.TransactionType),
		TransactionDate: m.TransactionDate,
		UserID:          fromNullString(m.UserID),
		Username:        fromNullString(m.Username),
		TotalMKD:        m.TotalMKD,
		Details:         ToDomainTransactionDetailSlice(details),
	}
}

// ToModelTransactionDetail converts a domain TransactionDetail to a model TransactionDetail
func ToModelTransactionDetail(d domain.TransactionDetail) models.TransactionDetail {
	return models.TransactionDetail{
		TransactionDetailID: d.TransactionDetailID,
		TransactionID:       d.TransactionID,
		Currency:            d.Currency,
		Amount:              d.Amount,
		Rate:                d.Rate,
		MKDEquivalent:       d.MKDEquivalent,
	}
}

// ToDomainTransactionDetail converts a model TransactionDetail to a domain TransactionDetail
func ToDomainTransactionDetail(m models.TransactionDetail) domain.TransactionDetail {
	return domain.TransactionDetail{
		TransactionDetailID: m.TransactionDetailID,
		TransactionID:       m.TransactionID,
		Currency:            m.Currency,
		Amount:              m.Amount,
		Rate:                m.Rate,
		MKDEquivalent:       m.MKDEquivalent,
	}
}

// ToDomainTransactionDetailSlice keeps the stored order of the rows.
func ToDomainTransactionDetailSlice(ms []models.TransactionDetail) []domain.TransactionDetail {
	ds := make([]domain.TransactionDetail, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionDetail(m)
	}
	return ds
}
