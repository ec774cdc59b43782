package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
	"github.com/SscSPs/exchange_office_app/internal/utils"
	"github.com/SscSPs/exchange_office_app/internal/utils/pricing"
	"github.com/google/uuid"
)

// MaxSerialAttempts bounds how often a colliding serial key is regenerated.
const MaxSerialAttempts = 3

const defaultSerialPrefix = "EXC"

// transactionService records and queries exchange transactions.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	rates        portssvc.ExchangeRateReaderSvc
	serialPrefix string
	pricingOpts  pricing.Options
	newSerial    func(prefix string) (string, error)
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithSerialPrefix sets the PREFIX part of generated serial keys.
func WithSerialPrefix(prefix string) TransactionServiceOption {
	return func(s *transactionService) {
		if prefix != "" {
			s.serialPrefix = prefix
		}
	}
}

// WithRejectUnknownCurrencies fails pricing for currencies without a configured rate.
func WithRejectUnknownCurrencies(reject bool) TransactionServiceOption {
	return func(s *transactionService) {
		s.pricingOpts.RejectUnknownCurrencies = reject
	}
}

// WithSerialGenerator replaces the serial key generator.
func WithSerialGenerator(gen func(prefix string) (string, error)) TransactionServiceOption {
	return func(s *transactionService) {
		s.newSerial = gen
	}
}

// WithTransactionAuthorizer sets the guard used by ClearHistory.
func WithTransactionAuthorizer(authorizer portssvc.AuthorizerSvc) TransactionServiceOption {
	return func(s *transactionService) {
		s.Authorizer = authorizer
	}
}

// WithTransactionMetrics sets the metrics collector.
func WithTransactionMetrics(m *metrics.Collector) TransactionServiceOption {
	return func(s *transactionService) {
		s.Metrics = m
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, rates portssvc.ExchangeRateReaderSvc, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:      repo,
		rates:        rates,
		serialPrefix: defaultSerialPrefix,
		newSerial:    utils.GenerateSerialKey,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) price(ctx context.Context, txType domain.TransactionType, items []domain.LineItem) (*pricing.Quote, error) {
	if err := pricing.ValidateLineItems(txType, items); err != nil {
		return nil, err
	}

	table, err := s.rates.GetRateTable(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.Price(txType, table, items, s.pricingOpts)
	if err != nil {
		return nil, err
	}
	if len(quote.UnknownCurrencies) > 0 {
		s.LogWarn(ctx, "Priced currencies without a configured rate at zero",
			slog.Any("currencies", quote.UnknownCurrencies))
	}
	return &quote, nil
}

func (s *transactionService) QuoteTransaction(ctx context.Context, txType domain.TransactionType, items []domain.LineItem) (*pricing.Quote, error) {
	return s.price(ctx, txType, items)
}

func (s *transactionService) RecordTransaction(ctx context.Context, txType domain.TransactionType, items []domain.LineItem, actingUserID string) (*domain.Transaction, error) {
	start := time.Now()
	txn, err := s.record(ctx, txType, items, actingUserID)
	if err != nil {
		s.Metrics.RecordTransaction(string(txType), 0, false, time.Since(start))
		return nil, err
	}
	total, _ := txn.TotalMKD.Float64()
	s.Metrics.RecordTransaction(string(txType), total, true, time.Since(start))
	return txn, nil
}

func (s *transactionService) record(ctx context.Context, txType domain.TransactionType, items []domain.LineItem, actingUserID string) (*domain.Transaction, error) {
	quote, err := s.price(ctx, txType, items)
	if err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: txType,
		TotalMKD:        quote.TotalMKD,
		Details:         make([]domain.TransactionDetail, len(quote.Details)),
	}
	if actingUserID != "" {
		txn.UserID = &actingUserID
	}
	for i, d := range quote.Details {
		d.TransactionDetailID = uuid.NewString()
		d.TransactionID = txn.TransactionID
		txn.Details[i] = d
	}

	for attempt := 1; attempt <= MaxSerialAttempts; attempt++ {
		txn.SerialKey, err = s.newSerial(s.serialPrefix)
		if err != nil {
			s.LogError(ctx, err, "Failed to generate serial key")
			return nil, fmt.Errorf("failed to generate serial key: %w", err)
		}
		if err := txn.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}

		saved, err := s.txnRepo.SaveTransaction(ctx, txn)
		if err == nil {
			s.LogInfo(ctx, "Transaction recorded",
				slog.String("serial_key", saved.SerialKey),
				slog.String("transaction_type", string(saved.TransactionType)),
				slog.String("total_mkd", saved.TotalMKD.StringFixed(2)),
				slog.Int("lines", len(saved.Details)))
			return &saved, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save transaction", slog.String("serial_key", txn.SerialKey))
			return nil, fmt.Errorf("failed to save transaction: %w", err)
		}

		s.Metrics.RecordSerialCollision()
		s.LogWarn(ctx, "Serial key collision, regenerating",
			slog.String("serial_key", txn.SerialKey),
			slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("%w: no unique serial key after %d attempts", apperrors.ErrPersistence, MaxSerialAttempts)
}

func (s *transactionService) GetTransaction(ctx context.Context, serialKey string) (*domain.Transaction, error) {
	if !domain.IsValidSerialKey(serialKey) {
		return nil, fmt.Errorf("%w: malformed serial key %q", apperrors.ErrValidation, serialKey)
	}
	txn, err := s.txnRepo.FindTransactionBySerialKey(ctx, serialKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", serialKey, err)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	txns, next, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, next, nil
}

func (s *transactionService) ClearHistory(ctx context.Context, actingUserID string) (int64, error) {
	if err := s.AuthorizeUser(ctx, actingUserID, domain.RoleAdmin); err != nil {
		s.LogError(ctx, err, "User not authorized to clear history", slog.String("user_id", actingUserID))
		return 0, err
	}

	deleted, err := s.txnRepo.DeleteAllTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to clear transaction history")
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	s.LogInfo(ctx, "Transaction history cleared",
		slog.String("user_id", actingUserID),
		slog.Int64("deleted", deleted))
	return deleted, nil
}
