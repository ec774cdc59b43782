package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// exchangeRateService implements the ExchangeRateSvcFacade interface
type exchangeRateService struct {
	BaseService
	rateRepo          portsrepo.ExchangeRateRepositoryFacade
	defaultCurrencies []string
	now               func() time.Time
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithDefaultCurrencies sets the currencies always listed by GetRates.
func WithDefaultCurrencies(codes []string) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.defaultCurrencies = codes
	}
}

// WithExchangeRateMetrics sets the metrics collector.
func WithExchangeRateMetrics(m *metrics.Collector) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.Metrics = m
	}
}

// WithExchangeRateClock replaces the clock used for update timestamps.
func WithExchangeRateClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates a new exchange rate service with the provided options
func NewExchangeRateService(repo portsrepo.ExchangeRateRepositoryFacade, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo: repo,
		now:      time.Now,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure exchangeRateService implements the ExchangeRateSvcFacade interface
var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) GetRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	stored, err := s.rateRepo.ListExchangeRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}

	table := domain.NewRateTable(stored)
	rates := make([]domain.ExchangeRate, 0, len(stored)+len(s.defaultCurrencies))
	listed := make(map[string]bool, len(stored)+len(s.defaultCurrencies))

	for _, code := range s.defaultCurrencies {
		code = domain.NormalizeCurrency(code)
		if listed[code] {
			continue
		}
		listed[code] = true
		if r, ok := table.Lookup(code); ok {
			rates = append(rates, r)
			continue
		}
		rates = append(rates, domain.ExchangeRate{Currency: code, BuyRate: decimal.Zero, SellRate: decimal.Zero})
	}
	for _, r := range stored {
		if !listed[r.Currency] {
			listed[r.Currency] = true
			rates = append(rates, r)
		}
	}
	return rates, nil
}

func (s *exchangeRateService) GetRateTable(ctx context.Context) (domain.RateTable, error) {
	stored, err := s.rateRepo.ListExchangeRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load rate table")
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	return domain.NewRateTable(stored), nil
}

func (s *exchangeRateService) UpdateRates(ctx context.Context, updates []domain.RateUpdate, actingUserID string) ([]domain.ExchangeRate, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: at least one rate is required", apperrors.ErrValidation)
	}

	updates = append([]domain.RateUpdate(nil), updates...)
	codes := make([]string, 0, len(updates))
	seen := make(map[string]bool, len(updates))
	for i := range updates {
		updates[i].Currency = domain.NormalizeCurrency(updates[i].Currency)
		if err := updates[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if seen[updates[i].Currency] {
			return nil, fmt.Errorf("%w: currency %s listed more than once", apperrors.ErrValidation, updates[i].Currency)
		}
		seen[updates[i].Currency] = true
		codes = append(codes, updates[i].Currency)
	}

	existing, err := s.rateRepo.FindExchangeRates(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to load current rates", slog.Any("currencies", codes))
		return nil, fmt.Errorf("failed to load current rates: %w", err)
	}
	table := domain.NewRateTable(existing)

	at := s.now().UTC()
	rates := make([]domain.ExchangeRate, len(updates))
	history := make([]domain.RateHistory, len(updates))
	for i, u := range updates {
		var prev *domain.ExchangeRate
		if r, ok := table.Lookup(u.Currency); ok {
			prev = &r
		}
		rates[i], history[i] = domain.UpsertRate(prev, u, actingUserID, at)
	}

	if err := s.rateRepo.SaveExchangeRates(ctx, rates, history); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rates", slog.Int("count", len(rates)))
		return nil, fmt.Errorf("failed to save exchange rates: %w", err)
	}

	s.Metrics.RecordRateUpdates(len(rates))
	s.LogInfo(ctx, "Exchange rates updated",
		slog.String("user_id", actingUserID),
		slog.Any("currencies", codes))
	return rates, nil
}

func (s *exchangeRateService) ListRateHistory(ctx context.Context, currency *string, limit int, nextToken *string) ([]domain.RateHistory, *string, error) {
	if currency != nil && *currency != "" {
		code := domain.NormalizeCurrency(*currency)
		if !domain.IsValidCurrencyCode(code) {
			return nil, nil, fmt.Errorf("%w: invalid currency %q", apperrors.ErrValidation, *currency)
		}
		currency = &code
	}

	history, next, err := s.rateRepo.ListRateHistory(ctx, currency, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rate history")
		return nil, nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	return history, next, nil
}
