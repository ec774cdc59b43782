package services

import (
	"fmt"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
	"github.com/SscSPs/exchange_office_app/internal/platform/config"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// dispatcher may be nil when printing is disabled.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collector *metrics.Collector, dispatcher portssvc.PrintDispatcher) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	// The guard comes first since every privileged service depends on it
	container.Authorizer = NewAuthorizationService(repos.UserRepo)

	container.User = NewUserService(repos.UserRepo, WithUserAuthorizer(container.Authorizer))
	container.Auth = NewAuthService(repos.UserRepo)
	container.Token = NewTokenService(cfg, WithTokenUserLookup(repos.UserRepo))

	container.ExchangeRate = NewExchangeRateService(
		repos.ExchangeRateRepo,
		WithDefaultCurrencies(cfg.DefaultCurrencies),
		WithExchangeRateMetrics(collector),
	)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		container.ExchangeRate,
		WithSerialPrefix(cfg.SerialPrefix),
		WithRejectUnknownCurrencies(cfg.RejectUnknownCurrencies),
		WithTransactionAuthorizer(container.Authorizer),
		WithTransactionMetrics(collector),
	)

	container.Settings = NewSettingsService(repos.SettingsRepo, domain.OfficeSettings{
		OfficeName:  cfg.OfficeName,
		Address:     cfg.OfficeAddress,
		Phone:       cfg.OfficePhone,
		PrinterName: cfg.PrinterName,
	}, cfg.OfficeTagline, cfg.OfficeSubtitle)

	renderer, err := invoice.NewRenderer(cfg.OfficeLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice renderer: %w", err)
	}

	invoiceOpts := []InvoiceServiceOption{
		WithAssetsTimeout(cfg.PrintAssetsTimeout),
		WithInvoiceMetrics(collector),
	}
	if dispatcher != nil {
		invoiceOpts = append(invoiceOpts, WithPrintDispatcher(dispatcher))
	}
	container.Invoice = NewInvoiceService(container.Transaction, container.Settings, renderer, invoiceOpts...)

	return container, nil
}
