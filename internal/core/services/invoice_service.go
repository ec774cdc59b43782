package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
)

const defaultAssetsTimeout = 3 * time.Second

// invoiceService renders invoices for stored transactions and sends them to the printer.
type invoiceService struct {
	BaseService
	transactions  portssvc.TransactionReaderSvc
	settings      portssvc.SettingsSvcFacade
	renderer      *invoice.Renderer
	dispatcher    portssvc.PrintDispatcher
	assetsTimeout time.Duration
}

// InvoiceServiceOption is a functional option for configuring the invoice service
type InvoiceServiceOption func(*invoiceService)

// WithPrintDispatcher sets the printer driver. Without one, printing fails with ErrPrint.
func WithPrintDispatcher(d portssvc.PrintDispatcher) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.dispatcher = d
	}
}

// WithAssetsTimeout bounds the wait for the printer's assets-ready signal.
func WithAssetsTimeout(d time.Duration) InvoiceServiceOption {
	return func(s *invoiceService) {
		if d > 0 {
			s.assetsTimeout = d
		}
	}
}

// WithInvoiceMetrics sets the metrics collector.
func WithInvoiceMetrics(m *metrics.Collector) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.Metrics = m
	}
}

// NewInvoiceService creates a new invoice service with the provided options
func NewInvoiceService(transactions portssvc.TransactionReaderSvc, settings portssvc.SettingsSvcFacade, renderer *invoice.Renderer, options ...InvoiceServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		transactions:  transactions,
		settings:      settings,
		renderer:      renderer,
		assetsTimeout: defaultAssetsTimeout,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) RenderInvoice(ctx context.Context, serialKey string) (*invoice.Document, error) {
	txn, err := s.transactions.GetTransaction(ctx, serialKey)
	if err != nil {
		return nil, err
	}

	office, err := s.settings.GetOfficeInfo(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.RenderTransaction(*txn, office)
	if err != nil {
		s.LogError(ctx, err, "Failed to render invoice", slog.String("serial_key", serialKey))
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return &doc, nil
}

func (s *invoiceService) PrintInvoice(ctx context.Context, serialKey string) error {
	doc, err := s.RenderInvoice(ctx, serialKey)
	if err != nil {
		return err
	}
	if s.dispatcher == nil {
		return fmt.Errorf("%w: printing is disabled", apperrors.ErrPrint)
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.print(ctx, *doc, settings.PrinterName)
	s.Metrics.RecordPrint(s.dispatcher.Name(), err == nil, time.Since(start))
	if err != nil {
		s.LogError(ctx, err, "Failed to print invoice",
			slog.String("serial_key", serialKey),
			slog.String("driver", s.dispatcher.Name()),
			slog.String("printer", settings.PrinterName))
		if errors.Is(err, apperrors.ErrPrint) {
			return err
		}
		return fmt.Errorf("%w: %v", apperrors.ErrPrint, err)
	}

	s.LogInfo(ctx, "Invoice printed",
		slog.String("serial_key", serialKey),
		slog.String("driver", s.dispatcher.Name()))
	return nil
}

// print waits a bounded time for the assets-ready signal and prints regardless of the outcome.
func (s *invoiceService) print(ctx context.Context, doc invoice.Document, printerName string) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.assetsTimeout)
	err := s.dispatcher.WaitAssetsReady(waitCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.LogWarn(ctx, "Print assets not ready in time, printing immediately",
			slog.String("serial_key", doc.SerialKey),
			slog.Duration("waited", s.assetsTimeout),
			slog.String("reason", err.Error()))
	}
	return s.dispatcher.Dispatch(ctx, doc, printerName)
}
