// Package printer holds the print drivers that hand rendered invoices to a printer.
package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/invoice"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

const (
	DriverHTTP = "http"

	HeaderPrinterName = "X-Printer-Name"
	HeaderSerialKey   = "X-Serial-Key"

	breakerName = "print-agent"
)

// HTTPConfig configures the print agent client.
type HTTPConfig struct {
	AgentURL string
	Timeout  time.Duration
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before a trial request.
	OpenTimeout time.Duration
}

// HTTPDispatcher posts invoices to a local print agent over HTTP.
// The agent exposes GET /ready and POST /print.
type HTTPDispatcher struct {
	agentURL string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

var _ portssvc.PrintDispatcher = (*HTTPDispatcher)(nil)

// NewHTTPDispatcher creates the dispatcher and its circuit breaker.
func NewHTTPDispatcher(cfg HTTPConfig, collector *metrics.Collector, logger *slog.Logger) *HTTPDispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &HTTPDispatcher{
		agentURL: cfg.AgentURL,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)

			var state metrics.CircuitState
			switch to {
			case gobreaker.StateClosed:
				state = metrics.CircuitClosed
			case gobreaker.StateHalfOpen:
				state = metrics.CircuitHalfOpen
			case gobreaker.StateOpen:
				state = metrics.CircuitOpen
			}
			collector.RecordCircuitState(name, state)
		},
	}
	d.cb = gobreaker.NewCircuitBreaker(settings)
	collector.RecordCircuitState(breakerName, metrics.CircuitClosed)

	return d
}

func (d *HTTPDispatcher) Name() string {
	return DriverHTTP
}

// WaitAssetsReady polls the agent's ready endpoint with exponential backoff until it
// answers 200 or ctx ends.
func (d *HTTPDispatcher) WaitAssetsReady(ctx context.Context) error {
	bOff := backoff.NewExponentialBackOff()
	bOff.InitialInterval = 50 * time.Millisecond
	bOff.MaxInterval = 500 * time.Millisecond
	bOff.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.agentURL+"/ready", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}
		drain(resp)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("print agent not ready: %s", resp.Status)
		}
		return nil
	}, backoff.WithContext(bOff, ctx))
}

// Dispatch posts the document through the circuit breaker.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, doc invoice.Document, printerName string) error {
	_, err := d.cb.Execute(func() (interface{}, error) {
		return nil, d.post(ctx, doc, printerName)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: print agent circuit open", apperrors.ErrPrint)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrPrint, err)
	}
	return nil
}

func (d *HTTPDispatcher) post(ctx context.Context, doc invoice.Document, printerName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.agentURL+"/print", bytes.NewReader(doc.HTML))
	if err != nil {
		return fmt.Errorf("failed to build print request: %w", err)
	}
	req.Header.Set("Content-Type", doc.ContentType)
	req.Header.Set(HeaderSerialKey, doc.SerialKey)
	if printerName != "" {
		req.Header.Set(HeaderPrinterName, printerName)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("print agent request failed: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("print agent returned %s", resp.Status)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
