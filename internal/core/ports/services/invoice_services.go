package services

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/invoice"
)

// PrintDispatcher hands a rendered invoice to a printer.
type PrintDispatcher interface {
	// Name identifies the driver in logs and metrics.
	Name() string

	// WaitAssetsReady blocks until the printer side can lay out the document or ctx ends.
	WaitAssetsReady(ctx context.Context) error

	// Dispatch sends the document to printerName. An empty name means the default printer.
	Dispatch(ctx context.Context, doc invoice.Document, printerName string) error
}

// InvoiceSvcFacade renders and prints invoices for recorded transactions.
type InvoiceSvcFacade interface {
	// RenderInvoice renders the invoice of the transaction with serialKey.
	RenderInvoice(ctx context.Context, serialKey string) (*invoice.Document, error)

	// PrintInvoice renders and prints the invoice. A failure never affects the stored transaction.
	PrintInvoice(ctx context.Context, serialKey string) error
}
