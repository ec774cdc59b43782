// Package invoice renders the thermal-printer receipt for a recorded transaction.
package invoice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/utils"
	"github.com/shopspring/decimal"
)

//go:embed templates/invoice.html
var templateFS embed.FS

const (
	ContentTypeHTML = "text/html; charset=utf-8"

	TitleLabel    = "Faturë/Сметка"
	PurchaseLabel = "Blerje/Купувам"
	SaleLabel     = "Shitje/Продавам"

	timestampLayout = "02/01/2006 15:04:05"
)

// Document is a rendered invoice ready for display or printing.
type Document struct {
	SerialKey   string
	ContentType string
	HTML        []byte
	RenderedAt  time.Time
}

type row struct {
	Currency string
	Amount   string
	Rate     string
	MKD      string
}

type view struct {
	Office    domain.OfficeInfo
	Title     string
	TypeLabel string
	Rows      []row
	ShowTotal bool
	Total     string
	Timestamp string
	SerialKey string
}

// Renderer turns transactions into invoice documents. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
	loc  *time.Location
	now  func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces the render-time clock.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer parses the embedded template. Timestamps are printed in loc.
func NewRenderer(loc *time.Location, opts ...Option) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	r := &Renderer{tmpl: tmpl, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// TypeLabel returns the bilingual purchase or sale label for txType.
func TypeLabel(txType domain.TransactionType) string {
	if txType.IsPurchase() {
		return PurchaseLabel
	}
	return SaleLabel
}

// Render produces the invoice for the given lines. total is printed as given and
// only when there is more than one line.
func (r *Renderer) Render(txType domain.TransactionType, details []domain.TransactionDetail, total decimal.Decimal, serialKey string, office domain.OfficeInfo) (Document, error) {
	if len(details) == 0 {
		return Document{}, fmt.Errorf("invoice for %s has no lines", serialKey)
	}

	renderedAt := r.now().In(r.loc)
	v := view{
		Office:    office,
		Title:     TitleLabel,
		TypeLabel: TypeLabel(txType),
		Rows:      make([]row, len(details)),
		ShowTotal: len(details) > 1,
		Total:     utils.FormatGrouped(total),
		Timestamp: renderedAt.Format(timestampLayout),
		SerialKey: serialKey,
	}
	for i, d := range details {
		v.Rows[i] = row{
			Currency: d.Currency,
			Amount:   utils.FormatAmount(d.Amount),
			Rate:     utils.FormatRate(d.Rate),
			MKD:      utils.FormatGrouped(d.MKDEquivalent),
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, v); err != nil {
		return Document{}, fmt.Errorf("failed to render invoice %s: %w", serialKey, err)
	}
	return Document{
		SerialKey:   serialKey,
		ContentType: ContentTypeHTML,
		HTML:        buf.Bytes(),
		RenderedAt:  renderedAt,
	}, nil
}

// RenderTransaction renders a stored transaction.
func (r *Renderer) RenderTransaction(txn domain.Transaction, office domain.OfficeInfo) (Document, error) {
	return r.Render(txn.TransactionType, txn.Details, txn.TotalMKD, txn.SerialKey, office)
}
