package invoice

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOffice = domain.OfficeInfo{
	Tagline:  "Money & Crypto Exchange Office",
	Name:     "FEJZULLAI",
	Subtitle: "COMPANY",
	Address:  "Ul/Rr.Brakja Ginoski 135",
	Phone:    "070 378 645",
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Skopje")
	require.NoError(t, err)
	r, err := NewRenderer(loc, WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 7, 5, 9, 0, time.UTC)
	}))
	require.NoError(t, err)
	return r
}

func detail(currency, amount, rate, mkd string) domain.TransactionDetail {
	return domain.TransactionDetail{
		Currency:      currency,
		Amount:        decimal.RequireFromString(amount),
		Rate:          decimal.RequireFromString(rate),
		MKDEquivalent: decimal.RequireFromString(mkd),
	}
}

func TestRender_SingleLineBuy(t *testing.T) {
	r := newTestRenderer(t)

	doc, err := r.Render(domain.TransactionBuy,
		[]domain.TransactionDetail{detail("EUR", "100", "61.5", "6150")},
		decimal.RequireFromString("6150"), "EXC-3F9A1B2C", testOffice)
	require.NoError(t, err)

	html := string(doc.HTML)
	assert.Equal(t, ContentTypeHTML, doc.ContentType)
	assert.Equal(t, "EXC-3F9A1B2C", doc.SerialKey)
	assert.Contains(t, html, "@page { size: 80mm")
	assert.Contains(t, html, "FEJZULLAI")
	assert.Contains(t, html, "Money &amp; Crypto Exchange Office")
	assert.Contains(t, html, TitleLabel)
	assert.Contains(t, html, PurchaseLabel)
	assert.Contains(t, html, "<td>EUR</td>")
	assert.Contains(t, html, "<td>100</td>")
	assert.Contains(t, html, "<td>61.50</td>")
	assert.Contains(t, html, "<td>6,150.00</td>")
	assert.Contains(t, html, "Serial: EXC-3F9A1B2C")
	assert.Contains(t, html, "Ju Faleminderit!")
	assert.NotContains(t, html, `class="total"`)
	// Skopje is UTC+2 in May
	assert.Contains(t, html, "01/05/2024 09:05:09")
	assert.Equal(t, 9, doc.RenderedAt.Hour())
}

func TestRender_MultiShowsTotalRow(t *testing.T) {
	r := newTestRenderer(t)

	doc, err := r.Render(domain.TransactionMulti,
		[]domain.TransactionDetail{
			detail("EUR", "100", "61.5", "6150"),
			detail("USD", "50", "56", "2800"),
		},
		decimal.RequireFromString("8950"), "EXC-AAAA0000", testOffice)
	require.NoError(t, err)

	html := string(doc.HTML)
	assert.Contains(t, html, PurchaseLabel)
	assert.Contains(t, html, `class="total"`)
	assert.Contains(t, html, `<td class="sum">8,950.00</td>`)
	assert.Equal(t, 2, strings.Count(html, `<tr class="line">`))
}

func TestRender_SaleLabels(t *testing.T) {
	r := newTestRenderer(t)
	for _, txType := range []domain.TransactionType{domain.TransactionSell, domain.TransactionSellMKD} {
		doc, err := r.Render(txType,
			[]domain.TransactionDetail{detail("EUR", "50.5", "61.8", "3120.9")},
			decimal.RequireFromString("3120.9"), "EXC-BBBB1111", testOffice)
		require.NoError(t, err)
		html := string(doc.HTML)
		assert.Contains(t, html, SaleLabel)
		assert.Contains(t, html, "<td>50.50</td>")
		assert.Contains(t, html, "<td>3,120.90</td>")
	}
}

func TestRender_EscapesOfficeText(t *testing.T) {
	r := newTestRenderer(t)
	office := testOffice
	office.Name = "<script>alert(1)</script>"

	doc, err := r.Render(domain.TransactionBuy,
		[]domain.TransactionDetail{detail("EUR", "1", "61.5", "61.5")},
		decimal.RequireFromString("61.5"), "EXC-CCCC2222", office)
	require.NoError(t, err)
	assert.NotContains(t, string(doc.HTML), "<script>")
}

func TestRender_NoLines(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.Render(domain.TransactionBuy, nil, decimal.Zero, "EXC-DDDD3333", testOffice)
	assert.Error(t, err)
}

func TestRenderTransaction(t *testing.T) {
	r := newTestRenderer(t)
	txn := domain.Transaction{
		SerialKey:       "EXC-EEEE4444",
		TransactionType: domain.TransactionSell,
		TotalMKD:        decimal.RequireFromString("618"),
		Details:         []domain.TransactionDetail{detail("EUR", "10", "61.8", "618")},
	}
	doc, err := r.RenderTransaction(txn, testOffice)
	require.NoError(t, err)
	assert.Contains(t, string(doc.HTML), "Serial: EXC-EEEE4444")
}
