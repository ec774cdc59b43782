package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/middleware"
	"github.com/SscSPs/exchange_office_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles pricing, recording and history requests.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	invoiceService     portssvc.InvoiceSvcFacade
	loc                *time.Location
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, is portssvc.InvoiceSvcFacade, loc *time.Location) *transactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &transactionHandler{transactionService: ts, invoiceService: is, loc: loc}
}

func registerTransactionRoutes(rg *gin.RouterGroup, cfg *config.Config, ts portssvc.TransactionSvcFacade, is portssvc.InvoiceSvcFacade) {
	h := newTransactionHandler(ts, is, cfg.OfficeLocation)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/quote", h.quoteTransaction)
		transactions.POST("", h.recordTransaction)
		transactions.GET("", h.listTransactions)
		transactions.DELETE("", h.clearHistory) // Admin only

		transactions.GET("/:serialKey", h.getTransaction)
		transactions.GET("/:serialKey/invoice", h.getInvoice)
		transactions.POST("/:serialKey/print", h.printInvoice)
	}
}

// quoteTransaction godoc
// @Summary Price a transaction
// @Description Prices the line items against the current rates without storing anything.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.TransactionRequest true "Type and line items"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Price cannot be derived"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/quote [post]
func (h *transactionHandler) quoteTransaction(c *gin.Context) {
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	txType, items, err := req.ToLineItems()
	if err != nil {
		respondError(c, err, "Invalid transaction")
		return
	}

	quote, err := h.transactionService.QuoteTransaction(c.Request.Context(), txType, items)
	if err != nil {
		respondError(c, err, "Failed to price transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// recordTransaction godoc
// @Summary Record a transaction
// @Description Prices and atomically stores a transaction under a fresh serial key.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.TransactionRequest true "Type and line items"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Price cannot be derived"
// @Failure 500 {object} ErrorResponse "Nothing was stored"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	txType, items, err := req.ToLineItems()
	if err != nil {
		respondError(c, err, "Invalid transaction")
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.RecordTransaction(c.Request.Context(), txType, items, userID)
	if err != nil {
		respondError(c, err, "Failed to save transaction")
		return
	}

	logger.Info("Transaction recorded", slog.String("serial_key", txn.SerialKey), slog.String("type", string(txn.TransactionType)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary Transaction history
// @Description Lists recorded transactions newest first. ALL for type or currency disables that filter.
// @Tags transactions
// @Produce json
// @Param startDate query string false "YYYY-MM-DD or RFC3339, inclusive"
// @Param endDate query string false "YYYY-MM-DD or RFC3339, inclusive"
// @Param type query string false "BUY, SELL, SELL_MKD, MULTI or ALL"
// @Param currency query string false "Currency code or ALL"
// @Param serialKey query string false "Serial key substring"
// @Param limit query int false "Page size, 0 for everything"
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	filter, err := params.ToFilter(h.loc)
	if err != nil {
		respondError(c, err, "Invalid filter")
		return
	}

	txns, nextToken, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, nextToken))
}

// clearHistory godoc
// @Summary Clear transaction history
// @Description Deletes every recorded transaction. Admin only.
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.ClearHistoryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [delete]
func (h *transactionHandler) clearHistory(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	deleted, err := h.transactionService.ClearHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to clear history")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Transaction history cleared", slog.Int64("deleted", deleted))
	c.JSON(http.StatusOK, dto.ClearHistoryResponse{Deleted: deleted})
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param serialKey path string true "Serial key"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{serialKey} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("serialKey"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getInvoice godoc
// @Summary Render an invoice
// @Description Returns the receipt HTML laid out for an 80mm thermal printer.
// @Tags transactions
// @Produce html
// @Param serialKey path string true "Serial key"
// @Success 200 {string} string "Invoice HTML"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{serialKey}/invoice [get]
func (h *transactionHandler) getInvoice(c *gin.Context) {
	doc, err := h.invoiceService.RenderInvoice(c.Request.Context(), c.Param("serialKey"))
	if err != nil {
		respondError(c, err, "Failed to render invoice")
		return
	}
	c.Data(http.StatusOK, doc.ContentType, doc.HTML)
}

// printInvoice godoc
// @Summary Print an invoice
// @Description Sends the receipt to the configured printer. A printer failure is reported with success false and never affects the stored transaction.
// @Tags transactions
// @Produce json
// @Param serialKey path string true "Serial key"
// @Success 200 {object} dto.PrintResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{serialKey}/print [post]
func (h *transactionHandler) printInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	err := h.invoiceService.PrintInvoice(c.Request.Context(), c.Param("serialKey"))
	if err != nil {
		if errors.Is(err, apperrors.ErrPrint) {
			logger.Warn("Print failed", slog.String("error", err.Error()))
			c.JSON(http.StatusOK, dto.PrintResponse{Success: false, Error: err.Error()})
			return
		}
		respondError(c, err, "Failed to print invoice")
		return
	}
	c.JSON(http.StatusOK, dto.PrintResponse{Success: true})
}
