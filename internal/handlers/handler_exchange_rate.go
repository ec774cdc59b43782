package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		rates.PUT("", h.updateRates)
		rates.GET("/history", h.listRateHistory)
	}
}

// getRates godoc
// @Summary List exchange rates
// @Description Returns the buy and sell rate of every configured currency against MKD.
// @Tags exchange rates
// @Produce json
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates [get]
func (h *exchangeRateHandler) getRates(c *gin.Context) {
	rates, err := h.exchangeRateService.GetRates(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// updateRates godoc
// @Summary Update exchange rates
// @Description Replaces the rates of every listed currency and records an audit row for each.
// @Tags exchange rates
// @Accept json
// @Produce json
// @Param rates body dto.UpdateRatesRequest true "New rates"
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates [put]
func (h *exchangeRateHandler) updateRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	rates, err := h.exchangeRateService.UpdateRates(c.Request.Context(), req.ToRateUpdates(), userID)
	if err != nil {
		respondError(c, err, "Failed to update exchange rates")
		return
	}

	logger.Info("Exchange rates updated", slog.Int("count", len(rates)))
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// listRateHistory godoc
// @Summary Rate audit log
// @Description Lists rate changes newest first, optionally for a single currency.
// @Tags exchange rates
// @Produce json
// @Param currency query string false "Currency code"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListRateHistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates/history [get]
func (h *exchangeRateHandler) listRateHistory(c *gin.Context) {
	var params dto.ListRateHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	var currency *string
	if params.Currency != "" {
		code := domain.NormalizeCurrency(params.Currency)
		currency = &code
	}

	history, nextToken, err := h.exchangeRateService.ListRateHistory(c.Request.Context(), currency, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to retrieve rate history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRateHistoryResponse(history, nextToken))
}
