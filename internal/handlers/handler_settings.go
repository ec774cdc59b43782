package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

func registerSettingsRoutes(rg *gin.RouterGroup, ss portssvc.SettingsSvcFacade) {
	h := &settingsHandler{settingsService: ss}

	settings := rg.Group("/settings")
	{
		settings.GET("", h.getSettings)
		settings.PUT("", h.updateSettings)
	}
}

// getSettings godoc
// @Summary Office settings
// @Description Returns the office details printed on invoices. Unset fields carry the configured defaults.
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsPayload
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsPayload(settings))
}

// updateSettings godoc
// @Summary Update office settings
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body dto.SettingsPayload true "Office details"
// @Success 200 {object} dto.SettingsPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *settingsHandler) updateSettings(c *gin.Context) {
	var req dto.SettingsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := actingUser(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), req.ToDomain(), userID)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsPayload(settings))
}
