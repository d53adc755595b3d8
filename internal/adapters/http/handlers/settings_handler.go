package handlers

import (
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles system settings endpoints
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingRequest represents update setting request body
type UpdateSettingRequest struct {
	Value string `json:"value"`
}

// ListSettings returns every setting row
// @Summary List settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings [get]
func (h *SettingsHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.settingsService.List(c.Context())
	if err != nil {
		return fail(c, err, "Failed to list settings")
	}
	return response.Success(c, "Settings retrieved successfully", settings)
}

// GetBusinessSettings returns the typed business toggles
// @Summary Business settings
// @Description Typed view of the settings that drive benefits, interest and overpayment
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings/business [get]
func (h *SettingsHandler) GetBusinessSettings(c *fiber.Ctx) error {
	settings, err := h.settingsService.Business(c.Context())
	if err != nil {
		return fail(c, err, "Failed to read settings")
	}
	return response.Success(c, "Settings retrieved successfully", settings)
}

// GetSetting returns one setting
// @Summary Get setting
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /settings/{key} [get]
func (h *SettingsHandler) GetSetting(c *fiber.Ctx) error {
	setting, err := h.settingsService.Get(c.Context(), c.Params("key"))
	if err != nil {
		return fail(c, err, "Failed to get setting")
	}
	return response.Success(c, "Setting retrieved successfully", setting)
}

// UpdateSetting changes one setting value
// @Summary Update setting
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param body body UpdateSettingRequest true "New value"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /settings/{key} [put]
func (h *SettingsHandler) UpdateSetting(c *fiber.Ctx) error {
	var req UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	setting, err := h.settingsService.Update(c.Context(), actorFrom(c), c.Params("key"), req.Value)
	if err != nil {
		return fail(c, err, "Failed to update setting")
	}
	return response.Success(c, "Setting updated successfully", setting)
}
