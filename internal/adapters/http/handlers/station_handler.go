package handlers

import (
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StationHandler handles station endpoints
type StationHandler struct {
	stationService *services.StationService
}

// NewStationHandler creates a new station handler
func NewStationHandler(stationService *services.StationService) *StationHandler {
	return &StationHandler{stationService: stationService}
}

// ListStations lists stations
// @Summary List stations
// @Tags Stations
// @Produce json
// @Security BearerAuth
// @Param enabled query bool false "Only enabled stations"
// @Success 200 {object} response.Response
// @Router /stations [get]
func (h *StationHandler) ListStations(c *fiber.Ctx) error {
	stations, err := h.stationService.List(c.Context(), queryBool(c, "enabled"))
	if err != nil {
		return fail(c, err, "Failed to list stations")
	}
	return response.Success(c, "Stations retrieved successfully", stations)
}

// GetStation returns one station
// @Summary Get station
// @Tags Stations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /stations/{id} [get]
func (h *StationHandler) GetStation(c *fiber.Ctx) error {
	station, err := h.stationService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get station")
	}
	return response.Success(c, "Station retrieved successfully", station)
}

// GetStationStats returns member and balance figures of one station
// @Summary Station statistics
// @Tags Stations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /stations/{id}/stats [get]
func (h *StationHandler) GetStationStats(c *fiber.Ctx) error {
	stats, err := h.stationService.Stats(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get station statistics")
	}
	return response.Success(c, "Station statistics retrieved successfully", stats)
}

// CreateStation creates a station with the next station number
// @Summary Create station
// @Tags Stations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.StationInput true "Station data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /stations [post]
func (h *StationHandler) CreateStation(c *fiber.Ctx) error {
	var input services.StationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	station, err := h.stationService.Create(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to create station")
	}
	return response.Created(c, "Station created successfully", station)
}

// UpdateStation updates a station
// @Summary Update station
// @Tags Stations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station ID"
// @Param body body services.StationInput true "Station data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /stations/{id} [put]
func (h *StationHandler) UpdateStation(c *fiber.Ctx) error {
	var input services.StationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	station, err := h.stationService.Update(c.Context(), actorFrom(c), c.Params("id"), &input)
	if err != nil {
		return fail(c, err, "Failed to update station")
	}
	return response.Success(c, "Station updated successfully", station)
}

// EnableStation re-enables a station
// @Summary Enable station
// @Tags Stations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station ID"
// @Success 200 {object} response.Response
// @Router /stations/{id}/enable [post]
func (h *StationHandler) EnableStation(c *fiber.Ctx) error {
	return h.setEnabled(c, true)
}

// DisableStation disables a station. Stations are never deleted.
// @Summary Disable station
// @Tags Stations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Station ID"
// @Success 200 {object} response.Response
// @Router /stations/{id}/disable [post]
func (h *StationHandler) DisableStation(c *fiber.Ctx) error {
	return h.setEnabled(c, false)
}

func (h *StationHandler) setEnabled(c *fiber.Ctx, enabled bool) error {
	if err := h.stationService.SetEnabled(c.Context(), actorFrom(c), c.Params("id"), enabled); err != nil {
		return fail(c, err, "Failed to update station")
	}
	msg := "Station disabled"
	if enabled {
		msg = "Station enabled"
	}
	return response.Success(c, msg, nil)
}
