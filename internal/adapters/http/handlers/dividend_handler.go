package handlers

import (
	"strings"

	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DividendHandler handles dividend endpoints
type DividendHandler struct {
	dividendService *services.DividendService
}

// NewDividendHandler creates a new dividend handler
func NewDividendHandler(dividendService *services.DividendService) *DividendHandler {
	return &DividendHandler{dividendService: dividendService}
}

// PayAllRequest represents pay all request body
type PayAllRequest struct {
	FinancialYear int `json:"financial_year"`
}

// DeclareDividend declares a dividend on shares for a financial year
// @Summary Declare dividend
// @Tags Dividends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DeclareInput true "Year and rate"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /dividends/declare [post]
func (h *DividendHandler) DeclareDividend(c *fiber.Ctx) error {
	var input services.DeclareInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.dividendService.Declare(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to declare dividend")
	}
	return response.Created(c, "Dividend declared successfully", result)
}

// PayAll pays every declared dividend of a year
// @Summary Pay all dividends of a year
// @Tags Dividends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PayAllRequest true "Financial year"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /dividends/pay-all [post]
func (h *DividendHandler) PayAll(c *fiber.Ctx) error {
	var req PayAllRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.dividendService.PayAll(c.Context(), actorFrom(c), req.FinancialYear)
	if err != nil {
		return fail(c, err, "Failed to pay dividends")
	}
	return response.Success(c, "Dividends paid successfully", result)
}

// ListDividends lists dividends
// @Summary List dividends
// @Tags Dividends
// @Produce json
// @Security BearerAuth
// @Param year query int false "Financial year"
// @Param status query string false "Declared, Paid or Cancelled"
// @Param member_id query string false "Member ID"
// @Success 200 {object} response.Response
// @Router /dividends [get]
func (h *DividendHandler) ListDividends(c *fiber.Ctx) error {
	rows, err := h.dividendService.List(c.Context(), queryInt(c, "year"),
		strings.TrimSpace(c.Query("status")), strings.TrimSpace(c.Query("member_id")))
	if err != nil {
		return fail(c, err, "Failed to list dividends")
	}
	return response.Success(c, "Dividends retrieved successfully", rows)
}

// GetDividend returns one dividend
// @Summary Get dividend
// @Tags Dividends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dividend ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /dividends/{id} [get]
func (h *DividendHandler) GetDividend(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dividend ID")
	}

	d, err := h.dividendService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get dividend")
	}
	return response.Success(c, "Dividend retrieved successfully", d)
}

// PayDividend credits one dividend to PREMIUM savings
// @Summary Pay dividend
// @Tags Dividends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dividend ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /dividends/{id}/pay [post]
func (h *DividendHandler) PayDividend(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dividend ID")
	}

	d, err := h.dividendService.Pay(c.Context(), actorFrom(c), id)
	if err != nil {
		return fail(c, err, "Failed to pay dividend")
	}
	return response.Success(c, "Dividend paid successfully", d)
}

// CancelDividend cancels a declared dividend
// @Summary Cancel dividend
// @Tags Dividends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dividend ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /dividends/{id}/cancel [post]
func (h *DividendHandler) CancelDividend(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid dividend ID")
	}

	d, err := h.dividendService.Cancel(c.Context(), actorFrom(c), id)
	if err != nil {
		return fail(c, err, "Failed to cancel dividend")
	}
	return response.Success(c, "Dividend cancelled", d)
}
