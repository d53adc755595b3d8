package handlers

import (
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles master data endpoints (savings types and loan types)
type MasterHandler struct {
	referenceService *services.ReferenceService
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(referenceService *services.ReferenceService) *MasterHandler {
	return &MasterHandler{referenceService: referenceService}
}

// ActiveRequest toggles a type
type ActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ============================================================
// Savings Types
// ============================================================

// ListSavingsTypes lists savings types
// @Summary List savings types
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active types"
// @Success 200 {object} response.Response
// @Router /master/savings-types [get]
func (h *MasterHandler) ListSavingsTypes(c *fiber.Ctx) error {
	types, err := h.referenceService.ListSavingsTypes(c.Context(), queryBool(c, "active"))
	if err != nil {
		return fail(c, err, "Failed to list savings types")
	}
	return response.Success(c, "Savings types retrieved successfully", types)
}

// GetSavingsType returns one savings type
// @Summary Get savings type
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Param id path int true "Savings type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/savings-types/{id} [get]
func (h *MasterHandler) GetSavingsType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid savings type ID")
	}

	st, err := h.referenceService.GetSavingsType(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get savings type")
	}
	return response.Success(c, "Savings type retrieved successfully", st)
}

// CreateSavingsType creates a savings type
// @Summary Create savings type
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SavingsTypeInput true "Savings type data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /master/savings-types [post]
func (h *MasterHandler) CreateSavingsType(c *fiber.Ctx) error {
	var input services.SavingsTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	st, err := h.referenceService.CreateSavingsType(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to create savings type")
	}
	return response.Created(c, "Savings type created successfully", st)
}

// UpdateSavingsType updates a savings type
// @Summary Update savings type
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Savings type ID"
// @Param body body services.SavingsTypeInput true "Savings type data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/savings-types/{id} [put]
func (h *MasterHandler) UpdateSavingsType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid savings type ID")
	}

	var input services.SavingsTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	st, err := h.referenceService.UpdateSavingsType(c.Context(), actorFrom(c), id, &input)
	if err != nil {
		return fail(c, err, "Failed to update savings type")
	}
	return response.Success(c, "Savings type updated successfully", st)
}

// SetSavingsTypeActive activates or deactivates a savings type
// @Summary Activate or deactivate savings type
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Savings type ID"
// @Param body body ActiveRequest true "Active flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/savings-types/{id}/active [patch]
func (h *MasterHandler) SetSavingsTypeActive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid savings type ID")
	}

	var req ActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.referenceService.SetSavingsTypeActive(c.Context(), actorFrom(c), id, req.IsActive); err != nil {
		return fail(c, err, "Failed to update savings type")
	}
	return response.Success(c, "Savings type updated successfully", nil)
}

// ============================================================
// Loan Types
// ============================================================

// ListLoanTypes lists loan types
// @Summary List loan types
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active types"
// @Success 200 {object} response.Response
// @Router /master/loan-types [get]
func (h *MasterHandler) ListLoanTypes(c *fiber.Ctx) error {
	types, err := h.referenceService.ListLoanTypes(c.Context(), queryBool(c, "active"))
	if err != nil {
		return fail(c, err, "Failed to list loan types")
	}
	return response.Success(c, "Loan types retrieved successfully", types)
}

// GetLoanType returns one loan type
// @Summary Get loan type
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan type ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/loan-types/{id} [get]
func (h *MasterHandler) GetLoanType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan type ID")
	}

	lt, err := h.referenceService.GetLoanType(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get loan type")
	}
	return response.Success(c, "Loan type retrieved successfully", lt)
}

// CreateLoanType creates a loan type
// @Summary Create loan type
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.LoanTypeInput true "Loan type data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /master/loan-types [post]
func (h *MasterHandler) CreateLoanType(c *fiber.Ctx) error {
	var input services.LoanTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	lt, err := h.referenceService.CreateLoanType(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to create loan type")
	}
	return response.Created(c, "Loan type created successfully", lt)
}

// UpdateLoanType updates a loan type
// @Summary Update loan type
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan type ID"
// @Param body body services.LoanTypeInput true "Loan type data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/loan-types/{id} [put]
func (h *MasterHandler) UpdateLoanType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan type ID")
	}

	var input services.LoanTypeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	lt, err := h.referenceService.UpdateLoanType(c.Context(), actorFrom(c), id, &input)
	if err != nil {
		return fail(c, err, "Failed to update loan type")
	}
	return response.Success(c, "Loan type updated successfully", lt)
}

// SetLoanTypeActive activates or deactivates a loan type
// @Summary Activate or deactivate loan type
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan type ID"
// @Param body body ActiveRequest true "Active flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/loan-types/{id}/active [patch]
func (h *MasterHandler) SetLoanTypeActive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan type ID")
	}

	var req ActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.referenceService.SetLoanTypeActive(c.Context(), actorFrom(c), id, req.IsActive); err != nil {
		return fail(c, err, "Failed to update loan type")
	}
	return response.Success(c, "Loan type updated successfully", nil)
}
