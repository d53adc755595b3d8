package handlers

import (
	"strings"

	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BenefitHandler handles withdrawal and death benefit endpoints
type BenefitHandler struct {
	benefitService *services.BenefitService
}

// NewBenefitHandler creates a new benefit handler
func NewBenefitHandler(benefitService *services.BenefitService) *BenefitHandler {
	return &BenefitHandler{benefitService: benefitService}
}

// DeathBenefitRequest names the deceased member
type DeathBenefitRequest struct {
	MemberID string `json:"member_id"`
}

// SettleRequest represents settle death benefit request body
type SettleRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// ============================================================
// Withdrawal benefits
// ============================================================

// QuoteWithdrawal computes a withdrawal benefit without posting it
// @Summary Quote withdrawal benefit
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param member_id query string true "Member ID"
// @Param type query string true "Retirement or NonRetirement"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /benefits/withdrawals/quote [get]
func (h *BenefitHandler) QuoteWithdrawal(c *fiber.Ctx) error {
	memberID := strings.TrimSpace(c.Query("member_id"))
	if memberID == "" {
		return response.BadRequest(c, "Member ID is required")
	}

	benefit, err := h.benefitService.ComputeWithdrawal(c.Context(), memberID, c.Query("type"))
	if err != nil {
		return fail(c, err, "Failed to compute withdrawal benefit")
	}
	return response.Success(c, "Withdrawal benefit computed successfully", benefit)
}

// ProcessWithdrawal pays out a member leaving the cooperative
// @Summary Process withdrawal benefit
// @Description Closes every savings account, posts the bonus or charge and deactivates the member
// @Tags Benefits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.WithdrawalInput true "Withdrawal"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /benefits/withdrawals [post]
func (h *BenefitHandler) ProcessWithdrawal(c *fiber.Ctx) error {
	var input services.WithdrawalInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.benefitService.ProcessWithdrawal(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to process withdrawal benefit")
	}
	return response.Created(c, "Withdrawal benefit processed successfully", result)
}

// ListWithdrawals lists withdrawal benefits
// @Summary List withdrawal benefits
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Member ID"
// @Success 200 {object} response.Response
// @Router /benefits/withdrawals [get]
func (h *BenefitHandler) ListWithdrawals(c *fiber.Ctx) error {
	rows, err := h.benefitService.ListWithdrawals(c.Context(), strings.TrimSpace(c.Query("member_id")))
	if err != nil {
		return fail(c, err, "Failed to list withdrawal benefits")
	}
	return response.Success(c, "Withdrawal benefits retrieved successfully", rows)
}

// GetWithdrawal returns one withdrawal benefit
// @Summary Get withdrawal benefit
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal benefit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /benefits/withdrawals/{id} [get]
func (h *BenefitHandler) GetWithdrawal(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal benefit ID")
	}

	row, err := h.benefitService.GetWithdrawal(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get withdrawal benefit")
	}
	return response.Success(c, "Withdrawal benefit retrieved successfully", row)
}

// ============================================================
// Death benefits
// ============================================================

// ProcessDeath charges every active member and credits the deceased member
// @Summary Process death benefit
// @Tags Benefits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeathBenefitRequest true "Deceased member"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /benefits/deaths [post]
func (h *BenefitHandler) ProcessDeath(c *fiber.Ctx) error {
	var req DeathBenefitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	memberID := strings.TrimSpace(req.MemberID)
	if memberID == "" {
		return response.BadRequest(c, "Member ID is required")
	}

	benefit, err := h.benefitService.ProcessDeath(c.Context(), actorFrom(c), memberID)
	if err != nil {
		return fail(c, err, "Failed to process death benefit")
	}
	return response.Created(c, "Death benefit processed successfully", benefit)
}

// SettleDeath pays out the deceased member's accounts
// @Summary Settle death benefit
// @Tags Benefits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Death benefit ID"
// @Param body body SettleRequest false "Payment method"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /benefits/deaths/{id}/settle [post]
func (h *BenefitHandler) SettleDeath(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid death benefit ID")
	}

	var req SettleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	benefit, err := h.benefitService.SettleDeath(c.Context(), actorFrom(c), id, req.PaymentMethod)
	if err != nil {
		return fail(c, err, "Failed to settle death benefit")
	}
	return response.Success(c, "Death benefit settled successfully", benefit)
}

// ListDeaths lists death benefits
// @Summary List death benefits
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param status query string false "Credited or Paid"
// @Success 200 {object} response.Response
// @Router /benefits/deaths [get]
func (h *BenefitHandler) ListDeaths(c *fiber.Ctx) error {
	rows, err := h.benefitService.ListDeaths(c.Context(), strings.TrimSpace(c.Query("status")))
	if err != nil {
		return fail(c, err, "Failed to list death benefits")
	}
	return response.Success(c, "Death benefits retrieved successfully", rows)
}

// GetDeath returns one death benefit with its charges
// @Summary Get death benefit
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param id path int true "Death benefit ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /benefits/deaths/{id} [get]
func (h *BenefitHandler) GetDeath(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid death benefit ID")
	}

	benefit, err := h.benefitService.GetDeath(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get death benefit")
	}
	return response.Success(c, "Death benefit retrieved successfully", benefit)
}

// ListMemberCharges lists the death benefit charges levied on a member
// @Summary List member death benefit charges
// @Tags Benefits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param status query string false "Deducted or Outstanding"
// @Success 200 {object} response.Response
// @Router /members/{id}/death-charges [get]
func (h *BenefitHandler) ListMemberCharges(c *fiber.Ctx) error {
	rows, err := h.benefitService.ChargesByMember(c.Context(), c.Params("id"), strings.TrimSpace(c.Query("status")))
	if err != nil {
		return fail(c, err, "Failed to list death benefit charges")
	}
	return response.Success(c, "Death benefit charges retrieved successfully", rows)
}
