package handlers

import (
	"context"

	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SavingsHandler handles savings account endpoints
type SavingsHandler struct {
	savingsService *services.SavingsService
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(savingsService *services.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// CloseAccountRequest represents close account request body
type CloseAccountRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// AccrueRequest selects the month of an interest run
type AccrueRequest struct {
	Date string `json:"date"`
}

// OpenAccount opens a savings account for a member
// @Summary Open savings account
// @Description One account per member and savings type; a closed account is reopened
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.OpenAccountInput true "Member and savings type"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /savings [post]
func (h *SavingsHandler) OpenAccount(c *fiber.Ctx) error {
	var input services.OpenAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.savingsService.Open(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to open savings account")
	}
	return response.Created(c, "Savings account opened successfully", account)
}

// GetAccount returns one savings account
// @Summary Get savings account
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /savings/{id} [get]
func (h *SavingsHandler) GetAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	account, err := h.savingsService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get savings account")
	}
	return response.Success(c, "Savings account retrieved successfully", account)
}

// ListMemberAccounts lists the savings accounts of a member
// @Summary List member savings accounts
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param active query bool false "Only open accounts"
// @Success 200 {object} response.Response
// @Router /members/{id}/savings [get]
func (h *SavingsHandler) ListMemberAccounts(c *fiber.Ctx) error {
	accounts, err := h.savingsService.ListByMember(c.Context(), c.Params("id"), queryBool(c, "active"))
	if err != nil {
		return fail(c, err, "Failed to list savings accounts")
	}
	return response.Success(c, "Savings accounts retrieved successfully", accounts)
}

// Deposit credits a savings account
// @Summary Deposit
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body services.PostingInput true "Deposit"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /savings/{id}/deposit [post]
func (h *SavingsHandler) Deposit(c *fiber.Ctx) error {
	return h.post(c, h.savingsService.Deposit, "Deposit recorded successfully", "Failed to record deposit")
}

// Withdraw debits a savings account
// @Summary Withdraw
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body services.PostingInput true "Withdrawal"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /savings/{id}/withdraw [post]
func (h *SavingsHandler) Withdraw(c *fiber.Ctx) error {
	return h.post(c, h.savingsService.Withdraw, "Withdrawal recorded successfully", "Failed to record withdrawal")
}

type postingFunc func(ctx context.Context, actor services.Actor, accountID uint, input *services.PostingInput) (*services.PostingResult, error)

func (h *SavingsHandler) post(c *fiber.Ctx, fn postingFunc, ok, failed string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	var input services.PostingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := fn(c.Context(), actorFrom(c), id, &input)
	if err != nil {
		return fail(c, err, failed)
	}
	return response.Success(c, ok, result)
}

// PostInterest posts one month of interest to an account
// @Summary Post interest
// @Tags Savings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /savings/{id}/interest [post]
func (h *SavingsHandler) PostInterest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	result, err := h.savingsService.PostInterest(c.Context(), actorFrom(c), id)
	if err != nil {
		return fail(c, err, "Failed to post interest")
	}
	return response.Success(c, "Interest posted successfully", result)
}

// AccrueInterest runs the monthly interest accrual over every account
// @Summary Run monthly interest
// @Description Accounts already credited for the month are skipped
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AccrueRequest false "Any date inside the month, defaults to today"
// @Success 200 {object} response.Response
// @Router /savings/interest/accrue [post]
func (h *SavingsHandler) AccrueInterest(c *fiber.Ctx) error {
	var req AccrueRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	at, err := services.ParseDate(req.Date)
	if err != nil {
		return fail(c, err, "Invalid date")
	}

	result, err := h.savingsService.AccrueMonthlyInterest(c.Context(), actorFrom(c), timeOr(at))
	if err != nil {
		return fail(c, err, "Failed to accrue interest")
	}
	return response.Success(c, "Interest accrued successfully", result)
}

// CloseAccount pays out the balance and closes the account
// @Summary Close savings account
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body CloseAccountRequest false "Payment method of the payout"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /savings/{id}/close [post]
func (h *SavingsHandler) CloseAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	var req CloseAccountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	result, err := h.savingsService.Close(c.Context(), actorFrom(c), id, req.PaymentMethod)
	if err != nil {
		return fail(c, err, "Failed to close savings account")
	}
	return response.Success(c, "Savings account closed successfully", result)
}
