package handlers

import (
	"strconv"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/pagination"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BankHandler handles bank book endpoints
type BankHandler struct {
	bankService *services.BankService
}

// NewBankHandler creates a new bank handler
func NewBankHandler(bankService *services.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

// RecordTransaction adds a bank book line
// @Summary Record bank transaction
// @Tags Bank
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BankTransactionInput true "Bank transaction"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bank/transactions [post]
func (h *BankHandler) RecordTransaction(c *fiber.Ctx) error {
	var input services.BankTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bt, err := h.bankService.Record(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to record bank transaction")
	}
	return response.Created(c, "Bank transaction recorded successfully", bt)
}

// ListTransactions lists bank book lines
// @Summary List bank transactions
// @Tags Bank
// @Produce json
// @Security BearerAuth
// @Param account_number query string false "Bank account number"
// @Param reconciled query bool false "Reconciled flag"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /bank/transactions [get]
func (h *BankHandler) ListTransactions(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return fail(c, err, "Invalid from date")
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return fail(c, err, "Invalid to date")
	}

	filter := repositories.BankFilter{
		AccountNumber: strings.TrimSpace(c.Query("account_number")),
		From:          from,
		To:            to,
	}
	if v := c.Query("reconciled"); v != "" {
		reconciled, err := strconv.ParseBool(v)
		if err != nil {
			return response.BadRequest(c, "Invalid reconciled flag")
		}
		filter.Reconciled = &reconciled
	}

	params := pagination.GetParams(c)
	rows, total, err := h.bankService.List(c.Context(), filter, params)
	if err != nil {
		return fail(c, err, "Failed to list bank transactions")
	}
	return response.Paginated(c, "Bank transactions retrieved successfully", rows, pagination.GetMeta(params, total))
}

// GetTransaction returns one bank book line
// @Summary Get bank transaction
// @Tags Bank
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bank transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bank/transactions/{id} [get]
func (h *BankHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid bank transaction ID")
	}

	bt, err := h.bankService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get bank transaction")
	}
	return response.Success(c, "Bank transaction retrieved successfully", bt)
}

// Reconcile marks a line as agreed with the bank statement
// @Summary Reconcile bank transaction
// @Tags Bank
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bank transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /bank/transactions/{id}/reconcile [post]
func (h *BankHandler) Reconcile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid bank transaction ID")
	}

	bt, err := h.bankService.Reconcile(c.Context(), actorFrom(c), id)
	if err != nil {
		return fail(c, err, "Failed to reconcile bank transaction")
	}
	return response.Success(c, "Bank transaction reconciled", bt)
}

// Summary returns the balances of one bank account
// @Summary Bank account summary
// @Tags Bank
// @Produce json
// @Security BearerAuth
// @Param account path string true "Bank account number"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bank/accounts/{account}/summary [get]
func (h *BankHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.bankService.Summary(c.Context(), c.Params("account"))
	if err != nil {
		return fail(c, err, "Failed to summarize bank account")
	}
	return response.Success(c, "Bank summary retrieved successfully", summary)
}
