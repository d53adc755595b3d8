package handlers

import (
	"strings"
	"time"

	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/pagination"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles ledger endpoints
type TransactionHandler struct {
	ledgerService *services.LedgerService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// ListTransactions lists ledger rows, newest first
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Member ID"
// @Param station_id query string false "Station ID"
// @Param type query string false "Transaction type"
// @Param account_type query string false "Savings, Loan or Benefit"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return fail(c, err, "Invalid from date")
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return fail(c, err, "Invalid to date")
	}
	if to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}

	params := pagination.GetParams(c)
	filter := repositories.TransactionFilter{
		MemberID:        strings.TrimSpace(c.Query("member_id")),
		StationID:       strings.TrimSpace(c.Query("station_id")),
		TransactionType: strings.TrimSpace(c.Query("type")),
		AccountType:     strings.TrimSpace(c.Query("account_type")),
		From:            from,
		To:              to,
	}

	txns, total, err := h.ledgerService.List(c.Context(), filter, params)
	if err != nil {
		return fail(c, err, "Failed to list transactions")
	}
	return response.Paginated(c, "Transactions retrieved successfully", txns, pagination.GetMeta(params, total))
}

// GetStatement builds a member statement
// @Summary Member statement
// @Description Savings lines with running balance plus loan and benefit rows. Defaults to the current year.
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/statement [get]
func (h *TransactionHandler) GetStatement(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return fail(c, err, "Invalid from date")
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return fail(c, err, "Invalid to date")
	}

	now := time.Now()
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	if from != nil {
		start = *from
	}
	end := now
	if to != nil {
		end = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	statement, err := h.ledgerService.Statement(c.Context(), c.Params("id"), start, end)
	if err != nil {
		return fail(c, err, "Failed to build statement")
	}
	return response.Success(c, "Statement built successfully", statement)
}
