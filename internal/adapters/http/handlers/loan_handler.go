package handlers

import (
	"strings"
	"time"

	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/pagination"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// QuoteLoan computes the flat-rate terms of a prospective loan
// @Summary Quote loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param loan_type_id query int true "Loan type ID"
// @Param principal query string true "Principal amount"
// @Param months query int true "Duration in months"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans/quote [get]
func (h *LoanHandler) QuoteLoan(c *fiber.Ctx) error {
	typeID := queryInt(c, "loan_type_id")
	if typeID <= 0 {
		return response.BadRequest(c, "Invalid loan type ID")
	}
	principal, err := decimal.NewFromString(strings.TrimSpace(c.Query("principal")))
	if err != nil {
		return response.BadRequest(c, "Invalid principal amount")
	}

	terms, err := h.loanService.Quote(c.Context(), uint(typeID), principal, queryInt(c, "months"))
	if err != nil {
		return fail(c, err, "Failed to quote loan")
	}
	return response.Success(c, "Loan quote computed successfully", terms)
}

// ListLoans lists loans
// @Summary List loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param member_id query string false "Member ID"
// @Param status query string false "Pending, Active, Completed or Defaulted"
// @Param loan_type_id query int false "Loan type ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := repositories.LoanFilter{
		MemberID: strings.TrimSpace(c.Query("member_id")),
		Status:   strings.TrimSpace(c.Query("status")),
	}
	if typeID := queryInt(c, "loan_type_id"); typeID > 0 {
		filter.LoanTypeID = uint(typeID)
	}

	loans, total, err := h.loanService.List(c.Context(), filter, params)
	if err != nil {
		return fail(c, err, "Failed to list loans")
	}
	return response.Paginated(c, "Loans retrieved successfully", loans, pagination.GetMeta(params, total))
}

// ListMemberLoans lists the loans of a member
// @Summary List member loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param active query bool false "Only Active and Defaulted loans"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/loans [get]
func (h *LoanHandler) ListMemberLoans(c *fiber.Ctx) error {
	loans, err := h.loanService.ListByMember(c.Context(), c.Params("id"), queryBool(c, "active"))
	if err != nil {
		return fail(c, err, "Failed to list loans")
	}
	return response.Success(c, "Loans retrieved successfully", loans)
}

// GetLoan returns one loan
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to get loan")
	}
	return response.Success(c, "Loan retrieved successfully", loan)
}

// ListRepayments lists the repayments of a loan
// @Summary List loan repayments
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/repayments [get]
func (h *LoanHandler) ListRepayments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	repayments, err := h.loanService.Repayments(c.Context(), id)
	if err != nil {
		return fail(c, err, "Failed to list repayments")
	}
	return response.Success(c, "Repayments retrieved successfully", repayments)
}

// ApplyLoan records a Pending loan
// @Summary Apply for loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ApplyLoanInput true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) ApplyLoan(c *fiber.Ctx) error {
	var input services.ApplyLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Apply(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to apply for loan")
	}
	return response.Created(c, "Loan application recorded successfully", loan)
}

// IssueLoan applies and disburses a loan in one step
// @Summary Issue loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.IssueLoanInput true "Application and payout"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/issue [post]
func (h *LoanHandler) IssueLoan(c *fiber.Ctx) error {
	var input services.IssueLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Issue(c.Context(), actorFrom(c), &input)
	if err != nil {
		return fail(c, err, "Failed to issue loan")
	}
	return response.Created(c, "Loan issued successfully", loan)
}

// DisburseLoan moves a Pending loan to Active
// @Summary Disburse loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.DisburseInput false "Payout details"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/disburse [post]
func (h *LoanHandler) DisburseLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.DisburseInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	loan, err := h.loanService.Disburse(c.Context(), actorFrom(c), id, &input)
	if err != nil {
		return fail(c, err, "Failed to disburse loan")
	}
	return response.Success(c, "Loan disbursed successfully", loan)
}

// RepayLoan records a repayment
// @Summary Repay loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.RepayInput true "Repayment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/repay [post]
func (h *LoanHandler) RepayLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.RepayInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.loanService.Repay(c.Context(), actorFrom(c), id, &input)
	if err != nil {
		return fail(c, err, "Failed to record repayment")
	}
	return response.Success(c, "Repayment recorded successfully", result)
}

// AdjustLoan raises or waives part of a loan's interest
// @Summary Adjust loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.AdjustInput true "Adjustment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/adjust [post]
func (h *LoanHandler) AdjustLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.AdjustInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Adjust(c.Context(), actorFrom(c), id, &input)
	if err != nil {
		return fail(c, err, "Failed to adjust loan")
	}
	return response.Success(c, "Loan adjusted successfully", loan)
}

// DefaultLoan marks an Active loan Defaulted
// @Summary Mark loan defaulted
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/default [post]
func (h *LoanHandler) DefaultLoan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.MarkDefaulted(c.Context(), actorFrom(c), id)
	if err != nil {
		return fail(c, err, "Failed to mark loan defaulted")
	}
	return response.Success(c, "Loan marked defaulted", loan)
}

// SweepOverdue defaults every Active loan past its end date
// @Summary Run overdue sweep
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/sweep-overdue [post]
func (h *LoanHandler) SweepOverdue(c *fiber.Ctx) error {
	result, err := h.loanService.SweepOverdue(c.Context(), actorFrom(c), time.Now())
	if err != nil {
		return fail(c, err, "Failed to sweep overdue loans")
	}
	return response.Success(c, "Overdue sweep completed", result)
}
