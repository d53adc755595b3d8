package handlers

import (
	"time"

	"nfc-cooperative/internal/core/services"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard and report endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the landing page figures
// @Summary Dashboard
// @Description Member counts, savings by type, loan totals and 30-day activity
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetStatistics(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetLoanPortfolio returns the loan book by loan type
// @Summary Loan portfolio
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/loan-portfolio [get]
func (h *DashboardHandler) GetLoanPortfolio(c *fiber.Ctx) error {
	rows, err := h.dashboardService.LoanPortfolio(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get loan portfolio")
	}

	return response.Success(c, "Loan portfolio retrieved successfully", rows)
}

// GetMonthlyActivity returns disbursements and repayments of a month
// @Summary Monthly activity
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year, defaults to the current year"
// @Param month query int false "Month 1-12, defaults to the current month"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/monthly [get]
func (h *DashboardHandler) GetMonthlyActivity(c *fiber.Ctx) error {
	now := time.Now()
	year, month := queryInt(c, "year"), queryInt(c, "month")
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	data, err := h.dashboardService.MonthlyActivity(c.Context(), year, month)
	if err != nil {
		return fail(c, err, "Failed to get monthly activity")
	}

	return response.Success(c, "Monthly activity retrieved successfully", data)
}

// GetStationBreakdown returns the statistics of every station
// @Summary Station breakdown
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/stations [get]
func (h *DashboardHandler) GetStationBreakdown(c *fiber.Ctx) error {
	rows, err := h.dashboardService.StationBreakdown(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get station breakdown")
	}

	return response.Success(c, "Station breakdown retrieved successfully", rows)
}
