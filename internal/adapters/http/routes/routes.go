package routes

import (
	"nfc-cooperative/internal/adapters/http/handlers"
	"nfc-cooperative/internal/adapters/http/middleware"
	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Handlers groups every HTTP handler
type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Settings    *handlers.SettingsHandler
	Station     *handlers.StationHandler
	Member      *handlers.MemberHandler
	Master      *handlers.MasterHandler
	Savings     *handlers.SavingsHandler
	Loan        *handlers.LoanHandler
	Transaction *handlers.TransactionHandler
	Benefit     *handlers.BenefitHandler
	Dividend    *handlers.DividendHandler
	Bank        *handlers.BankHandler
	Audit       *handlers.AuditHandler
	Dashboard   *handlers.DashboardHandler
}

// NewHandlers creates the handlers over the given services
func NewHandlers(svc *services.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Health:      handlers.NewHealthHandler(cfg),
		Auth:        handlers.NewAuthHandler(svc.Auth, svc.Users, cfg),
		User:        handlers.NewUserHandler(svc.Users),
		Settings:    handlers.NewSettingsHandler(svc.Settings),
		Station:     handlers.NewStationHandler(svc.Stations),
		Member:      handlers.NewMemberHandler(svc.Members),
		Master:      handlers.NewMasterHandler(svc.Reference),
		Savings:     handlers.NewSavingsHandler(svc.Savings),
		Loan:        handlers.NewLoanHandler(svc.Loans),
		Transaction: handlers.NewTransactionHandler(svc.Ledger),
		Benefit:     handlers.NewBenefitHandler(svc.Benefits),
		Dividend:    handlers.NewDividendHandler(svc.Dividends),
		Bank:        handlers.NewBankHandler(svc.Bank),
		Audit:       handlers.NewAuditHandler(svc.Audit),
		Dashboard:   handlers.NewDashboardHandler(svc.Dashboard),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *services.Services, cfg *config.Config) {
	h := NewHandlers(svc, cfg)

	// Health check & root routes
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1", middleware.NoCacheHeaders())
	setupAPIV1Routes(apiV1, h, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(router fiber.Router, h *Handlers, cfg *config.Config) {
	router.Get("/", h.Health.APIInfo)

	// Auth routes (login and refresh are public)
	setupAuthRoutes(router.Group("/auth"), h.Auth, cfg)

	// Everything else requires a valid access token
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	setupUserRoutes(protected.Group("/users", middleware.AdminOnly()), h.User)
	setupSettingsRoutes(protected.Group("/settings"), h.Settings)
	setupStationRoutes(protected.Group("/stations"), h.Station)
	setupMasterRoutes(protected.Group("/master"), h.Master)
	setupMemberRoutes(protected.Group("/members"), h)
	setupSavingsRoutes(protected.Group("/savings"), h.Savings)
	setupLoanRoutes(protected.Group("/loans"), h.Loan)
	protected.Get("/transactions", h.Transaction.ListTransactions)
	setupBenefitRoutes(protected.Group("/benefits"), h.Benefit)
	setupDividendRoutes(protected.Group("/dividends"), h.Dividend)
	setupBankRoutes(protected.Group("/bank"), h.Bank)
	setupReportRoutes(protected.Group("/reports", middleware.RequirePermission(domain.PermViewReports)), h.Dashboard)
	setupAuditRoutes(protected.Group("/audit", middleware.RequirePermission(domain.PermViewReports)), h.Audit)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", middleware.OptionalAuth(cfg), handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
	router.Post("/change-password", middleware.AuthMiddleware(cfg), middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupUserRoutes configures user management routes (maintain only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeactivateUser)
}

// setupSettingsRoutes: every user reads, maintain writes
func setupSettingsRoutes(router fiber.Router, handler *handlers.SettingsHandler) {
	router.Get("/", handler.ListSettings)
	router.Get("/business", handler.GetBusinessSettings)
	router.Get("/:key", handler.GetSetting)
	router.Put("/:key", middleware.AdminOnly(), handler.UpdateSetting)
}

func setupStationRoutes(router fiber.Router, handler *handlers.StationHandler) {
	router.Get("/", handler.ListStations)
	router.Get("/:id", handler.GetStation)
	router.Get("/:id/stats", handler.GetStationStats)

	admin := middleware.AdminOnly()
	router.Post("/", admin, handler.CreateStation)
	router.Put("/:id", admin, handler.UpdateStation)
	router.Post("/:id/enable", admin, handler.EnableStation)
	router.Post("/:id/disable", admin, handler.DisableStation)
}

// setupMasterRoutes configures savings type and loan type routes
func setupMasterRoutes(router fiber.Router, handler *handlers.MasterHandler) {
	cached := middleware.MasterDataCache()
	router.Get("/savings-types", cached, handler.ListSavingsTypes)
	router.Get("/savings-types/:id", cached, handler.GetSavingsType)
	router.Get("/loan-types", cached, handler.ListLoanTypes)
	router.Get("/loan-types/:id", cached, handler.GetLoanType)

	admin := middleware.AdminOnly()
	router.Post("/savings-types", admin, handler.CreateSavingsType)
	router.Put("/savings-types/:id", admin, handler.UpdateSavingsType)
	router.Patch("/savings-types/:id/active", admin, handler.SetSavingsTypeActive)
	router.Post("/loan-types", admin, handler.CreateLoanType)
	router.Put("/loan-types/:id", admin, handler.UpdateLoanType)
	router.Patch("/loan-types/:id/active", admin, handler.SetLoanTypeActive)
}

func setupMemberRoutes(router fiber.Router, h *Handlers) {
	operate := middleware.RequirePermission(domain.PermOperate)
	edit := middleware.RequirePermission(domain.PermEdit)

	router.Get("/", h.Member.ListMembers)
	router.Get("/search", h.Member.SearchMembers)
	router.Get("/summary", h.Member.ListSummaries)
	router.Post("/", operate, h.Member.RegisterMember)

	router.Get("/:id", h.Member.GetMember)
	router.Put("/:id", edit, h.Member.UpdateMember)
	router.Patch("/:id/status", edit, h.Member.ChangeStatus)
	router.Get("/:id/summary", h.Member.GetSummary)
	router.Get("/:id/savings", h.Savings.ListMemberAccounts)
	router.Get("/:id/loans", h.Loan.ListMemberLoans)
	router.Get("/:id/statement", h.Transaction.GetStatement)
	router.Get("/:id/death-charges", h.Benefit.ListMemberCharges)
}

func setupSavingsRoutes(router fiber.Router, handler *handlers.SavingsHandler) {
	operate := middleware.RequirePermission(domain.PermOperate)

	router.Post("/interest/accrue", middleware.AdminOnly(), middleware.StrictRateLimiter(), handler.AccrueInterest)
	router.Post("/", operate, handler.OpenAccount)
	router.Get("/:id", handler.GetAccount)
	router.Post("/:id/deposit", operate, handler.Deposit)
	router.Post("/:id/withdraw", operate, handler.Withdraw)
	router.Post("/:id/interest", operate, handler.PostInterest)
	router.Post("/:id/close", middleware.RequirePermission(domain.PermEdit), handler.CloseAccount)
}

func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	operate := middleware.RequirePermission(domain.PermOperate)
	edit := middleware.RequirePermission(domain.PermEdit)

	router.Get("/", handler.ListLoans)
	router.Get("/quote", handler.QuoteLoan)
	router.Post("/", operate, handler.ApplyLoan)
	router.Post("/issue", operate, handler.IssueLoan)
	router.Post("/sweep-overdue", middleware.AdminOnly(), middleware.StrictRateLimiter(), handler.SweepOverdue)

	router.Get("/:id", handler.GetLoan)
	router.Get("/:id/repayments", handler.ListRepayments)
	router.Post("/:id/disburse", operate, handler.DisburseLoan)
	router.Post("/:id/repay", operate, handler.RepayLoan)
	router.Post("/:id/adjust", edit, handler.AdjustLoan)
	router.Post("/:id/default", edit, handler.DefaultLoan)
}

func setupBenefitRoutes(router fiber.Router, handler *handlers.BenefitHandler) {
	edit := middleware.RequirePermission(domain.PermEdit)

	router.Get("/withdrawals", handler.ListWithdrawals)
	router.Get("/withdrawals/quote", handler.QuoteWithdrawal)
	router.Get("/withdrawals/:id", handler.GetWithdrawal)
	router.Post("/withdrawals", edit, handler.ProcessWithdrawal)

	router.Get("/deaths", handler.ListDeaths)
	router.Get("/deaths/:id", handler.GetDeath)
	router.Post("/deaths", edit, middleware.StrictRateLimiter(), handler.ProcessDeath)
	router.Post("/deaths/:id/settle", edit, handler.SettleDeath)
}

func setupDividendRoutes(router fiber.Router, handler *handlers.DividendHandler) {
	edit := middleware.RequirePermission(domain.PermEdit)

	router.Get("/", handler.ListDividends)
	router.Post("/declare", middleware.AdminOnly(), middleware.StrictRateLimiter(), handler.DeclareDividend)
	router.Post("/pay-all", middleware.AdminOnly(), middleware.StrictRateLimiter(), handler.PayAll)
	router.Get("/:id", handler.GetDividend)
	router.Post("/:id/pay", edit, handler.PayDividend)
	router.Post("/:id/cancel", edit, handler.CancelDividend)
}

func setupBankRoutes(router fiber.Router, handler *handlers.BankHandler) {
	read := middleware.RequireAnyPermission(domain.PermOperate, domain.PermViewReports)

	router.Get("/transactions", read, handler.ListTransactions)
	router.Get("/transactions/:id", read, handler.GetTransaction)
	router.Post("/transactions", middleware.RequirePermission(domain.PermOperate), handler.RecordTransaction)
	router.Post("/transactions/:id/reconcile", middleware.RequirePermission(domain.PermEdit), handler.Reconcile)
	router.Get("/accounts/:account/summary", read, handler.Summary)
}

func setupReportRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/dashboard", handler.GetDashboard)
	router.Get("/loan-portfolio", handler.GetLoanPortfolio)
	router.Get("/monthly", handler.GetMonthlyActivity)
	router.Get("/stations", handler.GetStationBreakdown)
}

func setupAuditRoutes(router fiber.Router, handler *handlers.AuditHandler) {
	router.Get("/logs", handler.ListAudit)
	router.Get("/activity", handler.ListActivity)
}
