package services

import (
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/config"
)

// Services holds one instance of every service, built over a shared store
type Services struct {
	Auth      *AuthService
	Users     *UserService
	Settings  *SettingsService
	Stations  *StationService
	Members   *MemberService
	Reference *ReferenceService
	Savings   *SavingsService
	Loans     *LoanService
	Ledger    *LedgerService
	Benefits  *BenefitService
	Dividends *DividendService
	Bank      *BankService
	Audit     *AuditService
	Dashboard *DashboardService
	Scheduler *SchedulerService
}

// New wires every service
func New(store *repositories.Store, cfg *config.Config) *Services {
	s := &Services{
		Auth:      NewAuthService(store, cfg),
		Users:     NewUserService(store),
		Settings:  NewSettingsService(store),
		Stations:  NewStationService(store),
		Members:   NewMemberService(store),
		Reference: NewReferenceService(store),
		Savings:   NewSavingsService(store),
		Loans:     NewLoanService(store),
		Ledger:    NewLedgerService(store),
		Benefits:  NewBenefitService(store),
		Dividends: NewDividendService(store),
		Bank:      NewBankService(store),
		Audit:     NewAuditService(store),
		Dashboard: NewDashboardService(store),
	}
	s.Scheduler = NewSchedulerService(cfg.Scheduler, s.Savings, s.Loans, s.Settings, s.Auth)
	return s
}
