package services

import (
	"context"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ErrInvalidMonth is returned for a month outside 1..12
var ErrInvalidMonth = domain.NewError(domain.ErrInvalidInput, "month must be between 1 and 12")

// DashboardService handles dashboard and report data
type DashboardService struct {
	store *repositories.Store
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *repositories.Store) *DashboardService {
	return &DashboardService{store: store}
}

// ============================================================
// Statistics
// ============================================================

// DashboardData represents the landing page figures
type DashboardData struct {
	// Members
	Members *repositories.MemberCounts `json:"members"`

	// Savings
	Savings      []*repositories.SavingsTypeTotal `json:"savings"`
	TotalSavings decimal.Decimal                  `json:"total_savings"`

	// Loans
	Loans *repositories.LoanTotals `json:"loans"`

	// Last 30 days
	Deposits30Days    decimal.Decimal `json:"deposits_30_days"`
	Withdrawals30Days decimal.Decimal `json:"withdrawals_30_days"`

	// Recent activity
	RecentTransactions []*models.Transaction `json:"recent_transactions"`

	GeneratedAt time.Time `json:"generated_at"`
}

// GetStatistics gets dashboard data
func (s *DashboardService) GetStatistics(ctx context.Context) (*DashboardData, error) {
	now := time.Now()
	data := &DashboardData{GeneratedAt: now, TotalSavings: decimal.Zero}

	var err error
	if data.Members, err = s.store.Members.CountByStatus(ctx); err != nil {
		return nil, err
	}

	if data.Savings, err = s.store.Savings.TotalsByType(ctx); err != nil {
		return nil, err
	}
	for _, t := range data.Savings {
		data.TotalSavings = data.TotalSavings.Add(t.Total)
	}

	if data.Loans, err = s.store.Reports.LoanTotals(ctx); err != nil {
		return nil, err
	}

	since := now.AddDate(0, 0, -30)
	if data.Deposits30Days, err = s.store.Transactions.SumByType(ctx, domain.TxnSavingsDeposit, since, now); err != nil {
		return nil, err
	}
	if data.Withdrawals30Days, err = s.store.Transactions.SumByType(ctx, domain.TxnSavingsWithdrawal, since, now); err != nil {
		return nil, err
	}

	if data.RecentTransactions, _, err = s.store.Transactions.List(ctx, repositories.TransactionFilter{}, 0, 10); err != nil {
		return nil, err
	}

	return data, nil
}

// ============================================================
// Loan Reports
// ============================================================

// LoanPortfolio returns the loan book grouped by loan type
func (s *DashboardService) LoanPortfolio(ctx context.Context) ([]*repositories.LoanTypePortfolio, error) {
	return s.store.Reports.PortfolioByType(ctx)
}

// MonthlyActivity returns disbursements and repayments of one month
func (s *DashboardService) MonthlyActivity(ctx context.Context, year, month int) (*repositories.PeriodActivity, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if year < 1900 {
		return nil, ErrInvalidYear
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return s.store.Reports.Activity(ctx, from, from.AddDate(0, 1, 0))
}

// StationBreakdown returns the statistics of every station
func (s *DashboardService) StationBreakdown(ctx context.Context) ([]*models.StationStats, error) {
	stations, err := s.store.Stations.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]*models.StationStats, 0, len(stations))
	for _, st := range stations {
		stats, err := s.store.Stations.Stats(ctx, st.StationID)
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}
