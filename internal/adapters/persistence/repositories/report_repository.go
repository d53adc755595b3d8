package repositories

import (
	"context"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanTotals aggregates the whole loan book
type LoanTotals struct {
	Pending     int64           `json:"pending"`
	Active      int64           `json:"active"`
	Completed   int64           `json:"completed"`
	Defaulted   int64           `json:"defaulted"`
	Disbursed   decimal.Decimal `json:"total_disbursed"`
	Outstanding decimal.Decimal `json:"total_outstanding"`
	Collected   decimal.Decimal `json:"total_collected"`
}

// LoanTypePortfolio is the loan book of one loan type
type LoanTypePortfolio struct {
	TypeCode    string          `json:"type_code"`
	TypeName    string          `json:"type_name"`
	Loans       int64           `json:"loans"`
	Principal   decimal.Decimal `json:"principal"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// PeriodActivity is the loan movement inside a date window
type PeriodActivity struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	Disbursements     int64           `json:"disbursements"`
	DisbursedAmount   decimal.Decimal `json:"disbursed_amount"`
	Repayments        int64           `json:"repayments"`
	RepaidAmount      decimal.Decimal `json:"repaid_amount"`
	OverpaymentAmount decimal.Decimal `json:"overpayment_amount"`
}

// ReportRepository runs the read-only aggregate queries behind the dashboard
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// LoanTotals counts loans per status and sums the money figures
func (r *ReportRepository) LoanTotals(ctx context.Context) (*LoanTotals, error) {
	var row struct {
		Pending     int64
		Active      int64
		Completed   int64
		Defaulted   int64
		Disbursed   decimal.Decimal
		Outstanding decimal.Decimal
		Collected   decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select(`COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'Active' THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = 'Defaulted' THEN 1 ELSE 0 END), 0) AS defaulted,
			COALESCE(SUM(CASE WHEN status <> 'Pending' THEN principal_amount ELSE 0 END), 0) AS disbursed,
			COALESCE(SUM(CASE WHEN status IN ('Active', 'Defaulted') THEN balance_outstanding ELSE 0 END), 0) AS outstanding,
			COALESCE(SUM(amount_paid), 0) AS collected`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &LoanTotals{
		Pending:     row.Pending,
		Active:      row.Active,
		Completed:   row.Completed,
		Defaulted:   row.Defaulted,
		Disbursed:   row.Disbursed,
		Outstanding: row.Outstanding,
		Collected:   row.Collected,
	}, nil
}

// PortfolioByType groups disbursed loans by loan type
func (r *ReportRepository) PortfolioByType(ctx context.Context) ([]*LoanTypePortfolio, error) {
	var rows []*LoanTypePortfolio
	err := r.db.WithContext(ctx).
		Table("loan_types").
		Select(`loan_types.type_code, loan_types.type_name,
			COUNT(loans.loan_id) AS loans,
			COALESCE(SUM(loans.principal_amount), 0) AS principal,
			COALESCE(SUM(loans.balance_outstanding), 0) AS outstanding`).
		Joins("LEFT JOIN loans ON loans.loan_type_id = loan_types.loan_type_id AND loans.status IN ('Active', 'Defaulted')").
		Group("loan_types.loan_type_id, loan_types.type_code, loan_types.type_name").
		Order("loan_types.loan_type_id ASC").
		Scan(&rows).Error
	return rows, err
}

// Activity sums disbursements and repayments in [from, to)
func (r *ReportRepository) Activity(ctx context.Context, from, to time.Time) (*PeriodActivity, error) {
	out := &PeriodActivity{From: from, To: to}

	var disbursed sumRow
	if err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COUNT(*) AS count, COALESCE(SUM(principal_amount), 0) AS total").
		Where("disbursement_date >= ? AND disbursement_date < ?", from, to).
		Scan(&disbursed).Error; err != nil {
		return nil, err
	}
	out.Disbursements = disbursed.Count
	out.DisbursedAmount = disbursed.Total

	var repaid struct {
		Count    int64
		Total    decimal.Decimal
		Overpaid decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LoanRepayment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(actual_amount), 0) AS total, COALESCE(SUM(overpayment_amount), 0) AS overpaid").
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Scan(&repaid).Error; err != nil {
		return nil, err
	}
	out.Repayments = repaid.Count
	out.RepaidAmount = repaid.Total
	out.OverpaymentAmount = repaid.Overpaid

	return out, nil
}
