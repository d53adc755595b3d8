package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Reference Types
// ============================================================

// SavingsType is a savings product; InterestRate is a monthly percentage
type SavingsType struct {
	ID           uint            `gorm:"column:savings_type_id;primaryKey" json:"savings_type_id"`
	TypeCode     string          `gorm:"size:20;uniqueIndex;not null" json:"type_code"`
	TypeName     string          `gorm:"size:100;not null" json:"type_name"`
	Description  string          `gorm:"type:text" json:"description"`
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"interest_rate"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedDate  time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (SavingsType) TableName() string {
	return "savings_types"
}

// LoanType is a loan product; InterestRate is a flat percentage over the term
type LoanType struct {
	ID                uint            `gorm:"column:loan_type_id;primaryKey" json:"loan_type_id"`
	TypeCode          string          `gorm:"size:20;uniqueIndex;not null" json:"type_code"`
	TypeName          string          `gorm:"size:100;not null" json:"type_name"`
	Description       string          `gorm:"type:text" json:"description"`
	InterestRate      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	MaxDurationMonths int             `gorm:"not null" json:"max_duration_months"`
	MaxAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"max_amount"`
	IsActive          bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedDate       time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (LoanType) TableName() string {
	return "loan_types"
}

// ============================================================
// Accounts
// ============================================================

// SavingsAccount holds one member's balance in one savings type
type SavingsAccount struct {
	ID                  uint            `gorm:"column:account_id;primaryKey" json:"account_id"`
	MemberID            string          `gorm:"size:20;not null;uniqueIndex:idx_member_savings_type" json:"member_id"`
	SavingsTypeID       uint            `gorm:"not null;uniqueIndex:idx_member_savings_type" json:"savings_type_id"`
	AccountNumber       string          `gorm:"size:30;not null;uniqueIndex" json:"account_number"`
	CurrentBalance      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_balance"`
	TotalDeposits       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_deposits"`
	TotalWithdrawals    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_withdrawals"`
	TotalInterestEarned decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_interest_earned"`
	LastTransactionDate *time.Time      `json:"last_transaction_date"`
	OpenedDate          time.Time       `gorm:"type:date;not null" json:"opened_date"`
	ClosedDate          *time.Time      `gorm:"type:date" json:"closed_date"`
	IsActive            bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedDate         time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate        time.Time       `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	// Relations
	Member      *Member      `gorm:"foreignKey:MemberID;references:MemberID;constraint:-" json:"member,omitempty"`
	SavingsType *SavingsType `gorm:"foreignKey:SavingsTypeID;references:ID" json:"savings_type,omitempty"`
}

func (SavingsAccount) TableName() string {
	return "savings_accounts"
}

// Consistent reports whether the balance equals deposits - withdrawals + interest
func (a *SavingsAccount) Consistent() bool {
	return a.CurrentBalance.Equal(a.TotalDeposits.Sub(a.TotalWithdrawals).Add(a.TotalInterestEarned))
}

// Loan represents loans table
type Loan struct {
	ID                 uint            `gorm:"column:loan_id;primaryKey" json:"loan_id"`
	LoanNumber         string          `gorm:"size:30;not null;uniqueIndex" json:"loan_number"`
	MemberID           string          `gorm:"size:20;not null;index" json:"member_id"`
	LoanTypeID         uint            `gorm:"not null;index" json:"loan_type_id"`
	PrincipalAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"principal_amount"`
	InterestRate       decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	InterestAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"interest_amount"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	MonthlyInstallment decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_installment"`
	DurationMonths     int             `gorm:"not null" json:"duration_months"`
	AmountPaid         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount_paid"`
	BalanceOutstanding decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_outstanding"`
	ApplicationDate    time.Time       `gorm:"type:date;not null" json:"application_date"`
	DisbursementDate   *time.Time      `gorm:"type:date" json:"disbursement_date"`
	StartDate          *time.Time      `gorm:"type:date" json:"start_date"`
	EndDate            *time.Time      `gorm:"type:date;index" json:"end_date"`
	ChequeNumber       string          `gorm:"size:50" json:"cheque_number"`
	BankName           string          `gorm:"size:100" json:"bank_name"`
	Purpose            string          `gorm:"type:text" json:"purpose"`
	Status             string          `gorm:"size:20;not null;index;check:chk_loans_status,status IN ('Pending','Active','Completed','Defaulted')" json:"status"`
	IsActive           bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedBy          string          `gorm:"size:50" json:"created_by"`
	CreatedDate        time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate       time.Time       `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	// Relations
	Member   *Member   `gorm:"foreignKey:MemberID;references:MemberID;constraint:-" json:"member,omitempty"`
	LoanType *LoanType `gorm:"foreignKey:LoanTypeID;references:ID" json:"loan_type,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// Consistent reports whether total = principal + interest and
// balance = total - paid. Overpayments are kept on the repayment row, so
// amount_paid never exceeds total_amount.
func (l *Loan) Consistent() bool {
	if !l.TotalAmount.Equal(l.PrincipalAmount.Add(l.InterestAmount)) {
		return false
	}
	return l.BalanceOutstanding.Equal(l.TotalAmount.Sub(l.AmountPaid))
}

// LoanRepayment is an immutable record of one repayment
type LoanRepayment struct {
	ID                uint            `gorm:"column:repayment_id;primaryKey" json:"repayment_id"`
	LoanID            uint            `gorm:"not null;index" json:"loan_id"`
	MemberID          string          `gorm:"size:20;not null;index" json:"member_id"`
	PaymentDate       time.Time       `gorm:"type:date;not null" json:"payment_date"`
	ExpectedAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"expected_amount"`
	ActualAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"actual_amount"`
	OverpaymentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"overpayment_amount"`
	BalanceBefore     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_before"`
	BalanceAfter      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_after"`
	PaymentMethod     string          `gorm:"size:20" json:"payment_method"`
	ChequeNumber      string          `gorm:"size:50" json:"cheque_number"`
	ReceiptNumber     string          `gorm:"size:50" json:"receipt_number"`
	Notes             string          `gorm:"type:text" json:"notes"`
	CreatedBy         string          `gorm:"size:50" json:"created_by"`
	CreatedDate       time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	// Relations
	Loan   *Loan   `gorm:"foreignKey:LoanID;references:ID" json:"-"`
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID;constraint:-" json:"-"`
}

func (LoanRepayment) TableName() string {
	return "loan_repayments"
}

// Transaction is one row of the general ledger
type Transaction struct {
	ID              uint            `gorm:"column:transaction_id;primaryKey" json:"transaction_id"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	MemberID        string          `gorm:"size:20;not null;index" json:"member_id"`
	StationID       string          `gorm:"size:10;index" json:"station_id"`
	TransactionType string          `gorm:"size:50;not null;index" json:"transaction_type"`
	AccountType     string          `gorm:"size:20;not null" json:"account_type"`
	AccountID       uint            `gorm:"not null" json:"account_id"`
	Description     string          `gorm:"type:text" json:"description"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	IsCredit        bool            `gorm:"not null" json:"is_credit"`
	PaymentMethod   string          `gorm:"size:20" json:"payment_method"`
	ChequeNumber    string          `gorm:"size:50" json:"cheque_number"`
	ReceiptNumber   string          `gorm:"size:50" json:"receipt_number"`
	CreatedBy       string          `gorm:"size:50" json:"created_by"`
	CreatedDate     time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID;constraint:-" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount returns the amount as positive for credits and negative for debits
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsCredit {
		return t.Amount
	}
	return t.Amount.Neg()
}
