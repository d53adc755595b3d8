package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dividend is a year-end dividend declared on a member's shares balance
type Dividend struct {
	ID              uint            `gorm:"column:dividend_id;primaryKey" json:"dividend_id"`
	MemberID        string          `gorm:"size:20;not null;uniqueIndex:idx_dividend_member_year" json:"member_id"`
	FinancialYear   int             `gorm:"not null;uniqueIndex:idx_dividend_member_year;index" json:"financial_year"`
	SharesBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"shares_balance"`
	DividendRate    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"dividend_rate"`
	DividendAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"dividend_amount"`
	DeclarationDate time.Time       `gorm:"type:date;not null" json:"declaration_date"`
	PaymentDate     *time.Time      `gorm:"type:date" json:"payment_date"`
	Status          string          `gorm:"size:20;not null;check:chk_dividends_status,status IN ('Declared','Paid','Cancelled')" json:"status"`
	CreatedBy       string          `gorm:"size:50" json:"created_by"`
	CreatedDate     time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID;constraint:-" json:"-"`
}

func (Dividend) TableName() string {
	return "dividends"
}

// WithdrawalBenefit records a member leaving the society and the payout made
type WithdrawalBenefit struct {
	ID                uint            `gorm:"column:withdrawal_id;primaryKey" json:"withdrawal_id"`
	MemberID          string          `gorm:"size:20;not null;index" json:"member_id"`
	WithdrawalDate    time.Time       `gorm:"type:date;not null" json:"withdrawal_date"`
	WithdrawalType    string          `gorm:"size:20;not null;check:chk_withdrawal_type,withdrawal_type IN ('Retirement','Non-Retirement')" json:"withdrawal_type"`
	TotalSavings      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_savings"`
	BenefitPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"benefit_percentage"`
	BenefitAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"benefit_amount"`
	ChargeAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"charge_amount"`
	FinalAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"final_amount"`
	Reason            string          `gorm:"type:text" json:"reason"`
	ProcessedBy       string          `gorm:"size:50" json:"processed_by"`
	CreatedDate       time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID;constraint:-" json:"-"`
}

func (WithdrawalBenefit) TableName() string {
	return "withdrawal_benefits"
}

// DeathBenefit is the fan-out charge raised when a member dies
type DeathBenefit struct {
	ID                  uint            `gorm:"column:death_benefit_id;primaryKey" json:"death_benefit_id"`
	DeceasedMemberID    string          `gorm:"size:20;not null;uniqueIndex" json:"deceased_member_id"`
	DeathDate           time.Time       `gorm:"type:date;not null" json:"death_date"`
	ChargePerMember     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"charge_per_member"`
	TotalBenefitAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_benefit_amount"`
	TotalMembersCharged int             `gorm:"not null;default:0" json:"total_members_charged"`
	OutstandingCharges  int             `gorm:"not null;default:0" json:"outstanding_charges"`
	CreditedAccountID   *uint           `json:"credited_account_id"`
	Status              string          `gorm:"size:20;not null" json:"status"`
	ProcessedDate       time.Time       `gorm:"not null" json:"processed_date"`
	PaidDate            *time.Time      `json:"paid_date"`
	ProcessedBy         string          `gorm:"size:50" json:"processed_by"`
	CreatedDate         time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	// Relations
	DeceasedMember *Member              `gorm:"foreignKey:DeceasedMemberID;references:MemberID;constraint:-" json:"-"`
	Charges        []DeathBenefitCharge `gorm:"foreignKey:DeathBenefitID;references:ID" json:"charges,omitempty"`
}

func (DeathBenefit) TableName() string {
	return "death_benefits"
}

// DeathBenefitCharge is the amount charged to one surviving member
type DeathBenefitCharge struct {
	ID             uint            `gorm:"column:charge_id;primaryKey" json:"charge_id"`
	DeathBenefitID uint            `gorm:"not null;uniqueIndex:idx_death_charge_member" json:"death_benefit_id"`
	MemberID       string          `gorm:"size:20;not null;uniqueIndex:idx_death_charge_member;index" json:"member_id"`
	ChargeAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"charge_amount"`
	ChargeDate     time.Time       `gorm:"type:date;not null" json:"charge_date"`
	Status         string          `gorm:"size:20;not null" json:"status"`
	AccountID      *uint           `json:"account_id"`
	CreatedDate    time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	// Relations
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID;constraint:-" json:"-"`
}

func (DeathBenefitCharge) TableName() string {
	return "death_benefit_charges"
}

// BankTransaction is one line of the society's bank book
type BankTransaction struct {
	ID              uint            `gorm:"column:bank_transaction_id;primaryKey" json:"bank_transaction_id"`
	BankName        string          `gorm:"size:100;not null" json:"bank_name"`
	AccountNumber   string          `gorm:"size:30;not null;index" json:"account_number"`
	TransactionType string          `gorm:"size:20;not null;check:chk_bank_txn_type,transaction_type IN ('Deposit','Withdrawal','Charge','Interest')" json:"transaction_type"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`
	Reference       string          `gorm:"size:100" json:"reference"`
	Description     string          `gorm:"type:text" json:"description"`
	IsReconciled    bool            `gorm:"not null;default:false;index" json:"is_reconciled"`
	ReconciledDate  *time.Time      `json:"reconciled_date"`
	ReconciledBy    string          `gorm:"size:50" json:"reconciled_by"`
	CreatedBy       string          `gorm:"size:50" json:"created_by"`
	CreatedDate     time.Time       `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (BankTransaction) TableName() string {
	return "bank_transactions"
}

// BankSummary is the book position of one bank account
type BankSummary struct {
	AccountNumber     string          `json:"account_number"`
	TotalCredits      decimal.Decimal `json:"total_credits"`
	TotalDebits       decimal.Decimal `json:"total_debits"`
	BookBalance       decimal.Decimal `json:"book_balance"`
	ReconciledBalance decimal.Decimal `json:"reconciled_balance"`
	UnreconciledCount int64           `json:"unreconciled_count"`
}
