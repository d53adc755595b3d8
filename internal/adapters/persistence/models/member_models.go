package models

import (
	"time"

	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Station is a branch of the society that members belong to
type Station struct {
	StationID    string    `gorm:"column:station_id;primaryKey;size:10" json:"station_id"`
	StationName  string    `gorm:"size:100;not null" json:"station_name"`
	Address      string    `gorm:"type:text" json:"address"`
	City         string    `gorm:"size:100;index" json:"city"`
	Enabled      bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedDate  time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate time.Time `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	Members []Member `gorm:"foreignKey:StationID;references:StationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Station) TableName() string {
	return "stations"
}

// StationStats aggregates a station's membership and balances
type StationStats struct {
	StationID       string          `json:"station_id"`
	TotalMembers    int64           `json:"total_members"`
	ActiveMembers   int64           `json:"active_members"`
	TotalSavings    decimal.Decimal `json:"total_savings"`
	ActiveLoans     int64           `json:"active_loans"`
	LoanOutstanding decimal.Decimal `json:"loan_outstanding"`
}

// Member represents members table
type Member struct {
	MemberID           string     `gorm:"column:member_id;primaryKey;size:20" json:"member_id"`
	StationID          string     `gorm:"size:10;not null;index" json:"station_id"`
	RegistrationNumber string     `gorm:"size:50;not null;uniqueIndex" json:"registration_number"`
	FirstName          string     `gorm:"size:100;not null;index:idx_members_name" json:"first_name"`
	MiddleName         string     `gorm:"size:100" json:"middle_name"`
	LastName           string     `gorm:"size:100;not null;index:idx_members_name" json:"last_name"`
	Gender             *string    `gorm:"size:10;check:chk_members_gender,gender IN ('Male','Female')" json:"gender"`
	DateOfBirth        *time.Time `gorm:"type:date" json:"date_of_birth"`
	DateJoined         time.Time  `gorm:"type:date;not null" json:"date_joined"`
	Address            string     `gorm:"type:text" json:"address"`
	PhoneNumber        string     `gorm:"size:30" json:"phone_number"`
	Email              string     `gorm:"size:100" json:"email"`
	EmployeeID         string     `gorm:"column:employee_id;size:50" json:"employee_id"`
	GradeLevel         string     `gorm:"size:20" json:"grade_level"`

	NOK1Name         string `gorm:"column:nok1_name;size:150" json:"nok1_name"`
	NOK1Relationship string `gorm:"column:nok1_relationship;size:50" json:"nok1_relationship"`
	NOK1Address      string `gorm:"column:nok1_address;type:text" json:"nok1_address"`
	NOK1Phone        string `gorm:"column:nok1_phone;size:30" json:"nok1_phone"`
	NOK2Name         string `gorm:"column:nok2_name;size:150" json:"nok2_name"`
	NOK2Relationship string `gorm:"column:nok2_relationship;size:50" json:"nok2_relationship"`
	NOK2Address      string `gorm:"column:nok2_address;type:text" json:"nok2_address"`
	NOK2Phone        string `gorm:"column:nok2_phone;size:30" json:"nok2_phone"`

	PhotoPath    string     `gorm:"size:255" json:"photo_path"`
	IsActive     bool       `gorm:"not null;default:true;index" json:"is_active"`
	IsDeceased   bool       `gorm:"not null;default:false" json:"is_deceased"`
	DeceasedDate *time.Time `gorm:"type:date" json:"deceased_date"`
	CreatedBy    string     `gorm:"size:50" json:"created_by"`
	ModifiedBy   string     `gorm:"size:50" json:"modified_by"`
	CreatedDate  time.Time  `gorm:"column:created_date;autoCreateTime" json:"created_date"`
	ModifiedDate time.Time  `gorm:"column:modified_date;autoUpdateTime" json:"modified_date"`

	// Relations. The child tables' foreign keys are declared here; the
	// Station back-pointer is preload only.
	Station             *Station             `gorm:"foreignKey:StationID;references:StationID;constraint:-" json:"station,omitempty"`
	SavingsAccounts     []SavingsAccount     `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Loans               []Loan               `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	LoanRepayments      []LoanRepayment      `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Transactions        []Transaction        `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Dividends           []Dividend           `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	WithdrawalBenefits  []WithdrawalBenefit  `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DeathBenefits       []DeathBenefit       `gorm:"foreignKey:DeceasedMemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DeathBenefitCharges []DeathBenefitCharge `gorm:"foreignKey:MemberID;references:MemberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// FullName joins the member's name parts
func (m *Member) FullName() string {
	return domain.FormatFullName(m.FirstName, m.MiddleName, m.LastName)
}

// Status derives the lifecycle status from the two flags
func (m *Member) Status() domain.MemberStatus {
	switch {
	case m.IsDeceased:
		return domain.MemberDeceased
	case m.IsActive:
		return domain.MemberActive
	default:
		return domain.MemberInactive
	}
}

// CanTransact reports whether new deposits, withdrawals, accounts or loans
// may be posted for the member
func (m *Member) CanTransact() bool {
	return m.IsActive && !m.IsDeceased
}

// MemberResponse DTO
type MemberResponse struct {
	*Member
	FullName    string `json:"full_name"`
	Status      string `json:"status"`
	StationName string `json:"station_name,omitempty"`
}

func (m *Member) ToResponse() *MemberResponse {
	resp := &MemberResponse{
		Member:   m,
		FullName: m.FullName(),
		Status:   string(m.Status()),
	}
	if m.Station != nil {
		resp.StationName = m.Station.StationName
	}
	return resp
}

// MemberSummary is a row of the vw_member_summary view (read only)
type MemberSummary struct {
	MemberID              string          `gorm:"column:member_id" json:"member_id"`
	FullName              string          `gorm:"column:full_name" json:"full_name"`
	StationID             string          `gorm:"column:station_id" json:"station_id"`
	StationName           string          `gorm:"column:station_name" json:"station_name"`
	IsActive              bool            `gorm:"column:is_active" json:"is_active"`
	IsDeceased            bool            `gorm:"column:is_deceased" json:"is_deceased"`
	TotalSavings          decimal.Decimal `gorm:"column:total_savings" json:"total_savings"`
	PremiumSavings        decimal.Decimal `gorm:"column:premium_savings" json:"premium_savings"`
	FixedTargetDeposits   decimal.Decimal `gorm:"column:fixed_target_deposits" json:"fixed_target_deposits"`
	SharesInvestment      decimal.Decimal `gorm:"column:shares_investment" json:"shares_investment"`
	TotalLoansOutstanding decimal.Decimal `gorm:"column:total_loans_outstanding" json:"total_loans_outstanding"`
	NetBalance            decimal.Decimal `gorm:"column:net_balance" json:"net_balance"`
}

func (MemberSummary) TableName() string {
	return "vw_member_summary"
}
