package domain

// Role represents a staff role in the system. Roles are mutually exclusive.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleOperator Role = "Operator"
	RoleAuditor  Role = "Auditor"
)

// Permission is a bit in a user's permission set
type Permission uint8

const (
	PermMaintain Permission = 1 << iota
	PermOperate
	PermEdit
	PermViewReports
)

// rolePermissions is the fixed role -> permission bitset mapping
var rolePermissions = map[Role]Permission{
	RoleAdmin:    PermMaintain | PermOperate | PermEdit | PermViewReports,
	RoleManager:  PermOperate | PermEdit | PermViewReports,
	RoleOperator: PermOperate,
	RoleAuditor:  PermViewReports,
}

// Roles returns every valid role
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleOperator, RoleAuditor}
}

// IsValid reports whether r is one of the four known roles
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns the permission bitset for the role
func (r Role) Permissions() Permission {
	return rolePermissions[r]
}

// Has reports whether every bit of want is set in p
func (p Permission) Has(want Permission) bool {
	return want != 0 && p&want == want
}

// Gender values accepted by the members table
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// IsValid reports whether g is an accepted gender value
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// MemberStatus is the lifecycle state of a member
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberDeceased MemberStatus = "deceased"
)

// LoanStatus is the lifecycle state of a loan
type LoanStatus string

const (
	LoanPending   LoanStatus = "Pending"
	LoanActive    LoanStatus = "Active"
	LoanCompleted LoanStatus = "Completed"
	LoanDefaulted LoanStatus = "Defaulted"
)

var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending: {LoanActive},
	LoanActive:  {LoanCompleted, LoanDefaulted},
	// A defaulted loan can still be paid off.
	LoanDefaulted: {LoanCompleted},
}

// CanTransition reports whether a loan may move from s to next
func (s LoanStatus) CanTransition(next LoanStatus) bool {
	for _, allowed := range loanTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsRepayment reports whether repayments may be posted in this state
func (s LoanStatus) AcceptsRepayment() bool {
	return s == LoanActive || s == LoanDefaulted
}

// DividendStatus is the lifecycle state of a declared dividend
type DividendStatus string

const (
	DividendDeclared  DividendStatus = "Declared"
	DividendPaid      DividendStatus = "Paid"
	DividendCancelled DividendStatus = "Cancelled"
)

// WithdrawalType distinguishes retirement from early exit
type WithdrawalType string

const (
	WithdrawalRetirement    WithdrawalType = "Retirement"
	WithdrawalNonRetirement WithdrawalType = "Non-Retirement"
)

// IsValid reports whether w is a known withdrawal type
func (w WithdrawalType) IsValid() bool {
	return w == WithdrawalRetirement || w == WithdrawalNonRetirement
}

// Death benefit and charge states
const (
	DeathBenefitCredited = "Credited"
	DeathBenefitPaid     = "Paid"

	ChargeDeducted    = "Deducted"
	ChargeOutstanding = "Outstanding"
)

// BankTxnType is the kind of a bank ledger entry
type BankTxnType string

const (
	BankDeposit    BankTxnType = "Deposit"
	BankWithdrawal BankTxnType = "Withdrawal"
	BankCharge     BankTxnType = "Charge"
	BankInterest   BankTxnType = "Interest"
)

// IsCredit reports whether the entry increases the bank balance
func (t BankTxnType) IsCredit() bool {
	return t == BankDeposit || t == BankInterest
}

// IsValid reports whether t is a known bank transaction type
func (t BankTxnType) IsValid() bool {
	switch t {
	case BankDeposit, BankWithdrawal, BankCharge, BankInterest:
		return true
	}
	return false
}

// Ledger transaction types
const (
	TxnSavingsDeposit     = "Savings Deposit"
	TxnSavingsWithdrawal  = "Savings Withdrawal"
	TxnInterestCredit     = "Interest Credit"
	TxnLoanDisbursement   = "Loan Disbursement"
	TxnLoanRepayment      = "Loan Repayment"
	TxnLoanAdjustment     = "Loan Adjustment"
	TxnDeathBenefitCharge = "Death Benefit Charge"
	TxnDeathBenefitCredit = "Death Benefit Credit"
	TxnWithdrawalBenefit  = "Withdrawal Benefit"
	TxnDividendPayment    = "Dividend Payment"
	TxnAccountClosure     = "Account Closure"
)

// Ledger account types
const (
	AccountSavings = "Savings"
	AccountLoan    = "Loan"
	AccountBenefit = "Benefit"
)

// Savings type codes seeded at setup
const (
	SavingsPremium = "PREMIUM"
	SavingsFixed   = "FIXED"
	SavingsTarget  = "TARGET"
	SavingsShares  = "SHARES"
)

// Loan type codes seeded at setup
const (
	LoanMajor     = "MAJOR"
	LoanMinor     = "MINOR"
	LoanEmergency = "EMERGENCY"
	LoanSoft      = "SOFT"
	LoanHousing   = "HOUSING"
	LoanVehicle   = "VEHICLE"
	LoanCommodity = "COMMODITY"
)

// Payment methods
const (
	PaymentCash      = "Cash"
	PaymentCheque    = "Cheque"
	PaymentTransfer  = "Transfer"
	PaymentDeduction = "Deduction"
	PaymentSystem    = "System"
)

// System setting keys
const (
	SettingOrganizationName     = "organization_name"
	SettingCurrencySymbol       = "currency_symbol"
	SettingInterestAuto         = "interest_auto_calculate"
	SettingDeathBenefitEnabled  = "death_benefit_enabled"
	SettingDeathBenefitAmount   = "death_benefit_amount"
	SettingRetirementBenefitPct = "retirement_benefit_percentage"
	SettingNonRetirementPct     = "non_retirement_charge_percentage"
	SettingAllowOverpayment     = "allow_loan_overpayment"
	SettingNextMemberNumber     = "next_member_number"
	SettingNextStationNumber    = "next_station_number"
)
