package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLoanTerms(t *testing.T) {
	tests := []struct {
		name        string
		principal   string
		rate        string
		months      int
		interest    string
		total       string
		installment string
	}{
		{"flat 10 percent over 24 months", "100000", "10", 24, "10000.00", "110000.00", "4583.33"},
		{"zero rate", "12000", "0", 12, "0.00", "12000.00", "1000.00"},
		{"single month", "5000", "5", 1, "250.00", "5250.00", "5250.00"},
		{"fractional interest rounds", "333.33", "3", 7, "10.00", "343.33", "49.05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLoanTerms(dec(tt.principal), dec(tt.rate), tt.months)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.InterestAmount.StringFixed(2) != tt.interest {
				t.Errorf("interest = %s, want %s", got.InterestAmount.StringFixed(2), tt.interest)
			}
			if got.TotalAmount.StringFixed(2) != tt.total {
				t.Errorf("total = %s, want %s", got.TotalAmount.StringFixed(2), tt.total)
			}
			if got.MonthlyInstallment.StringFixed(2) != tt.installment {
				t.Errorf("installment = %s, want %s", got.MonthlyInstallment.StringFixed(2), tt.installment)
			}
		})
	}
}

func TestComputeLoanTermsRejectsBadInput(t *testing.T) {
	if _, err := ComputeLoanTerms(decimal.Zero, dec("10"), 12); !errors.Is(err, ErrNonPositiveAmount) {
		t.Errorf("zero principal: got %v", err)
	}
	if _, err := ComputeLoanTerms(dec("1000"), dec("10"), 0); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero months: got %v", err)
	}
	if _, err := ComputeLoanTerms(dec("1000"), dec("-1"), 12); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("negative rate: got %v", err)
	}
}

func TestComputeWithdrawalBenefit(t *testing.T) {
	ret, err := ComputeWithdrawalBenefit(dec("50000"), WithdrawalRetirement, dec("10"), dec("5"))
	if err != nil {
		t.Fatalf("retirement: %v", err)
	}
	if ret.FinalAmount.StringFixed(2) != "55000.00" || ret.BenefitAmount.StringFixed(2) != "5000.00" {
		t.Errorf("retirement = %+v", ret)
	}
	if !ret.ChargeAmount.IsZero() {
		t.Errorf("retirement charge = %s, want 0", ret.ChargeAmount)
	}

	early, err := ComputeWithdrawalBenefit(dec("50000"), WithdrawalNonRetirement, dec("10"), dec("5"))
	if err != nil {
		t.Fatalf("non-retirement: %v", err)
	}
	if early.FinalAmount.StringFixed(2) != "47500.00" || early.ChargeAmount.StringFixed(2) != "2500.00" {
		t.Errorf("non-retirement = %+v", early)
	}

	if _, err := ComputeWithdrawalBenefit(dec("100"), WithdrawalType("Other"), dec("10"), dec("5")); !errors.Is(err, ErrInvalidWithdrawType) {
		t.Errorf("unknown type: got %v", err)
	}
	if _, err := ComputeWithdrawalBenefit(dec("100"), WithdrawalRetirement, dec("101"), dec("5")); !errors.Is(err, ErrInvalidPercentage) {
		t.Errorf("bad percentage: got %v", err)
	}
}

func TestComputeDividend(t *testing.T) {
	got, err := ComputeDividend(dec("20000"), dec("7.5"))
	if err != nil {
		t.Fatal(err)
	}
	if got.StringFixed(2) != "1500.00" {
		t.Errorf("dividend = %s, want 1500.00", got.StringFixed(2))
	}

	zero, _ := ComputeDividend(decimal.Zero, dec("7.5"))
	if !zero.IsZero() {
		t.Errorf("dividend on empty shares = %s", zero)
	}
}

func TestMonthlyInterest(t *testing.T) {
	if got := MonthlyInterest(dec("10000"), dec("0.5")); got.StringFixed(2) != "50.00" {
		t.Errorf("interest = %s, want 50.00", got.StringFixed(2))
	}
	if got := MonthlyInterest(dec("-5"), dec("0.5")); !got.IsZero() {
		t.Errorf("interest on negative balance = %s", got)
	}
}

func TestLoanStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to LoanStatus
		ok       bool
	}{
		{LoanPending, LoanActive, true},
		{LoanPending, LoanCompleted, false},
		{LoanActive, LoanCompleted, true},
		{LoanActive, LoanDefaulted, true},
		{LoanDefaulted, LoanCompleted, true},
		{LoanCompleted, LoanActive, false},
		{LoanActive, LoanPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.ok {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	if !RoleAdmin.Permissions().Has(PermMaintain | PermOperate | PermEdit | PermViewReports) {
		t.Error("admin should hold every permission")
	}
	if RoleManager.Permissions().Has(PermMaintain) {
		t.Error("manager must not maintain")
	}
	if !RoleOperator.Permissions().Has(PermOperate) || RoleOperator.Permissions().Has(PermEdit) {
		t.Error("operator should only operate")
	}
	if RoleAuditor.Permissions() != PermViewReports {
		t.Errorf("auditor = %b, want view reports only", RoleAuditor.Permissions())
	}
	if Role("Clerk").IsValid() {
		t.Error("unknown role accepted")
	}
}

func TestFullName(t *testing.T) {
	first, middle, last := SplitFullName("  Ada  Chioma Okafor ")
	if first != "Ada" || middle != "Chioma" || last != "Okafor" {
		t.Errorf("split = %q %q %q", first, middle, last)
	}
	first, middle, last = SplitFullName("Ada Okafor")
	if first != "Ada" || middle != "" || last != "Okafor" {
		t.Errorf("split two words = %q %q %q", first, middle, last)
	}
	if got := FormatFullName("Ada", "", "Okafor"); got != "Ada Okafor" {
		t.Errorf("format = %q", got)
	}
}

func TestErrorCategories(t *testing.T) {
	if !errors.Is(ErrNonPositiveAmount, ErrInvalidInput) {
		t.Error("ErrNonPositiveAmount should be an invalid input error")
	}
	if !errors.Is(ErrInvalidTransition, ErrRuleViolation) {
		t.Error("ErrInvalidTransition should be a rule violation")
	}
	custom := NewError(ErrNotFound, "loan not found")
	if custom.Error() != "loan not found" || !errors.Is(custom, ErrNotFound) {
		t.Errorf("custom error = %v", custom)
	}
}
