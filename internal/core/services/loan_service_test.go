package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/core/domain"
)

func issueMinorLoan(t *testing.T, svc *LoanService, memberID, principal string, disbursed time.Time) *models.Loan {
	t.Helper()
	loan, err := svc.Issue(context.Background(), testActor, &IssueLoanInput{
		ApplyLoanInput: ApplyLoanInput{
			MemberID:        memberID,
			TypeCode:        domain.LoanMinor,
			PrincipalAmount: dec(principal),
			DurationMonths:  12,
			ApplicationDate: disbursed.Format("2006-01-02"),
		},
		DisburseInput: DisburseInput{
			DisbursementDate: disbursed.Format("2006-01-02"),
			ChequeNumber:     "000123",
			BankName:         "First Bank",
		},
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return loan
}

func TestLoanIssueComputesFlatTerms(t *testing.T) {
	store := newTestStore(t)
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewLoanService(store)

	loan := issueMinorLoan(t, svc, member.MemberID, "12000", time.Now())

	if loan.LoanNumber != "L-"+member.MemberID+"-0001" {
		t.Errorf("loan number = %q", loan.LoanNumber)
	}
	if loan.Status != string(domain.LoanActive) {
		t.Errorf("status = %s, want Active", loan.Status)
	}
	assertMoney(t, "interest", loan.InterestAmount, "960.00")
	assertMoney(t, "total", loan.TotalAmount, "12960.00")
	assertMoney(t, "installment", loan.MonthlyInstallment, "1080.00")
	assertMoney(t, "balance", loan.BalanceOutstanding, "12960.00")
	if !loan.Consistent() {
		t.Error("new loan is inconsistent")
	}
	if loan.EndDate == nil || loan.StartDate == nil || !loan.EndDate.Equal(loan.StartDate.AddDate(0, 12, 0)) {
		t.Errorf("end date %v is not 12 months after start %v", loan.EndDate, loan.StartDate)
	}
}

func TestLoanApplyValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewLoanService(store)

	tests := []struct {
		name  string
		input ApplyLoanInput
		want  error
	}{
		{"too long", ApplyLoanInput{MemberID: member.MemberID, TypeCode: domain.LoanEmergency, PrincipalAmount: dec("1000"), DurationMonths: 7}, domain.ErrInvalidDuration},
		{"unknown type", ApplyLoanInput{MemberID: member.MemberID, TypeCode: "BOGUS", PrincipalAmount: dec("1000"), DurationMonths: 3}, ErrLoanTypeNotFound},
		{"unknown member", ApplyLoanInput{MemberID: "NFC9999", TypeCode: domain.LoanMinor, PrincipalAmount: dec("1000"), DurationMonths: 3}, ErrMemberNotFound},
		{"bad date", ApplyLoanInput{MemberID: member.MemberID, TypeCode: domain.LoanMinor, PrincipalAmount: dec("1000"), DurationMonths: 3, ApplicationDate: "19/10/2026"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := svc.Apply(ctx, testActor, &input); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoanDisburseOnlyPending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewLoanService(store)

	loan, err := svc.Apply(ctx, testActor, &ApplyLoanInput{
		MemberID:        member.MemberID,
		TypeCode:        domain.LoanSoft,
		PrincipalAmount: dec("6000"),
		DurationMonths:  6,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if loan.Status != string(domain.LoanPending) {
		t.Fatalf("status = %s, want Pending", loan.Status)
	}

	if _, err := svc.Repay(ctx, testActor, loan.ID, &RepayInput{Amount: dec("100")}); !errors.Is(err, ErrLoanNotRepayable) {
		t.Errorf("repay pending loan: got %v", err)
	}

	disbursed, err := svc.Disburse(ctx, testActor, loan.ID, &DisburseInput{PaymentMethod: domain.PaymentTransfer})
	if err != nil {
		t.Fatalf("Disburse: %v", err)
	}
	if disbursed.Status != string(domain.LoanActive) || disbursed.DisbursementDate == nil {
		t.Errorf("unexpected loan after disbursement: %+v", disbursed)
	}

	if _, err := svc.Disburse(ctx, testActor, loan.ID, &DisburseInput{}); !errors.Is(err, ErrLoanNotPending) {
		t.Errorf("second disbursement: got %v", err)
	}
}

func TestLoanRepayment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewLoanService(store)
	loan := issueMinorLoan(t, svc, member.MemberID, "12000", time.Now())

	res, err := svc.Repay(ctx, testActor, loan.ID, &RepayInput{Amount: dec("1080"), PaymentMethod: domain.PaymentDeduction})
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	assertMoney(t, "balance", res.Loan.BalanceOutstanding, "11880.00")
	assertMoney(t, "paid", res.Loan.AmountPaid, "1080.00")
	assertMoney(t, "balance before", res.Repayment.BalanceBefore, "12960.00")
	assertMoney(t, "balance after", res.Repayment.BalanceAfter, "11880.00")
	if res.Transaction.IsCredit || res.Transaction.TransactionType != domain.TxnLoanRepayment {
		t.Errorf("unexpected ledger row: %+v", res.Transaction)
	}

	if _, err := svc.Repay(ctx, testActor, loan.ID, &RepayInput{Amount: dec("20000")}); !errors.Is(err, ErrOverpayment) {
		t.Errorf("overpayment: got %v, want ErrOverpayment", err)
	}
	if _, err := svc.Repay(ctx, testActor, loan.ID, &RepayInput{Amount: dec("0")}); !errors.Is(err, domain.ErrNonPositiveAmount) {
		t.Errorf("zero repayment: got %v", err)
	}

	res, err = svc.Repay(ctx, testActor, loan.ID, &RepayInput{Amount: dec("12000"), AllowOverpayment: true})
	if err != nil {
		t.Fatalf("final repayment: %v", err)
	}
	if res.Loan.Status != string(domain.LoanCompleted) {
		t.Errorf("status = %s, want Completed", res.Loan.Status)
	}
	assertMoney(t, "balance", res.Loan.BalanceOutstanding, "0.00")
	assertMoney(t, "overpayment", res.Repayment.OverpaymentAmount, "120.00")
	if !res.Loan.Consistent() {
		t.Error("loan inconsistent after overpayment")
	}

	if _, err := svc.Repay(ctx, testActor, loan.ID, &RepayInput{Amount: dec("1")}); !errors.Is(err, ErrLoanNotRepayable) {
		t.Errorf("repay completed loan: got %v", err)
	}

	repayments, err := store.Loans.ListRepayments(ctx, loan.ID)
	if err != nil {
		t.Fatalf("ListRepayments: %v", err)
	}
	if len(repayments) != 2 {
		t.Errorf("repayments = %d, want 2", len(repayments))
	}
}

func TestLoanOverpaymentSetting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewLoanService(store)
	loan := issueMinorLoan(t, svc, member.MemberID, "1000", time.Now())

	if _, err := NewSettingsService(store).Update(ctx, testActor, domain.SettingAllowOverpayment, "1"); err != nil {
		t.Fatalf("enable overpayment: %v", err)
	}

	res, err := svc.Repay(ctx, testActor, loan.ID, &RepayInput{Amount: dec("2000")})
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	assertMoney(t, "overpayment", res.Repayment.OverpaymentAmount, "920.00")
	if res.Loan.Status != string(domain.LoanCompleted) {
		t.Errorf("status = %s, want Completed", res.Loan.Status)
	}
}

func TestLoanAdjust(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewLoanService(store)
	loan := issueMinorLoan(t, svc, member.MemberID, "12000", time.Now())

	adjusted, err := svc.Adjust(ctx, testActor, loan.ID, &AdjustInput{Delta: dec("-460"), Reason: "interest waiver"})
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	assertMoney(t, "interest", adjusted.InterestAmount, "500.00")
	assertMoney(t, "total", adjusted.TotalAmount, "12500.00")
	assertMoney(t, "balance", adjusted.BalanceOutstanding, "12500.00")
	if !adjusted.Consistent() {
		t.Error("adjusted loan is inconsistent")
	}

	tests := []struct {
		name  string
		input AdjustInput
		want  error
	}{
		{"zero", AdjustInput{Delta: dec("0"), Reason: "x"}, ErrAdjustmentZero},
		{"no reason", AdjustInput{Delta: dec("10"), Reason: "  "}, ErrAdjustmentReason},
		{"waiver above balance", AdjustInput{Delta: dec("-12500.01"), Reason: "x"}, ErrAdjustmentTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := svc.Adjust(ctx, testActor, loan.ID, &input); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoanSweepOverdue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewLoanService(store)

	old := issueMinorLoan(t, svc, member.MemberID, "1000", time.Now().AddDate(-2, 0, 0))
	current := issueMinorLoan(t, svc, member.MemberID, "1000", time.Now())

	result, err := svc.SweepOverdue(ctx, SystemActor, time.Now())
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if result.Defaulted != 1 || result.Failed != 0 {
		t.Errorf("sweep = %+v, want 1 defaulted", result)
	}

	got, err := svc.Get(ctx, old.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != string(domain.LoanDefaulted) {
		t.Errorf("old loan status = %s, want Defaulted", got.Status)
	}
	if got, _ := svc.Get(ctx, current.ID); got.Status != string(domain.LoanActive) {
		t.Errorf("current loan status = %s, want Active", got.Status)
	}

	// Defaulted loans still take repayments
	if _, err := svc.Repay(ctx, testActor, old.ID, &RepayInput{Amount: dec("100")}); err != nil {
		t.Errorf("repay defaulted loan: %v", err)
	}
}
