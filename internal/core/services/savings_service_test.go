package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nfc-cooperative/internal/core/domain"
)

func TestSavingsOpenAccount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewSavingsService(store)

	account, err := svc.Open(ctx, testActor, &OpenAccountInput{MemberID: member.MemberID, TypeCode: "premium"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if account.AccountNumber != member.MemberID+"-PREM" {
		t.Errorf("account number = %q", account.AccountNumber)
	}

	_, err = svc.Open(ctx, testActor, &OpenAccountInput{MemberID: member.MemberID, TypeCode: "PREMIUM"})
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("second open: got %v, want ErrAccountExists", err)
	}

	_, err = svc.Open(ctx, testActor, &OpenAccountInput{MemberID: member.MemberID, TypeCode: "NOPE"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown type: got %v, want not found", err)
	}

	_, err = svc.Open(ctx, testActor, &OpenAccountInput{MemberID: "NFC9999", TypeCode: "PREMIUM"})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("unknown member: got %v", err)
	}
}

func TestSavingsDepositAndWithdraw(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewSavingsService(store)

	account := mkAccount(t, store, member.MemberID, domain.SavingsPremium, "10000")
	assertMoney(t, "balance after deposit", account.CurrentBalance, "10000.00")

	res, err := svc.Withdraw(ctx, testActor, account.ID, &PostingInput{Amount: dec("2500.50")})
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	assertMoney(t, "balance", res.Account.CurrentBalance, "7499.50")
	assertMoney(t, "withdrawals", res.Account.TotalWithdrawals, "2500.50")
	if res.Transaction.IsCredit || res.Transaction.TransactionType != domain.TxnSavingsWithdrawal {
		t.Errorf("unexpected ledger row: %+v", res.Transaction)
	}
	if res.Transaction.StationID != station.StationID {
		t.Errorf("ledger station = %q, want %q", res.Transaction.StationID, station.StationID)
	}

	stored, err := svc.Get(ctx, account.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !stored.Consistent() {
		t.Errorf("stored account is inconsistent: %+v", stored)
	}

	tests := []struct {
		name   string
		credit bool
		amount string
		want   error
	}{
		{"zero deposit", true, "0", domain.ErrNonPositiveAmount},
		{"negative deposit", true, "-5", domain.ErrNonPositiveAmount},
		{"overdraw", false, "7499.51", ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := svc.Withdraw
			if tt.credit {
				post = svc.Deposit
			}
			_, err := post(ctx, testActor, account.ID, &PostingInput{Amount: dec(tt.amount)})
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	after, _ := svc.Get(ctx, account.ID)
	assertMoney(t, "balance after rejected postings", after.CurrentBalance, "7499.50")
}

func TestSavingsInterestAccrualRunsOncePerMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Abuja")
	member := mkMember(t, store, station.StationID, "Bola Ade")
	svc := NewSavingsService(store)

	account := mkAccount(t, store, member.MemberID, domain.SavingsPremium, "10000")
	mkAccount(t, store, member.MemberID, domain.SavingsShares, "5000")

	now := time.Now()
	first, err := svc.AccrueMonthlyInterest(ctx, SystemActor, now)
	if err != nil {
		t.Fatalf("AccrueMonthlyInterest: %v", err)
	}
	if first.Accounts != 1 {
		t.Errorf("accounts credited = %d, want 1", first.Accounts)
	}
	assertMoney(t, "total interest", first.Total, "50.00")

	second, err := svc.AccrueMonthlyInterest(ctx, SystemActor, now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Accounts != 0 {
		t.Errorf("second run credited %d accounts, want 0", second.Accounts)
	}

	stored, _ := svc.Get(ctx, account.ID)
	assertMoney(t, "balance", stored.CurrentBalance, "10050.00")
	assertMoney(t, "interest earned", stored.TotalInterestEarned, "50.00")
	if !stored.Consistent() {
		t.Error("account inconsistent after interest")
	}
}

func TestSavingsCloseAndReopen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Kano")
	member := mkMember(t, store, station.StationID, "Sani Musa")
	svc := NewSavingsService(store)

	account := mkAccount(t, store, member.MemberID, domain.SavingsTarget, "1200")

	res, err := svc.Close(ctx, testActor, account.ID, domain.PaymentCheque)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if res.Account.IsActive {
		t.Error("account still active after close")
	}
	assertMoney(t, "balance", res.Account.CurrentBalance, "0.00")
	if res.Transaction == nil || res.Transaction.TransactionType != domain.TxnAccountClosure {
		t.Fatalf("expected an account closure row, got %+v", res.Transaction)
	}
	assertMoney(t, "closure amount", res.Transaction.Amount, "1200.00")

	if _, err := svc.Deposit(ctx, testActor, account.ID, &PostingInput{Amount: dec("10")}); !errors.Is(err, ErrAccountClosed) {
		t.Errorf("deposit on closed account: got %v", err)
	}

	reopened, err := svc.Open(ctx, testActor, &OpenAccountInput{MemberID: member.MemberID, TypeCode: domain.SavingsTarget})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.ID != account.ID || !reopened.IsActive {
		t.Errorf("expected account %d reopened, got %d (active=%v)", account.ID, reopened.ID, reopened.IsActive)
	}
}

func TestSavingsRejectsDeceasedMember(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Jos")
	member := mkMember(t, store, station.StationID, "Emeka Okafor")
	account := mkAccount(t, store, member.MemberID, domain.SavingsPremium, "500")

	if _, err := NewMemberService(store).ChangeStatus(ctx, testActor, member.MemberID, &StatusInput{Status: "deceased"}); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	svc := NewSavingsService(store)
	if _, err := svc.Deposit(ctx, testActor, account.ID, &PostingInput{Amount: dec("10")}); !errors.Is(err, ErrMemberDeceased) {
		t.Errorf("deposit: got %v, want ErrMemberDeceased", err)
	}
	if _, err := svc.Open(ctx, testActor, &OpenAccountInput{MemberID: member.MemberID, TypeCode: domain.SavingsShares}); !errors.Is(err, ErrMemberDeceased) {
		t.Errorf("open: got %v, want ErrMemberDeceased", err)
	}
}
