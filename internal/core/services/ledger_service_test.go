package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/pagination"
)

func TestLedgerStatement(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	account := mkAccount(t, store, member.MemberID, domain.SavingsPremium, "1000")
	if _, err := NewSavingsService(store).Withdraw(ctx, testActor, account.ID, &PostingInput{Amount: dec("200")}); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	issueMinorLoan(t, NewLoanService(store), member.MemberID, "500", time.Now())

	svc := NewLedgerService(store)
	now := time.Now()
	st, err := svc.Statement(ctx, member.MemberID, now.AddDate(0, -1, 0), now)
	if err != nil {
		t.Fatalf("Statement: %v", err)
	}
	assertMoney(t, "opening", st.OpeningBalance, "0.00")
	assertMoney(t, "credits", st.TotalCredits, "1000.00")
	assertMoney(t, "debits", st.TotalDebits, "200.00")
	assertMoney(t, "closing", st.ClosingBalance, "800.00")
	if len(st.Savings) != 2 || len(st.Loans) != 1 {
		t.Errorf("rows: %d savings, %d loans; want 2 and 1", len(st.Savings), len(st.Loans))
	}
	assertMoney(t, "running balance", st.Savings[len(st.Savings)-1].RunningBalance, "800.00")

	if _, err := svc.Statement(ctx, member.MemberID, now, now.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("reversed period: got %v", err)
	}

	rows, total, err := svc.List(ctx, repositories.TransactionFilter{MemberID: member.MemberID, AccountType: domain.AccountSavings}, &pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Errorf("savings rows = %d of %d, want 2 of 2", len(rows), total)
	}
}

func TestLedgerListIncludesEndDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	mkAccount(t, store, member.MemberID, domain.SavingsPremium, "250")

	today, err := ParseDate(time.Now().Format("2006-01-02"))
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name string
		from *time.Time
		to   *time.Time
		want int64
	}{
		{"through today", nil, today, 1},
		{"today only", today, today, 1},
		{"through yesterday", nil, &yesterday, 0},
	}
	svc := NewLedgerService(store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := svc.List(ctx, repositories.TransactionFilter{MemberID: member.MemberID, From: tt.from, To: tt.to}, &pagination.Params{Page: 1, Limit: 20})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}
}
