package services

import (
	"context"
	"errors"
	"testing"

	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/pagination"
)

func TestBankRecordAndReconcile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewBankService(store)

	lines := []BankTransactionInput{
		{TransactionType: string(domain.BankDeposit), Amount: dec("5000"), TransactionDate: "2026-09-01"},
		{TransactionType: string(domain.BankInterest), Amount: dec("12.50"), TransactionDate: "2026-09-30"},
		{TransactionType: string(domain.BankWithdrawal), Amount: dec("1200"), TransactionDate: "2026-09-15"},
		{TransactionType: string(domain.BankCharge), Amount: dec("2.50"), TransactionDate: "2026-09-30"},
	}
	var recorded []uint
	for _, l := range lines {
		l.BankName = "First Bank"
		l.AccountNumber = "0012345678"
		bt, err := svc.Record(ctx, testActor, &l)
		if err != nil {
			t.Fatalf("Record %s: %v", l.TransactionType, err)
		}
		recorded = append(recorded, bt.ID)
	}

	if _, err := svc.Reconcile(ctx, testActor, recorded[0]); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if _, err := svc.Reconcile(ctx, testActor, recorded[0]); !errors.Is(err, ErrAlreadyReconciled) {
		t.Errorf("second reconcile: got %v", err)
	}
	if _, err := svc.Reconcile(ctx, testActor, 9999); !errors.Is(err, ErrBankTxnNotFound) {
		t.Errorf("unknown line: got %v", err)
	}

	summary, err := svc.Summary(ctx, "0012345678")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	assertMoney(t, "credits", summary.TotalCredits, "5012.50")
	assertMoney(t, "debits", summary.TotalDebits, "1202.50")
	assertMoney(t, "book balance", summary.BookBalance, "3810.00")
	assertMoney(t, "reconciled balance", summary.ReconciledBalance, "5000.00")
	if summary.UnreconciledCount != 3 {
		t.Errorf("unreconciled = %d, want 3", summary.UnreconciledCount)
	}

	open := false
	list, total, err := svc.List(ctx, repositories.BankFilter{AccountNumber: "0012345678", Reconciled: &open}, &pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Errorf("unreconciled list = %d of %d, want 3 of 3", len(list), total)
	}

	end, _ := ParseDate("2026-09-30")
	_, total, err = svc.List(ctx, repositories.BankFilter{AccountNumber: "0012345678", To: end}, &pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List to end date: %v", err)
	}
	if total != 4 {
		t.Errorf("lines up to 2026-09-30 = %d, want 4", total)
	}
}

func TestBankRecordValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewBankService(store)

	tests := []struct {
		name  string
		input BankTransactionInput
		want  error
	}{
		{"no bank", BankTransactionInput{AccountNumber: "1", TransactionType: "Deposit", Amount: dec("1")}, ErrBankDetailsRequired},
		{"bad type", BankTransactionInput{BankName: "B", AccountNumber: "1", TransactionType: "Transfer", Amount: dec("1")}, ErrBankTxnType},
		{"zero amount", BankTransactionInput{BankName: "B", AccountNumber: "1", TransactionType: "Deposit", Amount: dec("0")}, domain.ErrNonPositiveAmount},
		{"bad date", BankTransactionInput{BankName: "B", AccountNumber: "1", TransactionType: "Deposit", Amount: dec("1"), TransactionDate: "soon"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := svc.Record(context.Background(), testActor, &input); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
