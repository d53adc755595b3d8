package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nfc-cooperative/internal/core/domain"
)

func TestDividendDeclareAndPay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	holder := mkMember(t, store, station.StationID, "Ada Obi")
	other := mkMember(t, store, station.StationID, "Bola Ade")
	mkAccount(t, store, holder.MemberID, domain.SavingsShares, "20000")
	mkAccount(t, store, other.MemberID, domain.SavingsPremium, "500")
	svc := NewDividendService(store)
	year := time.Now().Year() - 1

	declared, err := svc.Declare(ctx, testActor, &DeclareInput{FinancialYear: year, Rate: dec("7.5")})
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if declared.Declared != 1 {
		t.Fatalf("declared = %d, want 1", declared.Declared)
	}
	assertMoney(t, "dividend", declared.Dividends[0].DividendAmount, "1500.00")

	again, err := svc.Declare(ctx, testActor, &DeclareInput{FinancialYear: year, Rate: dec("7.5")})
	if err != nil {
		t.Fatalf("second Declare: %v", err)
	}
	if again.Declared != 0 || again.Skipped != 1 {
		t.Errorf("redeclare = %+v, want 0 declared and 1 skipped", again)
	}

	paid, err := svc.PayAll(ctx, testActor, year)
	if err != nil {
		t.Fatalf("PayAll: %v", err)
	}
	if paid.Paid != 1 {
		t.Errorf("paid = %d, want 1", paid.Paid)
	}
	assertMoney(t, "paid total", paid.TotalAmount, "1500.00")

	premium, err := store.Savings.GetByMemberAndCode(ctx, holder.MemberID, domain.SavingsPremium)
	if err != nil {
		t.Fatalf("premium account opened for dividend: %v", err)
	}
	assertMoney(t, "premium balance", premium.CurrentBalance, "1500.00")

	id := declared.Dividends[0].ID
	if _, err := svc.Pay(ctx, testActor, id); !errors.Is(err, ErrDividendNotDeclared) {
		t.Errorf("pay twice: got %v", err)
	}
	if _, err := svc.Cancel(ctx, testActor, id); !errors.Is(err, ErrDividendNotDeclared) {
		t.Errorf("cancel paid: got %v", err)
	}
}

func TestDividendValidationAndCancel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	holder := mkMember(t, store, station.StationID, "Ada Obi")
	mkAccount(t, store, holder.MemberID, domain.SavingsShares, "1000")
	svc := NewDividendService(store)

	if _, err := svc.Declare(ctx, testActor, &DeclareInput{FinancialYear: 1800, Rate: dec("5")}); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("bad year: got %v", err)
	}
	if _, err := svc.Declare(ctx, testActor, &DeclareInput{FinancialYear: 2025, Rate: dec("120")}); !errors.Is(err, domain.ErrInvalidPercentage) {
		t.Errorf("bad rate: got %v", err)
	}

	declared, err := svc.Declare(ctx, testActor, &DeclareInput{FinancialYear: 2025, Rate: dec("5")})
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	cancelled, err := svc.Cancel(ctx, testActor, declared.Dividends[0].ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != string(domain.DividendCancelled) {
		t.Errorf("status = %s, want Cancelled", cancelled.Status)
	}

	list, err := svc.List(ctx, 0, string(domain.DividendCancelled), holder.MemberID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("cancelled dividends = %d, want 1", len(list))
	}
}
