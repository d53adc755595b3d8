package services

import (
	"context"
	"errors"
	"testing"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
)

func TestWithdrawalBenefit(t *testing.T) {
	tests := []struct {
		name     string
		wt       domain.WithdrawalType
		benefit  string
		charge   string
		final    string
		rowCount int
	}{
		{"retirement adds bonus", domain.WithdrawalRetirement, "1200.00", "0.00", "13200.00", 3},
		{"early exit pays charge", domain.WithdrawalNonRetirement, "0.00", "600.00", "11400.00", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()
			station := mkStation(t, store, "Lagos")
			member := mkMember(t, store, station.StationID, "Ada Obi")
			mkAccount(t, store, member.MemberID, domain.SavingsPremium, "10000")
			mkAccount(t, store, member.MemberID, domain.SavingsShares, "2000")
			svc := NewBenefitService(store)

			preview, err := svc.ComputeWithdrawal(ctx, member.MemberID, string(tt.wt))
			if err != nil {
				t.Fatalf("ComputeWithdrawal: %v", err)
			}
			assertMoney(t, "preview final", preview.FinalAmount, tt.final)

			res, err := svc.ProcessWithdrawal(ctx, testActor, &WithdrawalInput{
				MemberID:       member.MemberID,
				WithdrawalType: string(tt.wt),
				PaymentMethod:  domain.PaymentCheque,
			})
			if err != nil {
				t.Fatalf("ProcessWithdrawal: %v", err)
			}
			assertMoney(t, "total savings", res.Benefit.TotalSavings, "12000.00")
			assertMoney(t, "benefit", res.Benefit.BenefitAmount, tt.benefit)
			assertMoney(t, "charge", res.Benefit.ChargeAmount, tt.charge)
			assertMoney(t, "final", res.Benefit.FinalAmount, tt.final)
			if len(res.Transactions) != tt.rowCount {
				t.Errorf("ledger rows = %d, want %d", len(res.Transactions), tt.rowCount)
			}

			accounts, err := store.Savings.ListByMember(ctx, member.MemberID, true)
			if err != nil {
				t.Fatalf("ListByMember: %v", err)
			}
			if len(accounts) != 0 {
				t.Errorf("%d accounts still open", len(accounts))
			}
			m, _ := NewMemberService(store).Get(ctx, member.MemberID)
			if m.IsActive {
				t.Error("member still active after withdrawal")
			}

			_, err = svc.ProcessWithdrawal(ctx, testActor, &WithdrawalInput{MemberID: member.MemberID, WithdrawalType: string(tt.wt)})
			if !errors.Is(err, ErrWithdrawalExists) {
				t.Errorf("second withdrawal: got %v", err)
			}
		})
	}
}

func TestWithdrawalRejectsUnknownType(t *testing.T) {
	store := newTestStore(t)
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")

	_, err := NewBenefitService(store).ProcessWithdrawal(context.Background(), testActor, &WithdrawalInput{
		MemberID:       member.MemberID,
		WithdrawalType: "Resignation",
	})
	if !errors.Is(err, domain.ErrInvalidWithdrawType) {
		t.Errorf("got %v, want ErrInvalidWithdrawType", err)
	}
}

func TestDeathBenefitFlow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	deceased := mkMember(t, store, station.StationID, "Ada Obi")
	funded := mkMember(t, store, station.StationID, "Bola Ade")
	unfunded := mkMember(t, store, station.StationID, "Chidi Eze")

	mkAccount(t, store, deceased.MemberID, domain.SavingsPremium, "300")
	fundedAccount := mkAccount(t, store, funded.MemberID, domain.SavingsPremium, "5000")
	svc := NewBenefitService(store)

	if _, err := svc.ProcessDeath(ctx, testActor, deceased.MemberID); !errors.Is(err, ErrMemberNotDeceased) {
		t.Fatalf("living member: got %v, want ErrMemberNotDeceased", err)
	}

	if _, err := NewMemberService(store).ChangeStatus(ctx, testActor, deceased.MemberID, &StatusInput{Status: "deceased", DeceasedDate: "2026-09-30"}); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	benefit, err := svc.ProcessDeath(ctx, testActor, deceased.MemberID)
	if err != nil {
		t.Fatalf("ProcessDeath: %v", err)
	}
	if benefit.TotalMembersCharged != 2 || benefit.OutstandingCharges != 1 {
		t.Errorf("charged %d, outstanding %d; want 2 and 1", benefit.TotalMembersCharged, benefit.OutstandingCharges)
	}
	assertMoney(t, "total benefit", benefit.TotalBenefitAmount, "2000.00")
	if benefit.Status != domain.DeathBenefitCredited {
		t.Errorf("status = %s, want Credited", benefit.Status)
	}

	stored, err := svc.GetDeath(ctx, benefit.ID)
	if err != nil {
		t.Fatalf("GetDeath: %v", err)
	}
	var charges []models.DeathBenefitCharge
	if err := store.DB().Where("death_benefit_id = ?", benefit.ID).Find(&charges).Error; err != nil {
		t.Fatalf("load charges: %v", err)
	}
	sum := decimal.Zero
	for _, c := range charges {
		sum = sum.Add(c.ChargeAmount)
	}
	assertMoney(t, "stored total", stored.TotalBenefitAmount, "2000.00")
	if len(charges) != stored.TotalMembersCharged {
		t.Errorf("stored charge rows = %d, benefit says %d", len(charges), stored.TotalMembersCharged)
	}
	assertMoney(t, "stored charge sum", sum, stored.TotalBenefitAmount.StringFixed(2))

	savings := NewSavingsService(store)
	after, _ := savings.Get(ctx, fundedAccount.ID)
	assertMoney(t, "funded member balance", after.CurrentBalance, "4000.00")

	premium, err := store.Savings.GetByMemberAndCode(ctx, deceased.MemberID, domain.SavingsPremium)
	if err != nil {
		t.Fatalf("deceased premium account: %v", err)
	}
	assertMoney(t, "deceased balance", premium.CurrentBalance, "2300.00")

	outstanding, err := svc.ChargesByMember(ctx, unfunded.MemberID, domain.ChargeOutstanding)
	if err != nil {
		t.Fatalf("ChargesByMember: %v", err)
	}
	if len(outstanding) != 1 {
		t.Errorf("outstanding charges for %s = %d, want 1", unfunded.MemberID, len(outstanding))
	}

	if _, err := svc.ProcessDeath(ctx, testActor, deceased.MemberID); !errors.Is(err, ErrDeathBenefitExists) {
		t.Errorf("second processing: got %v", err)
	}

	settled, err := svc.SettleDeath(ctx, testActor, benefit.ID, domain.PaymentCheque)
	if err != nil {
		t.Fatalf("SettleDeath: %v", err)
	}
	if settled.Status != domain.DeathBenefitPaid || settled.PaidDate == nil {
		t.Errorf("unexpected settled benefit: %+v", settled)
	}
	open, _ := store.Savings.ListByMember(ctx, deceased.MemberID, true)
	if len(open) != 0 {
		t.Errorf("%d deceased accounts still open", len(open))
	}

	if _, err := svc.SettleDeath(ctx, testActor, benefit.ID, ""); !errors.Is(err, ErrDeathBenefitPaid) {
		t.Errorf("second settlement: got %v", err)
	}
}

func TestDeathBenefitDisabled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	deceased := mkMember(t, store, station.StationID, "Ada Obi")

	if _, err := NewSettingsService(store).Update(ctx, testActor, domain.SettingDeathBenefitEnabled, "0"); err != nil {
		t.Fatalf("disable death benefit: %v", err)
	}
	if _, err := NewMemberService(store).ChangeStatus(ctx, testActor, deceased.MemberID, &StatusInput{Status: "deceased"}); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	if _, err := NewBenefitService(store).ProcessDeath(ctx, testActor, deceased.MemberID); !errors.Is(err, ErrDeathBenefitDisabled) {
		t.Errorf("got %v, want ErrDeathBenefitDisabled", err)
	}
}
