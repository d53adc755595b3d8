package services

import (
	"context"
	"testing"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/domain"
)

func newTestScheduler(t *testing.T) (*SchedulerService, *Services, *repositories.Store) {
	t.Helper()
	store := newTestStore(t)
	cfg := testConfig()
	cfg.Scheduler = config.SchedulerConfig{Enabled: true, InterestCron: "0 1 1 * *", SweepCron: "30 0 * * *"}
	svc := New(store, cfg)
	return svc.Scheduler, svc, store
}

func TestSchedulerInterestFollowsSetting(t *testing.T) {
	scheduler, svc, store := newTestScheduler(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	account := mkAccount(t, store, member.MemberID, domain.SavingsPremium, "10000")

	steps := []struct {
		auto    string
		balance string
	}{
		{"0", "10000.00"},
		{"1", "10050.00"},
		{"1", "10050.00"},
	}
	for i, step := range steps {
		if _, err := svc.Settings.Update(ctx, testActor, domain.SettingInterestAuto, step.auto); err != nil {
			t.Fatalf("step %d: set %s: %v", i, step.auto, err)
		}
		scheduler.RunInterest()

		got, err := svc.Savings.Get(ctx, account.ID)
		if err != nil {
			t.Fatalf("step %d: Get: %v", i, err)
		}
		assertMoney(t, "balance", got.CurrentBalance, step.balance)
	}
}

func TestSchedulerDailySweep(t *testing.T) {
	scheduler, svc, store := newTestScheduler(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	overdue := issueMinorLoan(t, svc.Loans, member.MemberID, "1000", time.Now().AddDate(-2, 0, 0))

	tokens := []*models.RefreshToken{
		{UserID: 1, TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Hour)},
		{UserID: 1, TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour)},
	}
	for _, tok := range tokens {
		if err := store.RefreshTokens.Create(ctx, tok); err != nil {
			t.Fatalf("create token: %v", err)
		}
	}

	scheduler.RunDailySweep()

	loan, err := svc.Loans.Get(ctx, overdue.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loan.Status != string(domain.LoanDefaulted) {
		t.Errorf("loan status = %s, want Defaulted", loan.Status)
	}

	var left int64
	if err := store.DB().Model(&models.RefreshToken{}).Count(&left).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if left != 1 {
		t.Errorf("refresh tokens left = %d, want 1", left)
	}
}

func TestSchedulerStartDisabledAndBadSpec(t *testing.T) {
	_, svc, _ := newTestScheduler(t)

	off := NewSchedulerService(config.SchedulerConfig{Enabled: false}, svc.Savings, svc.Loans, svc.Settings, svc.Auth)
	if err := off.Start(); err != nil {
		t.Errorf("disabled scheduler: %v", err)
	}

	bad := NewSchedulerService(config.SchedulerConfig{Enabled: true, InterestCron: "every month", SweepCron: "30 0 * * *"}, svc.Savings, svc.Loans, svc.Settings, svc.Auth)
	if err := bad.Start(); err == nil {
		bad.Stop()
		t.Error("expected an error for an invalid cron spec")
	}
}
