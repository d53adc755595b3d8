package services

import (
	"context"
	"errors"
	"testing"

	"nfc-cooperative/internal/core/domain"
)

func TestStationCreateNumbersAndNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewStationService(store)

	first := mkStation(t, store, "Lagos")
	second, err := svc.Create(ctx, testActor, &StationInput{City: "Abuja", StationName: "Abuja Central"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.StationID != "01" || second.StationID != "02" {
		t.Errorf("station IDs = %s, %s; want 01, 02", first.StationID, second.StationID)
	}
	if first.StationName != "NFC - Lagos" {
		t.Errorf("default name = %q", first.StationName)
	}
	if second.StationName != "Abuja Central" {
		t.Errorf("explicit name = %q", second.StationName)
	}

	if _, err := svc.Create(ctx, testActor, &StationInput{City: "  "}); !errors.Is(err, ErrStationCity) {
		t.Errorf("blank city: got %v", err)
	}
}

func TestStationEnableDisable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewStationService(store)
	station := mkStation(t, store, "Lagos")
	mkStation(t, store, "Kano")

	if err := svc.SetEnabled(ctx, testActor, station.StationID, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	enabled, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(enabled) != 1 {
		t.Errorf("enabled stations = %d, want 1", len(enabled))
	}
	all, _ := svc.List(ctx, false)
	if len(all) != 2 {
		t.Errorf("all stations = %d, want 2", len(all))
	}

	if err := svc.SetEnabled(ctx, testActor, "99", true); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("unknown station: got %v", err)
	}
}

func TestStationStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	a := mkMember(t, store, station.StationID, "Ada Obi")
	mkMember(t, store, station.StationID, "Bola Ade")
	mkAccount(t, store, a.MemberID, domain.SavingsPremium, "2500")

	stats, err := NewStationService(store).Stats(ctx, station.StationID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalMembers != 2 {
		t.Errorf("members = %d, want 2", stats.TotalMembers)
	}
	assertMoney(t, "savings", stats.TotalSavings, "2500.00")

	if _, err := NewStationService(store).Stats(ctx, "77"); !errors.Is(err, ErrStationNotFound) {
		t.Errorf("unknown station: got %v", err)
	}
}

func TestSettingsUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := NewSettingsService(store)

	tests := []struct {
		key   string
		value string
		want  error
	}{
		{domain.SettingDeathBenefitAmount, "1500", nil},
		{domain.SettingDeathBenefitAmount, "-1", ErrSettingInvalid},
		{domain.SettingRetirementBenefitPct, "101", domain.ErrInvalidPercentage},
		{domain.SettingAllowOverpayment, "yes", ErrSettingInvalid},
		{domain.SettingNextMemberNumber, "40", ErrSettingReadOnly},
		{"no_such_key", "1", ErrSettingNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			if _, err := svc.Update(ctx, testActor, tt.key, tt.value); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	business, err := svc.Business(ctx)
	if err != nil {
		t.Fatalf("Business: %v", err)
	}
	assertMoney(t, "death benefit amount", business.DeathBenefitAmount, "1500.00")
	if !business.DeathBenefitEnabled || business.AllowLoanOverpayment {
		t.Errorf("unexpected toggles: %+v", business)
	}
	assertMoney(t, "retirement pct", business.RetirementBenefitPct, "10.00")
}
