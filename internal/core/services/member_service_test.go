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

func TestMemberRegistrationNumbering(t *testing.T) {
	store := newTestStore(t)
	station := mkStation(t, store, "Lagos")

	first := mkMember(t, store, station.StationID, "Ada Ngozi Obi")
	second := mkMember(t, store, station.StationID, "Bola Ade")

	if first.MemberID != "NFC0001" || second.MemberID != "NFC0002" {
		t.Errorf("member IDs = %s, %s; want NFC0001, NFC0002", first.MemberID, second.MemberID)
	}
	if first.FirstName != "Ada" || first.MiddleName != "Ngozi" || first.LastName != "Obi" {
		t.Errorf("name parts = %q %q %q", first.FirstName, first.MiddleName, first.LastName)
	}
	if first.RegistrationNumber != first.MemberID {
		t.Errorf("registration number defaults to %q, want member ID", first.RegistrationNumber)
	}
	if first.Status != string(domain.MemberActive) {
		t.Errorf("status = %s, want active", first.Status)
	}
	if first.StationName != station.StationName {
		t.Errorf("station name = %q, want %q", first.StationName, station.StationName)
	}
}

func TestMemberRegistrationValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	closed := mkStation(t, store, "Kano")
	if err := NewStationService(store).SetEnabled(ctx, testActor, closed.StationID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	svc := NewMemberService(store)
	if _, err := svc.Register(ctx, testActor, &MemberInput{StationID: station.StationID, FullName: "Ada Obi", RegistrationNumber: "REG-1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name  string
		input MemberInput
		want  error
	}{
		{"single name", MemberInput{StationID: station.StationID, FullName: "Madonna"}, ErrMemberNameRequired},
		{"bad gender", MemberInput{StationID: station.StationID, FullName: "Ada Obi", Gender: "Other"}, domain.ErrInvalidGender},
		{"unknown station", MemberInput{StationID: "99", FullName: "Ada Obi"}, ErrStationNotFound},
		{"disabled station", MemberInput{StationID: closed.StationID, FullName: "Ada Obi"}, ErrStationDisabled},
		{"duplicate registration", MemberInput{StationID: station.StationID, FullName: "Ada Obi", RegistrationNumber: "REG-1"}, ErrRegistrationNumberExists},
		{"bad birth date", MemberInput{StationID: station.StationID, FullName: "Ada Obi", DateOfBirth: "yesterday"}, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := svc.Register(ctx, testActor, &input); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMemberStatusTransitions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	svc := NewMemberService(store)

	steps := []struct {
		status string
		want   error
	}{
		{"inactive", nil},
		{"active", nil},
		{"retired", ErrInvalidMemberStatus},
		{"deceased", nil},
		{"active", ErrDeceasedPermanent},
		{"inactive", ErrDeceasedPermanent},
	}
	for _, s := range steps {
		_, err := svc.ChangeStatus(ctx, testActor, member.MemberID, &StatusInput{Status: s.status})
		if !errors.Is(err, s.want) {
			t.Errorf("-> %s: got %v, want %v", s.status, err, s.want)
		}
	}

	got, err := svc.Get(ctx, member.MemberID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != string(domain.MemberDeceased) || got.DeceasedDate == nil || got.IsActive {
		t.Errorf("unexpected deceased member: status=%s date=%v active=%v", got.Status, got.DeceasedDate, got.IsActive)
	}
}

func TestMemberSearchAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	lagos := mkStation(t, store, "Lagos")
	abuja := mkStation(t, store, "Abuja")
	mkMember(t, store, lagos.StationID, "Ada Obi")
	mkMember(t, store, lagos.StationID, "Bola Ade")
	mkMember(t, store, abuja.StationID, "Adaeze Nwosu")
	svc := NewMemberService(store)

	found, err := svc.Search(ctx, "ada", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("search results = %d, want 2", len(found))
	}

	empty, err := svc.Search(ctx, "   ", 10)
	if err != nil || len(empty) != 0 {
		t.Errorf("blank search = %d results, err %v", len(empty), err)
	}

	list, total, err := svc.List(ctx, repositories.MemberFilter{StationID: lagos.StationID}, &pagination.Params{Page: 1, Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("station list = %d of %d, want 2 of 2", len(list), total)
	}
}

func TestMemberSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	member := mkMember(t, store, station.StationID, "Ada Obi")
	mkAccount(t, store, member.MemberID, domain.SavingsPremium, "1500")
	mkAccount(t, store, member.MemberID, domain.SavingsShares, "500")
	issueMinorLoan(t, NewLoanService(store), member.MemberID, "1000", time.Now())

	summary, err := NewMemberService(store).Summary(ctx, member.MemberID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	assertMoney(t, "total savings", summary.TotalSavings, "2000.00")
	assertMoney(t, "loan balance", summary.TotalLoansOutstanding, "1080.00")

	if _, err := NewMemberService(store).Summary(ctx, "NFC9999"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("unknown member: got %v", err)
	}
}

func TestMemberGenderIsOptional(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	station := mkStation(t, store, "Lagos")
	svc := NewMemberService(store)

	member, err := svc.Register(ctx, testActor, &MemberInput{StationID: station.StationID, FullName: "Ada Obi"})
	if err != nil {
		t.Fatalf("Register without gender: %v", err)
	}
	if member.Gender != nil {
		t.Errorf("gender = %q, want NULL", *member.Gender)
	}

	updated, err := svc.Update(ctx, testActor, member.MemberID, &MemberInput{FullName: "Ada Obi", Gender: "Female"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Gender == nil || *updated.Gender != string(domain.GenderFemale) {
		t.Errorf("gender after update = %v, want Female", updated.Gender)
	}

	stored, err := svc.Get(ctx, member.MemberID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Gender == nil || *stored.Gender != string(domain.GenderFemale) {
		t.Errorf("stored gender = %v, want Female", stored.Gender)
	}
}
