package services

import (
	"context"
	"path/filepath"
	"testing"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/pkg/password"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var testActor = Actor{UserID: 1, Username: "admin", IP: "127.0.0.1"}

// newTestStore opens a migrated and seeded SQLite database in a temp dir
func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	password.Cost = bcrypt.MinCost

	db, err := config.OpenDatabase(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := config.Migrate(db, config.SeedConfig{AdminUsername: "admin", AdminPassword: "admin123456"}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repositories.NewStore(db)
}

func mkStation(t *testing.T, store *repositories.Store, city string) *models.Station {
	t.Helper()
	station, err := NewStationService(store).Create(context.Background(), testActor, &StationInput{City: city})
	if err != nil {
		t.Fatalf("create station: %v", err)
	}
	return station
}

func mkMember(t *testing.T, store *repositories.Store, stationID, fullName string) *models.MemberResponse {
	t.Helper()
	member, err := NewMemberService(store).Register(context.Background(), testActor, &MemberInput{
		StationID: stationID,
		FullName:  fullName,
		Gender:    "Male",
	})
	if err != nil {
		t.Fatalf("register member: %v", err)
	}
	return member
}

// mkAccount opens an account of the given type and optionally funds it
func mkAccount(t *testing.T, store *repositories.Store, memberID, code string, deposit string) *models.SavingsAccount {
	t.Helper()
	svc := NewSavingsService(store)
	account, err := svc.Open(context.Background(), testActor, &OpenAccountInput{MemberID: memberID, TypeCode: code})
	if err != nil {
		t.Fatalf("open %s account: %v", code, err)
	}
	if deposit == "" {
		return account
	}
	res, err := svc.Deposit(context.Background(), testActor, account.ID, &PostingInput{
		Amount:        decimal.RequireFromString(deposit),
		PaymentMethod: "Cash",
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	return res.Account
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s = %s, want %s", name, got.StringFixed(2), want)
	}
}
