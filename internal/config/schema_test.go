package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/pkg/password"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func migratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	db, err := OpenDatabase(DatabaseConfig{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "schema.db")})
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := Migrate(db, SeedConfig{AdminUsername: "admin", AdminPassword: "admin123456"}); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func tableDDL(t *testing.T, db *gorm.DB, table string) string {
	t.Helper()
	var ddl string
	if err := db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&ddl).Error; err != nil {
		t.Fatalf("read DDL of %s: %v", table, err)
	}
	return ddl
}

func TestForeignKeysPointAtParents(t *testing.T) {
	db := migratedDB(t)

	if ddl := tableDDL(t, db, "stations"); strings.Contains(ddl, "REFERENCES") {
		t.Errorf("stations must not reference other tables:\n%s", ddl)
	}
	if ddl := tableDDL(t, db, "members"); strings.Contains(ddl, "REFERENCES `members`") ||
		!strings.Contains(ddl, "REFERENCES `stations`(`station_id`)") {
		t.Errorf("members should reference only stations:\n%s", ddl)
	}

	children := []string{
		"savings_accounts", "loans", "loan_repayments", "transactions", "dividends",
		"withdrawal_benefits", "death_benefits", "death_benefit_charges",
	}
	for _, table := range children {
		if ddl := tableDDL(t, db, table); !strings.Contains(ddl, "REFERENCES `members`(`member_id`)") {
			t.Errorf("%s has no foreign key to members:\n%s", table, ddl)
		}
	}
}

func TestForeignKeyChain(t *testing.T) {
	db := migratedDB(t)
	save := func(v interface{}) error {
		return db.Omit(clause.Associations).Create(v).Error
	}
	today := time.Now()

	var premium models.SavingsType
	if err := db.Where("type_code = ?", "PREMIUM").First(&premium).Error; err != nil {
		t.Fatalf("seeded savings type: %v", err)
	}
	var minor models.LoanType
	if err := db.Where("type_code = ?", "MINOR").First(&minor).Error; err != nil {
		t.Fatalf("seeded loan type: %v", err)
	}

	if err := save(&models.Station{StationID: "01", StationName: "NFC - Lagos", City: "Lagos", Enabled: true}); err != nil {
		t.Fatalf("station: %v", err)
	}
	member := &models.Member{
		MemberID: "NFC0001", StationID: "01", RegistrationNumber: "NFC0001",
		FirstName: "Ada", LastName: "Obi", DateJoined: today, IsActive: true,
	}
	if err := save(member); err != nil {
		t.Fatalf("member: %v", err)
	}
	if err := save(&models.SavingsAccount{
		MemberID: member.MemberID, SavingsTypeID: premium.ID, AccountNumber: "NFC0001-PREM",
		OpenedDate: today, IsActive: true,
	}); err != nil {
		t.Fatalf("savings account: %v", err)
	}
	loan := &models.Loan{
		LoanNumber: "L-NFC0001-0001", MemberID: member.MemberID, LoanTypeID: minor.ID,
		PrincipalAmount: decimal.NewFromInt(1000), InterestRate: minor.InterestRate,
		InterestAmount: decimal.NewFromInt(80), TotalAmount: decimal.NewFromInt(1080),
		MonthlyInstallment: decimal.NewFromInt(90), DurationMonths: 12,
		BalanceOutstanding: decimal.NewFromInt(1080), ApplicationDate: today, Status: "Pending", IsActive: true,
	}
	if err := save(loan); err != nil {
		t.Fatalf("loan: %v", err)
	}

	orphans := []struct {
		name  string
		value interface{}
	}{
		{"member of unknown station", &models.Member{
			MemberID: "NFC0002", StationID: "99", RegistrationNumber: "NFC0002",
			FirstName: "Bola", LastName: "Ade", DateJoined: today, IsActive: true,
		}},
		{"account of unknown member", &models.SavingsAccount{
			MemberID: "NFC9999", SavingsTypeID: premium.ID, AccountNumber: "NFC9999-PREM", OpenedDate: today,
		}},
		{"account of unknown type", &models.SavingsAccount{
			MemberID: member.MemberID, SavingsTypeID: 999, AccountNumber: "NFC0001-NONE", OpenedDate: today,
		}},
		{"loan of unknown member", &models.Loan{
			LoanNumber: "L-NFC9999-0001", MemberID: "NFC9999", LoanTypeID: minor.ID,
			ApplicationDate: today, Status: "Pending",
		}},
		{"repayment of unknown loan", &models.LoanRepayment{
			LoanID: loan.ID + 100, MemberID: member.MemberID, PaymentDate: today,
		}},
	}
	for _, tt := range orphans {
		t.Run(tt.name, func(t *testing.T) {
			err := save(tt.value)
			if err == nil || !strings.Contains(strings.ToLower(err.Error()), "foreign key") {
				t.Errorf("got %v, want a foreign key violation", err)
			}
		})
	}

	if err := db.Delete(&models.Station{StationID: "01"}).Error; err == nil {
		t.Error("deleting a station with members succeeded")
	}

	// a restart migrates a populated database
	if err := Migrate(db, SeedConfig{AdminUsername: "admin", AdminPassword: "admin123456"}); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var loans int64
	if err := db.Model(&models.Loan{}).Where("member_id = ?", member.MemberID).Count(&loans).Error; err != nil || loans != 1 {
		t.Errorf("loans after second Migrate = %d (%v), want 1", loans, err)
	}
	if err := save(orphans[0].value); err == nil {
		t.Error("foreign keys not enforced after second Migrate")
	}
}
