package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store bundles every repository over one database handle. Inside WithTx
// the handle is the transaction, so reads and writes share it.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	RefreshTokens RefreshTokenRepository
	Members       MemberRepository
	Settings      *SettingRepository
	Stations      *StationRepository
	SavingsTypes  *SavingsTypeRepository
	LoanTypes     *LoanTypeRepository
	Savings       *SavingsAccountRepository
	Loans         *LoanRepository
	Transactions  *TransactionRepository
	Dividends     *DividendRepository
	Benefits      *BenefitRepository
	Bank          *BankRepository
	Audit         *AuditRepository
	Reports       *ReportRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Members:       NewMemberRepository(db),
		Settings:      NewSettingRepository(db),
		Stations:      NewStationRepository(db),
		SavingsTypes:  NewSavingsTypeRepository(db),
		LoanTypes:     NewLoanTypeRepository(db),
		Savings:       NewSavingsAccountRepository(db),
		Loans:         NewLoanRepository(db),
		Transactions:  NewTransactionRepository(db),
		Dividends:     NewDividendRepository(db),
		Benefits:      NewBenefitRepository(db),
		Bank:          NewBankRepository(db),
		Audit:         NewAuditRepository(db),
		Reports:       NewReportRepository(db),
	}
}

// DB returns the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx runs fn inside a database transaction. fn must use the store it
// is given; a returned error rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// forUpdate adds a row lock where the dialect supports one (ignored by SQLite)
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// dateRange applies optional bounds on column. to is a calendar day and
// includes everything up to the following midnight.
func dateRange(db *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil && !from.IsZero() {
		db = db.Where(column+" >= ?", *from)
	}
	if to != nil && !to.IsZero() {
		y, m, d := to.Date()
		db = db.Where(column+" < ?", time.Date(y, m, d, 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1))
	}
	return db
}
