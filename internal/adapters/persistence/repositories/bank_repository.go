package repositories

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankRepository handles bank book data access
type BankRepository struct {
	db *gorm.DB
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *gorm.DB) *BankRepository {
	return &BankRepository{db: db}
}

// Create records a bank transaction
func (r *BankRepository) Create(ctx context.Context, bt *models.BankTransaction) error {
	return r.db.WithContext(ctx).Create(bt).Error
}

// GetByID gets a bank transaction
func (r *BankRepository) GetByID(ctx context.Context, id uint) (*models.BankTransaction, error) {
	var bt models.BankTransaction
	err := r.db.WithContext(ctx).First(&bt, id).Error
	if err != nil {
		return nil, err
	}
	return &bt, nil
}

func applyBankFilter(db *gorm.DB, filter BankFilter) *gorm.DB {
	if filter.AccountNumber != "" {
		db = db.Where("account_number = ?", filter.AccountNumber)
	}
	if filter.Reconciled != nil {
		db = db.Where("is_reconciled = ?", *filter.Reconciled)
	}
	return dateRange(db, "transaction_date", filter.From, filter.To)
}

// List lists bank transactions with pagination, newest first
func (r *BankRepository) List(ctx context.Context, filter BankFilter, offset, limit int) ([]*models.BankTransaction, int64, error) {
	var list []*models.BankTransaction
	var total int64

	if err := applyBankFilter(r.db.WithContext(ctx).Model(&models.BankTransaction{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyBankFilter(r.db.WithContext(ctx), filter).
		Order("transaction_date DESC, bank_transaction_id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update saves every column of the bank transaction
func (r *BankRepository) Update(ctx context.Context, bt *models.BankTransaction) error {
	return r.db.WithContext(ctx).Save(bt).Error
}

// Summary computes the book position of an account
func (r *BankRepository) Summary(ctx context.Context, accountNumber string) (*models.BankSummary, error) {
	var row struct {
		Credits           decimal.Decimal
		Debits            decimal.Decimal
		ReconciledCredits decimal.Decimal
		ReconciledDebits  decimal.Decimal
		Unreconciled      int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.BankTransaction{}).
		Select(`COALESCE(SUM(CASE WHEN transaction_type IN ('Deposit', 'Interest') THEN amount ELSE 0 END), 0) AS credits,
			COALESCE(SUM(CASE WHEN transaction_type IN ('Withdrawal', 'Charge') THEN amount ELSE 0 END), 0) AS debits,
			COALESCE(SUM(CASE WHEN is_reconciled = ? AND transaction_type IN ('Deposit', 'Interest') THEN amount ELSE 0 END), 0) AS reconciled_credits,
			COALESCE(SUM(CASE WHEN is_reconciled = ? AND transaction_type IN ('Withdrawal', 'Charge') THEN amount ELSE 0 END), 0) AS reconciled_debits,
			COALESCE(SUM(CASE WHEN is_reconciled = ? THEN 0 ELSE 1 END), 0) AS unreconciled`, true, true, true).
		Where("account_number = ?", accountNumber).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &models.BankSummary{
		AccountNumber:     accountNumber,
		TotalCredits:      row.Credits,
		TotalDebits:       row.Debits,
		BookBalance:       row.Credits.Sub(row.Debits),
		ReconciledBalance: row.ReconciledCredits.Sub(row.ReconciledDebits),
		UnreconciledCount: row.Unreconciled,
	}, nil
}
