package repositories

import (
	"context"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionRepository handles general ledger data access
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger row
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(txn).Error
}

func applyTransactionFilter(db *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.MemberID != "" {
		db = db.Where("member_id = ?", filter.MemberID)
	}
	if filter.StationID != "" {
		db = db.Where("station_id = ?", filter.StationID)
	}
	if filter.TransactionType != "" {
		db = db.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.AccountType != "" {
		db = db.Where("account_type = ?", filter.AccountType)
	}
	return dateRange(db, "transaction_date", filter.From, filter.To)
}

// List lists ledger rows with pagination, newest first
func (r *TransactionRepository) List(ctx context.Context, filter TransactionFilter, offset, limit int) ([]*models.Transaction, int64, error) {
	var txns []*models.Transaction
	var total int64

	if err := applyTransactionFilter(r.db.WithContext(ctx).Model(&models.Transaction{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyTransactionFilter(r.db.WithContext(ctx), filter).
		Order("transaction_date DESC, transaction_id DESC").
		Offset(offset).Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListChronological returns every row matching filter, oldest first
func (r *TransactionRepository) ListChronological(ctx context.Context, filter TransactionFilter) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := applyTransactionFilter(r.db.WithContext(ctx), filter).
		Order("transaction_date ASC, transaction_id ASC").
		Find(&txns).Error
	return txns, err
}

// NetBefore returns credits minus debits of a member before a moment.
// An empty accountType covers every account.
func (r *TransactionRepository) NetBefore(ctx context.Context, memberID, accountType string, before time.Time) (decimal.Decimal, error) {
	var row struct {
		Credits decimal.Decimal
		Debits  decimal.Decimal
	}
	db := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN is_credit = ? THEN amount ELSE 0 END), 0) AS credits, COALESCE(SUM(CASE WHEN is_credit = ? THEN 0 ELSE amount END), 0) AS debits", true, true).
		Where("member_id = ? AND transaction_date < ?", memberID, before)
	if accountType != "" {
		db = db.Where("account_type = ?", accountType)
	}
	err := db.Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Credits.Sub(row.Debits), nil
}

// SumByType totals amounts of the given transaction types within a window
func (r *TransactionRepository) SumByType(ctx context.Context, txnType string, from, to time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("transaction_type = ? AND transaction_date >= ? AND transaction_date < ?", txnType, from, to).
		Scan(&row).Error
	return row.Total, err
}

// ExistsForAccount reports whether an account already has a posting of
// txnType within [from, to)
func (r *TransactionRepository) ExistsForAccount(ctx context.Context, txnType, accountType string, accountID uint, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("transaction_type = ? AND account_type = ? AND account_id = ?", txnType, accountType, accountID).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Count(&count).Error
	return count > 0, err
}
