package repositories

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavingsTypeTotal is the balance held in one savings type
type SavingsTypeTotal struct {
	TypeCode string          `json:"type_code"`
	TypeName string          `json:"type_name"`
	Accounts int64           `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}

// SavingsAccountRepository handles savings account data access
type SavingsAccountRepository struct {
	db *gorm.DB
}

// NewSavingsAccountRepository creates a new savings account repository
func NewSavingsAccountRepository(db *gorm.DB) *SavingsAccountRepository {
	return &SavingsAccountRepository{db: db}
}

// Create creates a new savings account
func (r *SavingsAccountRepository) Create(ctx context.Context, account *models.SavingsAccount) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(account).Error
}

// GetByID gets an account with its savings type
func (r *SavingsAccountRepository) GetByID(ctx context.Context, id uint) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := r.db.WithContext(ctx).Preload("SavingsType").First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByIDForUpdate gets an account and locks its row for the transaction
func (r *SavingsAccountRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := forUpdate(r.db.WithContext(ctx)).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByMemberAndCode gets a member's account of the given savings type code
func (r *SavingsAccountRepository) GetByMemberAndCode(ctx context.Context, memberID, code string) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := r.db.WithContext(ctx).
		Joins("JOIN savings_types ON savings_types.savings_type_id = savings_accounts.savings_type_id").
		Where("savings_accounts.member_id = ? AND savings_types.type_code = ?", memberID, code).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByMemberAndType gets a member's account of the given savings type
func (r *SavingsAccountRepository) GetByMemberAndType(ctx context.Context, memberID string, typeID uint) (*models.SavingsAccount, error) {
	var account models.SavingsAccount
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND savings_type_id = ?", memberID, typeID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListByMember lists a member's accounts with their types
func (r *SavingsAccountRepository) ListByMember(ctx context.Context, memberID string, activeOnly bool) ([]*models.SavingsAccount, error) {
	var accounts []*models.SavingsAccount
	db := r.db.WithContext(ctx).Preload("SavingsType").Where("member_id = ?", memberID)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("account_id ASC").Find(&accounts).Error
	return accounts, err
}

// ListInterestBearing lists active accounts whose type has a positive rate
func (r *SavingsAccountRepository) ListInterestBearing(ctx context.Context) ([]*models.SavingsAccount, error) {
	var accounts []*models.SavingsAccount
	err := r.db.WithContext(ctx).
		Preload("SavingsType").
		Joins("JOIN savings_types ON savings_types.savings_type_id = savings_accounts.savings_type_id").
		Where("savings_accounts.is_active = ? AND savings_types.is_active = ? AND savings_types.interest_rate > 0", true, true).
		Order("savings_accounts.account_id ASC").
		Find(&accounts).Error
	return accounts, err
}

// Update saves every column of the account
func (r *SavingsAccountRepository) Update(ctx context.Context, account *models.SavingsAccount) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(account).Error
}

// TotalsByType sums active balances per savings type
func (r *SavingsAccountRepository) TotalsByType(ctx context.Context) ([]*SavingsTypeTotal, error) {
	var totals []*SavingsTypeTotal
	err := r.db.WithContext(ctx).
		Table("savings_types").
		Select("savings_types.type_code, savings_types.type_name, COUNT(savings_accounts.account_id) AS accounts, COALESCE(SUM(savings_accounts.current_balance), 0) AS total").
		Joins("LEFT JOIN savings_accounts ON savings_accounts.savings_type_id = savings_types.savings_type_id AND savings_accounts.is_active = ?", true).
		Group("savings_types.savings_type_id, savings_types.type_code, savings_types.type_name").
		Order("savings_types.savings_type_id ASC").
		Scan(&totals).Error
	return totals, err
}
