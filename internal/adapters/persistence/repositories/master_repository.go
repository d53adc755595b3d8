package repositories

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SavingsTypeRepository handles savings type data access
type SavingsTypeRepository struct {
	db *gorm.DB
}

// NewSavingsTypeRepository creates a new savings type repository
func NewSavingsTypeRepository(db *gorm.DB) *SavingsTypeRepository {
	return &SavingsTypeRepository{db: db}
}

// Create creates a new savings type
func (r *SavingsTypeRepository) Create(ctx context.Context, st *models.SavingsType) error {
	return r.db.WithContext(ctx).Create(st).Error
}

// GetByID gets a savings type by ID
func (r *SavingsTypeRepository) GetByID(ctx context.Context, id uint) (*models.SavingsType, error) {
	var st models.SavingsType
	err := r.db.WithContext(ctx).First(&st, id).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// GetByCode gets a savings type by code
func (r *SavingsTypeRepository) GetByCode(ctx context.Context, code string) (*models.SavingsType, error) {
	var st models.SavingsType
	err := r.db.WithContext(ctx).Where("type_code = ?", code).First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// List lists savings types, optionally only the active ones
func (r *SavingsTypeRepository) List(ctx context.Context, activeOnly bool) ([]*models.SavingsType, error) {
	var types []*models.SavingsType
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("savings_type_id ASC").Find(&types).Error
	return types, err
}

// ExistsByCode checks if a type code is taken
func (r *SavingsTypeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SavingsType{}).Where("type_code = ?", code).Count(&count).Error
	return count > 0, err
}

// Update updates a savings type
func (r *SavingsTypeRepository) Update(ctx context.Context, st *models.SavingsType) error {
	return r.db.WithContext(ctx).Save(st).Error
}

// SetActive flips the active flag; types are never deleted
func (r *SavingsTypeRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.SavingsType{}).
		Where("savings_type_id = ?", id).
		Update("is_active", active).Error
}

// LoanTypeRepository handles loan type data access
type LoanTypeRepository struct {
	db *gorm.DB
}

// NewLoanTypeRepository creates a new loan type repository
func NewLoanTypeRepository(db *gorm.DB) *LoanTypeRepository {
	return &LoanTypeRepository{db: db}
}

// Create creates a new loan type
func (r *LoanTypeRepository) Create(ctx context.Context, lt *models.LoanType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

// GetByID gets a loan type by ID
func (r *LoanTypeRepository) GetByID(ctx context.Context, id uint) (*models.LoanType, error) {
	var lt models.LoanType
	err := r.db.WithContext(ctx).First(&lt, id).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

// GetByCode gets a loan type by code
func (r *LoanTypeRepository) GetByCode(ctx context.Context, code string) (*models.LoanType, error) {
	var lt models.LoanType
	err := r.db.WithContext(ctx).Where("type_code = ?", code).First(&lt).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

// List lists loan types, optionally only the active ones
func (r *LoanTypeRepository) List(ctx context.Context, activeOnly bool) ([]*models.LoanType, error) {
	var types []*models.LoanType
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("loan_type_id ASC").Find(&types).Error
	return types, err
}

// ExistsByCode checks if a type code is taken
func (r *LoanTypeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanType{}).Where("type_code = ?", code).Count(&count).Error
	return count > 0, err
}

// Update updates a loan type
func (r *LoanTypeRepository) Update(ctx context.Context, lt *models.LoanType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

// SetActive flips the active flag; types are never deleted
func (r *LoanTypeRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.LoanType{}).
		Where("loan_type_id = ?", id).
		Update("is_active", active).Error
}
