package repositories

import (
	"context"
	"time"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoanRepository handles loan and repayment data access
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create creates a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(loan).Error
}

// GetByID gets a loan with member and loan type
func (r *LoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("LoanType").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByIDForUpdate gets a loan and locks its row for the transaction
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := forUpdate(r.db.WithContext(ctx)).First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByNumber gets a loan by its loan number
func (r *LoanRepository) GetByNumber(ctx context.Context, loanNumber string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("LoanType").
		Where("loan_number = ?", loanNumber).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// CountByMember counts every loan a member ever had
func (r *LoanRepository) CountByMember(ctx context.Context, memberID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Where("member_id = ?", memberID).Count(&count).Error
	return count, err
}

// ListByMember lists a member's loans, newest first
func (r *LoanRepository) ListByMember(ctx context.Context, memberID string, activeOnly bool) ([]*models.Loan, error) {
	var loans []*models.Loan
	db := r.db.WithContext(ctx).Preload("LoanType").Where("member_id = ?", memberID)
	if activeOnly {
		db = db.Where("status IN ?", []string{string(domain.LoanActive), string(domain.LoanDefaulted)})
	}
	err := db.Order("loan_id DESC").Find(&loans).Error
	return loans, err
}

func applyLoanFilter(db *gorm.DB, filter LoanFilter) *gorm.DB {
	if filter.MemberID != "" {
		db = db.Where("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.LoanTypeID != 0 {
		db = db.Where("loan_type_id = ?", filter.LoanTypeID)
	}
	return db
}

// List lists loans with pagination, newest first
func (r *LoanRepository) List(ctx context.Context, filter LoanFilter, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	if err := applyLoanFilter(r.db.WithContext(ctx).Model(&models.Loan{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyLoanFilter(r.db.WithContext(ctx), filter).
		Preload("Member").
		Preload("LoanType").
		Order("loan_id DESC").
		Offset(offset).Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

// ListOverdue lists Active loans whose end date passed with money still owed
func (r *LoanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ? AND balance_outstanding > 0", string(domain.LoanActive), asOf).
		Order("loan_id ASC").
		Find(&loans).Error
	return loans, err
}

// Update saves every column of the loan
func (r *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(loan).Error
}

// CreateRepayment inserts a repayment row; rows are never updated afterwards
func (r *LoanRepository) CreateRepayment(ctx context.Context, repayment *models.LoanRepayment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(repayment).Error
}

// ListRepayments lists a loan's repayments in posting order
func (r *LoanRepository) ListRepayments(ctx context.Context, loanID uint) ([]*models.LoanRepayment, error) {
	var repayments []*models.LoanRepayment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("repayment_id ASC").
		Find(&repayments).Error
	return repayments, err
}
