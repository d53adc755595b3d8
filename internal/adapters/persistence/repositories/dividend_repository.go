package repositories

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DividendRepository handles dividend data access
type DividendRepository struct {
	db *gorm.DB
}

// NewDividendRepository creates a new dividend repository
func NewDividendRepository(db *gorm.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// Create creates a dividend declaration
func (r *DividendRepository) Create(ctx context.Context, d *models.Dividend) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

// GetByIDForUpdate gets a dividend and locks its row
func (r *DividendRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Dividend, error) {
	var d models.Dividend
	err := forUpdate(r.db.WithContext(ctx)).First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID gets a dividend
func (r *DividendRepository) GetByID(ctx context.Context, id uint) (*models.Dividend, error) {
	var d models.Dividend
	err := r.db.WithContext(ctx).First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ExistsForYear checks the one-dividend-per-member-per-year rule
func (r *DividendRepository) ExistsForYear(ctx context.Context, memberID string, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Dividend{}).
		Where("member_id = ? AND financial_year = ?", memberID, year).
		Count(&count).Error
	return count > 0, err
}

// List lists dividends of a year, optionally by status and member
func (r *DividendRepository) List(ctx context.Context, year int, status, memberID string) ([]*models.Dividend, error) {
	var dividends []*models.Dividend
	db := r.db.WithContext(ctx)
	if year != 0 {
		db = db.Where("financial_year = ?", year)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if memberID != "" {
		db = db.Where("member_id = ?", memberID)
	}
	err := db.Order("financial_year DESC, member_id ASC").Find(&dividends).Error
	return dividends, err
}

// Update saves every column of the dividend
func (r *DividendRepository) Update(ctx context.Context, d *models.Dividend) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error
}
