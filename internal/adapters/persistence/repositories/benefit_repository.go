package repositories

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BenefitRepository handles withdrawal and death benefit data access
type BenefitRepository struct {
	db *gorm.DB
}

// NewBenefitRepository creates a new benefit repository
func NewBenefitRepository(db *gorm.DB) *BenefitRepository {
	return &BenefitRepository{db: db}
}

// CreateWithdrawal records a processed withdrawal benefit
func (r *BenefitRepository) CreateWithdrawal(ctx context.Context, wb *models.WithdrawalBenefit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(wb).Error
}

// GetWithdrawal gets a withdrawal benefit
func (r *BenefitRepository) GetWithdrawal(ctx context.Context, id uint) (*models.WithdrawalBenefit, error) {
	var wb models.WithdrawalBenefit
	err := r.db.WithContext(ctx).First(&wb, id).Error
	if err != nil {
		return nil, err
	}
	return &wb, nil
}

// ListWithdrawals lists withdrawal benefits, newest first
func (r *BenefitRepository) ListWithdrawals(ctx context.Context, memberID string) ([]*models.WithdrawalBenefit, error) {
	var list []*models.WithdrawalBenefit
	db := r.db.WithContext(ctx)
	if memberID != "" {
		db = db.Where("member_id = ?", memberID)
	}
	err := db.Order("withdrawal_id DESC").Find(&list).Error
	return list, err
}

// ExistsWithdrawalForMember checks whether a member already left
func (r *BenefitRepository) ExistsWithdrawalForMember(ctx context.Context, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WithdrawalBenefit{}).Where("member_id = ?", memberID).Count(&count).Error
	return count > 0, err
}

// CreateDeath creates the death benefit header
func (r *BenefitRepository) CreateDeath(ctx context.Context, benefit *models.DeathBenefit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(benefit).Error
}

// UpdateDeath saves every column of the death benefit header
func (r *BenefitRepository) UpdateDeath(ctx context.Context, benefit *models.DeathBenefit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(benefit).Error
}

// CreateCharge records the charge levied on one member
func (r *BenefitRepository) CreateCharge(ctx context.Context, charge *models.DeathBenefitCharge) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(charge).Error
}

// GetDeath gets a death benefit with its charges
func (r *BenefitRepository) GetDeath(ctx context.Context, id uint) (*models.DeathBenefit, error) {
	var benefit models.DeathBenefit
	err := r.db.WithContext(ctx).
		Preload("Charges", func(tx *gorm.DB) *gorm.DB { return tx.Order("charge_id ASC") }).
		First(&benefit, id).Error
	if err != nil {
		return nil, err
	}
	return &benefit, nil
}

// ExistsDeathForMember checks whether a deceased member was already processed
func (r *BenefitRepository) ExistsDeathForMember(ctx context.Context, memberID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DeathBenefit{}).Where("deceased_member_id = ?", memberID).Count(&count).Error
	return count > 0, err
}

// ListDeaths lists death benefit headers, newest first
func (r *BenefitRepository) ListDeaths(ctx context.Context, status string) ([]*models.DeathBenefit, error) {
	var list []*models.DeathBenefit
	db := r.db.WithContext(ctx)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("death_benefit_id DESC").Find(&list).Error
	return list, err
}

// ListChargesByMember lists the death benefit charges levied on a member
func (r *BenefitRepository) ListChargesByMember(ctx context.Context, memberID, status string) ([]*models.DeathBenefitCharge, error) {
	var list []*models.DeathBenefitCharge
	db := r.db.WithContext(ctx).Where("member_id = ?", memberID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("charge_id ASC").Find(&list).Error
	return list, err
}
