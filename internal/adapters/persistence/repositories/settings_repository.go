package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SettingRepository handles system_settings data access
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get gets one setting by key
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	var s models.SystemSetting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List lists every setting ordered by key
func (r *SettingRepository) List(ctx context.Context) ([]*models.SystemSetting, error) {
	var settings []*models.SystemSetting
	err := r.db.WithContext(ctx).Order("setting_key ASC").Find(&settings).Error
	return settings, err
}

// Set updates a setting value, creating the row when missing
func (r *SettingRepository) Set(ctx context.Context, key, value, modifiedBy string) error {
	res := r.db.WithContext(ctx).
		Model(&models.SystemSetting{}).
		Where("setting_key = ?", key).
		Updates(map[string]interface{}{
			"setting_value": value,
			"modified_by":   modifiedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.SystemSetting{
		SettingKey:   key,
		SettingValue: value,
		ModifiedBy:   modifiedBy,
	}).Error
}

// NextCounter returns the current value of a numeric counter setting and
// stores value+1. Call it inside a transaction so the number is not reused.
func (r *SettingRepository) NextCounter(ctx context.Context, key string) (int64, error) {
	var s models.SystemSetting
	err := forUpdate(r.db.WithContext(ctx)).Where("setting_key = ?", key).First(&s).Error
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s.SettingValue), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not a number: %w", key, err)
	}

	err = r.db.WithContext(ctx).
		Model(&models.SystemSetting{}).
		Where("setting_key = ?", key).
		Update("setting_value", strconv.FormatInt(n+1, 10)).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
