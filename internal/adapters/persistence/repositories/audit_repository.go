package repositories

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// AuditRepository handles audit and activity log data access
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAudit appends an audit row
func (r *AuditRepository) CreateAudit(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateActivity appends an activity row
func (r *AuditRepository) CreateActivity(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func applyAuditFilter(db *gorm.DB, filter AuditFilter) *gorm.DB {
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		db = db.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	return dateRange(db, "created_date", filter.From, filter.To)
}

// ListAudit lists audit rows, newest first
func (r *AuditRepository) ListAudit(ctx context.Context, filter AuditFilter, offset, limit int) ([]*models.AuditLog, int64, error) {
	var list []*models.AuditLog
	var total int64

	if err := applyAuditFilter(r.db.WithContext(ctx).Model(&models.AuditLog{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := applyAuditFilter(r.db.WithContext(ctx), filter).
		Order("audit_id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActivity lists activity rows, newest first
func (r *AuditRepository) ListActivity(ctx context.Context, filter AuditFilter, offset, limit int) ([]*models.ActivityLog, int64, error) {
	var list []*models.ActivityLog
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		db = db.Where("activity = ?", filter.Action)
	}
	db = dateRange(db, "created_date", filter.From, filter.To)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("activity_id DESC").Offset(offset).Limit(limit).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
