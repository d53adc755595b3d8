package repositories

import (
	"context"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

// GetByID gets a member with its station
func (r *memberRepository) GetByID(ctx context.Context, memberID string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Preload("Station").
		Where("member_id = ?", memberID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update saves every column of the member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(member).Error
}

func applyMemberFilter(db *gorm.DB, filter MemberFilter) *gorm.DB {
	if filter.StationID != "" {
		db = db.Where("station_id = ?", filter.StationID)
	}
	if filter.ActiveOnly {
		db = db.Where("is_active = ? AND is_deceased = ?", true, false)
	}
	switch domain.MemberStatus(filter.Status) {
	case domain.MemberActive:
		db = db.Where("is_active = ? AND is_deceased = ?", true, false)
	case domain.MemberInactive:
		db = db.Where("is_active = ? AND is_deceased = ?", false, false)
	case domain.MemberDeceased:
		db = db.Where("is_deceased = ?", true)
	}
	return db
}

// List lists members with pagination, ordered by member ID
func (r *memberRepository) List(ctx context.Context, filter MemberFilter, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	query := applyMemberFilter(r.db.WithContext(ctx).Model(&models.Member{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyMemberFilter(r.db.WithContext(ctx), filter).
		Preload("Station").
		Order("member_id ASC").
		Offset(offset).Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// Search matches member ID, registration number, any name part or the
// "first last" full name, case-insensitively
func (r *memberRepository) Search(ctx context.Context, query string, limit int) ([]*models.Member, error) {
	var members []*models.Member
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	fullName := "first_name || ' ' || last_name"
	if r.db.Dialector.Name() == "mysql" {
		fullName = "CONCAT(first_name, ' ', last_name)"
	}

	err := r.db.WithContext(ctx).
		Preload("Station").
		Where("LOWER(member_id) LIKE ? OR LOWER(registration_number) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(middle_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER("+fullName+") LIKE ?",
			like, like, like, like, like, like).
		Order("last_name ASC, first_name ASC").
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ExistsByRegistrationNumber checks if a registration number is taken
func (r *memberRepository) ExistsByRegistrationNumber(ctx context.Context, regNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("registration_number = ?", regNo).Count(&count).Error
	return count > 0, err
}

// ListChargeable returns every active, living member except one
func (r *memberRepository) ListChargeable(ctx context.Context, excludeMemberID string) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_deceased = ? AND member_id <> ?", true, false, excludeMemberID).
		Order("member_id ASC").
		Find(&members).Error
	return members, err
}

// CountByStatus counts members per lifecycle status
func (r *memberRepository) CountByStatus(ctx context.Context) (*MemberCounts, error) {
	counts := &MemberCounts{}
	db := r.db.WithContext(ctx).Model(&models.Member{})

	if err := db.Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("is_active = ? AND is_deceased = ?", true, false).
		Count(&counts.Active).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("is_deceased = ?", true).
		Count(&counts.Deceased).Error; err != nil {
		return nil, err
	}
	counts.Inactive = counts.Total - counts.Active - counts.Deceased
	return counts, nil
}

// Summary reads one row of vw_member_summary
func (r *memberRepository) Summary(ctx context.Context, memberID string) (*models.MemberSummary, error) {
	var row models.MemberSummary
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListSummaries pages through vw_member_summary
func (r *memberRepository) ListSummaries(ctx context.Context, filter MemberFilter, offset, limit int) ([]*models.MemberSummary, int64, error) {
	var rows []*models.MemberSummary
	var total int64

	if err := applyMemberFilter(r.db.WithContext(ctx).Model(&models.MemberSummary{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyMemberFilter(r.db.WithContext(ctx), filter).
		Order("member_id ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
