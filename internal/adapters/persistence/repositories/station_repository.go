package repositories

import (
	"context"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StationRepository handles station data access
type StationRepository struct {
	db *gorm.DB
}

// NewStationRepository creates a new station repository
func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create creates a new station
func (r *StationRepository) Create(ctx context.Context, station *models.Station) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(station).Error
}

// GetByID gets a station by its ID
func (r *StationRepository) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	var station models.Station
	err := r.db.WithContext(ctx).Where("station_id = ?", stationID).First(&station).Error
	if err != nil {
		return nil, err
	}
	return &station, nil
}

// ExistsByID checks if a station ID is taken
func (r *StationRepository) ExistsByID(ctx context.Context, stationID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Station{}).Where("station_id = ?", stationID).Count(&count).Error
	return count > 0, err
}

// List lists stations ordered by ID
func (r *StationRepository) List(ctx context.Context, enabledOnly bool) ([]*models.Station, error) {
	var stations []*models.Station
	db := r.db.WithContext(ctx)
	if enabledOnly {
		db = db.Where("enabled = ?", true)
	}
	err := db.Order("station_id ASC").Find(&stations).Error
	return stations, err
}

// Update saves every column of the station
func (r *StationRepository) Update(ctx context.Context, station *models.Station) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(station).Error
}

// SetEnabled flips the enabled flag; stations are never deleted
func (r *StationRepository) SetEnabled(ctx context.Context, stationID string, enabled bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Station{}).
		Where("station_id = ?", stationID).
		Update("enabled", enabled).Error
}

// Stats aggregates members, savings and loans of a station
func (r *StationRepository) Stats(ctx context.Context, stationID string) (*models.StationStats, error) {
	stats := &models.StationStats{StationID: stationID}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Member{}).
		Where("station_id = ?", stationID).
		Count(&stats.TotalMembers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Member{}).
		Where("station_id = ? AND is_active = ? AND is_deceased = ?", stationID, true, false).
		Count(&stats.ActiveMembers).Error; err != nil {
		return nil, err
	}

	var savings sumRow
	if err := db.Model(&models.SavingsAccount{}).
		Select("COALESCE(SUM(savings_accounts.current_balance), 0) AS total").
		Joins("JOIN members ON members.member_id = savings_accounts.member_id").
		Where("members.station_id = ? AND savings_accounts.is_active = ?", stationID, true).
		Scan(&savings).Error; err != nil {
		return nil, err
	}
	stats.TotalSavings = savings.Total

	var loans sumRow
	if err := db.Model(&models.Loan{}).
		Select("COUNT(*) AS count, COALESCE(SUM(loans.balance_outstanding), 0) AS total").
		Joins("JOIN members ON members.member_id = loans.member_id").
		Where("members.station_id = ? AND loans.status = ?", stationID, string(domain.LoanActive)).
		Scan(&loans).Error; err != nil {
		return nil, err
	}
	stats.ActiveLoans = loans.Count
	stats.LoanOutstanding = loans.Total

	return stats, nil
}

// sumRow receives a COUNT/SUM aggregate
type sumRow struct {
	Count int64
	Total decimal.Decimal
}
