package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
)

// Station errors
var (
	ErrStationNotFound = domain.NewError(domain.ErrNotFound, "station not found")
	ErrStationExists   = domain.NewError(domain.ErrDuplicateEntry, "station already exists")
	ErrStationDisabled = domain.NewError(domain.ErrRuleViolation, "station is disabled")
	ErrStationCity     = domain.NewError(domain.ErrInvalidInput, "city is required")
)

// StationService manages stations
type StationService struct {
	store *repositories.Store
}

// NewStationService creates a new station service
func NewStationService(store *repositories.Store) *StationService {
	return &StationService{store: store}
}

// StationInput is used for create and update
type StationInput struct {
	City        string `json:"city" validate:"required"`
	StationName string `json:"station_name"`
	Address     string `json:"address"`
}

// Create registers a station numbered from next_station_number
func (s *StationService) Create(ctx context.Context, actor Actor, input *StationInput) (*models.Station, error) {
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, ErrStationCity
	}
	name := strings.TrimSpace(input.StationName)
	if name == "" {
		name = "NFC - " + city
	}

	station := &models.Station{
		StationName: name,
		Address:     strings.TrimSpace(input.Address),
		City:        city,
		Enabled:     true,
	}

	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		n, err := tx.Settings.NextCounter(ctx, domain.SettingNextStationNumber)
		if err != nil {
			return err
		}
		station.StationID = fmt.Sprintf("%02d", n)

		if err := tx.Stations.Create(ctx, station); err != nil {
			return duplicate(err, ErrStationExists)
		}
		return audit(ctx, tx, actor, models.AuditCreate, "stations", station.StationID, nil, station)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Station created: %s (%s)", station.StationID, station.StationName)
	return station, nil
}

// Update changes the station's name, city or address
func (s *StationService) Update(ctx context.Context, actor Actor, stationID string, input *StationInput) (*models.Station, error) {
	var station *models.Station
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		var err error
		station, err = tx.Stations.GetByID(ctx, stationID)
		if err != nil {
			return notFound(err, ErrStationNotFound)
		}
		before := *station

		if city := strings.TrimSpace(input.City); city != "" {
			station.City = city
		}
		if name := strings.TrimSpace(input.StationName); name != "" {
			station.StationName = name
		}
		if input.Address != "" {
			station.Address = strings.TrimSpace(input.Address)
		}

		if err := tx.Stations.Update(ctx, station); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditUpdate, "stations", stationID, before, station)
	})
	if err != nil {
		return nil, err
	}
	return station, nil
}

// SetEnabled enables or disables a station
func (s *StationService) SetEnabled(ctx context.Context, actor Actor, stationID string, enabled bool) error {
	return s.store.WithTx(ctx, func(tx *repositories.Store) error {
		station, err := tx.Stations.GetByID(ctx, stationID)
		if err != nil {
			return notFound(err, ErrStationNotFound)
		}
		if station.Enabled == enabled {
			return nil
		}
		if err := tx.Stations.SetEnabled(ctx, stationID, enabled); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditStatusChange, "stations", stationID,
			map[string]bool{"enabled": station.Enabled}, map[string]bool{"enabled": enabled})
	})
}

// Get returns one station
func (s *StationService) Get(ctx context.Context, stationID string) (*models.Station, error) {
	station, err := s.store.Stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, notFound(err, ErrStationNotFound)
	}
	return station, nil
}

// List returns stations ordered by ID
func (s *StationService) List(ctx context.Context, enabledOnly bool) ([]*models.Station, error) {
	return s.store.Stations.List(ctx, enabledOnly)
}

// Stats returns membership and balance totals for a station
func (s *StationService) Stats(ctx context.Context, stationID string) (*models.StationStats, error) {
	exists, err := s.store.Stations.ExistsByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStationNotFound
	}
	return s.store.Stations.Stats(ctx, stationID)
}
