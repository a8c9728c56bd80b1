package telemetry

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// LoadFlight returns the flight row for flightID
func LoadFlight(ctx context.Context, db *gorm.DB, flightID string) (*Flight, error) {
	var f Flight
	if err := db.WithContext(ctx).Where("flight_id = ?", flightID).First(&f).Error; err != nil {
		return nil, fmt.Errorf("failed to load flight %s: %w", flightID, err)
	}
	return &f, nil
}

// Samples returns the samples of one stage in tick order
func Samples(ctx context.Context, db *gorm.DB, flightID, stage string) ([]Sample, error) {
	var out []Sample
	err := db.WithContext(ctx).
		Where("flight_id = ? AND stage = ?", flightID, stage).
		Order("tick").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	return out, nil
}

// Events returns the recorded events in publication order
func Events(ctx context.Context, db *gorm.DB, flightID string) ([]EventRecord, error) {
	var out []EventRecord
	err := db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return out, nil
}
