// FilePath: internal/hubservice/hubservice.readings.go
package hubservice

import (
	"context"
	"time"

	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingService handles sensor reading queries for the API layer
type ReadingService interface {
	ListSensors(ctx context.Context) ([]*models.Sensor, error)
	CreateSensor(ctx context.Context, sensor *models.Sensor) error
	LatestReading(ctx context.Context, sensorID int64, dataType models.DataType) (*models.SensorDataPoint, error)
	ReadingsOverTime(ctx context.Context, dataType models.DataType, start, end time.Time) ([]models.SensorDataPoint, error)
	LocationStatus(ctx context.Context, location string) (*models.LocationStatus, error)
}

// ListSensors returns the full provisioned sensor directory
func (s *HubService) ListSensors(ctx context.Context) ([]*models.Sensor, error) {
	return s.Sensors.List(ctx)
}

// CreateSensor provisions a new sensor record
func (s *HubService) CreateSensor(ctx context.Context, sensor *models.Sensor) error {
	if sensor.Type == "" {
		return errors.NewValidationError("sensor type is required", nil)
	}
	if sensor.Location == "" {
		return errors.NewValidationError("sensor location is required", nil)
	}
	sensor.CreatedAt = time.Now().UTC()

	nuts.L.Infof("[HubService] Provisioning sensor %q at %s", sensor.Type, sensor.Location)
	return s.Sensors.Create(ctx, sensor)
}

// DeleteSensor decommissions a sensor including its stored observations
func (s *HubService) DeleteSensor(ctx context.Context, sensorID int64) error {
	return s.Cleanup.DeleteSensor(ctx, sensorID)
}

// LatestReading returns the most recent data point for a sensor and reading
// category. The cache is consulted first; store hits are written back so the
// next read is served from Redis.
func (s *HubService) LatestReading(ctx context.Context, sensorID int64, dataType models.DataType) (*models.SensorDataPoint, error) {
	if !dataType.Valid() {
		return nil, errors.NewValidationError("unknown data type: "+string(dataType), nil)
	}

	if s.Cache != nil {
		if point, ok := s.Cache.GetLatest(ctx, sensorID, dataType); ok {
			return point, nil
		}
	}

	point, err := s.SensorData.GetLatest(ctx, sensorID, dataType)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.SetLatest(ctx, point)
	}
	return point, nil
}

// ReadingsOverTime returns the sampled report series for a reading category
// over a time window
func (s *HubService) ReadingsOverTime(ctx context.Context, dataType models.DataType, start, end time.Time) ([]models.SensorDataPoint, error) {
	if !dataType.Valid() {
		return nil, errors.NewValidationError("unknown data type: "+string(dataType), nil)
	}
	if !end.After(start) {
		return nil, errors.NewValidationError("end must be after start", nil)
	}
	return s.SensorData.FetchDataOverTime(ctx, dataType, start, end)
}

// LocationStatus gathers the latest reading of every category for all sensors
// at a location. Missing readings leave gaps rather than failing the whole
// status.
func (s *HubService) LocationStatus(ctx context.Context, location string) (*models.LocationStatus, error) {
	if !s.KnownLocation(location) {
		return nil, errors.NewNotFoundError("unknown location: "+location, nil)
	}

	sensors, err := s.Sensors.List(ctx)
	if err != nil {
		return nil, err
	}

	status := &models.LocationStatus{
		Location: location,
		Readings: make(map[models.DataType]*models.SensorDataPoint),
	}
	for _, sensor := range sensors {
		if sensor.Location != location {
			continue
		}
		for _, dt := range []models.DataType{models.Temperature, models.Humidity, models.FanStatus} {
			if _, seen := status.Readings[dt]; seen {
				continue
			}
			point, err := s.LatestReading(ctx, sensor.ID, dt)
			if err != nil {
				if !errors.IsNotFound(err) {
					nuts.L.Warnf("[HubService] Failed to read latest %s for sensor %d: %v", dt, sensor.ID, err)
				}
				continue
			}
			status.Readings[dt] = point
			if point.CreatedAt.After(status.UpdatedAt) {
				status.UpdatedAt = point.CreatedAt
			}
		}
	}
	return status, nil
}
