// FilePath: internal/cleanup/cleanup.go

// Package cleanup coordinates sensor decommissioning and data retention
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/connectedsmarties/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// CleanupService removes sensors together with their observations and prunes
// aged data points
type CleanupService struct {
	sensors    repository.SensorRepository
	sensorData repository.SensorDataRepository
	events     *nuts.EventEmitter
}

// New creates a new CleanupService
func New(sensors repository.SensorRepository, sensorData repository.SensorDataRepository) *CleanupService {
	return &CleanupService{
		sensors:    sensors,
		sensorData: sensorData,
		events:     nuts.NewEventEmitter(),
	}
}

// DeleteSensor decommissions a sensor and all its observations. The whole
// cascade runs in one transaction: data points and the directory record go
// together or not at all.
func (s *CleanupService) DeleteSensor(ctx context.Context, sensorID int64) error {
	// The sensor must exist before anything is touched
	if _, err := s.sensors.Get(ctx, sensorID); err != nil {
		return err
	}

	tx, err := s.sensors.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	if err := s.sensorData.DeleteBySensorID(ctx, tx, sensorID); err != nil {
		return fmt.Errorf("failed to delete sensor data: %w", err)
	}
	if err := s.sensors.Delete(ctx, tx, sensorID); err != nil {
		return fmt.Errorf("failed to delete sensor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.events.Emit("sensor.deleted", sensorID)
	nuts.L.Infof("[Cleanup] Decommissioned sensor %d", sensorID)
	return nil
}

// PruneBefore deletes observations older than the cutoff and returns how
// many were removed
func (s *CleanupService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.sensorData.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.events.Emit("data.pruned", n)
		nuts.L.Infof("[Cleanup] Pruned %d data points older than %s", n, cutoff.Format(time.RFC3339))
	}
	return n, nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id int64)) {
	s.events.On(event, "cleanup_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(int64); ok {
				handler(id)
			}
		}
	})
}
