// FilePath: internal/hubservice/hubservice.go

// Package hubservice aggregates the repositories, the reading cache, the
// threshold configuration and the fan control channel behind one service
// facade for the API layer.
package hubservice

import (
	"github.com/connectedsmarties/hub/internal/cache"
	"github.com/connectedsmarties/hub/internal/cleanup"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/repository"
	"github.com/connectedsmarties/hub/internal/threshold"
)

// FanController is the outbound command channel to the fan relays. The MQTT
// ingestion service implements it; tests substitute a fake.
type FanController interface {
	Activate(topic string)
	Deactivate(topic string)
	Connected() bool
}

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Sensors    repository.SensorRepository
	SensorData repository.SensorDataRepository
	Cache      *cache.ReadingCache
	Thresholds *threshold.Config
	Fans       FanController
	Cleanup    *cleanup.CleanupService

	locations map[string]bool
}

// New creates a new HubService instance. The cache may be nil when Redis is
// not configured; reads then always go to the store.
func New(
	sensors repository.SensorRepository,
	sensorData repository.SensorDataRepository,
	readingCache *cache.ReadingCache,
	thresholds *threshold.Config,
	fans FanController,
	locations []string,
) *HubService {
	known := make(map[string]bool, len(locations))
	for _, l := range locations {
		known[l] = true
	}
	svc := &HubService{
		Sensors:    sensors,
		SensorData: sensorData,
		Cache:      readingCache,
		Thresholds: thresholds,
		Fans:       fans,
		locations:  known,
	}
	svc.Cleanup = cleanup.New(sensors, sensorData)
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Sensors == nil {
		return ErrMissingDependency("sensors")
	}
	if s.SensorData == nil {
		return ErrMissingDependency("sensorData")
	}
	if s.Thresholds == nil {
		return ErrMissingDependency("thresholds")
	}
	if s.Fans == nil {
		return ErrMissingDependency("fans")
	}
	return nil
}

// KnownLocation reports whether a location is part of the configured fleet
func (s *HubService) KnownLocation(location string) bool {
	return s.locations[location]
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}
