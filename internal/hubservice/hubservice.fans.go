// FilePath: internal/hubservice/hubservice.fans.go
package hubservice

import (
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/models"
	"github.com/connectedsmarties/hub/internal/mqtt"
	nuts "github.com/vaudience/go-nuts"
)

// FanOn publishes the START command for a location's fan relay
func (s *HubService) FanOn(location string) error {
	return s.fanCommand(location, true)
}

// FanOff publishes the STOP command for a location's fan relay
func (s *HubService) FanOff(location string) error {
	return s.fanCommand(location, false)
}

func (s *HubService) fanCommand(location string, on bool) error {
	if !s.KnownLocation(location) {
		return errors.NewNotFoundError("unknown location: "+location, nil)
	}
	if !s.Fans.Connected() {
		return errors.NewUnavailableError("not connected to MQTT broker", nil)
	}

	topic := mqtt.FanControlTopic(location)
	if on {
		nuts.L.Infof("[HubService] Turning fan on at %s", location)
		s.Fans.Activate(topic)
	} else {
		nuts.L.Infof("[HubService] Turning fan off at %s", location)
		s.Fans.Deactivate(topic)
	}
	return nil
}

// ThresholdBounds returns the live temperature alerting bounds
func (s *HubService) ThresholdBounds() models.ThresholdBounds {
	return s.Thresholds.Snapshot()
}

// UpdateThresholds replaces the temperature alerting bounds. The new bounds
// apply to the next evaluated reading; in-flight checks keep the old ones.
func (s *HubService) UpdateThresholds(high, low float64) error {
	if err := s.Thresholds.Update(high, low); err != nil {
		return errors.NewValidationError(err.Error(), nil)
	}
	nuts.L.Infof("[HubService] Thresholds updated: high=%.2f low=%.2f", high, low)
	return nil
}
