// FilePath: internal/mqtt/dispatch.go
package mqtt

import (
	"context"
	"strconv"
	"strings"

	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/models"
	"github.com/connectedsmarties/hub/internal/monitoring"
	"github.com/connectedsmarties/hub/internal/validation"
	nuts "github.com/vaudience/go-nuts"
)

// Topic suffixes under each location tree
const (
	topicTemperature = "temperature"
	topicHumidity    = "humidity"
	topicFanStatus   = "fanControl/status"
	topicFanControl  = "fanControl"
)

// handleMessage processes one inbound message for a location. Every failure
// mode discards the single message and returns; nothing here may take down
// the subscriber loop.
func (s *Service) handleMessage(location, topic string, payload []byte) {
	dataType, ok := s.resolveDataType(location, topic)
	if !ok {
		return
	}

	raw := string(payload)

	// Shape validation before anything touches the directory or the store
	if dataType.Numeric() {
		if !validation.IsNumericReading(raw) {
			nuts.L.Warnf("[Ingest] Malformed %s payload on %s: %q", dataType, topic, raw)
			s.metrics.MessagesDiscarded.WithLabelValues(monitoring.ReasonMalformed).Inc()
			return
		}
	} else if !validation.IsBooleanReading(raw) {
		nuts.L.Warnf("[Ingest] Malformed %s payload on %s: %q", dataType, topic, raw)
		s.metrics.MessagesDiscarded.WithLabelValues(monitoring.ReasonMalformed).Inc()
		return
	}

	tagID, value, tagged := validation.SplitTag(raw)

	ctx := context.Background()
	sensor, err := s.resolveSensor(ctx, location, dataType, tagID, tagged)
	if err != nil {
		if errors.IsNotFound(err) {
			nuts.L.Warnf("[Ingest] Unknown sensor for message on %s (tagged=%v id=%d)", topic, tagged, tagID)
			s.metrics.MessagesDiscarded.WithLabelValues(monitoring.ReasonUnknownSensor).Inc()
		} else {
			nuts.L.Errorf("[Ingest] Sensor lookup failed for %s: %v", topic, err)
			s.metrics.MessagesDiscarded.WithLabelValues(monitoring.ReasonStorageFailure).Inc()
		}
		return
	}

	value, ok = s.normalizeValue(dataType, value)
	if !ok {
		nuts.L.Warnf("[Ingest] Out-of-range %s value on %s: %q", dataType, topic, value)
		s.metrics.MessagesDiscarded.WithLabelValues(monitoring.ReasonOutOfRange).Inc()
		return
	}

	point, err := s.data.Insert(ctx, sensor.ID, dataType, value)
	if err != nil {
		nuts.L.Errorf("[Ingest] Failed to persist %s reading from %s: %v", dataType, topic, err)
		s.metrics.MessagesDiscarded.WithLabelValues(monitoring.ReasonStorageFailure).Inc()
		return
	}

	s.metrics.MessagesIngested.WithLabelValues(location, string(dataType)).Inc()

	// Cache the point as persisted so cached and stored timestamps agree
	if s.cache != nil {
		s.cache.SetLatest(ctx, point)
	}

	if dataType == models.Temperature {
		if cb := s.thresholdCallback(); cb != nil {
			v, _ := strconv.ParseFloat(value, 64)
			cb.Check(sensor.ID, v, location)
		}
	}
}

// resolveDataType maps a topic suffix to its reading category. The outbound
// fanControl command topic is not inbound telemetry and is skipped silently.
func (s *Service) resolveDataType(location, topic string) (models.DataType, bool) {
	suffix := strings.TrimPrefix(topic, location+"/")
	switch suffix {
	case topicTemperature:
		return models.Temperature, true
	case topicHumidity:
		return models.Humidity, true
	case topicFanStatus:
		return models.FanStatus, true
	case topicFanControl:
		return "", false
	default:
		nuts.L.Warnf("[Ingest] Unrecognized topic %s", topic)
		s.metrics.MessagesDiscarded.WithLabelValues(monitoring.ReasonUnknownTopic).Inc()
		return "", false
	}
}

// resolveSensor translates the message's sensor identity into a directory
// record. Tagged payloads must name a provisioned sensor id; untagged
// payloads resolve through the location and reading category.
func (s *Service) resolveSensor(ctx context.Context, location string, dataType models.DataType, tagID int64, tagged bool) (*models.Sensor, error) {
	if tagged {
		return s.sensors.Get(ctx, tagID)
	}
	return s.sensors.GetByLocationAndType(ctx, location, dataType)
}

// normalizeValue applies the type-specific range rules and canonicalizes the
// stored form. Temperature readings accept sub-zero values down to the
// configured floor; humidity is a percentage; fan status is lower-cased.
func (s *Service) normalizeValue(dataType models.DataType, value string) (string, bool) {
	switch dataType {
	case models.Temperature:
		return value, validation.ValueInRange(value, s.temperatureFloor)
	case models.Humidity:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value, false
		}
		return value, v >= 0 && v <= 100
	case models.FanStatus:
		return strings.ToLower(value), true
	}
	return value, false
}
