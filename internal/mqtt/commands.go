// FilePath: internal/mqtt/commands.go
package mqtt

import (
	nuts "github.com/vaudience/go-nuts"
)

// Fan command payloads. Delivery is at-least-once, so consumers must treat
// repeated START/STOP as idempotent.
const (
	CommandStart = "START"
	CommandStop  = "STOP"
)

// FanControlTopic builds the outbound command topic for a location
func FanControlTopic(location string) string {
	return location + "/" + topicFanControl
}

// Activate publishes START to the given control topic. While disconnected
// this is a no-op with a warning, never an error.
func (s *Service) Activate(topic string) {
	s.publishCommand(topic, CommandStart)
}

// Deactivate publishes STOP to the given control topic. While disconnected
// this is a no-op with a warning, never an error.
func (s *Service) Deactivate(topic string) {
	s.publishCommand(topic, CommandStop)
}

func (s *Service) publishCommand(topic, command string) {
	if !s.Connected() {
		nuts.L.Warnf("[Ingest] Not connected to MQTT broker, skipping %s on %s", command, topic)
		return
	}

	token := s.client.Publish(topic, s.cfg.QoS, false, command)
	if token.Wait() && token.Error() != nil {
		nuts.L.Errorf("[Ingest] Failed to publish %s on %s: %v", command, topic, token.Error())
		return
	}

	s.metrics.FanCommands.WithLabelValues(command).Inc()
	nuts.L.Infof("[Ingest] Published %s on %s", command, topic)
}
