package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the ingestion pipeline's Prometheus instruments
type Metrics struct {
	registry *prometheus.Registry

	MessagesIngested  *prometheus.CounterVec
	MessagesDiscarded *prometheus.CounterVec
	AlertsSent        prometheus.Counter
	FanCommands       *prometheus.CounterVec
}

// Discard reasons used as label values on MessagesDiscarded
const (
	ReasonUnknownTopic   = "unknown_topic"
	ReasonMalformed      = "malformed_payload"
	ReasonUnknownSensor  = "unknown_sensor"
	ReasonOutOfRange     = "out_of_range"
	ReasonStorageFailure = "storage_failure"
)

// NewMetrics registers the ingestion instruments on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		MessagesIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smarties_messages_ingested_total",
			Help: "Sensor messages validated and persisted",
		}, []string{"location", "data_type"}),
		MessagesDiscarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smarties_messages_discarded_total",
			Help: "Sensor messages discarded before persistence",
		}, []string{"reason"}),
		AlertsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "smarties_alerts_sent_total",
			Help: "Threshold alert emails delivered",
		}),
		FanCommands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "smarties_fan_commands_total",
			Help: "Outbound fan control commands published",
		}, []string{"command"}),
	}
}

// Handler exposes the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
