// FilePath: internal/mqtt/service.go

// Package mqtt owns the broker connection and the sensor-ingestion pipeline:
// per-location topic subscriptions, payload validation, sensor resolution,
// persistence and the temperature threshold callback, plus the outbound fan
// control channel.
package mqtt

import (
	"fmt"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/connectedsmarties/hub/internal/cache"
	"github.com/connectedsmarties/hub/internal/config"
	"github.com/connectedsmarties/hub/internal/monitoring"
	"github.com/connectedsmarties/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// ThresholdCallback is invoked for every successfully persisted temperature
// reading. Implementations must never panic; dispatch runs on the transport's
// delivery goroutine.
type ThresholdCallback interface {
	Check(sensorID int64, value float64, location string)
}

// Service is the MQTT ingestion service. Its lifecycle is deliberately
// fail-open: a failed initial connect leaves it degraded but the host
// application keeps running without live sensor data.
type Service struct {
	cfg     config.MQTTConfig
	client  paho.Client
	sensors repository.SensorRepository
	data    repository.SensorDataRepository
	cache   *cache.ReadingCache
	metrics *monitoring.Metrics

	mu       sync.RWMutex
	callback ThresholdCallback

	temperatureFloor float64
}

// New wires the ingestion service. The cache may be nil; the callback may be
// installed or swapped later via SetThresholdCallback.
func New(
	cfg config.MQTTConfig,
	temperatureFloor float64,
	sensors repository.SensorRepository,
	data repository.SensorDataRepository,
	readingCache *cache.ReadingCache,
	metrics *monitoring.Metrics,
	callback ThresholdCallback,
) *Service {
	return &Service{
		cfg:              cfg,
		sensors:          sensors,
		data:             data,
		cache:            readingCache,
		metrics:          metrics,
		callback:         callback,
		temperatureFloor: temperatureFloor,
	}
}

// SetThresholdCallback installs or replaces the threshold callback
func (s *Service) SetThresholdCallback(cb ThresholdCallback) {
	s.mu.Lock()
	s.callback = cb
	s.mu.Unlock()
}

func (s *Service) thresholdCallback() ThresholdCallback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callback
}

// clientOptions builds the transport configuration. ConnectRetry keeps the
// initial connect retrying in the background at the minimum delay, so a hub
// started before its broker heals itself once the broker comes up.
// AutoReconnect covers connections lost after a successful connect, backing
// off up to the maximum delay.
func (s *Service) clientOptions() *paho.ClientOptions {
	opts := paho.NewClientOptions().
		AddBroker(s.cfg.BrokerURL).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(s.cfg.ReconnectMinDelay).
		SetMaxReconnectInterval(s.cfg.ReconnectMaxDelay).
		SetConnectTimeout(s.cfg.ConnectTimeout).
		SetOrderMatters(true)

	opts.OnConnect = func(c paho.Client) {
		nuts.L.Infof("[Ingest] Connected to MQTT broker at %s", s.cfg.BrokerURL)
		s.subscribeAll(c)
	}
	opts.OnConnectionLost = func(c paho.Client, err error) {
		nuts.L.Warnf("[Ingest] Connection to MQTT broker lost: %v", err)
	}
	return opts
}

// Start attempts the initial broker connect and sets up subscriptions. When
// the broker is down the service reports degraded but the transport keeps
// retrying the connect in the background.
func (s *Service) Start() error {
	s.client = paho.NewClient(s.clientOptions())

	token := s.client.Connect()
	if !token.WaitTimeout(s.cfg.ConnectTimeout) {
		return fmt.Errorf("timed out connecting to MQTT broker at %s", s.cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker at %s: %w", s.cfg.BrokerURL, err)
	}
	return nil
}

// subscribeAll subscribes one handler per location topic tree. Called on
// every (re)connect; the broker treats repeated subscriptions as idempotent.
func (s *Service) subscribeAll(c paho.Client) {
	for _, location := range s.cfg.Locations {
		location := location
		topic := location + "/#"
		handler := func(_ paho.Client, msg paho.Message) {
			s.handleMessage(location, msg.Topic(), msg.Payload())
		}
		if token := c.Subscribe(topic, s.cfg.QoS, handler); token.Wait() && token.Error() != nil {
			nuts.L.Errorf("[Ingest] Failed to subscribe to %s: %v", topic, token.Error())
			continue
		}
		nuts.L.Infof("[Ingest] Subscribed to %s", topic)
	}
}

// Connected reports whether the service may dispatch and publish
func (s *Service) Connected() bool {
	return s.client != nil && s.client.IsConnected()
}

// Stop disconnects from the broker, letting in-flight work finish briefly
func (s *Service) Stop() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}
