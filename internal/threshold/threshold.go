// FilePath: internal/threshold/threshold.go

// Package threshold evaluates temperature readings against the configured
// high/low bounds and triggers the alert notifier on every breach. There is
// no cool-down: repeated breaches raise repeated alerts.
package threshold

import (
	"fmt"
	"sync"

	"github.com/connectedsmarties/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Config is the process-wide high/low bound pair. It is mutable at runtime
// through the admin API and read on every temperature ingestion event, so
// access is mutex-guarded rather than left to free module globals.
type Config struct {
	mu   sync.RWMutex
	high float64
	low  float64
}

func NewConfig(high, low float64) (*Config, error) {
	if high <= low {
		return nil, fmt.Errorf("threshold high (%v) must be greater than low (%v)", high, low)
	}
	return &Config{high: high, low: low}, nil
}

// Bounds returns the current high/low pair
func (c *Config) Bounds() (high, low float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.high, c.low
}

// Update replaces both bounds atomically. Last write wins.
func (c *Config) Update(high, low float64) error {
	if high <= low {
		return fmt.Errorf("threshold high (%v) must be greater than low (%v)", high, low)
	}
	c.mu.Lock()
	c.high = high
	c.low = low
	c.mu.Unlock()
	nuts.L.Infof("[Threshold] Bounds updated: high=%v low=%v", high, low)
	return nil
}

// Snapshot returns the bounds as an API model
func (c *Config) Snapshot() models.ThresholdBounds {
	high, low := c.Bounds()
	return models.ThresholdBounds{High: high, Low: low}
}

// Alert describes one threshold breach
type Alert struct {
	SensorID int64
	Location string
	DataType models.DataType
	Value    float64
	Bound    float64
	Breach   string // "high" or "low"
}

// Notifier delivers an alert. Implementations may block; the evaluator always
// calls them off the ingestion dispatch loop.
type Notifier interface {
	Alert(a Alert) error
}

// Evaluator is the threshold callback installed into the ingestion service.
// Check must never panic or block dispatch: notification runs asynchronously
// and every internal failure is swallowed.
type Evaluator struct {
	config *Config

	mu       sync.RWMutex
	notifier Notifier
}

func NewEvaluator(config *Config, notifier Notifier) *Evaluator {
	return &Evaluator{config: config, notifier: notifier}
}

// SetNotifier swaps the alert notifier at runtime
func (e *Evaluator) SetNotifier(n Notifier) {
	e.mu.Lock()
	e.notifier = n
	e.mu.Unlock()
}

// Check compares a temperature reading to the configured bounds and triggers
// the notifier when a bound is exceeded. Safe to call on every ingestion
// event from the transport's delivery goroutine.
func (e *Evaluator) Check(sensorID int64, value float64, location string) {
	defer func() {
		if r := recover(); r != nil {
			nuts.L.Errorf("[Threshold] Recovered panic during threshold check: %v", r)
		}
	}()

	high, low := e.config.Bounds()

	var alert *Alert
	switch {
	case value > high:
		alert = &Alert{SensorID: sensorID, Location: location, DataType: models.Temperature, Value: value, Bound: high, Breach: "high"}
	case value < low:
		alert = &Alert{SensorID: sensorID, Location: location, DataType: models.Temperature, Value: value, Bound: low, Breach: "low"}
	default:
		return
	}

	nuts.L.Warnf("[Threshold] %s bound breached at %s: value=%v bound=%v (sensor %d)",
		alert.Breach, alert.Location, alert.Value, alert.Bound, alert.SensorID)

	e.mu.RLock()
	notifier := e.notifier
	e.mu.RUnlock()
	if notifier == nil {
		return
	}

	go func(a Alert) {
		defer func() {
			if r := recover(); r != nil {
				nuts.L.Errorf("[Threshold] Recovered panic from notifier: %v", r)
			}
		}()
		if err := notifier.Alert(a); err != nil {
			nuts.L.Errorf("[Threshold] Alert delivery failed: %v", err)
		}
	}(*alert)
}
