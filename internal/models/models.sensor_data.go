// FilePath: internal/models/models.sensor_data.go
package models

import "time"

// SensorDataPoint is a single validated sensor observation. Values are stored
// as the raw payload string (decimal for temperature/humidity, lower-cased
// true/false for fan status) and are immutable after insertion.
type SensorDataPoint struct {
	ID        int64     `json:"sensor_data_point_id" db:"sensor_data_point_id"`
	SensorID  int64     `json:"sensor_id" db:"sensor_id"`
	DataType  DataType  `json:"data_type" db:"data_type"`
	Value     string    `json:"value" db:"value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ThresholdBounds is the current high/low alerting pair for temperature
// readings, in degrees Celsius
type ThresholdBounds struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}
