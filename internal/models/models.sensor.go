// FilePath: internal/models/models.sensor.go
package models

import "time"

// DataType is the category of a sensor reading
type DataType string

const (
	Temperature DataType = "temperature"
	Humidity    DataType = "humidity"
	FanStatus   DataType = "fan_status"
)

// Valid reports whether dt is one of the known reading categories
func (dt DataType) Valid() bool {
	switch dt {
	case Temperature, Humidity, FanStatus:
		return true
	}
	return false
}

// Numeric reports whether readings of this type carry a decimal payload
func (dt DataType) Numeric() bool {
	return dt == Temperature || dt == Humidity
}

// Sensor is a provisioned physical sensor. Sensors are created out-of-band
// and are read-only from the ingestion path's perspective.
type Sensor struct {
	ID        int64     `json:"sensor_id" db:"sensor_id"`
	Type      string    `json:"sensor_type" db:"sensor_type"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Keyword returns the directory search keyword used to match a data type to
// provisioned sensors whose sensor_type is a free-text label (for example
// "temperature probe" matches the temperature keyword).
func (dt DataType) Keyword() string {
	switch dt {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case FanStatus:
		return "fan"
	}
	return string(dt)
}
