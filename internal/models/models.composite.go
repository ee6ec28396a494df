// FilePath: internal/models/models.composite.go
package models

import "time"

// LocationStatus combines the latest reading of every data type for one
// monitored location
type LocationStatus struct {
	Location  string                        `json:"location"`
	Readings  map[DataType]*SensorDataPoint `json:"readings"`
	UpdatedAt time.Time                     `json:"updated_at"`
}
