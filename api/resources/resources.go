// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/connectedsmarties/hub/internal/hubservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Sensors     *SensorHandlers
	Readings    *ReadingHandlers
	Fans        *FanHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Sensors:  &SensorHandlers{hubservice: svc},
		Readings: NewReadingHandlers(svc),
		Fans:     &FanHandlers{hubservice: svc},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}
