// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/connectedsmarties/hub/api/middleware"
	"github.com/connectedsmarties/hub/api/resources"
	"github.com/connectedsmarties/hub/internal/hubservice"
)

type Router struct {
	router    *mux.Router
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)

	// Health and metrics handlers are installed after construction, so the
	// routes resolve them per request and answer 503 until they are set
	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if r.resources.HealthCheck == nil {
			http.Error(w, "health check not available", http.StatusServiceUnavailable)
			return
		}
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)
	api.HandleFunc("/metrics", func(w http.ResponseWriter, req *http.Request) {
		if r.resources.Metrics == nil {
			http.Error(w, "metrics not available", http.StatusServiceUnavailable)
			return
		}
		r.resources.Metrics(w, req)
	}).Methods(http.MethodGet)

	// Sensors
	sensors := api.PathPrefix("/sensors").Subrouter()
	sensors.HandleFunc("", r.resources.Sensors.ListSensors).Methods(http.MethodGet)
	sensors.HandleFunc("", r.resources.Sensors.CreateSensor).Methods(http.MethodPost)
	sensors.HandleFunc("/{id}", r.resources.Sensors.GetSensor).Methods(http.MethodGet)
	sensors.HandleFunc("/{id}", r.resources.Sensors.DeleteSensor).Methods(http.MethodDelete)
	sensors.HandleFunc("/{id}/latest", r.resources.Sensors.GetLatestReading).Methods(http.MethodGet)

	// Readings
	api.HandleFunc("/readings", r.resources.Readings.GetReadings).Methods(http.MethodGet)

	// Thresholds
	api.HandleFunc("/thresholds", r.resources.Fans.GetThresholds).Methods(http.MethodGet)
	api.HandleFunc("/thresholds", r.resources.Fans.UpdateThresholds).Methods(http.MethodPut)

	// Locations
	locations := api.PathPrefix("/locations").Subrouter()
	locations.HandleFunc("/{location}/status", r.resources.Fans.GetLocationStatus).Methods(http.MethodGet)
	locations.HandleFunc("/{location}/fan/on", r.resources.Fans.FanOn).Methods(http.MethodPost)
	locations.HandleFunc("/{location}/fan/off", r.resources.Fans.FanOff).Methods(http.MethodPost)
}

// SetHealthCheck installs the health handler before the server starts
func (r *Router) SetHealthCheck(h func(w http.ResponseWriter, req *http.Request)) {
	r.resources.SetHealthCheck(h)
}

// SetMetrics installs the metrics handler before the server starts
func (r *Router) SetMetrics(h func(w http.ResponseWriter, req *http.Request)) {
	r.resources.SetMetrics(h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
