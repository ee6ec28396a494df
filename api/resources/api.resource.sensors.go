// FilePath: api/resources/api.resource.sensors.go
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"

	"github.com/connectedsmarties/hub/api/middleware"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/hubservice"
	"github.com/connectedsmarties/hub/internal/models"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List sensors
// @Description List the full provisioned sensor directory
// @Tags sensors
// @Produce json
// @Success 200 {array} models.Sensor
// @Router /sensors [get]
func (h *SensorHandlers) ListSensors(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sensors, err := h.hubservice.ListSensors(r.Context())
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, sensors)
}

// @Summary Provision a sensor
// @Description Register a new sensor for a location
// @Tags sensors
// @Accept json
// @Produce json
// @Param sensor body models.Sensor true "Sensor details"
// @Success 201 {object} models.Sensor
// @Failure 400 {object} errors.APIError
// @Router /sensors [post]
func (h *SensorHandlers) CreateSensor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var sensor models.Sensor
	if err := json.NewDecoder(r.Body).Decode(&sensor); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.CreateSensor(r.Context(), &sensor); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, sensor)
}

// @Summary Get a sensor
// @Tags sensors
// @Produce json
// @Param id path int true "Sensor ID"
// @Success 200 {object} models.Sensor
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [get]
func (h *SensorHandlers) GetSensor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := sensorID(w, r, requestID)
	if !ok {
		return
	}

	sensor, err := h.hubservice.Sensors.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, sensor)
}

// @Summary Decommission a sensor
// @Description Delete a sensor together with all its stored observations
// @Tags sensors
// @Param id path int true "Sensor ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [delete]
func (h *SensorHandlers) DeleteSensor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := sensorID(w, r, requestID)
	if !ok {
		return
	}

	if err := h.hubservice.DeleteSensor(r.Context(), id); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Latest reading
// @Description Get the most recent reading of one category for a sensor
// @Tags sensors
// @Produce json
// @Param id path int true "Sensor ID"
// @Param type query string true "Reading category (temperature, humidity, fan_status)"
// @Success 200 {object} models.SensorDataPoint
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id}/latest [get]
func (h *SensorHandlers) GetLatestReading(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := sensorID(w, r, requestID)
	if !ok {
		return
	}
	dataType := models.DataType(r.URL.Query().Get("type"))

	point, err := h.hubservice.LatestReading(r.Context(), id, dataType)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, point)
}

func sensorID(w http.ResponseWriter, r *http.Request, requestID string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, errors.NewValidationError("sensor id must be an integer", err).WithRequestID(requestID))
		return 0, false
	}
	return id, true
}

// Helper functions shared by all resource handlers

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

// respondWithServiceError preserves typed service errors (not found,
// validation, unavailable) instead of flattening them to 500s
func respondWithServiceError(w http.ResponseWriter, err error, requestID string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError("internal error", err).WithRequestID(requestID))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
