// FilePath: api/resources/api.resource.fans.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/connectedsmarties/hub/api/middleware"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/hubservice"
)

// FanHandlers covers the per-location operations: fan commands, status
// aggregation and the alerting thresholds
type FanHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Turn a fan on
// @Description Publish the START command to a location's fan relay
// @Tags fans
// @Param location path string true "Location"
// @Success 202 {object} map[string]string
// @Failure 404 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /locations/{location}/fan/on [post]
func (h *FanHandlers) FanOn(w http.ResponseWriter, r *http.Request) {
	h.fanCommand(w, r, true)
}

// @Summary Turn a fan off
// @Description Publish the STOP command to a location's fan relay
// @Tags fans
// @Param location path string true "Location"
// @Success 202 {object} map[string]string
// @Failure 404 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /locations/{location}/fan/off [post]
func (h *FanHandlers) FanOff(w http.ResponseWriter, r *http.Request) {
	h.fanCommand(w, r, false)
}

func (h *FanHandlers) fanCommand(w http.ResponseWriter, r *http.Request, on bool) {
	requestID := middleware.GetRequestID(r.Context())
	location := mux.Vars(r)["location"]

	var err error
	if on {
		err = h.hubservice.FanOn(location)
	} else {
		err = h.hubservice.FanOff(location)
	}
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	// Delivery is at-least-once and asynchronous, so accepted, not done
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// @Summary Location status
// @Description Latest reading of every category at a location
// @Tags locations
// @Produce json
// @Param location path string true "Location"
// @Success 200 {object} models.LocationStatus
// @Failure 404 {object} errors.APIError
// @Router /locations/{location}/status [get]
func (h *FanHandlers) GetLocationStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	location := mux.Vars(r)["location"]

	status, err := h.hubservice.LocationStatus(r.Context(), location)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

// @Summary Get thresholds
// @Description Current temperature alerting bounds
// @Tags thresholds
// @Produce json
// @Success 200 {object} models.ThresholdBounds
// @Router /thresholds [get]
func (h *FanHandlers) GetThresholds(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.hubservice.ThresholdBounds())
}

// @Summary Update thresholds
// @Description Replace the temperature alerting bounds
// @Tags thresholds
// @Accept json
// @Produce json
// @Param bounds body models.ThresholdBounds true "New bounds"
// @Success 200 {object} models.ThresholdBounds
// @Failure 400 {object} errors.APIError
// @Router /thresholds [put]
func (h *FanHandlers) UpdateThresholds(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var bounds struct {
		High *float64 `json:"high"`
		Low  *float64 `json:"low"`
	}
	if err := json.NewDecoder(r.Body).Decode(&bounds); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if bounds.High == nil || bounds.Low == nil {
		respondWithError(w, errors.NewValidationError("high and low are required", nil).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.UpdateThresholds(*bounds.High, *bounds.Low); err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, h.hubservice.ThresholdBounds())
}
