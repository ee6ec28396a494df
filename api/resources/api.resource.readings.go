// FilePath: api/resources/api.resource.readings.go
package resources

import (
	"net/http"
	"time"

	"github.com/gorilla/schema"

	"github.com/connectedsmarties/hub/api/middleware"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/hubservice"
	"github.com/connectedsmarties/hub/internal/models"
)

// ReadingHandlers serves the historical report queries
type ReadingHandlers struct {
	hubservice *hubservice.HubService
	decoder    *schema.Decoder
}

func NewReadingHandlers(svc *hubservice.HubService) *ReadingHandlers {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &ReadingHandlers{hubservice: svc, decoder: decoder}
}

type readingsQuery struct {
	DataType string `schema:"data_type,required"`
	Start    string `schema:"start"`
	End      string `schema:"end"`
}

// @Summary Readings over time
// @Description Sampled report series for one reading category, at most five
// @Description points per day. Defaults to the last 24 hours.
// @Tags readings
// @Produce json
// @Param data_type query string true "Reading category"
// @Param start query string false "Start time (RFC3339)"
// @Param end query string false "End time (RFC3339)"
// @Success 200 {array} models.SensorDataPoint
// @Failure 400 {object} errors.APIError
// @Router /readings [get]
func (h *ReadingHandlers) GetReadings(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var q readingsQuery
	if err := h.decoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	now := time.Now().UTC()
	start := now.Add(-24 * time.Hour)
	end := now
	if q.Start != "" {
		parsed, err := time.Parse(time.RFC3339, q.Start)
		if err != nil {
			respondWithError(w, errors.NewValidationError("start must be RFC3339", err).WithRequestID(requestID))
			return
		}
		start = parsed
	}
	if q.End != "" {
		parsed, err := time.Parse(time.RFC3339, q.End)
		if err != nil {
			respondWithError(w, errors.NewValidationError("end must be RFC3339", err).WithRequestID(requestID))
			return
		}
		end = parsed
	}

	points, err := h.hubservice.ReadingsOverTime(r.Context(), models.DataType(q.DataType), start, end)
	if err != nil {
		respondWithServiceError(w, err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, points)
}
