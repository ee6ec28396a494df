// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/connectedsmarties/hub/internal/database"
	"github.com/connectedsmarties/hub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// SensorRepository is the sensor directory: it resolves sensor identifiers
// to provisioned sensor records. The ingestion path only ever reads from it.
type SensorRepository interface {
	database.Repository
	Create(ctx context.Context, sensor *models.Sensor) error
	Get(ctx context.Context, id int64) (*models.Sensor, error)
	GetByLocationAndType(ctx context.Context, location string, dataType models.DataType) (*models.Sensor, error)
	List(ctx context.Context) ([]*models.Sensor, error)
	Delete(ctx context.Context, tx database.Transaction, id int64) error
}

// SensorDataRepository is the append-only log of sensor observations
type SensorDataRepository interface {
	database.Repository
	Insert(ctx context.Context, sensorID int64, dataType models.DataType, value string) (*models.SensorDataPoint, error)
	GetLatest(ctx context.Context, sensorID int64, dataType models.DataType) (*models.SensorDataPoint, error)
	FetchDataOverTime(ctx context.Context, dataType models.DataType, start, end time.Time) ([]models.SensorDataPoint, error)
	DeleteBySensorID(ctx context.Context, tx database.Transaction, sensorID int64) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
