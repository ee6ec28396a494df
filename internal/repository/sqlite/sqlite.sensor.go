// FilePath: internal/repository/sqlite/sqlite.sensor.go
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/connectedsmarties/hub/internal/database"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/models"
)

type SensorRepo struct {
	SQLiteBaseRepo
}

func NewSensorRepository(db database.DB) *SensorRepo {
	repo := &SQLiteBaseRepo{db: db}
	return &SensorRepo{SQLiteBaseRepo: *repo}
}

func (r *SensorRepo) Create(ctx context.Context, sensor *models.Sensor) error {
	if sensor.Type == "" || sensor.Location == "" {
		return errors.NewValidationError("sensor type and location are required", nil)
	}
	if sensor.CreatedAt.IsZero() {
		sensor.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO Sensors (sensor_type, location, created_at)
		VALUES ($1, $2, $3)`

	result, err := r.db.GetDB().ExecContext(ctx, query, sensor.Type, sensor.Location, sensor.CreatedAt)
	if err != nil {
		return errors.NewDatabaseError("failed to create sensor", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.NewDatabaseError("failed to get sensor id", err)
	}
	sensor.ID = id
	return nil
}

func (r *SensorRepo) Get(ctx context.Context, id int64) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	query := `SELECT * FROM Sensors WHERE sensor_id = $1`

	err := r.db.GetDB().GetContext(ctx, sensor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sensor not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return sensor, nil
}

// GetByLocationAndType resolves the provisioned sensor for a location and
// reading category. Sensor types are free-text labels ("temperature probe"),
// so matching is by category keyword.
func (r *SensorRepo) GetByLocationAndType(ctx context.Context, location string, dataType models.DataType) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	query := `
		SELECT * FROM Sensors
		WHERE location = $1 AND sensor_type LIKE '%' || $2 || '%'
		ORDER BY sensor_id
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, sensor, query, location, dataType.Keyword())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sensor not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return sensor, nil
}

func (r *SensorRepo) List(ctx context.Context) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT * FROM Sensors ORDER BY sensor_id`

	err := r.db.GetDB().SelectContext(ctx, &sensors, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}
	return sensors, nil
}

// Delete removes the directory record inside the caller's transaction, so a
// cascade over several tables commits or rolls back as one unit.
func (r *SensorRepo) Delete(ctx context.Context, tx database.Transaction, id int64) error {
	query := `DELETE FROM Sensors WHERE sensor_id = $1`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete sensor", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	return nil
}
