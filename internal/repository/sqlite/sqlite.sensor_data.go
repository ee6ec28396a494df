// FilePath: internal/repository/sqlite/sqlite.sensor_data.go
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/connectedsmarties/hub/internal/database"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/models"
)

type SensorDataRepo struct {
	SQLiteBaseRepo
}

func NewSensorDataRepository(db database.DB) *SensorDataRepo {
	repo := &SQLiteBaseRepo{db: db}
	return &SensorDataRepo{SQLiteBaseRepo: *repo}
}

// Insert appends one observation with a store-assigned UTC timestamp and
// returns the point exactly as persisted, so callers caching it never hold a
// timestamp that disagrees with the row. No data point exists unless this
// call succeeds.
func (r *SensorDataRepo) Insert(ctx context.Context, sensorID int64, dataType models.DataType, value string) (*models.SensorDataPoint, error) {
	point := &models.SensorDataPoint{
		SensorID:  sensorID,
		DataType:  dataType,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO SensorDataPoints (sensor_id, data_type, value, created_at)
		VALUES ($1, $2, $3, $4)`

	result, err := r.db.GetDB().ExecContext(ctx, query, point.SensorID, point.DataType, point.Value, point.CreatedAt)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to insert sensor data point", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get data point id", err)
	}
	point.ID = id
	return point, nil
}

// GetLatest returns the most recent observation for (sensorID, dataType),
// ties broken by assigned id. Missing data is a not-found, not a failure.
func (r *SensorDataRepo) GetLatest(ctx context.Context, sensorID int64, dataType models.DataType) (*models.SensorDataPoint, error) {
	point := &models.SensorDataPoint{}
	query := `
		SELECT * FROM SensorDataPoints
		WHERE sensor_id = $1 AND data_type = $2
		ORDER BY created_at DESC, sensor_data_point_id DESC
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, point, query, sensorID, dataType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no data points yet", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest data point", err)
	}
	return point, nil
}

// FetchDataOverTime returns a sampled view of the observations of one data
// type in [start, end]: at most five evenly spread points per day, chosen by
// bucketing each day's rows. Keeps report payloads small regardless of the
// ingestion rate.
func (r *SensorDataRepo) FetchDataOverTime(ctx context.Context, dataType models.DataType, start, end time.Time) ([]models.SensorDataPoint, error) {
	query := `
		WITH ordered AS (
			SELECT
				sensor_data_point_id,
				sensor_id,
				data_type,
				value,
				created_at,
				date(created_at) AS day,
				ROW_NUMBER() OVER (
					PARTITION BY date(created_at)
					ORDER BY created_at
				) AS rn,
				COUNT(*) OVER (
					PARTITION BY date(created_at)
				) AS cnt
			FROM SensorDataPoints
			WHERE created_at BETWEEN $1 AND $2
			AND data_type = $3
		),
		selected AS (
			SELECT
				*,
				CASE
					WHEN cnt <= 5 THEN rn
					ELSE CAST((rn - 1) * 5.0 / cnt AS INT) + 1
				END AS bucket
			FROM ordered
		),
		chosen AS (
			SELECT
				day,
				bucket,
				MIN(sensor_data_point_id) AS chosen_id
			FROM selected
			WHERE bucket BETWEEN 1 AND 5
			GROUP BY day, bucket
		)
		SELECT p.sensor_data_point_id, p.sensor_id, p.data_type, p.value, p.created_at
		FROM SensorDataPoints p
		JOIN chosen c ON p.sensor_data_point_id = c.chosen_id
		ORDER BY p.created_at`

	points := []models.SensorDataPoint{}
	err := r.db.GetDB().SelectContext(ctx, &points, query, start.UTC(), end.UTC(), dataType)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to fetch data points over time", err)
	}
	return points, nil
}

// DeleteBySensorID removes every observation of one sensor inside the
// caller's transaction. Used by the cleanup service when a sensor is
// decommissioned.
func (r *SensorDataRepo) DeleteBySensorID(ctx context.Context, tx database.Transaction, sensorID int64) error {
	query := `DELETE FROM SensorDataPoints WHERE sensor_id = $1`

	if _, err := tx.ExecContext(ctx, query, sensorID); err != nil {
		return errors.NewDatabaseError("failed to delete sensor data points", err)
	}
	return nil
}

// DeleteBefore prunes observations older than the cutoff and reports how
// many rows were removed
func (r *SensorDataRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM SensorDataPoints WHERE created_at < $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, errors.NewDatabaseError("failed to prune sensor data points", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to count pruned data points", err)
	}
	return n, nil
}
