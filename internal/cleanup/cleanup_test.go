package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/connectedsmarties/hub/internal/config"
	"github.com/connectedsmarties/hub/internal/database"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/models"
	"github.com/connectedsmarties/hub/internal/repository"
	"github.com/connectedsmarties/hub/internal/repository/sqlite"
)

func newTestCleanup(t *testing.T) (*CleanupService, *sqlite.SensorRepo, *sqlite.SensorDataRepo) {
	t.Helper()
	db, err := database.NewSQLiteDB(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sensors := sqlite.NewSensorRepository(db)
	data := sqlite.NewSensorDataRepository(db)
	return New(sensors, data), sensors, data
}

func TestDeleteSensorCascades(t *testing.T) {
	svc, sensors, data := newTestCleanup(t)
	ctx := context.Background()

	sensor := &models.Sensor{Type: "temperature probe", Location: "Frig1"}
	if err := sensors.Create(ctx, sensor); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := data.Insert(ctx, sensor.ID, models.Temperature, "4.5"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	var deleted int64
	done := make(chan struct{})
	svc.OnCleanup("sensor.deleted", func(id int64) {
		deleted = id
		close(done)
	})

	if err := svc.DeleteSensor(ctx, sensor.ID); err != nil {
		t.Fatalf("DeleteSensor: %v", err)
	}

	if _, err := sensors.Get(ctx, sensor.ID); !errors.IsNotFound(err) {
		t.Errorf("sensor must be gone, got %v", err)
	}
	if _, err := data.GetLatest(ctx, sensor.ID, models.Temperature); !errors.IsNotFound(err) {
		t.Errorf("sensor data must be gone, got %v", err)
	}

	select {
	case <-done:
		if deleted != sensor.ID {
			t.Errorf("event id = %d, want %d", deleted, sensor.ID)
		}
	case <-time.After(time.Second):
		t.Error("sensor.deleted event never fired")
	}
}

// recordingTx tracks transaction lifecycle calls
type recordingTx struct {
	committed  bool
	rolledBack bool
}

func (t *recordingTx) Commit() error   { t.committed = true; return nil }
func (t *recordingTx) Rollback() error { t.rolledBack = true; return nil }
func (t *recordingTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

type stubSensorRepo struct {
	tx        *recordingTx
	deleteErr error
}

func (s *stubSensorRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return s.tx, nil
}
func (s *stubSensorRepo) Create(ctx context.Context, sensor *models.Sensor) error { return nil }
func (s *stubSensorRepo) Get(ctx context.Context, id int64) (*models.Sensor, error) {
	return &models.Sensor{ID: id, Type: "temperature probe", Location: "Frig1"}, nil
}
func (s *stubSensorRepo) GetByLocationAndType(ctx context.Context, location string, dataType models.DataType) (*models.Sensor, error) {
	return nil, repository.ErrNotFound
}
func (s *stubSensorRepo) List(ctx context.Context) ([]*models.Sensor, error) { return nil, nil }
func (s *stubSensorRepo) Delete(ctx context.Context, tx database.Transaction, id int64) error {
	return s.deleteErr
}

type stubDataRepo struct {
	deletedOn database.Transaction
}

func (s *stubDataRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (s *stubDataRepo) Insert(ctx context.Context, sensorID int64, dataType models.DataType, value string) (*models.SensorDataPoint, error) {
	return nil, nil
}
func (s *stubDataRepo) GetLatest(ctx context.Context, sensorID int64, dataType models.DataType) (*models.SensorDataPoint, error) {
	return nil, repository.ErrNotFound
}
func (s *stubDataRepo) FetchDataOverTime(ctx context.Context, dataType models.DataType, start, end time.Time) ([]models.SensorDataPoint, error) {
	return nil, nil
}
func (s *stubDataRepo) DeleteBySensorID(ctx context.Context, tx database.Transaction, sensorID int64) error {
	s.deletedOn = tx
	return nil
}
func (s *stubDataRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// A failure halfway through the cascade must leave nothing behind: the
// transaction is rolled back and never committed, so the sensor keeps its
// history instead of losing it to a half-applied delete.
func TestDeleteSensorRollsBackOnFailure(t *testing.T) {
	tx := &recordingTx{}
	sensors := &stubSensorRepo{tx: tx, deleteErr: fmt.Errorf("sensor row is busy")}
	data := &stubDataRepo{}
	svc := New(sensors, data)

	if err := svc.DeleteSensor(context.Background(), 7); err == nil {
		t.Fatal("expected DeleteSensor to fail")
	}

	if data.deletedOn != tx {
		t.Error("data delete must run on the cascade transaction")
	}
	if tx.committed {
		t.Error("failed cascade must not commit")
	}
	if !tx.rolledBack {
		t.Error("failed cascade must roll back")
	}
}

func TestDeleteUnknownSensor(t *testing.T) {
	svc, _, _ := newTestCleanup(t)

	if err := svc.DeleteSensor(context.Background(), 999); !errors.IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}
}
