package hubservice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/connectedsmarties/hub/internal/database"
	"github.com/connectedsmarties/hub/internal/errors"
	"github.com/connectedsmarties/hub/internal/models"
	"github.com/connectedsmarties/hub/internal/threshold"
)

type fakeSensorRepo struct {
	sensors []*models.Sensor
}

func (f *fakeSensorRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (f *fakeSensorRepo) Create(ctx context.Context, sensor *models.Sensor) error {
	sensor.ID = int64(len(f.sensors) + 1)
	f.sensors = append(f.sensors, sensor)
	return nil
}
func (f *fakeSensorRepo) Get(ctx context.Context, id int64) (*models.Sensor, error) {
	for _, s := range f.sensors {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.NewNotFoundError("sensor not found", nil)
}
func (f *fakeSensorRepo) GetByLocationAndType(ctx context.Context, location string, dataType models.DataType) (*models.Sensor, error) {
	return nil, errors.NewNotFoundError("sensor not found", nil)
}
func (f *fakeSensorRepo) List(ctx context.Context) ([]*models.Sensor, error) {
	return f.sensors, nil
}
func (f *fakeSensorRepo) Delete(ctx context.Context, tx database.Transaction, id int64) error {
	return nil
}

type fakeDataRepo struct {
	latest map[string]*models.SensorDataPoint
}

func latestKey(sensorID int64, dataType models.DataType) string {
	return fmt.Sprintf("%d/%s", sensorID, dataType)
}

func (f *fakeDataRepo) BeginTx(ctx context.Context) (database.Transaction, error) { return nil, nil }
func (f *fakeDataRepo) Insert(ctx context.Context, sensorID int64, dataType models.DataType, value string) (*models.SensorDataPoint, error) {
	return nil, nil
}
func (f *fakeDataRepo) GetLatest(ctx context.Context, sensorID int64, dataType models.DataType) (*models.SensorDataPoint, error) {
	if p, ok := f.latest[latestKey(sensorID, dataType)]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("no data points yet", nil)
}
func (f *fakeDataRepo) FetchDataOverTime(ctx context.Context, dataType models.DataType, start, end time.Time) ([]models.SensorDataPoint, error) {
	return nil, nil
}
func (f *fakeDataRepo) DeleteBySensorID(ctx context.Context, tx database.Transaction, sensorID int64) error {
	return nil
}
func (f *fakeDataRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeFans struct {
	connected   bool
	activated   []string
	deactivated []string
}

func (f *fakeFans) Activate(topic string)   { f.activated = append(f.activated, topic) }
func (f *fakeFans) Deactivate(topic string) { f.deactivated = append(f.deactivated, topic) }
func (f *fakeFans) Connected() bool         { return f.connected }

func newTestHub(t *testing.T) (*HubService, *fakeSensorRepo, *fakeDataRepo, *fakeFans) {
	t.Helper()
	sensors := &fakeSensorRepo{}
	data := &fakeDataRepo{latest: map[string]*models.SensorDataPoint{}}
	fans := &fakeFans{connected: true}
	bounds, err := threshold.NewConfig(10.0, -5.0)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return New(sensors, data, nil, bounds, fans, []string{"Frig1", "Frig2"}), sensors, data, fans
}

func TestLatestReadingFallsBackToStore(t *testing.T) {
	hub, _, data, _ := newTestHub(t)
	want := &models.SensorDataPoint{ID: 7, SensorID: 1, DataType: models.Temperature, Value: "4.5"}
	data.latest[latestKey(1, models.Temperature)] = want

	got, err := hub.LatestReading(context.Background(), 1, models.Temperature)
	if err != nil {
		t.Fatalf("LatestReading: %v", err)
	}
	if got.ID != want.ID || got.Value != want.Value {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := hub.LatestReading(context.Background(), 2, models.Temperature); !errors.IsNotFound(err) {
		t.Errorf("expected not-found for sensor without data, got %v", err)
	}
}

func TestLatestReadingRejectsUnknownDataType(t *testing.T) {
	hub, _, _, _ := newTestHub(t)
	if _, err := hub.LatestReading(context.Background(), 1, "pressure"); !errors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestReadingsOverTimeRejectsInvertedWindow(t *testing.T) {
	hub, _, _, _ := newTestHub(t)
	now := time.Now()
	if _, err := hub.ReadingsOverTime(context.Background(), models.Temperature, now, now.Add(-time.Hour)); !errors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestFanCommands(t *testing.T) {
	hub, _, _, fans := newTestHub(t)

	if err := hub.FanOn("Frig1"); err != nil {
		t.Fatalf("FanOn: %v", err)
	}
	if len(fans.activated) != 1 || fans.activated[0] != "Frig1/fanControl" {
		t.Errorf("unexpected activations: %v", fans.activated)
	}

	if err := hub.FanOff("Frig2"); err != nil {
		t.Fatalf("FanOff: %v", err)
	}
	if len(fans.deactivated) != 1 || fans.deactivated[0] != "Frig2/fanControl" {
		t.Errorf("unexpected deactivations: %v", fans.deactivated)
	}
}

func TestFanCommandUnknownLocation(t *testing.T) {
	hub, _, _, fans := newTestHub(t)
	if err := hub.FanOn("Freezer9"); !errors.IsNotFound(err) {
		t.Errorf("expected not-found for unknown location, got %v", err)
	}
	if len(fans.activated) != 0 {
		t.Errorf("no command expected, got %v", fans.activated)
	}
}

func TestFanCommandWhileDegraded(t *testing.T) {
	hub, _, _, fans := newTestHub(t)
	fans.connected = false

	err := hub.FanOn("Frig1")
	apiErr, ok := err.(*errors.APIError)
	if !ok || apiErr.Type != errors.ErrorTypeUnavailable {
		t.Errorf("expected service unavailable, got %v", err)
	}
	if len(fans.activated) != 0 {
		t.Errorf("no command expected while degraded, got %v", fans.activated)
	}
}

func TestUpdateThresholds(t *testing.T) {
	hub, _, _, _ := newTestHub(t)

	if err := hub.UpdateThresholds(12.0, -2.0); err != nil {
		t.Fatalf("UpdateThresholds: %v", err)
	}
	bounds := hub.ThresholdBounds()
	if bounds.High != 12.0 || bounds.Low != -2.0 {
		t.Errorf("bounds = %+v", bounds)
	}

	if err := hub.UpdateThresholds(-2.0, 12.0); !errors.IsValidation(err) {
		t.Errorf("expected validation error for inverted bounds, got %v", err)
	}
}
