// FilePath: internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/connectedsmarties/hub/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	nuts "github.com/vaudience/go-nuts"
)

// DB is the interface the SQLite connection must implement
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
}

// SQLiteDB represents a SQLite database connection
type SQLiteDB struct {
	db *sqlx.DB
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository represents common repository operations
type Repository interface {
	BeginTx(ctx context.Context) (Transaction, error)
}

// NewSQLiteDB opens the SQLite database file and ensures the schema exists
func NewSQLiteDB(cfg config.DatabaseConfig) (DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", cfg.Path)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %w", err)
	}

	// SQLite serializes writes; a single connection avoids SQLITE_BUSY
	// contention between the ingestion path and the HTTP handlers.
	db.SetMaxOpenConns(1)

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	nuts.L.Infof("[SQLiteDB] Connected to %s", cfg.Path)
	return &SQLiteDB{db: db}, nil
}

func initializeSchema(db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS Sensors (
			sensor_id INTEGER PRIMARY KEY AUTOINCREMENT,
			sensor_type TEXT NOT NULL,
			location TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS SensorDataPoints (
			sensor_data_point_id INTEGER PRIMARY KEY AUTOINCREMENT,
			sensor_id INTEGER NOT NULL REFERENCES Sensors(sensor_id),
			data_type TEXT NOT NULL,
			value TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sensor_data_points_key
			ON SensorDataPoints(sensor_id, data_type, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_sensors_location_type
			ON Sensors(location, sensor_type)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Implementation of DB interface for SQLiteDB
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDB) GetDB() *sqlx.DB {
	return s.db
}
