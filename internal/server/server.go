// FilePath: internal/server/server.go

// Package server wires configuration, storage, cache, ingestion, alerting
// and the HTTP API into one runnable service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"

	"github.com/connectedsmarties/hub/api"
	"github.com/connectedsmarties/hub/internal/alerting"
	"github.com/connectedsmarties/hub/internal/cache"
	"github.com/connectedsmarties/hub/internal/config"
	"github.com/connectedsmarties/hub/internal/database"
	"github.com/connectedsmarties/hub/internal/hubservice"
	"github.com/connectedsmarties/hub/internal/monitoring"
	"github.com/connectedsmarties/hub/internal/mqtt"
	"github.com/connectedsmarties/hub/internal/repository/sqlite"
	"github.com/connectedsmarties/hub/internal/threshold"
)

// Server represents our HTTP server plus the MQTT ingestion it hosts
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	cache      *cache.ReadingCache
	ingest     *mqtt.Service
	hubservice *hubservice.HubService
	metrics    *monitoring.Metrics
	stop       chan struct{}
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
		stop:   make(chan struct{}),
	}
}

// Start wires all services and begins listening for requests. A failed MQTT
// connect leaves the service degraded but running; a failed database open is
// fatal.
func (s *Server) Start() error {
	db, err := database.NewSQLiteDB(s.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	sensors := sqlite.NewSensorRepository(db)
	sensorData := sqlite.NewSensorDataRepository(db)

	s.cache = s.initCache()
	s.metrics = monitoring.NewMetrics()

	thresholds, err := threshold.NewConfig(s.config.Thresholds.High, s.config.Thresholds.Low)
	if err != nil {
		return fmt.Errorf("invalid threshold configuration: %w", err)
	}

	notifier := alerting.NewEmailNotifier(s.config.SMTP, s.metrics.AlertsSent)
	evaluator := threshold.NewEvaluator(thresholds, notifier)

	s.ingest = mqtt.New(
		s.config.MQTT,
		s.config.Thresholds.TemperatureFloor,
		sensors,
		sensorData,
		s.cache,
		s.metrics,
		evaluator,
	)
	if err := s.ingest.Start(); err != nil {
		// Fail-open: the HTTP API stays up without live sensor data
		nuts.L.Warnf("[Server] MQTT ingestion unavailable, running degraded: %v", err)
	}

	s.hubservice = hubservice.New(
		sensors,
		sensorData,
		s.cache,
		thresholds,
		s.ingest,
		s.config.MQTT.Locations,
	)
	if err := s.hubservice.Validate(); err != nil {
		return fmt.Errorf("invalid service wiring: %w", err)
	}

	s.setupCleanupHandlers()
	s.startRetentionLoop()

	router := api.NewRouter(s.hubservice)
	router.SetHealthCheck(s.handleHealth())
	router.SetMetrics(s.metrics.Handler().ServeHTTP)

	s.srv.Handler = handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(true),
	)(handlers.CombinedLoggingHandler(os.Stdout, router))

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// initCache connects to Redis when configured. Cache failures never block
// startup; reads fall through to SQLite.
func (s *Server) initCache() *cache.ReadingCache {
	if s.config.Redis.Host == "" {
		nuts.L.Infof("[Server] No Redis configured, latest readings served from SQLite")
		return nil
	}

	c := cache.New(s.config.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), s.config.MQTT.ConnectTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		nuts.L.Warnf("[Server] Redis unavailable, latest readings served from SQLite: %v", err)
		c.Close()
		return nil
	}
	return c
}

// waitForShutdown waits for interrupt signal and gracefully shuts down
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")
	close(s.stop)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.ingest.Stop()
	if s.cache != nil {
		s.cache.Close()
	}
	if err := s.db.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing database: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth reports overall liveness plus the state of the degradable
// dependencies
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if !s.ingest.Connected() {
			status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":%q,"mqtt_connected":%t,"version":%q}`,
			status, s.ingest.Connected(), nuts.GetVersion())
	}
}

func (s *Server) setupCleanupHandlers() {
	s.hubservice.Cleanup.OnCleanup("sensor.deleted", func(id int64) {
		nuts.L.Infof("[Cleanup] Sensor %d and all associated data deleted", id)
	})
}

// startRetentionLoop prunes aged observations once a day when a retention
// window is configured
func (s *Server) startRetentionLoop() {
	retention := s.config.Database.Retention
	if retention <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				cutoff := time.Now().UTC().Add(-retention)
				if _, err := s.hubservice.Cleanup.PruneBefore(context.Background(), cutoff); err != nil {
					nuts.L.Errorf("[Server] Data retention pruning failed: %v", err)
				}
			}
		}
	}()
}
