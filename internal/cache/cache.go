// FilePath: internal/cache/cache.go

// Package cache keeps the most recent observation per (sensor, data type) in
// Redis so dashboard polling does not hit SQLite on every request. The cache
// is strictly best-effort: every failure is logged and the caller falls back
// to the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/connectedsmarties/hub/internal/config"
	"github.com/connectedsmarties/hub/internal/models"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingCache caches the latest SensorDataPoint per (sensor id, data type)
type ReadingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(cfg config.RedisConfig) *ReadingCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &ReadingCache{client: client, ttl: cfg.TTL}
}

func key(sensorID int64, dataType models.DataType) string {
	return fmt.Sprintf("latest:%d:%s", sensorID, dataType)
}

// SetLatest stores the point as the latest reading for its key. Errors are
// logged, never returned; the store remains the source of truth.
func (c *ReadingCache) SetLatest(ctx context.Context, point *models.SensorDataPoint) {
	data, err := json.Marshal(point)
	if err != nil {
		nuts.L.Warnf("[ReadingCache] Failed to marshal data point: %v", err)
		return
	}
	if err := c.client.Set(ctx, key(point.SensorID, point.DataType), data, c.ttl).Err(); err != nil {
		nuts.L.Warnf("[ReadingCache] Failed to cache latest reading: %v", err)
	}
}

// GetLatest returns the cached latest reading, or (nil, false) on a miss or
// any cache failure.
func (c *ReadingCache) GetLatest(ctx context.Context, sensorID int64, dataType models.DataType) (*models.SensorDataPoint, bool) {
	data, err := c.client.Get(ctx, key(sensorID, dataType)).Bytes()
	if err != nil {
		if err != redis.Nil {
			nuts.L.Warnf("[ReadingCache] Failed to read cached reading: %v", err)
		}
		return nil, false
	}

	point := &models.SensorDataPoint{}
	if err := json.Unmarshal(data, point); err != nil {
		nuts.L.Warnf("[ReadingCache] Failed to unmarshal cached reading: %v", err)
		return nil, false
	}
	return point, true
}

func (c *ReadingCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ReadingCache) Close() error {
	return c.client.Close()
}
