package cache

import (
	"context"
	"time"

	"suncal-service/internal/metrics"
	"suncal-service/pkg/logging/logging"

	"go.uber.org/zap"
)

// LoggingStore wraps a Store with logging + metrics.
type LoggingStore struct {
	inner Store
}

// NewLoggingStore returns a store that logs and records metrics.
func NewLoggingStore(inner Store) Store {
	return &LoggingStore{inner: inner}
}

func (c *LoggingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
		// Prometheus: count forecast cache hits
		metrics.ForecastCacheHitsTotal.Inc()
	}

	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	}

	if err != nil {
		logger.Error("forecast_cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Info("forecast_cache_get", fields...)
	}

	return value, ok, err
}

func (c *LoggingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value, ttl)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)

	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.Int("value_bytes", len(value)),
		zap.Duration("ttl", ttl),
		zap.Float64("latency_ms", latencyMs),
	}

	if err != nil {
		logger.Error("forecast_cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Info("forecast_cache_set", fields...)
	}

	return err
}
