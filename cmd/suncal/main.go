package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"suncal-service/internal/cache"
	"suncal-service/internal/forecast"
	"suncal-service/internal/handlers"
	"suncal-service/internal/httpserver"
	"suncal-service/internal/metrics"
	"suncal-service/pkg/logging/logging"
)

// forecastTTL is both the cache entry lifetime and the max-age advertised to
// HTTP callers.
const forecastTTL = 30 * time.Minute

type Config struct {
	Port         string
	CacheBackend string // "memory" or "redis"
	RedisAddr    string
	UVBaseURL    string
	UVAPIKey     string
}

func LoadConfig() Config {
	return Config{
		Port:         getenv("PORT", "8080"),
		CacheBackend: getenv("CACHE_BACKEND", "memory"),
		RedisAddr:    getenv("REDIS_ADDR", "127.0.0.1:6379"),
		UVBaseURL:    getenv("OPENUV_BASE_URL", "https://api.openuv.io"),
		UVAPIKey:     os.Getenv("OPENUV_API_KEY"),
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("suncal exited with error: %v", err)
	}
}

func run() error {
	// ----- Env file (optional) -----
	_ = godotenv.Load()

	// ----- Logger -----
	logger := logging.DefaultLogger()
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	// ----- Config -----
	cfg := LoadConfig()

	logger.Info("loaded config",
		zap.String("port", cfg.Port),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("uv_base_url", cfg.UVBaseURL),
		zap.Bool("uv_api_key_set", cfg.UVAPIKey != ""),
	)

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.CacheBackend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.RedisAddr),
		)
	}

	// ----- Forecast cache -----
	cacheCfg := cache.Config{
		Backend: cfg.CacheBackend,
		TTL:     forecastTTL,
		Prefix:  "suncal",
	}
	store := cache.NewStore(cacheCfg, redisClient)
	store = cache.NewLoggingStore(store)

	// ----- Upstream UV client -----
	// A missing credential is reported per request as 500 instead of
	// refusing to start; health and metrics stay reachable.
	var uvClient forecast.Client
	if cfg.UVAPIKey != "" {
		var err error
		uvClient, err = forecast.NewClient(forecast.Config{
			BaseURL: cfg.UVBaseURL,
			APIKey:  cfg.UVAPIKey,
		}, logger)
		if err != nil {
			return err
		}
		if closer, ok := uvClient.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	} else {
		logger.Warn("OPENUV_API_KEY not set, calendar requests will fail with 500")
	}

	// ----- Handlers -----
	sunCalHandler := handlers.NewSunCalHandler(store, cacheCfg.TTL, uvClient)

	// ----- Router + middleware -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, sunCalHandler)

	// ----- HTTP server -----
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Write timeout covers the full upstream retry budget.
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting suncal",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.CacheBackend),
	)

	// Start server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}

// getenv returns the value of the environment variable key or def if not set.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
