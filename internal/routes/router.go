package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"devcircle/rollcall/internal/api"
	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/jobs"
	"devcircle/rollcall/internal/logging"
	"devcircle/rollcall/internal/metrics"
	"devcircle/rollcall/internal/middleware"
)

// RegisterRoutes assembles the full HTTP surface: global middleware, the
// health check, and the versioned API. It also starts the event sweep job
// when enabled, since the job shares the dependency graph built here.
func RegisterRoutes(
	ctx context.Context,
	cfg *config.Config,
	gormDB *gorm.DB,
	sqlxDB *sqlx.DB,
	redisClient *redis.Client,
	upSince time.Time,
) (http.Handler, error) {

	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Discord-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(sqlxDB, upSince))

	deps, err := api.InitDependencies(cfg, gormDB, sqlxDB, redisClient, metricsReg)
	if err != nil {
		return nil, err
	}

	if cfg.Sweep.Enabled {
		sweep := jobs.NewEventSweepJob(deps.Repo.Events, deps.Services.Access, metricsReg)
		go sweep.RunScheduled(ctx, cfg.Sweep.Interval)
	}

	RegisterAPIRoutes(r, cfg, deps)

	logging.Info("Router initialized with metrics and logging middleware")
	return r, nil
}
