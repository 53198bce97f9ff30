package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devcircle/rollcall/internal/common"
	"devcircle/rollcall/internal/config"
	"devcircle/rollcall/internal/db"
	"devcircle/rollcall/internal/logging"
	"devcircle/rollcall/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Rollcall starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	sqlxDB, err := db.ConnectPostgres(cfg.Postgres.DSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	gormDB, err := db.ConnectORM(cfg.Postgres.DSN())
	if err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("failed to connect to Postgres (GORM): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	if err := db.Migrate(gormDB); err != nil {
		logging.Error("Failed to run migrations", "error", err.Error())
		log.Fatalf("failed to run migrations: %v", err)
	}
	logging.Info("Migrations applied")

	redisClient := common.NewRedisClient(cfg.Redis)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upSince := time.Now()

	router, err := routes.RegisterRoutes(ctx, cfg, gormDB, sqlxDB, redisClient, upSince)
	if err != nil {
		logging.Error("Failed to initialize router", "error", err.Error())
		log.Fatalf("failed to initialize router: %v", err)
	}

	// /metrics stays outside the Chi router so it skips auth and rate limits
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	addr := fmt.Sprintf(":%d", cfg.Port)
	logging.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.AppEnv,
	)

	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
