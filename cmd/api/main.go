package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/stridesales/fieldops-backend/api/routes"
	"github.com/stridesales/fieldops-backend/internal/allocations"
	"github.com/stridesales/fieldops-backend/internal/catalog"
	"github.com/stridesales/fieldops-backend/internal/events"
	"github.com/stridesales/fieldops-backend/internal/requests"
	"github.com/stridesales/fieldops-backend/internal/returns"
	"github.com/stridesales/fieldops-backend/internal/timeline"
	"github.com/stridesales/fieldops-backend/pkg/config"
	"github.com/stridesales/fieldops-backend/pkg/db"
	"github.com/stridesales/fieldops-backend/pkg/logger"
	"github.com/stridesales/fieldops-backend/pkg/metrics"
	"github.com/stridesales/fieldops-backend/pkg/migrate"
	"github.com/stridesales/fieldops-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	lendingMetrics := metrics.NewLendingMetrics(registry)

	eventService, err := events.NewService(events.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create events service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	allocationService, err := allocations.NewService(allocations.NewRepository(dbClient.DB()), lendingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create allocations service", err)
		os.Exit(1)
	}

	returnService, err := returns.NewService(returns.NewRepository(dbClient.DB()), dbClient, lendingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create returns service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(
		requests.NewRepository(dbClient.DB()),
		dbClient,
		eventService,
		catalogService,
		allocationService,
		lendingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create requests service", err)
		os.Exit(1)
	}

	timelineService, err := timeline.NewService(requestService, allocationService, returnService)
	if err != nil {
		logg.Error(context.Background(), "failed to create timeline service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			requestService,
			returnService,
			allocationService,
			timelineService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
