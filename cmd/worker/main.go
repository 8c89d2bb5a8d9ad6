package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mevlabs/engagement-backend/internal/clients/redis"
	"github.com/mevlabs/engagement-backend/internal/config"
	"github.com/mevlabs/engagement-backend/internal/db"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/tasks"
	"github.com/mevlabs/engagement-backend/internal/temporalx"
	"github.com/mevlabs/engagement-backend/internal/temporalx/temporalworker"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Load(log)

	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	pg := postgresService.DB()

	var bus redis.NotificationBus
	if cfg.Redis.Addr != "" {
		bus, err = redis.NewNotificationBus(cfg.Redis, log)
		if err != nil {
			log.Warn("Notification bus init failed; reminders will persist only", "error", err)
			bus = nil
		} else {
			defer bus.Close()
		}
	}

	taskService := tasks.NewService(
		pg,
		log,
		repos.NewUserRepo(pg, log),
		repos.NewHabitRepo(pg, log),
		repos.NewCheckInRepo(pg, log),
		repos.NewStreakRepo(pg, log),
		repos.NewPointsLedgerRepo(pg, log),
		repos.NewRewardConfigRepo(pg, log),
		repos.NewBadgeRepo(pg, log),
		repos.NewUserBadgeRepo(pg, log),
		repos.NewNotificationEventRepo(pg, log),
		bus,
	)

	tc, err := temporalx.NewClient(cfg.Temporal, log)
	if err != nil {
		log.Error("Temporal client init failed", "error", err)
		os.Exit(1)
	}
	if tc == nil {
		log.Error("Temporal is required for the worker")
		os.Exit(1)
	}
	defer tc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := temporalworker.NewRunner(log, tc, cfg.Temporal, taskService)
	if err != nil {
		log.Error("Temporal runner init failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Start(ctx); err != nil {
		log.Error("Temporal worker start failed", "error", err)
		os.Exit(1)
	}
	if err := runner.StartCronSchedules(ctx); err != nil {
		log.Error("Cron schedule start failed", "error", err)
		os.Exit(1)
	}

	log.Info("Worker running; waiting for shutdown signal")
	<-ctx.Done()
	log.Info("Shutting down worker")
}
