package main

import (
	"fmt"
	"os"

	"github.com/mevlabs/engagement-backend/internal/config"
	"github.com/mevlabs/engagement-backend/internal/db"
	"github.com/mevlabs/engagement-backend/internal/handlers"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/server"
	"github.com/mevlabs/engagement-backend/internal/services"
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

	log.Info("Setting up repos...")
	runRepo := repos.NewProtocolRunRepo(pg, log)
	templateRepo := repos.NewProtocolTemplateRepo(pg, log)
	phaseRepo := repos.NewProtocolPhaseRepo(pg, log)
	definitionRepo := repos.NewArtifactDefinitionRepo(pg, log)
	instanceRepo := repos.NewArtifactInstanceRepo(pg, log)
	interventionRepo := repos.NewInterventionTemplateRepo(pg, log)
	generatedRepo := repos.NewProtocolGeneratedItemRepo(pg, log)
	programRepo := repos.NewProgramRepo(pg, log)
	habitRepo := repos.NewHabitRepo(pg, log)
	enrollmentRepo := repos.NewEnrollmentRepo(pg, log)
	checkInRepo := repos.NewCheckInRepo(pg, log)
	ledgerRepo := repos.NewPointsLedgerRepo(pg, log)
	rewardRepo := repos.NewRewardConfigRepo(pg, log)
	userBadgeRepo := repos.NewUserBadgeRepo(pg, log)
	streakRepo := repos.NewStreakRepo(pg, log)

	log.Info("Setting up services...")
	protocolService := services.NewProtocolService(
		pg,
		log,
		runRepo,
		templateRepo,
		phaseRepo,
		definitionRepo,
		instanceRepo,
		interventionRepo,
		generatedRepo,
		programRepo,
		habitRepo,
		enrollmentRepo,
		ledgerRepo,
		rewardRepo,
	)
	checkInService := services.NewCheckInService(pg, log, checkInRepo, habitRepo, ledgerRepo, streakRepo)
	rewardsService := services.NewRewardsService(pg, log, ledgerRepo, userBadgeRepo, streakRepo)

	router := server.NewRouter(server.RouterConfig{
		ProtocolRunHandler: handlers.NewProtocolRunHandler(log, protocolService),
		CheckInHandler:     handlers.NewCheckInHandler(log, checkInService),
		RewardsHandler:     handlers.NewRewardsHandler(log, rewardsService),
	})

	addr := ":" + cfg.HTTPPort
	log.Info("Starting HTTP server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}
