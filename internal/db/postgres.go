package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/config"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg config.PostgresConfig, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	serviceLog.Info("Connecting to Postgres...", "host", cfg.Host, "database", cfg.Name)
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Program{},
		&types.Habit{},
		&types.Enrollment{},
		&types.CheckIn{},
		&types.PointsLedger{},
		&types.Badge{},
		&types.UserBadge{},
		&types.Streak{},
		&types.NotificationEvent{},
		&types.RewardConfig{},

		&types.ProtocolTemplate{},
		&types.ProtocolPhase{},
		&types.ArtifactDefinition{},
		&types.ProtocolRun{},
		&types.ArtifactInstance{},
		&types.InterventionTemplate{},
		&types.ProtocolGeneratedItem{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
