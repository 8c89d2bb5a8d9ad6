package config

import (
	"fmt"

	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/utils"
)

// Config is built once at process start and passed by reference to every
// component that needs it. There is no lazy global settings object.
type Config struct {
	Postgres PostgresConfig
	Redis    RedisConfig
	Temporal TemporalConfig
	HTTPPort string
	LogMode  string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.Name)
}

type RedisConfig struct {
	Addr    string
	Channel string
}

type TemporalConfig struct {
	Address   string
	Namespace string

	MaintenanceQueue   string
	NotificationsQueue string

	StreakRecalcCron string
	BadgeAssignCron  string
	ReminderCron     string

	WorkerConcurrency int
}

func Load(log *logger.Logger) *Config {
	return &Config{
		Postgres: PostgresConfig{
			Host:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:     utils.GetEnv("POSTGRES_PORT", "5432", log),
			User:     utils.GetEnv("POSTGRES_USER", "mevuser", log),
			Password: utils.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:     utils.GetEnv("POSTGRES_NAME", "mevdb", log),
		},
		Redis: RedisConfig{
			Addr:    utils.GetEnv("REDIS_ADDR", "", log),
			Channel: utils.GetEnv("REDIS_CHANNEL", "notifications", log),
		},
		Temporal: TemporalConfig{
			Address:            utils.GetEnv("TEMPORAL_ADDRESS", "localhost:7233", log),
			Namespace:          utils.GetEnv("TEMPORAL_NAMESPACE", "default", log),
			MaintenanceQueue:   utils.GetEnv("TASK_QUEUE_MAINTENANCE", "maintenance", log),
			NotificationsQueue: utils.GetEnv("TASK_QUEUE_NOTIFICATIONS", "notifications", log),
			StreakRecalcCron:   utils.GetEnv("STREAK_RECALC_CRON", "0 2 * * *", log),
			BadgeAssignCron:    utils.GetEnv("BADGE_ASSIGN_CRON", "0 */6 * * *", log),
			ReminderCron:       utils.GetEnv("REMINDER_CRON", "0 9,18 * * *", log),
			WorkerConcurrency:  utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, log),
		},
		HTTPPort: utils.GetEnv("PORT", "8080", log),
		LogMode:  utils.GetEnv("LOG_MODE", "development", log),
	}
}
