// Package tasks implements the scheduled maintenance jobs: streak
// recalculation, badge assignment, and reminder dispatch. Each job runs as
// one database transaction so a mid-job failure leaves no partial writes.
package tasks

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/clients/redis"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
)

// TaskError marks a failure with the job that produced it, for operational
// telemetry and retry classification.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

type Service struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo         repos.UserRepo
	habitRepo        repos.HabitRepo
	checkInRepo      repos.CheckInRepo
	streakRepo       repos.StreakRepo
	ledgerRepo       repos.PointsLedgerRepo
	rewardRepo       repos.RewardConfigRepo
	badgeRepo        repos.BadgeRepo
	userBadgeRepo    repos.UserBadgeRepo
	notificationRepo repos.NotificationEventRepo

	// bus is optional; reminder dispatch degrades to persist-only when nil.
	bus redis.NotificationBus
}

func NewService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	habitRepo repos.HabitRepo,
	checkInRepo repos.CheckInRepo,
	streakRepo repos.StreakRepo,
	ledgerRepo repos.PointsLedgerRepo,
	rewardRepo repos.RewardConfigRepo,
	badgeRepo repos.BadgeRepo,
	userBadgeRepo repos.UserBadgeRepo,
	notificationRepo repos.NotificationEventRepo,
	bus redis.NotificationBus,
) *Service {
	return &Service{
		db:               db,
		log:              log.With("service", "TaskService"),
		userRepo:         userRepo,
		habitRepo:        habitRepo,
		checkInRepo:      checkInRepo,
		streakRepo:       streakRepo,
		ledgerRepo:       ledgerRepo,
		rewardRepo:       rewardRepo,
		badgeRepo:        badgeRepo,
		userBadgeRepo:    userBadgeRepo,
		notificationRepo: notificationRepo,
		bus:              bus,
	}
}
