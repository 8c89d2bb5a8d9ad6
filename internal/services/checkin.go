package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/apierr"
	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/streaks"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type CheckInService interface {
	// Create records the check-in and, in the same transaction, credits
	// points and advances the habit's streak.
	Create(ctx context.Context, checkIn *types.CheckIn) (*types.CheckIn, error)
	Get(ctx context.Context, id uint) (*types.CheckIn, error)
	List(ctx context.Context, filter repos.CheckInFilter) ([]*types.CheckIn, error)
}

type checkInService struct {
	db          *gorm.DB
	log         *logger.Logger
	checkInRepo repos.CheckInRepo
	habitRepo   repos.HabitRepo
	ledgerRepo  repos.PointsLedgerRepo
	streakRepo  repos.StreakRepo
}

func NewCheckInService(db *gorm.DB, log *logger.Logger, checkInRepo repos.CheckInRepo, habitRepo repos.HabitRepo, ledgerRepo repos.PointsLedgerRepo, streakRepo repos.StreakRepo) CheckInService {
	return &checkInService{
		db:          db,
		log:         log.With("service", "CheckInService"),
		checkInRepo: checkInRepo,
		habitRepo:   habitRepo,
		ledgerRepo:  ledgerRepo,
		streakRepo:  streakRepo,
	}
}

func (cs *checkInService) Create(ctx context.Context, checkIn *types.CheckIn) (*types.CheckIn, error) {
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)
		habit, err := cs.habitRepo.GetByID(dbc, checkIn.HabitID)
		if err != nil {
			if apierr.From(err).Status == 404 {
				return apierr.NotFound("habit")
			}
			return err
		}

		checkIn.CheckInDate = streaks.Day(checkIn.CheckInDate)
		if err := cs.checkInRepo.Create(dbc, checkIn); err != nil {
			return err
		}

		entry := &types.PointsLedger{
			UserID:           checkIn.UserID,
			ProgramID:        &habit.ProgramID,
			Points:           habit.PointsPerCompletion,
			EventType:        types.EventCheckIn,
			EventReferenceID: &checkIn.ID,
			Description:      fmt.Sprintf("Check-in: %s", habit.Name),
		}
		if err := cs.ledgerRepo.Create(dbc, entry); err != nil {
			return err
		}

		return cs.advanceStreak(dbc, checkIn, habit)
	})
	if err != nil {
		return nil, err
	}
	cs.log.Info("Check-in recorded", "check_in_id", checkIn.ID, "user_id", checkIn.UserID, "habit_id", checkIn.HabitID)
	return checkIn, nil
}

// advanceStreak applies the incremental streak rule for a single new date.
// Out-of-order or same-day submissions never shrink an existing streak; the
// nightly recalculation settles any drift.
func (cs *checkInService) advanceStreak(dbc dbctx.Context, checkIn *types.CheckIn, habit *types.Habit) error {
	streak, err := cs.streakRepo.GetByUserAndHabit(dbc, checkIn.UserID, checkIn.HabitID)
	if err != nil {
		return err
	}
	if streak == nil {
		date := checkIn.CheckInDate
		streak = &types.Streak{
			UserID:          checkIn.UserID,
			HabitID:         &checkIn.HabitID,
			ProgramID:       &habit.ProgramID,
			CurrentStreak:   1,
			LongestStreak:   1,
			LastCheckInDate: &date,
		}
		return cs.streakRepo.Create(dbc, streak)
	}

	current, longest := streaks.Advance(streak.CurrentStreak, streak.LongestStreak, streak.LastCheckInDate, checkIn.CheckInDate)
	streak.CurrentStreak = current
	streak.LongestStreak = longest
	date := checkIn.CheckInDate
	streak.LastCheckInDate = &date
	return cs.streakRepo.Save(dbc, streak)
}

func (cs *checkInService) Get(ctx context.Context, id uint) (*types.CheckIn, error) {
	return cs.checkInRepo.GetByID(dbctx.New(ctx), id)
}

func (cs *checkInService) List(ctx context.Context, filter repos.CheckInFilter) ([]*types.CheckIn, error) {
	return cs.checkInRepo.List(dbctx.New(ctx), filter)
}
