package tasks

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/streaks"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type StreakRecalcResult struct {
	Processed         int `json:"processed"`
	MilestonesAwarded int `json:"milestones_awarded"`
}

// streakMilestones lists bonus thresholds in ascending order with their
// reward config keys and default points.
var streakMilestones = []struct {
	Days          int
	ConfigKey     string
	DefaultPoints int
}{
	{3, "streak_3_days_bonus", 20},
	{7, "streak_7_days_bonus", 50},
	{14, "streak_14_days_bonus", 100},
	{30, "streak_30_days_bonus", 250},
}

// RecalculateStreaks recomputes every (user, habit) streak from full
// check-in history and credits streak milestone bonuses the current streak
// has reached. The batch result always overwrites the incremental state;
// longest streaks only ever ratchet up.
func (s *Service) RecalculateStreaks(ctx context.Context) (*StreakRecalcResult, error) {
	startedAt := time.Now()
	result := &StreakRecalcResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.recalculateStreaks(dbctx.WithTx(ctx, tx), result)
	})
	if err != nil {
		s.log.Error("Streak recalculation failed", "error", err)
		return nil, &TaskError{Task: "recalculate_streaks", Err: err}
	}

	s.log.Info("Streak recalculation completed",
		"processed", result.Processed,
		"milestones_awarded", result.MilestonesAwarded,
		"elapsed_seconds", time.Since(startedAt).Seconds(),
	)
	return result, nil
}

func (s *Service) recalculateStreaks(dbc dbctx.Context, result *StreakRecalcResult) error {
	rewardMap, err := s.rewardRepo.LoadMap(dbc)
	if err != nil {
		return err
	}

	rows, err := s.checkInRepo.ListAllDates(dbc)
	if err != nil {
		return err
	}
	type pair struct{ userID, habitID uint }
	grouped := map[pair][]time.Time{}
	order := []pair{}
	for _, row := range rows {
		key := pair{row.UserID, row.HabitID}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], row.CheckInDate)
	}

	programByHabit, err := s.habitRepo.ProgramIDByHabit(dbc)
	if err != nil {
		return err
	}

	for _, key := range order {
		current, longest, last := streaks.Metrics(grouped[key])

		streak, err := s.streakRepo.GetByUserAndHabit(dbc, key.userID, key.habitID)
		if err != nil {
			return err
		}
		if streak == nil {
			habitID := key.habitID
			streak = &types.Streak{
				UserID:          key.userID,
				HabitID:         &habitID,
				CurrentStreak:   current,
				LongestStreak:   longest,
				LastCheckInDate: last,
			}
			if programID, ok := programByHabit[key.habitID]; ok {
				streak.ProgramID = &programID
			}
			if err := s.streakRepo.Create(dbc, streak); err != nil {
				return err
			}
		} else {
			streak.CurrentStreak = current
			if longest > streak.LongestStreak {
				streak.LongestStreak = longest
			}
			streak.LastCheckInDate = last
			if err := s.streakRepo.Save(dbc, streak); err != nil {
				return err
			}
		}

		awarded, err := s.awardStreakMilestones(dbc, streak, current, rewardMap)
		if err != nil {
			return err
		}
		result.MilestonesAwarded += awarded
		result.Processed++
	}
	return nil
}

// awardStreakMilestones credits each reached threshold at most once per
// user. The dedupe key makes the insert idempotent even when several habit
// streaks reach the same threshold in one run.
func (s *Service) awardStreakMilestones(dbc dbctx.Context, streak *types.Streak, current int, rewardMap map[string]int) (int, error) {
	awarded := 0
	for _, milestone := range streakMilestones {
		if current < milestone.Days {
			continue
		}
		points := milestone.DefaultPoints
		if configured, ok := rewardMap[milestone.ConfigKey]; ok {
			points = configured
		}

		description := fmt.Sprintf("Streak milestone %d days", milestone.Days)
		exists, err := s.ledgerRepo.ExistsAward(dbc, streak.UserID, types.EventStreakMilestone, description, nil)
		if err != nil {
			return awarded, err
		}
		if exists {
			continue
		}

		dedupeKey := fmt.Sprintf("streak_milestone:%d:%d", streak.UserID, milestone.Days)
		entry := &types.PointsLedger{
			UserID:           streak.UserID,
			ProgramID:        streak.ProgramID,
			Points:           points,
			EventType:        types.EventStreakMilestone,
			EventReferenceID: &streak.ID,
			Description:      description,
			DedupeKey:        &dedupeKey,
		}
		inserted, err := s.ledgerRepo.CreateIdempotent(dbc, entry)
		if err != nil {
			return awarded, err
		}
		if inserted {
			awarded++
		}
	}
	return awarded, nil
}
