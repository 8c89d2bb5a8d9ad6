package tasks

import (
	"context"
	"time"

	"github.com/mevlabs/engagement-backend/internal/clients/redis"
	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/repos"
	"github.com/mevlabs/engagement-backend/internal/types"
)

func testLogger() *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return log
}

func dbcForTest() dbctx.Context {
	return dbctx.New(context.Background())
}

type fakeUserRepo struct {
	activeIDs   []uint
	enrolledIDs []uint
}

func (f *fakeUserRepo) GetByID(_ dbctx.Context, id uint) (*types.User, error) {
	return &types.User{ID: id, IsActive: true}, nil
}

func (f *fakeUserRepo) ListActiveIDs(_ dbctx.Context) ([]uint, error) {
	return f.activeIDs, nil
}

func (f *fakeUserRepo) ListActiveEnrolledIDs(_ dbctx.Context) ([]uint, error) {
	return f.enrolledIDs, nil
}

type fakeHabitRepo struct {
	programByHabit map[uint]uint
}

func (f *fakeHabitRepo) GetByID(_ dbctx.Context, _ uint) (*types.Habit, error) {
	return nil, nil
}

func (f *fakeHabitRepo) Create(_ dbctx.Context, _ *types.Habit) error { return nil }

func (f *fakeHabitRepo) ListByProgram(_ dbctx.Context, _ uint) ([]*types.Habit, error) {
	return nil, nil
}

func (f *fakeHabitRepo) ProgramIDByHabit(_ dbctx.Context) (map[uint]uint, error) {
	return f.programByHabit, nil
}

type fakeCheckInRepo struct {
	rows           []repos.CheckInDate
	countByUser    map[uint]int64
	checkedInToday map[uint]bool
}

func (f *fakeCheckInRepo) Create(_ dbctx.Context, _ *types.CheckIn) error { return nil }

func (f *fakeCheckInRepo) GetByID(_ dbctx.Context, _ uint) (*types.CheckIn, error) {
	return nil, nil
}

func (f *fakeCheckInRepo) List(_ dbctx.Context, _ repos.CheckInFilter) ([]*types.CheckIn, error) {
	return nil, nil
}

func (f *fakeCheckInRepo) ListAllDates(_ dbctx.Context) ([]repos.CheckInDate, error) {
	return f.rows, nil
}

func (f *fakeCheckInRepo) CountByUser(_ dbctx.Context, userID uint) (int64, error) {
	return f.countByUser[userID], nil
}

func (f *fakeCheckInRepo) ExistsOnDate(_ dbctx.Context, userID uint, _ time.Time) (bool, error) {
	return f.checkedInToday[userID], nil
}

type fakeStreakRepo struct {
	streaks []*types.Streak
}

func (f *fakeStreakRepo) GetByUserAndHabit(_ dbctx.Context, userID, habitID uint) (*types.Streak, error) {
	for _, streak := range f.streaks {
		if streak.UserID == userID && streak.HabitID != nil && *streak.HabitID == habitID {
			return streak, nil
		}
	}
	return nil, nil
}

func (f *fakeStreakRepo) Create(_ dbctx.Context, streak *types.Streak) error {
	streak.ID = uint(len(f.streaks) + 1)
	f.streaks = append(f.streaks, streak)
	return nil
}

func (f *fakeStreakRepo) Save(_ dbctx.Context, _ *types.Streak) error { return nil }

func (f *fakeStreakRepo) ListByUser(_ dbctx.Context, userID uint) ([]*types.Streak, error) {
	var out []*types.Streak
	for _, streak := range f.streaks {
		if streak.UserID == userID {
			out = append(out, streak)
		}
	}
	return out, nil
}

func (f *fakeStreakRepo) MaxLongestByUser(_ dbctx.Context, userID uint) (int, error) {
	max := 0
	for _, streak := range f.streaks {
		if streak.UserID == userID && streak.LongestStreak > max {
			max = streak.LongestStreak
		}
	}
	return max, nil
}

func (f *fakeStreakRepo) HasActiveStreakEndingOn(_ dbctx.Context, userID uint, date time.Time) (bool, error) {
	for _, streak := range f.streaks {
		if streak.UserID != userID || streak.CurrentStreak == 0 || streak.LastCheckInDate == nil {
			continue
		}
		if streak.LastCheckInDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

type fakeLedgerRepo struct {
	entries []*types.PointsLedger
}

func (f *fakeLedgerRepo) Create(_ dbctx.Context, entry *types.PointsLedger) error {
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) CreateIdempotent(_ dbctx.Context, entry *types.PointsLedger) (bool, error) {
	if entry.DedupeKey != nil {
		for _, existing := range f.entries {
			if existing.DedupeKey != nil && *existing.DedupeKey == *entry.DedupeKey {
				return false, nil
			}
		}
	}
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, entry)
	return true, nil
}

func (f *fakeLedgerRepo) ExistsAward(_ dbctx.Context, userID uint, eventType, description string, referenceID *uint) (bool, error) {
	for _, entry := range f.entries {
		if entry.UserID != userID || entry.EventType != eventType || entry.Description != description {
			continue
		}
		if referenceID != nil {
			if entry.EventReferenceID == nil || *entry.EventReferenceID != *referenceID {
				continue
			}
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeLedgerRepo) SumPoints(_ dbctx.Context, userID uint, programID *uint) (int64, error) {
	var sum int64
	for _, entry := range f.entries {
		if entry.UserID != userID {
			continue
		}
		if programID != nil {
			if entry.ProgramID == nil || *entry.ProgramID != *programID {
				continue
			}
		}
		sum += int64(entry.Points)
	}
	return sum, nil
}

type fakeRewardRepo struct {
	values map[string]int
}

func (f *fakeRewardRepo) GetValue(_ dbctx.Context, key string) (*int, error) {
	if value, ok := f.values[key]; ok {
		v := value
		return &v, nil
	}
	return nil, nil
}

func (f *fakeRewardRepo) LoadMap(_ dbctx.Context) (map[string]int, error) {
	out := map[string]int{}
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

type fakeBadgeRepo struct {
	badges []*types.Badge
}

func (f *fakeBadgeRepo) ListAll(_ dbctx.Context) ([]*types.Badge, error) {
	return f.badges, nil
}

type fakeUserBadgeRepo struct {
	awards []*types.UserBadge
}

func (f *fakeUserBadgeRepo) Exists(_ dbctx.Context, userID, badgeID uint) (bool, error) {
	for _, award := range f.awards {
		if award.UserID == userID && award.BadgeID == badgeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserBadgeRepo) Create(_ dbctx.Context, award *types.UserBadge) error {
	award.ID = uint(len(f.awards) + 1)
	f.awards = append(f.awards, award)
	return nil
}

func (f *fakeUserBadgeRepo) ListByUser(_ dbctx.Context, userID uint) ([]*types.UserBadge, error) {
	var out []*types.UserBadge
	for _, award := range f.awards {
		if award.UserID == userID {
			out = append(out, award)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	events []*types.NotificationEvent
}

func (f *fakeNotificationRepo) Create(_ dbctx.Context, event *types.NotificationEvent) error {
	event.ID = uint(len(f.events) + 1)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeNotificationRepo) ExistsSince(_ dbctx.Context, userID uint, eventType string, since time.Time) (bool, error) {
	for _, event := range f.events {
		if event.UserID == userID && event.EventType == eventType && !event.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type fakeBus struct {
	published []*types.NotificationEvent
}

func (f *fakeBus) Publish(_ context.Context, event *types.NotificationEvent) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Close() error { return nil }

var (
	_ repos.UserRepo              = (*fakeUserRepo)(nil)
	_ repos.HabitRepo             = (*fakeHabitRepo)(nil)
	_ repos.CheckInRepo           = (*fakeCheckInRepo)(nil)
	_ repos.StreakRepo            = (*fakeStreakRepo)(nil)
	_ repos.PointsLedgerRepo      = (*fakeLedgerRepo)(nil)
	_ repos.RewardConfigRepo      = (*fakeRewardRepo)(nil)
	_ repos.BadgeRepo             = (*fakeBadgeRepo)(nil)
	_ repos.UserBadgeRepo         = (*fakeUserBadgeRepo)(nil)
	_ repos.NotificationEventRepo = (*fakeNotificationRepo)(nil)
	_ redis.NotificationBus       = (*fakeBus)(nil)
)
