package repos

import (
	"time"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type StreakRepo interface {
	GetByUserAndHabit(dbc dbctx.Context, userID, habitID uint) (*types.Streak, error)
	Create(dbc dbctx.Context, streak *types.Streak) error
	Save(dbc dbctx.Context, streak *types.Streak) error
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.Streak, error)
	MaxLongestByUser(dbc dbctx.Context, userID uint) (int, error)
	HasActiveStreakEndingOn(dbc dbctx.Context, userID uint, date time.Time) (bool, error)
}

type streakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return &streakRepo{db: db, log: baseLog.With("repo", "StreakRepo")}
}

func (sr *streakRepo) GetByUserAndHabit(dbc dbctx.Context, userID, habitID uint) (*types.Streak, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = sr.db
	}
	var streaks []*types.Streak
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND habit_id = ?", userID, habitID).
		Limit(1).
		Find(&streaks).Error; err != nil {
		return nil, err
	}
	if len(streaks) == 0 {
		return nil, nil
	}
	return streaks[0], nil
}

func (sr *streakRepo) Create(dbc dbctx.Context, streak *types.Streak) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(streak).Error
}

func (sr *streakRepo) Save(dbc dbctx.Context, streak *types.Streak) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(dbc.Ctx).Save(streak).Error
}

func (sr *streakRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.Streak, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = sr.db
	}
	var streaks []*types.Streak
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&streaks).Error; err != nil {
		return nil, err
	}
	return streaks, nil
}

func (sr *streakRepo) MaxLongestByUser(dbc dbctx.Context, userID uint) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = sr.db
	}
	var max *int
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Streak{}).
		Where("user_id = ?", userID).
		Select("MAX(longest_streak)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// HasActiveStreakEndingOn reports whether the user has any streak with a
// positive current run whose last check-in fell on the given date.
func (sr *streakRepo) HasActiveStreakEndingOn(dbc dbctx.Context, userID uint, date time.Time) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Streak{}).
		Where("user_id = ? AND current_streak > 0 AND last_check_in_date = ?", userID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
