package repos

import (
	"time"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type CheckInFilter struct {
	UserID    *uint
	HabitID   *uint
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

// CheckInDate is one (user, habit, date) row for the streak batch.
type CheckInDate struct {
	UserID      uint
	HabitID     uint
	CheckInDate time.Time
}

type CheckInRepo interface {
	Create(dbc dbctx.Context, checkIn *types.CheckIn) error
	GetByID(dbc dbctx.Context, id uint) (*types.CheckIn, error)
	List(dbc dbctx.Context, filter CheckInFilter) ([]*types.CheckIn, error)
	ListAllDates(dbc dbctx.Context) ([]CheckInDate, error)
	CountByUser(dbc dbctx.Context, userID uint) (int64, error)
	ExistsOnDate(dbc dbctx.Context, userID uint, date time.Time) (bool, error)
}

type checkInRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCheckInRepo(db *gorm.DB, baseLog *logger.Logger) CheckInRepo {
	return &checkInRepo{db: db, log: baseLog.With("repo", "CheckInRepo")}
}

func (cr *checkInRepo) Create(dbc dbctx.Context, checkIn *types.CheckIn) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(checkIn).Error
}

func (cr *checkInRepo) GetByID(dbc dbctx.Context, id uint) (*types.CheckIn, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = cr.db
	}
	var checkIn types.CheckIn
	if err := transaction.WithContext(dbc.Ctx).First(&checkIn, id).Error; err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (cr *checkInRepo) List(dbc dbctx.Context, filter CheckInFilter) ([]*types.CheckIn, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = cr.db
	}
	query := transaction.WithContext(dbc.Ctx).Model(&types.CheckIn{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.HabitID != nil {
		query = query.Where("habit_id = ?", *filter.HabitID)
	}
	if filter.StartDate != nil {
		query = query.Where("check_in_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("check_in_date <= ?", *filter.EndDate)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	var checkIns []*types.CheckIn
	if err := query.
		Order("check_in_date DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&checkIns).Error; err != nil {
		return nil, err
	}
	return checkIns, nil
}

func (cr *checkInRepo) ListAllDates(dbc dbctx.Context) ([]CheckInDate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = cr.db
	}
	var rows []CheckInDate
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.CheckIn{}).
		Select("user_id", "habit_id", "check_in_date").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (cr *checkInRepo) CountByUser(dbc dbctx.Context, userID uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.CheckIn{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *checkInRepo) ExistsOnDate(dbc dbctx.Context, userID uint, date time.Time) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.CheckIn{}).
		Where("user_id = ? AND check_in_date = ?", userID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
