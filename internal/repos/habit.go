package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type HabitRepo interface {
	GetByID(dbc dbctx.Context, id uint) (*types.Habit, error)
	Create(dbc dbctx.Context, habit *types.Habit) error
	ListByProgram(dbc dbctx.Context, programID uint) ([]*types.Habit, error)
	ProgramIDByHabit(dbc dbctx.Context) (map[uint]uint, error)
}

type habitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
	return &habitRepo{db: db, log: baseLog.With("repo", "HabitRepo")}
}

func (hr *habitRepo) GetByID(dbc dbctx.Context, id uint) (*types.Habit, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = hr.db
	}
	var habit types.Habit
	if err := transaction.WithContext(dbc.Ctx).First(&habit, id).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

func (hr *habitRepo) Create(dbc dbctx.Context, habit *types.Habit) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(habit).Error
}

func (hr *habitRepo) ListByProgram(dbc dbctx.Context, programID uint) ([]*types.Habit, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = hr.db
	}
	var habits []*types.Habit
	if err := transaction.WithContext(dbc.Ctx).
		Where("program_id = ?", programID).
		Order("id ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// ProgramIDByHabit returns habit id -> program id for every habit; the
// streak batch uses it to fill program scope on upserted streak rows.
func (hr *habitRepo) ProgramIDByHabit(dbc dbctx.Context) (map[uint]uint, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = hr.db
	}
	type row struct {
		ID        uint
		ProgramID uint
	}
	var rows []row
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Habit{}).
		Select("id", "program_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]uint, len(rows))
	for _, r := range rows {
		out[r.ID] = r.ProgramID
	}
	return out, nil
}
