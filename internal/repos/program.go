package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ProgramRepo interface {
	GetByID(dbc dbctx.Context, id uint) (*types.Program, error)
	GetLatestByName(dbc dbctx.Context, name string) (*types.Program, error)
	Create(dbc dbctx.Context, program *types.Program) error
}

type programRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return &programRepo{db: db, log: baseLog.With("repo", "ProgramRepo")}
}

func (pr *programRepo) GetByID(dbc dbctx.Context, id uint) (*types.Program, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pr.db
	}
	var program types.Program
	if err := transaction.WithContext(dbc.Ctx).First(&program, id).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// GetLatestByName returns the most recently created program with the exact
// name, or nil when none exists.
func (pr *programRepo) GetLatestByName(dbc dbctx.Context, name string) (*types.Program, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pr.db
	}
	var programs []*types.Program
	if err := transaction.WithContext(dbc.Ctx).
		Where("name = ?", name).
		Order("id DESC").
		Limit(1).
		Find(&programs).Error; err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, nil
	}
	return programs[0], nil
}

func (pr *programRepo) Create(dbc dbctx.Context, program *types.Program) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(program).Error
}
