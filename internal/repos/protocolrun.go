package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ProtocolRunRepo interface {
	Create(dbc dbctx.Context, run *types.ProtocolRun) error
	GetByID(dbc dbctx.Context, id uint) (*types.ProtocolRun, error)
	// GetWithTemplate eagerly loads the run's template; the engine needs the
	// template's default program and name.
	GetWithTemplate(dbc dbctx.Context, id uint) (*types.ProtocolRun, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error
}

type protocolRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProtocolRunRepo(db *gorm.DB, baseLog *logger.Logger) ProtocolRunRepo {
	return &protocolRunRepo{db: db, log: baseLog.With("repo", "ProtocolRunRepo")}
}

func (prr *protocolRunRepo) Create(dbc dbctx.Context, run *types.ProtocolRun) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = prr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(run).Error
}

func (prr *protocolRunRepo) GetByID(dbc dbctx.Context, id uint) (*types.ProtocolRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = prr.db
	}
	var run types.ProtocolRun
	if err := transaction.WithContext(dbc.Ctx).
		Preload("CurrentPhase").
		First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (prr *protocolRunRepo) GetWithTemplate(dbc dbctx.Context, id uint) (*types.ProtocolRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = prr.db
	}
	var run types.ProtocolRun
	if err := transaction.WithContext(dbc.Ctx).
		Preload("ProtocolTemplate").
		Preload("CurrentPhase").
		First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (prr *protocolRunRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = prr.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.ProtocolRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}
