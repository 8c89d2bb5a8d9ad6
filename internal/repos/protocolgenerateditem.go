package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ProtocolGeneratedItemRepo interface {
	GetByRunAndIntervention(dbc dbctx.Context, runID, interventionTemplateID uint) (*types.ProtocolGeneratedItem, error)
	Create(dbc dbctx.Context, item *types.ProtocolGeneratedItem) error
	ListByRun(dbc dbctx.Context, runID uint) ([]*types.ProtocolGeneratedItem, error)
	CountByRun(dbc dbctx.Context, runID uint) (int64, error)
}

type protocolGeneratedItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProtocolGeneratedItemRepo(db *gorm.DB, baseLog *logger.Logger) ProtocolGeneratedItemRepo {
	return &protocolGeneratedItemRepo{db: db, log: baseLog.With("repo", "ProtocolGeneratedItemRepo")}
}

func (pgr *protocolGeneratedItemRepo) GetByRunAndIntervention(dbc dbctx.Context, runID, interventionTemplateID uint) (*types.ProtocolGeneratedItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pgr.db
	}
	var items []*types.ProtocolGeneratedItem
	if err := transaction.WithContext(dbc.Ctx).
		Where("protocol_run_id = ? AND intervention_template_id = ?", runID, interventionTemplateID).
		Limit(1).
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (pgr *protocolGeneratedItemRepo) Create(dbc dbctx.Context, item *types.ProtocolGeneratedItem) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pgr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(item).Error
}

func (pgr *protocolGeneratedItemRepo) ListByRun(dbc dbctx.Context, runID uint) ([]*types.ProtocolGeneratedItem, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pgr.db
	}
	var items []*types.ProtocolGeneratedItem
	if err := transaction.WithContext(dbc.Ctx).
		Where("protocol_run_id = ?", runID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (pgr *protocolGeneratedItemRepo) CountByRun(dbc dbctx.Context, runID uint) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = pgr.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ProtocolGeneratedItem{}).
		Where("protocol_run_id = ?", runID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
