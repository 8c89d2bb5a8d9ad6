package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ProtocolTemplateRepo interface {
	GetByID(dbc dbctx.Context, id uint) (*types.ProtocolTemplate, error)
	GetActiveByCode(dbc dbctx.Context, code string) (*types.ProtocolTemplate, error)
}

type protocolTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProtocolTemplateRepo(db *gorm.DB, baseLog *logger.Logger) ProtocolTemplateRepo {
	return &protocolTemplateRepo{db: db, log: baseLog.With("repo", "ProtocolTemplateRepo")}
}

func (ptr *protocolTemplateRepo) GetByID(dbc dbctx.Context, id uint) (*types.ProtocolTemplate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ptr.db
	}
	var template types.ProtocolTemplate
	if err := transaction.WithContext(dbc.Ctx).First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (ptr *protocolTemplateRepo) GetActiveByCode(dbc dbctx.Context, code string) (*types.ProtocolTemplate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ptr.db
	}
	var templates []*types.ProtocolTemplate
	if err := transaction.WithContext(dbc.Ctx).
		Where("code = ? AND is_active = ?", code, true).
		Limit(1).
		Find(&templates).Error; err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, nil
	}
	return templates[0], nil
}
