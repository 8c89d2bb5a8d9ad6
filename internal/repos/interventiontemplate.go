package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type InterventionTemplateRepo interface {
	ListByTemplate(dbc dbctx.Context, templateID uint) ([]*types.InterventionTemplate, error)
}

type interventionTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterventionTemplateRepo(db *gorm.DB, baseLog *logger.Logger) InterventionTemplateRepo {
	return &interventionTemplateRepo{db: db, log: baseLog.With("repo", "InterventionTemplateRepo")}
}

func (itr *interventionTemplateRepo) ListByTemplate(dbc dbctx.Context, templateID uint) ([]*types.InterventionTemplate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = itr.db
	}
	var templates []*types.InterventionTemplate
	if err := transaction.WithContext(dbc.Ctx).
		Where("protocol_template_id = ?", templateID).
		Order("id ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
