package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ProtocolPhaseRepo interface {
	// ListByTemplateOrdered returns the template's phases sorted by
	// phase_order ascending; this ordering defines the transition path.
	ListByTemplateOrdered(dbc dbctx.Context, templateID uint) ([]*types.ProtocolPhase, error)
	GetFirstByTemplate(dbc dbctx.Context, templateID uint) (*types.ProtocolPhase, error)
}

type protocolPhaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProtocolPhaseRepo(db *gorm.DB, baseLog *logger.Logger) ProtocolPhaseRepo {
	return &protocolPhaseRepo{db: db, log: baseLog.With("repo", "ProtocolPhaseRepo")}
}

func (ppr *protocolPhaseRepo) ListByTemplateOrdered(dbc dbctx.Context, templateID uint) ([]*types.ProtocolPhase, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ppr.db
	}
	var phases []*types.ProtocolPhase
	if err := transaction.WithContext(dbc.Ctx).
		Where("protocol_template_id = ?", templateID).
		Order("phase_order ASC").
		Find(&phases).Error; err != nil {
		return nil, err
	}
	return phases, nil
}

func (ppr *protocolPhaseRepo) GetFirstByTemplate(dbc dbctx.Context, templateID uint) (*types.ProtocolPhase, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ppr.db
	}
	var phases []*types.ProtocolPhase
	if err := transaction.WithContext(dbc.Ctx).
		Where("protocol_template_id = ?", templateID).
		Order("phase_order ASC").
		Limit(1).
		Find(&phases).Error; err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return nil, nil
	}
	return phases[0], nil
}
