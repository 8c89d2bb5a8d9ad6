package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ArtifactDefinitionRepo interface {
	GetByTemplateAndKey(dbc dbctx.Context, templateID uint, artifactKey string) (*types.ArtifactDefinition, error)
}

type artifactDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArtifactDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) ArtifactDefinitionRepo {
	return &artifactDefinitionRepo{db: db, log: baseLog.With("repo", "ArtifactDefinitionRepo")}
}

func (adr *artifactDefinitionRepo) GetByTemplateAndKey(dbc dbctx.Context, templateID uint, artifactKey string) (*types.ArtifactDefinition, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = adr.db
	}
	var definitions []*types.ArtifactDefinition
	if err := transaction.WithContext(dbc.Ctx).
		Where("protocol_template_id = ? AND artifact_key = ?", templateID, artifactKey).
		Limit(1).
		Find(&definitions).Error; err != nil {
		return nil, err
	}
	if len(definitions) == 0 {
		return nil, nil
	}
	return definitions[0], nil
}
