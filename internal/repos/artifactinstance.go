package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type ArtifactInstanceRepo interface {
	Create(dbc dbctx.Context, instance *types.ArtifactInstance) error
	// ListByRun returns the run's instances with definitions preloaded,
	// ordered by collection time ascending.
	ListByRun(dbc dbctx.Context, runID uint) ([]*types.ArtifactInstance, error)
	// GetLatestByRunAndKey returns the most recently collected instance for
	// the artifact key, or nil when none exists.
	GetLatestByRunAndKey(dbc dbctx.Context, runID uint, artifactKey string) (*types.ArtifactInstance, error)
	CountByRunAndKey(dbc dbctx.Context, runID uint, artifactKey string) (int64, error)
}

type artifactInstanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArtifactInstanceRepo(db *gorm.DB, baseLog *logger.Logger) ArtifactInstanceRepo {
	return &artifactInstanceRepo{db: db, log: baseLog.With("repo", "ArtifactInstanceRepo")}
}

func (air *artifactInstanceRepo) Create(dbc dbctx.Context, instance *types.ArtifactInstance) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = air.db
	}
	return transaction.WithContext(dbc.Ctx).Create(instance).Error
}

func (air *artifactInstanceRepo) ListByRun(dbc dbctx.Context, runID uint) ([]*types.ArtifactInstance, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = air.db
	}
	var instances []*types.ArtifactInstance
	if err := transaction.WithContext(dbc.Ctx).
		Preload("ArtifactDefinition").
		Where("protocol_run_id = ?", runID).
		Order("collected_at ASC").
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (air *artifactInstanceRepo) GetLatestByRunAndKey(dbc dbctx.Context, runID uint, artifactKey string) (*types.ArtifactInstance, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = air.db
	}
	var instances []*types.ArtifactInstance
	if err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN artifact_definitions ON artifact_definitions.id = artifact_instances.artifact_definition_id").
		Where("artifact_instances.protocol_run_id = ? AND artifact_definitions.artifact_key = ?", runID, artifactKey).
		Order("artifact_instances.collected_at DESC").
		Limit(1).
		Find(&instances).Error; err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, nil
	}
	return instances[0], nil
}

func (air *artifactInstanceRepo) CountByRunAndKey(dbc dbctx.Context, runID uint, artifactKey string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = air.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ArtifactInstance{}).
		Joins("JOIN artifact_definitions ON artifact_definitions.id = artifact_instances.artifact_definition_id").
		Where("artifact_instances.protocol_run_id = ? AND artifact_definitions.artifact_key = ?", runID, artifactKey).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
