package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type RewardConfigRepo interface {
	// GetValue returns the configured value for the key, or nil when the key
	// is absent. Callers supply their own defaults; absence is never an error.
	GetValue(dbc dbctx.Context, key string) (*int, error)
	LoadMap(dbc dbctx.Context) (map[string]int, error)
}

type rewardConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardConfigRepo(db *gorm.DB, baseLog *logger.Logger) RewardConfigRepo {
	return &rewardConfigRepo{db: db, log: baseLog.With("repo", "RewardConfigRepo")}
}

func (rcr *rewardConfigRepo) GetValue(dbc dbctx.Context, key string) (*int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rcr.db
	}
	var configs []*types.RewardConfig
	if err := transaction.WithContext(dbc.Ctx).
		Where("config_key = ?", key).
		Limit(1).
		Find(&configs).Error; err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, nil
	}
	value := configs[0].ConfigValue
	return &value, nil
}

func (rcr *rewardConfigRepo) LoadMap(dbc dbctx.Context) (map[string]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = rcr.db
	}
	var configs []*types.RewardConfig
	if err := transaction.WithContext(dbc.Ctx).Find(&configs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(configs))
	for _, c := range configs {
		out[c.ConfigKey] = c.ConfigValue
	}
	return out, nil
}
