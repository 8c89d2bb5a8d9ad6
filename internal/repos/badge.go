package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type BadgeRepo interface {
	ListAll(dbc dbctx.Context) ([]*types.Badge, error)
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	return &badgeRepo{db: db, log: baseLog.With("repo", "BadgeRepo")}
}

func (br *badgeRepo) ListAll(dbc dbctx.Context) ([]*types.Badge, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = br.db
	}
	var badges []*types.Badge
	if err := transaction.WithContext(dbc.Ctx).
		Order("id ASC").
		Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}
