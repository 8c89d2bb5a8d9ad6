package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type UserBadgeRepo interface {
	Exists(dbc dbctx.Context, userID, badgeID uint) (bool, error)
	Create(dbc dbctx.Context, award *types.UserBadge) error
	ListByUser(dbc dbctx.Context, userID uint) ([]*types.UserBadge, error)
}

type userBadgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBadgeRepo(db *gorm.DB, baseLog *logger.Logger) UserBadgeRepo {
	return &userBadgeRepo{db: db, log: baseLog.With("repo", "UserBadgeRepo")}
}

func (ubr *userBadgeRepo) Exists(dbc dbctx.Context, userID, badgeID uint) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ubr.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ubr *userBadgeRepo) Create(dbc dbctx.Context, award *types.UserBadge) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ubr.db
	}
	return transaction.WithContext(dbc.Ctx).Create(award).Error
}

func (ubr *userBadgeRepo) ListByUser(dbc dbctx.Context, userID uint) ([]*types.UserBadge, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ubr.db
	}
	var awards []*types.UserBadge
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&awards).Error; err != nil {
		return nil, err
	}
	return awards, nil
}
