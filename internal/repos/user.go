package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type UserRepo interface {
	GetByID(dbc dbctx.Context, id uint) (*types.User, error)
	ListActiveIDs(dbc dbctx.Context) ([]uint, error)
	ListActiveEnrolledIDs(dbc dbctx.Context) ([]uint, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uint) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var user types.User
	if err := transaction.WithContext(dbc.Ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepo) ListActiveIDs(dbc dbctx.Context) ([]uint, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var ids []uint
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListActiveEnrolledIDs returns the distinct ids of active users holding at
// least one active enrollment.
func (ur *userRepo) ListActiveEnrolledIDs(dbc dbctx.Context) ([]uint, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var ids []uint
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Distinct("users.id").
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("users.is_active = ? AND enrollments.is_active = ?", true, true).
		Pluck("users.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
