package repos

import (
	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type EnrollmentRepo interface {
	Exists(dbc dbctx.Context, userID, programID uint) (bool, error)
	Create(dbc dbctx.Context, enrollment *types.Enrollment) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (er *enrollmentRepo) Exists(dbc dbctx.Context, userID, programID uint) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Enrollment{}).
		Where("user_id = ? AND program_id = ?", userID, programID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (er *enrollmentRepo) Create(dbc dbctx.Context, enrollment *types.Enrollment) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(dbc.Ctx).Create(enrollment).Error
}
