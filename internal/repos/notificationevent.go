package repos

import (
	"time"

	"gorm.io/gorm"

	"github.com/mevlabs/engagement-backend/internal/pkg/dbctx"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

type NotificationEventRepo interface {
	Create(dbc dbctx.Context, event *types.NotificationEvent) error
	ExistsSince(dbc dbctx.Context, userID uint, eventType string, since time.Time) (bool, error)
}

type notificationEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationEventRepo(db *gorm.DB, baseLog *logger.Logger) NotificationEventRepo {
	return &notificationEventRepo{db: db, log: baseLog.With("repo", "NotificationEventRepo")}
}

func (ner *notificationEventRepo) Create(dbc dbctx.Context, event *types.NotificationEvent) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ner.db
	}
	return transaction.WithContext(dbc.Ctx).Create(event).Error
}

func (ner *notificationEventRepo) ExistsSince(dbc dbctx.Context, userID uint, eventType string, since time.Time) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ner.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.NotificationEvent{}).
		Where("user_id = ? AND event_type = ? AND created_at >= ?", userID, eventType, since).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
