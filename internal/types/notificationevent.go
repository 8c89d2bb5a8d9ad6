package types

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationCheckInReminder = "check_in_reminder"
	NotificationStreakRisk      = "streak_risk_alert"
)

type NotificationEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index;column:user_id" json:"user_id"`
	EventType string         `gorm:"size:50;not null;index;column:event_type" json:"event_type"`
	EventData datatypes.JSON `gorm:"type:jsonb;column:event_data" json:"event_data"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (NotificationEvent) TableName() string { return "notification_events" }
