package types

import (
	"time"
)

type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge;column:user_id" json:"user_id"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_user_badge;column:badge_id" json:"badge_id"`
	Badge     *Badge    `gorm:"constraint:OnDelete:CASCADE;foreignKey:BadgeID;references:ID" json:"badge,omitempty"`
	AwardedAt time.Time `gorm:"not null;default:now();column:awarded_at" json:"awarded_at"`
}

func (UserBadge) TableName() string { return "user_badges" }
