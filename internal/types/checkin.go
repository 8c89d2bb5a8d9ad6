package types

import (
	"time"
)

// CheckIn is one completed day for a habit. The composite unique index is
// the sole defense against duplicate submissions for the same day.
type CheckIn struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_habit_date;index:idx_checkins_user_metric_date;column:user_id" json:"user_id"`
	HabitID      uint      `gorm:"not null;uniqueIndex:idx_user_habit_date;column:habit_id" json:"habit_id"`
	Habit        *Habit    `gorm:"constraint:OnDelete:CASCADE;foreignKey:HabitID;references:ID" json:"habit,omitempty"`
	CheckInDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_habit_date;column:check_in_date" json:"check_in_date"`
	MetricKey    *string   `gorm:"size:100;index:idx_checkins_user_metric_date;column:metric_key" json:"metric_key,omitempty"`
	ValueNumeric *float64  `gorm:"column:value_numeric" json:"value_numeric,omitempty"`
	ValueText    *string   `gorm:"type:text;column:value_text" json:"value_text,omitempty"`
	Notes        string    `gorm:"type:text;column:notes" json:"notes"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (CheckIn) TableName() string { return "check_ins" }
