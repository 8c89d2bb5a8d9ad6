package types

import (
	"time"
)

type Streak struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index:idx_user_habit_program;column:user_id" json:"user_id"`
	HabitID         *uint      `gorm:"index:idx_user_habit_program;column:habit_id" json:"habit_id,omitempty"`
	Habit           *Habit     `gorm:"constraint:OnDelete:CASCADE;foreignKey:HabitID;references:ID" json:"habit,omitempty"`
	ProgramID       *uint      `gorm:"index:idx_user_habit_program;column:program_id" json:"program_id,omitempty"`
	CurrentStreak   int        `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
	LongestStreak   int        `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
	LastCheckInDate *time.Time `gorm:"type:date;column:last_check_in_date" json:"last_check_in_date,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Streak) TableName() string { return "streaks" }
