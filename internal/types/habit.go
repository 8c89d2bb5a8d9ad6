package types

import (
	"time"
)

const (
	HabitSourceManual   = "manual"
	HabitSourceProtocol = "protocol"
)

type Habit struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	ProgramID           uint      `gorm:"not null;index:idx_habits_program_source;column:program_id" json:"program_id"`
	Program             *Program  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	Name                string    `gorm:"size:255;not null;column:name" json:"name"`
	Description         string    `gorm:"type:text;column:description" json:"description"`
	PointsPerCompletion int       `gorm:"not null;default:10;column:points_per_completion" json:"points_per_completion"`
	SourceType          string    `gorm:"size:50;not null;default:manual;index:idx_habits_program_source;column:source_type" json:"source_type"`
	SourceRefID         *uint     `gorm:"index:idx_habits_program_source;column:source_ref_id" json:"source_ref_id,omitempty"`
	TargetMetricKey     *string   `gorm:"size:100;column:target_metric_key" json:"target_metric_key,omitempty"`
	IsActive            bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt           time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Habit) TableName() string { return "habits" }
