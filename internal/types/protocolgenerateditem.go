package types

import (
	"time"
)

// ProtocolGeneratedItem records what an intervention generated for a run.
// Its existence is the at-most-once marker for generation.
type ProtocolGeneratedItem struct {
	ID                     uint                  `gorm:"primaryKey" json:"id"`
	ProtocolRunID          uint                  `gorm:"not null;uniqueIndex:idx_generated_run_intervention;column:protocol_run_id" json:"protocol_run_id"`
	InterventionTemplateID uint                  `gorm:"not null;uniqueIndex:idx_generated_run_intervention;column:intervention_template_id" json:"intervention_template_id"`
	InterventionTemplate   *InterventionTemplate `gorm:"constraint:OnDelete:CASCADE;foreignKey:InterventionTemplateID;references:ID" json:"intervention_template,omitempty"`
	GeneratedHabitID       *uint                 `gorm:"column:generated_habit_id" json:"generated_habit_id,omitempty"`
	GeneratedHabit         *Habit                `gorm:"constraint:OnDelete:SET NULL;foreignKey:GeneratedHabitID;references:ID" json:"generated_habit,omitempty"`
	CreatedAt              time.Time             `gorm:"not null;default:now()" json:"created_at"`
}

func (ProtocolGeneratedItem) TableName() string { return "protocol_generated_items" }
