package types

import (
	"time"
)

const (
	RunStatusActive    = "active"
	RunStatusRetest    = "retest"
	RunStatusCompleted = "completed"
)

// ProtocolRun is the mutable aggregate root for one patient's execution of a
// template. CurrentPhaseID is null until the first advance and always points
// at a phase of the run's own template.
type ProtocolRun struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	UserID             uint              `gorm:"not null;index:idx_protocol_runs_user_status;column:user_id" json:"user_id"`
	ProtocolTemplateID uint              `gorm:"not null;index;column:protocol_template_id" json:"protocol_template_id"`
	ProtocolTemplate   *ProtocolTemplate `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProtocolTemplateID;references:ID" json:"protocol_template,omitempty"`
	Status             string            `gorm:"size:50;not null;default:active;index:idx_protocol_runs_user_status;column:status" json:"status"`
	CurrentPhaseID     *uint             `gorm:"column:current_phase_id" json:"current_phase_id,omitempty"`
	CurrentPhase       *ProtocolPhase    `gorm:"constraint:OnDelete:SET NULL;foreignKey:CurrentPhaseID;references:ID" json:"current_phase,omitempty"`
	StartedAt          time.Time         `gorm:"not null;default:now();column:started_at" json:"started_at"`
	CompletedAt        *time.Time        `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt          time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null;default:now()" json:"updated_at"`

	ArtifactInstances []*ArtifactInstance      `gorm:"foreignKey:ProtocolRunID;references:ID" json:"artifact_instances,omitempty"`
	GeneratedItems    []*ProtocolGeneratedItem `gorm:"foreignKey:ProtocolRunID;references:ID" json:"generated_items,omitempty"`
}

func (ProtocolRun) TableName() string { return "protocol_runs" }
