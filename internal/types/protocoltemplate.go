package types

import (
	"time"
)

type ProtocolTemplate struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Code             string    `gorm:"size:100;not null;uniqueIndex;column:code" json:"code"`
	Name             string    `gorm:"size:255;not null;column:name" json:"name"`
	Version          string    `gorm:"size:50;not null;column:version" json:"version"`
	Description      string    `gorm:"type:text;column:description" json:"description"`
	IsActive         bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	DefaultProgramID *uint     `gorm:"column:default_program_id" json:"default_program_id,omitempty"`
	DefaultProgram   *Program  `gorm:"constraint:OnDelete:SET NULL;foreignKey:DefaultProgramID;references:ID" json:"default_program,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Phases                []*ProtocolPhase        `gorm:"foreignKey:ProtocolTemplateID;references:ID" json:"phases,omitempty"`
	ArtifactDefinitions   []*ArtifactDefinition   `gorm:"foreignKey:ProtocolTemplateID;references:ID" json:"artifact_definitions,omitempty"`
	InterventionTemplates []*InterventionTemplate `gorm:"foreignKey:ProtocolTemplateID;references:ID" json:"intervention_templates,omitempty"`
}

func (ProtocolTemplate) TableName() string { return "protocol_templates" }
