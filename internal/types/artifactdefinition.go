package types

import (
	"gorm.io/datatypes"
)

// Artifact keys with engine-defined behavior.
const (
	ArtifactKeySevenFunctions = "q_7_functions"
	ArtifactKeyBaselinePanel  = "lab_baseline_panel"
)

type ArtifactDefinition struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ProtocolTemplateID uint           `gorm:"not null;uniqueIndex:idx_artifact_definition_template_key;column:protocol_template_id" json:"protocol_template_id"`
	ArtifactKey        string         `gorm:"size:100;not null;uniqueIndex:idx_artifact_definition_template_key;column:artifact_key" json:"artifact_key"`
	Type               string         `gorm:"size:50;not null;column:type" json:"type"`
	Name               string         `gorm:"size:255;not null;column:name" json:"name"`
	Schema             datatypes.JSON `gorm:"type:jsonb;column:schema_json" json:"schema_json,omitempty"`
	Scoring            datatypes.JSON `gorm:"type:jsonb;column:scoring_json" json:"scoring_json,omitempty"`
}

func (ArtifactDefinition) TableName() string { return "artifact_definitions" }
