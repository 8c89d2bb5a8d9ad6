package types

import (
	"time"

	"gorm.io/datatypes"
)

// ArtifactInstance is append-only; the latest instance per definition is
// authoritative for decisions.
type ArtifactInstance struct {
	ID                   uint                `gorm:"primaryKey" json:"id"`
	ProtocolRunID        uint                `gorm:"not null;index:idx_artifact_instances_run_definition_collected;column:protocol_run_id" json:"protocol_run_id"`
	ArtifactDefinitionID uint                `gorm:"not null;index:idx_artifact_instances_run_definition_collected;column:artifact_definition_id" json:"artifact_definition_id"`
	ArtifactDefinition   *ArtifactDefinition `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArtifactDefinitionID;references:ID" json:"artifact_definition,omitempty"`
	CollectedAt          time.Time           `gorm:"not null;default:now();index:idx_artifact_instances_run_definition_collected;column:collected_at" json:"collected_at"`
	Payload              datatypes.JSON      `gorm:"type:jsonb;column:payload_json" json:"payload_json,omitempty"`
	Computed             datatypes.JSON      `gorm:"type:jsonb;column:computed_json" json:"computed_json,omitempty"`
	Source               string              `gorm:"size:50;column:source" json:"source"`
}

func (ArtifactInstance) TableName() string { return "artifact_instances" }
