package types

import (
	"gorm.io/datatypes"
)

// Phase keys observed in this domain. phase_key is stored as an opaque
// string; phase_order defines the only valid transition path.
const (
	PhaseTriage    = "triage"
	PhaseBaseline  = "baseline"
	PhaseIntervene = "intervene"
	PhaseRetest    = "retest"
)

type ProtocolPhase struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ProtocolTemplateID uint           `gorm:"not null;uniqueIndex:idx_protocol_phase_template_order;column:protocol_template_id" json:"protocol_template_id"`
	Name               string         `gorm:"size:255;not null;column:name" json:"name"`
	PhaseKey           string         `gorm:"size:50;not null;column:phase_key" json:"phase_key"`
	PhaseOrder         int            `gorm:"not null;uniqueIndex:idx_protocol_phase_template_order;column:phase_order" json:"phase_order"`
	EntryCriteria      datatypes.JSON `gorm:"type:jsonb;column:entry_criteria_json" json:"entry_criteria_json,omitempty"`
	ExitCriteria       datatypes.JSON `gorm:"type:jsonb;column:exit_criteria_json" json:"exit_criteria_json,omitempty"`
}

func (ProtocolPhase) TableName() string { return "protocol_phases" }
