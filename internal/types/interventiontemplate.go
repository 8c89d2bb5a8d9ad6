package types

import (
	"gorm.io/datatypes"
)

const InterventionTypeHabit = "habit"

type InterventionTemplate struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ProtocolTemplateID uint           `gorm:"not null;uniqueIndex:idx_intervention_template_key;column:protocol_template_id" json:"protocol_template_id"`
	InterventionKey    string         `gorm:"size:100;not null;uniqueIndex:idx_intervention_template_key;column:intervention_key" json:"intervention_key"`
	Type               string         `gorm:"size:50;not null;column:type" json:"type"`
	Name               string         `gorm:"size:255;not null;column:name" json:"name"`
	Description        string         `gorm:"type:text;column:description" json:"description"`
	HabitBlueprint     datatypes.JSON `gorm:"type:jsonb;column:habit_blueprint_json" json:"habit_blueprint_json,omitempty"`
	ActivationRules    datatypes.JSON `gorm:"type:jsonb;column:activation_rules_json" json:"activation_rules_json,omitempty"`
}

func (InterventionTemplate) TableName() string { return "intervention_templates" }
