package types

import (
	"time"
)

// RewardConfig maps a config key to a point value. Missing keys always fall
// back to hardcoded defaults, never an error.
type RewardConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ConfigKey   string    `gorm:"size:100;not null;uniqueIndex;column:config_key" json:"config_key"`
	ConfigValue int       `gorm:"not null;column:config_value" json:"config_value"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (RewardConfig) TableName() string { return "reward_config" }
