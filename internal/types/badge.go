package types

import (
	"time"
)

// Structured badge criteria, decided at badge-definition time. Rows with an
// empty kind fall back to the legacy free-text heuristic over Criteria.
const (
	CriteriaKindCheckInCount = "check_in_count"
	CriteriaKindStreakLength = "streak_length"
)

type Badge struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:255;not null;uniqueIndex;column:name" json:"name"`
	Description       string    `gorm:"type:text;column:description" json:"description"`
	Icon              string    `gorm:"size:255;column:icon" json:"icon"`
	Criteria          string    `gorm:"type:text;column:criteria" json:"criteria"`
	CriteriaKind      string    `gorm:"size:50;column:criteria_kind" json:"criteria_kind"`
	CriteriaThreshold int       `gorm:"not null;default:0;column:criteria_threshold" json:"criteria_threshold"`
	PointsReward      int       `gorm:"not null;default:0;column:points_reward" json:"points_reward"`
	CreatedAt         time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Badge) TableName() string { return "badges" }
