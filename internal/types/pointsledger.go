package types

import (
	"time"
)

const (
	EventCheckIn           = "check_in"
	EventBadgeEarned       = "badge_earned"
	EventStreakMilestone   = "streak_milestone"
	EventProtocolMilestone = "protocol_milestone"
)

// PointsLedger is append-only; balances are always derived sums. DedupeKey
// is set for one-time awards (milestones, streak bonuses, badge rewards) so
// the unique index makes the insert itself idempotent under concurrent
// retries; plain check-in credits leave it null.
type PointsLedger struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index:idx_user_created;column:user_id" json:"user_id"`
	ProgramID        *uint     `gorm:"column:program_id" json:"program_id,omitempty"`
	Program          *Program  `gorm:"constraint:OnDelete:SET NULL;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	Points           int       `gorm:"not null;column:points" json:"points"`
	EventType        string    `gorm:"size:50;not null;column:event_type" json:"event_type"`
	EventReferenceID *uint     `gorm:"column:event_reference_id" json:"event_reference_id,omitempty"`
	Description      string    `gorm:"type:text;column:description" json:"description"`
	DedupeKey        *string   `gorm:"size:255;uniqueIndex;column:dedupe_key" json:"-"`
	CreatedAt        time.Time `gorm:"not null;default:now();index:idx_user_created" json:"created_at"`
}

func (PointsLedger) TableName() string { return "points_ledger" }
