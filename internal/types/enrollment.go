package types

import (
	"time"
)

type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_program;column:user_id" json:"user_id"`
	ProgramID  uint      `gorm:"not null;uniqueIndex:idx_user_program;column:program_id" json:"program_id"`
	Program    *Program  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	EnrolledAt time.Time `gorm:"not null;default:now();column:enrolled_at" json:"enrolled_at"`
	IsActive   bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollments" }
