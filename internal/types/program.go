package types

import (
	"time"
)

type Program struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	IsActive    bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Program) TableName() string { return "programs" }
