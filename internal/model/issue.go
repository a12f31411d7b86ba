package model

import "time"

// Issue is a timestamped problem report tied to one equipment item.
type Issue struct {
	ID          int64     `gorm:"primaryKey"`
	EquipmentID int64     `gorm:"index;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (Issue) TableName() string {
	return "issues"
}
