package model

import "strings"

// Status is the operational state of an equipment item.
type Status string

const (
	StatusWorking Status = "working"
	StatusBroken  Status = "broken"
)

// Localized labels shown in views and accepted from forms.
const (
	labelWorking = "исправен"
	labelBroken  = "неисправен"
)

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusWorking || s == StatusBroken
}

// Label returns the localized display label.
func (s Status) Label() string {
	switch s {
	case StatusWorking:
		return labelWorking
	case StatusBroken:
		return labelBroken
	}
	return string(s)
}

// ParseStatus accepts either the status token or its localized label.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StatusWorking), labelWorking:
		return StatusWorking, true
	case string(StatusBroken), labelBroken:
		return StatusBroken, true
	}
	return "", false
}

// Equipment represents a tracked physical asset.
type Equipment struct {
	ID     int64  `gorm:"primaryKey"`
	Name   string `gorm:"size:256;not null"`
	Status Status `gorm:"size:16;not null;default:working;check:chk_equipment_status,status IN ('working','broken')"`

	// Associations
	Issues     []Issue     `gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE"`
	SpareParts []SparePart `gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name regardless of the naming strategy.
func (Equipment) TableName() string {
	return "equipment"
}
