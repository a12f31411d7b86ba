package model

import "strings"

// SparePart is a quantified stock item tied to one equipment item.
type SparePart struct {
	ID          int64   `gorm:"primaryKey"`
	EquipmentID int64   `gorm:"index;not null"`
	Name        string  `gorm:"size:256;not null"`
	Quantity    int     `gorm:"not null;check:chk_spare_parts_quantity,quantity > 0"`
	PurchaseURL *string `gorm:"type:text"`
}

func (SparePart) TableName() string {
	return "spare_parts"
}

// URL returns the purchase link or an empty string.
func (p SparePart) URL() string {
	if p.PurchaseURL == nil {
		return ""
	}
	return *p.PurchaseURL
}

// PartSummary aggregates spare parts with the same name across all equipment.
type PartSummary struct {
	Name          string
	TotalQuantity int64
	PurchaseURLs  []string
}

// URLList joins the distinct purchase links for display.
func (s PartSummary) URLList() string {
	return strings.Join(s.PurchaseURLs, ", ")
}
