package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"equipment-inventory/internal/model"
)

// ListEquipment returns every equipment row ordered by name.
func (s *gormStore) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	var items []model.Equipment
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return items, nil
}

// GetEquipment returns a single equipment row or ErrNotFound.
func (s *gormStore) GetEquipment(ctx context.Context, id int64) (*model.Equipment, error) {
	var item model.Equipment
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get equipment %d: %w", id, err)
	}
	return &item, nil
}

// AddEquipment inserts a new working item. Blank names are rejected.
func (s *gormStore) AddEquipment(ctx context.Context, name string) (*model.Equipment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	item := model.Equipment{Name: name, Status: model.StatusWorking}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	return &item, nil
}

// UpdateEquipmentStatus overwrites the status. Unknown ids are a no-op.
func (s *gormStore) UpdateEquipmentStatus(ctx context.Context, id int64, status model.Status) error {
	if !status.Valid() {
		return ErrInvalidInput
	}

	if err := s.db.WithContext(ctx).
		Model(&model.Equipment{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update status of equipment %d: %w", id, err)
	}
	return nil
}

// DeleteEquipment removes the item together with everything it owns.
// Unknown ids are a no-op.
func (s *gormStore) DeleteEquipment(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM subscription_equipment WHERE equipment_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink subscriptions from equipment %d: %w", id, err)
		}
		if err := tx.Where("equipment_id = ?", id).Delete(&model.Issue{}).Error; err != nil {
			return fmt.Errorf("failed to delete issues of equipment %d: %w", id, err)
		}
		if err := tx.Where("equipment_id = ?", id).Delete(&model.SparePart{}).Error; err != nil {
			return fmt.Errorf("failed to delete spare parts of equipment %d: %w", id, err)
		}
		if err := tx.Delete(&model.Equipment{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete equipment %d: %w", id, err)
		}
		return nil
	})
}
