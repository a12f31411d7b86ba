package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"equipment-inventory/internal/model"
)

// ListSpareParts returns the spare parts of one equipment item ordered by name.
func (s *gormStore) ListSpareParts(ctx context.Context, equipmentID int64) ([]model.SparePart, error) {
	var parts []model.SparePart
	if err := s.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("name ASC").
		Order("id ASC").
		Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("failed to list spare parts of equipment %d: %w", equipmentID, err)
	}
	return parts, nil
}

// GetSparePart returns a single spare part or ErrNotFound.
func (s *gormStore) GetSparePart(ctx context.Context, id int64) (*model.SparePart, error) {
	var part model.SparePart
	if err := s.db.WithContext(ctx).First(&part, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get spare part %d: %w", id, err)
	}
	return &part, nil
}

// AddSparePart stores a new spare part for the equipment.
func (s *gormStore) AddSparePart(ctx context.Context, equipmentID int64, in SparePartInput) (*model.SparePart, error) {
	name, quantity, url, ok := in.normalize()
	if !ok {
		return nil, ErrInvalidInput
	}

	part := model.SparePart{
		EquipmentID: equipmentID,
		Name:        name,
		Quantity:    quantity,
		PurchaseURL: url,
	}
	if err := s.db.WithContext(ctx).Create(&part).Error; err != nil {
		return nil, fmt.Errorf("failed to create spare part for equipment %d: %w", equipmentID, err)
	}
	return &part, nil
}

// UpdateSparePart overwrites name, quantity and purchase link.
// Unknown ids are a no-op.
func (s *gormStore) UpdateSparePart(ctx context.Context, id int64, in SparePartInput) error {
	name, quantity, url, ok := in.normalize()
	if !ok {
		return ErrInvalidInput
	}

	if err := s.db.WithContext(ctx).
		Model(&model.SparePart{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":         name,
			"quantity":     quantity,
			"purchase_url": url,
		}).Error; err != nil {
		return fmt.Errorf("failed to update spare part %d: %w", id, err)
	}
	return nil
}

// DeleteSparePart removes the spare part. Unknown ids are a no-op.
func (s *gormStore) DeleteSparePart(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.SparePart{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete spare part %d: %w", id, err)
	}
	return nil
}

// SummarizeSpareParts groups all spare parts by name across equipment.
func (s *gormStore) SummarizeSpareParts(ctx context.Context) ([]model.PartSummary, error) {
	type totalRow struct {
		Name          string
		TotalQuantity int64
	}
	var totals []totalRow
	if err := s.db.WithContext(ctx).
		Model(&model.SparePart{}).
		Select("name AS name, SUM(quantity) AS total_quantity").
		Group("name").
		Order("name ASC").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate spare parts: %w", err)
	}

	type urlRow struct {
		Name        string
		PurchaseURL string
	}
	var urls []urlRow
	if err := s.db.WithContext(ctx).
		Model(&model.SparePart{}).
		Distinct("name", "purchase_url").
		Where("purchase_url IS NOT NULL AND purchase_url <> ''").
		Order("name ASC").
		Order("purchase_url ASC").
		Scan(&urls).Error; err != nil {
		return nil, fmt.Errorf("failed to collect purchase links: %w", err)
	}

	urlsByName := make(map[string][]string, len(totals))
	for _, u := range urls {
		urlsByName[u.Name] = append(urlsByName[u.Name], u.PurchaseURL)
	}

	summary := make([]model.PartSummary, 0, len(totals))
	for _, t := range totals {
		summary = append(summary, model.PartSummary{
			Name:          t.Name,
			TotalQuantity: t.TotalQuantity,
			PurchaseURLs:  urlsByName[t.Name],
		})
	}
	return summary, nil
}
