package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"equipment-inventory/internal/model"
)

// PutSubscription creates the subscription or replaces its keys and the set
// of equipment it follows. Ids of unknown equipment are ignored.
func (s *gormStore) PutSubscription(ctx context.Context, sub model.PushSubscription, equipmentIDs []int64) error {
	sub.Endpoint = strings.TrimSpace(sub.Endpoint)
	if sub.Endpoint == "" || sub.P256DH == "" || sub.Auth == "" {
		return ErrInvalidInput
	}
	sub.Equipment = nil

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		var items []*model.Equipment
		if len(equipmentIDs) > 0 {
			if err := tx.Find(&items, equipmentIDs).Error; err != nil {
				return fmt.Errorf("failed to resolve subscribed equipment: %w", err)
			}
		}

		if err := tx.Model(&sub).Association("Equipment").Replace(&items); err != nil {
			return fmt.Errorf("failed to replace subscribed equipment: %w", err)
		}
		return nil
	})
}

// GetSubscribedEquipment returns the ids of the equipment a subscription
// follows, or ErrNotFound for unknown endpoints.
func (s *gormStore) GetSubscribedEquipment(ctx context.Context, endpoint string) ([]int64, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).
		Preload("Equipment", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	ids := make([]int64, len(sub.Equipment))
	for i, item := range sub.Equipment {
		ids[i] = item.ID
	}
	return ids, nil
}

// DeleteSubscription removes the subscription and its equipment links.
// Unknown endpoints are a no-op.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM subscription_equipment WHERE push_subscription_endpoint = ?", endpoint).Error; err != nil {
			return fmt.Errorf("failed to unlink subscription: %w", err)
		}
		if err := tx.Delete(&model.PushSubscription{}, "endpoint = ?", endpoint).Error; err != nil {
			return fmt.Errorf("failed to delete subscription: %w", err)
		}
		return nil
	})
}

// SubscriptionsForEquipment returns every subscription following the item.
func (s *gormStore) SubscriptionsForEquipment(ctx context.Context, equipmentID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).
		Joins("JOIN subscription_equipment se ON se.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("se.equipment_id = ?", equipmentID).
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions of equipment %d: %w", equipmentID, err)
	}
	return subs, nil
}
