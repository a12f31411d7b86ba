package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"equipment-inventory/internal/model"
)

// ListIssues returns the issues of one equipment item, newest first.
func (s *gormStore) ListIssues(ctx context.Context, equipmentID int64) ([]model.Issue, error) {
	var issues []model.Issue
	if err := s.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("failed to list issues of equipment %d: %w", equipmentID, err)
	}
	return issues, nil
}

// AddIssue records a problem and marks the owning equipment broken in the
// same transaction.
func (s *gormStore) AddIssue(ctx context.Context, equipmentID int64, description string) (*model.Issue, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrInvalidInput
	}

	issue := model.Issue{
		EquipmentID: equipmentID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Equipment{}).
			Where("id = ?", equipmentID).
			Update("status", model.StatusBroken)
		if res.Error != nil {
			return fmt.Errorf("failed to mark equipment %d broken: %w", equipmentID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Create(&issue).Error; err != nil {
			return fmt.Errorf("failed to create issue for equipment %d: %w", equipmentID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue overwrites the description only. Unknown ids are a no-op.
func (s *gormStore) UpdateIssue(ctx context.Context, issueID int64, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrInvalidInput
	}

	if err := s.db.WithContext(ctx).
		Model(&model.Issue{}).
		Where("id = ?", issueID).
		Update("description", description).Error; err != nil {
		return fmt.Errorf("failed to update issue %d: %w", issueID, err)
	}
	return nil
}

// GetIssue returns a single issue or ErrNotFound.
func (s *gormStore) GetIssue(ctx context.Context, issueID int64) (*model.Issue, error) {
	var issue model.Issue
	if err := s.db.WithContext(ctx).First(&issue, issueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get issue %d: %w", issueID, err)
	}
	return &issue, nil
}

// IssueEquipmentID returns the id of the equipment that owns the issue.
func (s *gormStore) IssueEquipmentID(ctx context.Context, issueID int64) (int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).
		Model(&model.Issue{}).
		Where("id = ?", issueID).
		Limit(1).
		Pluck("equipment_id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to get owner of issue %d: %w", issueID, err)
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}
