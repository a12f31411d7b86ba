package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"equipment-inventory/internal/model"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput is returned when a write is rejected by validation.
	// No statement is executed in that case.
	ErrInvalidInput = errors.New("invalid input")
)

// EquipmentRepository reads and writes the equipment table.
type EquipmentRepository interface {
	ListEquipment(ctx context.Context) ([]model.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*model.Equipment, error)
	AddEquipment(ctx context.Context, name string) (*model.Equipment, error)
	UpdateEquipmentStatus(ctx context.Context, id int64, status model.Status) error
	DeleteEquipment(ctx context.Context, id int64) error
}

// IssueRepository reads and writes issue reports.
type IssueRepository interface {
	ListIssues(ctx context.Context, equipmentID int64) ([]model.Issue, error)
	AddIssue(ctx context.Context, equipmentID int64, description string) (*model.Issue, error)
	UpdateIssue(ctx context.Context, issueID int64, description string) error
	GetIssue(ctx context.Context, issueID int64) (*model.Issue, error)
	IssueEquipmentID(ctx context.Context, issueID int64) (int64, error)
}

// SparePartRepository reads and writes spare-part stock.
type SparePartRepository interface {
	ListSpareParts(ctx context.Context, equipmentID int64) ([]model.SparePart, error)
	GetSparePart(ctx context.Context, id int64) (*model.SparePart, error)
	AddSparePart(ctx context.Context, equipmentID int64, in SparePartInput) (*model.SparePart, error)
	UpdateSparePart(ctx context.Context, id int64, in SparePartInput) error
	DeleteSparePart(ctx context.Context, id int64) error
	SummarizeSpareParts(ctx context.Context) ([]model.PartSummary, error)
}

// SubscriptionRepository manages push subscriptions for breakage alerts.
type SubscriptionRepository interface {
	PutSubscription(ctx context.Context, sub model.PushSubscription, equipmentIDs []int64) error
	GetSubscribedEquipment(ctx context.Context, endpoint string) ([]int64, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForEquipment(ctx context.Context, equipmentID int64) ([]model.PushSubscription, error)
}

// Store defines the interface for all database operations.
type Store interface {
	EquipmentRepository
	IssueRepository
	SparePartRepository
	SubscriptionRepository
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}
