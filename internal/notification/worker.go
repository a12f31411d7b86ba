package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"equipment-inventory/internal/model"
	"equipment-inventory/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Store is the subset of the repository the workers read from.
type Store interface {
	GetEquipment(ctx context.Context, id int64) (*model.Equipment, error)
	SubscriptionsForEquipment(ctx context.Context, equipmentID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Notifier is implemented by anything that can be told about broken equipment.
type Notifier interface {
	EquipmentBroken(equipmentID int64)
}

// WorkerPool manages a pool of workers for sending breakage notifications.
type WorkerPool struct {
	size    int
	jobs    chan int64
	store   Store
	webpush *webpush.Options
	sender  NotificationSender
	log     *zap.Logger
}

// NewWorkerPool creates a new worker pool. The queue holds queueSize
// pending equipment ids; further dispatches are dropped until it drains.
func NewWorkerPool(size, queueSize int, s Store, webpushOptions *webpush.Options, log *zap.Logger) *WorkerPool {
	if queueSize < size {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, queueSize),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start launches the worker goroutines. They exit when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug("notification worker started", zap.Int("worker", id))
	for {
		select {
		case equipmentID := <-wp.jobs:
			wp.sendNotificationsForEquipment(ctx, equipmentID)
		case <-ctx.Done():
			wp.log.Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a job without blocking the caller.
func (wp *WorkerPool) Dispatch(equipmentID int64) bool {
	select {
	case wp.jobs <- equipmentID:
		return true
	default:
		wp.log.Warn("notification queue full, dropping job", zap.Int64("equipment_id", equipmentID))
		return false
	}
}

// EquipmentBroken satisfies Notifier.
func (wp *WorkerPool) EquipmentBroken(equipmentID int64) {
	wp.Dispatch(equipmentID)
}

// Message returns the notification text for a broken item.
func Message(name string) string {
	return fmt.Sprintf("Оборудование %s неисправно", name)
}

func (wp *WorkerPool) sendNotificationsForEquipment(ctx context.Context, equipmentID int64) {
	subscriptions, err := wp.store.SubscriptionsForEquipment(ctx, equipmentID)
	if err != nil {
		wp.log.Error("failed to fetch subscriptions", zap.Int64("equipment_id", equipmentID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	label := fmt.Sprintf("%d", equipmentID)
	if item, err := wp.store.GetEquipment(ctx, equipmentID); err != nil {
		wp.log.Warn("failed to fetch equipment", zap.Int64("equipment_id", equipmentID), zap.Error(err))
	} else if item.Name != "" {
		label = item.Name
	}

	wp.log.Info("sending breakage notifications",
		zap.Int64("equipment_id", equipmentID),
		zap.Int("subscriptions", len(subscriptions)))

	payload := []byte(Message(label))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Error("failed to send notification", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info("subscription expired, deleting", zap.String("endpoint", sub.Endpoint))
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error("failed to delete expired subscription", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}

var _ Store = (store.Store)(nil)
