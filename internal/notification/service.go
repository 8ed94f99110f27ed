// Package notification raises and tracks staff notifications. New-order
// notifications fan out over Redis pub/sub to every service instance, which
// then push them to connected dashboards over SSE.
package notification

import (
	"context"
	"fmt"
	"time"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
)

const TypeNewOrder = "new_order"

type NotificationDBLayer interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, orgID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, orgID string, id int64, at time.Time) error
	MarkAllRead(ctx context.Context, orgID string, at time.Time) error
}

// Broadcaster fans a created notification out to other service instances.
type Broadcaster interface {
	Broadcast(ctx context.Context, event models.NotificationEvent) error
}

// KafkaPublisher mirrors notifications onto the durable change feed.
type KafkaPublisher interface {
	PublishNotificationCreated(n models.Notification) error
}

type NotificationService struct {
	DB        NotificationDBLayer
	Broadcast Broadcaster
	Kafka     KafkaPublisher
	Logger    *logger.Logger
}

func NewNotificationService(db NotificationDBLayer, broadcast Broadcaster, kafka KafkaPublisher, log *logger.Logger) *NotificationService {
	return &NotificationService{DB: db, Broadcast: broadcast, Kafka: kafka, Logger: log}
}

// NotifyNewOrder raises the staff notification for a just-placed order.
func (s *NotificationService) NotifyNewOrder(ctx context.Context, order models.Order) error {
	n := &models.Notification{
		OrganizationID: order.OrganizationID,
		Message:        fmt.Sprintf("New order #%d - Table %s", order.ID, order.TableID),
		Type:           TypeNewOrder,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.DB.CreateNotification(ctx, n); err != nil {
		return err
	}

	event := models.NotificationEvent{Type: models.EventInsert, Notification: *n}
	if err := s.Broadcast.Broadcast(ctx, event); err != nil {
		s.Logger.Warn("NOTIFY", fmt.Sprintf("Broadcast failed for notification %d: %v", n.ID, err))
	}
	if s.Kafka != nil {
		if err := s.Kafka.PublishNotificationCreated(*n); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Publish error (notification created): %v", err))
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, orgID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.DB.ListNotifications(ctx, orgID, limit)
}

// MarkRead stamps read_at on one notification. Already-read rows are left
// untouched so the first read time survives.
func (s *NotificationService) MarkRead(ctx context.Context, orgID string, id int64) error {
	return s.DB.MarkRead(ctx, orgID, id, time.Now().UTC())
}

func (s *NotificationService) MarkAllRead(ctx context.Context, orgID string) error {
	return s.DB.MarkAllRead(ctx, orgID, time.Now().UTC())
}
