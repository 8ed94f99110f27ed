package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/sse"
)

const channelPrefix = "notifications:"

// RedisBroadcast carries notification events across service instances over
// Redis pub/sub, one channel per organization.
type RedisBroadcast struct {
	Client *redis.Client
	Logger *logger.Logger
}

func NewRedisBroadcast(client *redis.Client, log *logger.Logger) *RedisBroadcast {
	return &RedisBroadcast{Client: client, Logger: log}
}

func (b *RedisBroadcast) Broadcast(ctx context.Context, event models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.Client.Publish(ctx, channelPrefix+event.Notification.OrganizationID, payload).Err()
}

// Run subscribes to every organization's notification channel and feeds the
// SSE emitter until ctx ends.
func (b *RedisBroadcast) Run(ctx context.Context, emitter *sse.Emitter) {
	pubsub := b.Client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	b.Logger.Info("REDIS", "Subscribed to notification broadcast channels")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				b.Logger.Warn("REDIS", "Notification broadcast channel closed")
				return
			}

			var event models.NotificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.Logger.Error("REDIS", fmt.Sprintf("Bad notification payload on %s: %v", msg.Channel, err))
				continue
			}
			emitter.EmitNotification(event)
		}
	}
}
